package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

// SpendingTrend fetches monthly net expense for the last months, optionally
// limited to one category.
func (c *Client) SpendingTrend(ctx context.Context, months int, category *domain.Category) (domain.SpendingTrend, error) {
	const op = "SpendingTrend"

	u := c.endpoint("report", "trend")
	q := u.Query()
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	if category != nil {
		q.Set("category", string(*category))
	}
	u.RawQuery = q.Encode()

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: u})
	if err != nil {
		return domain.SpendingTrend{}, err
	}
	return decode(op, data, codec.DecodeTrend)
}

func (c *Client) CategoryBreakdown(ctx context.Context) (domain.CategoryBreakdown, error) {
	const op = "CategoryBreakdown"

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: c.endpoint("report", "category-breakdown")})
	if err != nil {
		return domain.CategoryBreakdown{}, err
	}
	return decode(op, data, codec.DecodeBreakdown)
}
