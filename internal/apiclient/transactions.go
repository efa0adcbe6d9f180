package apiclient

import (
	"context"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

// ListTransactions fetches every transaction in w. The window is sent as UTC
// calendar dates; a single bad record fails the whole list.
func (c *Client) ListTransactions(ctx context.Context, w domain.Window) ([]domain.Transaction, error) {
	const op = "ListTransactions"

	u := c.endpoint("expense")
	q := u.Query()
	q.Set("start_date", civil.DateOf(w.Start.UTC()).String())
	q.Set("end_date", civil.DateOf(w.End.UTC()).String())
	u.RawQuery = q.Encode()

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: u})
	if err != nil {
		return nil, err
	}
	return decode(op, data, codec.DecodeTransactions)
}

// CreateTransaction posts a draft and returns the id the backend assigned.
func (c *Client) CreateTransaction(ctx context.Context, d domain.Draft) (codec.CreateResult, error) {
	const op = "CreateTransaction"

	if err := d.Validate(); err != nil {
		return codec.CreateResult{}, newError(op, KindUnknown, err)
	}
	body, err := c.codec.EncodeDraft(d)
	if err != nil {
		return codec.CreateResult{}, encodeErr(op, err)
	}

	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("expense"),
		body:   body,
		ok:     []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return codec.CreateResult{}, err
	}
	return decode(op, data, codec.DecodeCreateResult)
}

// UpdateTransaction replaces the stored record with t.
func (c *Client) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	const op = "UpdateTransaction"

	if t.ID == "" {
		return newError(op, KindInvalidURL, errMissingID)
	}
	if err := t.Validate(); err != nil {
		return newError(op, KindUnknown, err)
	}
	body, err := c.codec.EncodeTransaction(t)
	if err != nil {
		return encodeErr(op, err)
	}

	_, err = c.do(ctx, call{op: op, method: http.MethodPut, url: c.endpoint("expense", t.ID), body: body})
	return err
}

// DeleteTransaction removes id. A missing id surfaces as a 404 server error.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	const op = "DeleteTransaction"

	if id == "" {
		return newError(op, KindInvalidURL, errMissingID)
	}
	_, err := c.do(ctx, call{op: op, method: http.MethodDelete, url: c.endpoint("expense", id)})
	return err
}
