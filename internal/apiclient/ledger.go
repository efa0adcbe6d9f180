package apiclient

import (
	"context"
	"net/http"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

func (c *Client) ListBalances(ctx context.Context) ([]domain.Balance, error) {
	const op = "ListBalances"

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: c.endpoint("balance")})
	if err != nil {
		return nil, err
	}
	return decode(op, data, codec.DecodeBalances)
}

// CreateBalance records a snapshot. Reconciliation is computed by the backend.
func (c *Client) CreateBalance(ctx context.Context, in domain.BalanceInput) (domain.BalanceResult, error) {
	const op = "CreateBalance"

	body, err := c.codec.EncodeBalanceInput(in)
	if err != nil {
		return domain.BalanceResult{}, encodeErr(op, err)
	}
	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("balance"),
		body:   body,
		ok:     []int{http.StatusOK, http.StatusCreated},
	})
	if err != nil {
		return domain.BalanceResult{}, err
	}
	return decode(op, data, codec.DecodeBalanceResult)
}

func (c *Client) DeleteBalance(ctx context.Context, id string) error {
	const op = "DeleteBalance"

	if id == "" {
		return newError(op, KindInvalidURL, errMissingID)
	}
	_, err := c.do(ctx, call{op: op, method: http.MethodDelete, url: c.endpoint("balance", id)})
	return err
}

func (c *Client) CashStatus(ctx context.Context) (domain.CashStatus, error) {
	const op = "CashStatus"

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: c.endpoint("cash")})
	if err != nil {
		return domain.CashStatus{}, err
	}
	return decode(op, data, codec.DecodeCashStatus)
}

// AddCashTransaction appends to the cash ledger. Amount must be positive.
func (c *Client) AddCashTransaction(ctx context.Context, in domain.CashInput) error {
	const op = "AddCashTransaction"

	if !in.Amount.IsPositive() {
		return newError(op, KindUnknown, domain.ErrZeroAmount)
	}
	body, err := codec.EncodeCashInput(in)
	if err != nil {
		return encodeErr(op, err)
	}
	_, err = c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("cash"),
		body:   body,
		ok:     []int{http.StatusOK, http.StatusCreated},
	})
	return err
}

// ResetCash clears the cash ledger.
func (c *Client) ResetCash(ctx context.Context) error {
	_, err := c.do(ctx, call{op: "ResetCash", method: http.MethodDelete, url: c.endpoint("cash")})
	return err
}
