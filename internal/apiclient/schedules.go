package apiclient

import (
	"context"
	"net/http"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

func (c *Client) ListSchedules(ctx context.Context) ([]domain.PaymentSchedule, error) {
	const op = "ListSchedules"

	data, err := c.do(ctx, call{op: op, method: http.MethodGet, url: c.endpoint("payment-schedule")})
	if err != nil {
		return nil, err
	}
	return decode(op, data, codec.DecodeSchedules)
}

func (c *Client) CreateSchedule(ctx context.Context, in domain.ScheduleInput) error {
	const op = "CreateSchedule"

	body, err := c.scheduleBody(op, in)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("payment-schedule"),
		body:   body,
		ok:     []int{http.StatusOK, http.StatusCreated},
	})
	return err
}

// UpdateSchedule replaces schedule id with in.
func (c *Client) UpdateSchedule(ctx context.Context, id string, in domain.ScheduleInput) error {
	const op = "UpdateSchedule"

	if id == "" {
		return newError(op, KindInvalidURL, errMissingID)
	}
	body, err := c.scheduleBody(op, in)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, call{op: op, method: http.MethodPut, url: c.endpoint("payment-schedule", id), body: body})
	return err
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	const op = "DeleteSchedule"

	if id == "" {
		return newError(op, KindInvalidURL, errMissingID)
	}
	_, err := c.do(ctx, call{op: op, method: http.MethodDelete, url: c.endpoint("payment-schedule", id)})
	return err
}

func (c *Client) scheduleBody(op string, in domain.ScheduleInput) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, newError(op, KindUnknown, err)
	}
	body, err := c.codec.EncodeScheduleInput(in)
	if err != nil {
		return nil, encodeErr(op, err)
	}
	return body, nil
}
