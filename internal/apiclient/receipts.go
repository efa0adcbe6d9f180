package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
	"google.golang.org/api/googleapi"
)

// RequestUploadTarget asks the backend for a short-lived write location for
// a receipt of transactionID. No bytes move.
func (c *Client) RequestUploadTarget(ctx context.Context, transactionID, filename, contentType string) (domain.UploadTarget, error) {
	const op = "RequestUploadTarget"

	if transactionID == "" {
		return domain.UploadTarget{}, newError(op, KindInvalidURL, errMissingID)
	}
	body, err := codec.EncodeUploadRequest(filename, contentType)
	if err != nil {
		return domain.UploadTarget{}, encodeErr(op, err)
	}

	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("expense", transactionID, "receipt", "upload-url"),
		body:   body,
	})
	if err != nil {
		return domain.UploadTarget{}, err
	}
	return decode(op, data, codec.DecodeUploadTarget)
}

// UploadBytes transfers data directly to target, bypassing the backend. The
// bearer credential is never sent to storage.
func (c *Client) UploadBytes(ctx context.Context, target string, data []byte, contentType string) error {
	const op = "UploadBytes"

	u, err := url.Parse(target)
	if err != nil {
		return newError(op, KindInvalidURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return newError(op, KindInvalidURL, fmt.Errorf("upload target has no host"))
		}
		return c.putObject(ctx, op, u, data, contentType)
	case "gs":
		if c.objects == nil {
			return newError(op, KindInvalidURL, errors.New("gs:// targets are not enabled"))
		}
		return c.writeObject(ctx, op, target, data, contentType)
	default:
		return newError(op, KindInvalidURL, fmt.Errorf("unsupported upload scheme %q", u.Scheme))
	}
}

func (c *Client) putObject(ctx context.Context, op string, u *url.URL, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), bytes.NewReader(data))
	if err != nil {
		return newError(op, KindInvalidURL, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	// Signed query strings are credentials; only the host is logged.
	log := c.log.With().Str("op", op).Str("host", u.Host).Int("bytes", len(data)).Logger()
	log.Debug().Msg("Storage transfer")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Msg("Storage transfer failed")
		return classify(op, redact(err))
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Storage transfer finished")
	if resp.StatusCode != http.StatusOK {
		return serverError(op, resp.StatusCode)
	}
	return nil
}

func (c *Client) writeObject(ctx context.Context, op, uri string, data []byte, contentType string) error {
	c.log.Debug().Str("op", op).Str("target", uri).Int("bytes", len(data)).Msg("Storage write")

	err := c.objects.Upload(ctx, uri, bytes.NewReader(data), contentType)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		e := serverError(op, gerr.Code)
		e.Err = err
		return e
	}
	return classify(op, err)
}

// redact drops the query string from a transport error's URL.
func redact(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		return &url.Error{Op: ue.Op, URL: u.String(), Err: ue.Err}
	}
	return err
}

// ConfirmUpload tells the backend the transfer finished and returns the new
// receipt id.
func (c *Client) ConfirmUpload(ctx context.Context, transactionID, filename string) (string, error) {
	const op = "ConfirmUpload"

	if transactionID == "" {
		return "", newError(op, KindInvalidURL, errMissingID)
	}
	body, err := codec.EncodeConfirmRequest(filename)
	if err != nil {
		return "", encodeErr(op, err)
	}

	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodPost,
		url:    c.endpoint("expense", transactionID, "receipt", "confirm"),
		body:   body,
	})
	if err != nil {
		return "", err
	}
	return decode(op, data, codec.DecodeConfirmResult)
}

// RequestViewTarget returns a short-lived read location for the receipt.
func (c *Client) RequestViewTarget(ctx context.Context, transactionID string) (domain.ViewTarget, error) {
	const op = "RequestViewTarget"

	if transactionID == "" {
		return domain.ViewTarget{}, newError(op, KindInvalidURL, errMissingID)
	}
	data, err := c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		url:    c.endpoint("expense", transactionID, "receipt", "view-url"),
	})
	if err != nil {
		return domain.ViewTarget{}, err
	}
	return decode(op, data, codec.DecodeViewTarget)
}
