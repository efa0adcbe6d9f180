// Package apiclient issues authenticated calls against the finance backend.
//
// Every method makes exactly one attempt. Failures are always *Error values
// of a closed set of kinds; retrying is the caller's decision.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// Client is constructed once per process and shared by the stores.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	codec   *codec.Codec
	objects ObjectWriter
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient. No timeout is added beyond the
// transport's own.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithObjectWriter enables gs:// upload targets.
func WithObjectWriter(w ObjectWriter) Option {
	return func(c *Client) { c.objects = w }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New validates baseURL and returns a client that sends token as a bearer
// credential on every backend call.
func New(baseURL, token string, cdc *codec.Codec, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, newError("apiclient.New", KindInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, newError("apiclient.New", KindInvalidURL, fmt.Errorf("base URL %q must be absolute http(s)", baseURL))
	}
	if cdc == nil {
		return nil, newError("apiclient.New", KindUnknown, errors.New("codec is required"))
	}

	c := &Client{
		baseURL: u,
		token:   token,
		http:    http.DefaultClient,
		codec:   cdc,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Codec returns the codec used for outbound bodies.
func (c *Client) Codec() *codec.Codec { return c.codec }

// BaseURL returns the backend root, e.g. for reachability probes.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...)
}

// call describes one backend request.
type call struct {
	op     string
	method string
	url    *url.URL
	body   []byte
	ok     []int
}

// do performs c and returns the response body for an accepted status.
func (c *Client) do(ctx context.Context, rc call) ([]byte, error) {
	if len(rc.ok) == 0 {
		rc.ok = []int{http.StatusOK}
	}

	var body io.Reader
	if rc.body != nil {
		body = bytes.NewReader(rc.body)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, rc.url.String(), body)
	if err != nil {
		return nil, newError(rc.op, KindInvalidURL, err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if rc.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With().
		Str("op", rc.op).
		Str("method", rc.method).
		Str("path", rc.url.Path).
		Str("request_id", requestID).
		Logger()
	log.Debug().Msg("API request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("API request failed")
		return nil, classify(rc.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Int("bytes", len(data)).
		Msg("API response")
	if err != nil {
		return nil, newError(rc.op, KindInvalidResponse, fmt.Errorf("read body: %w", err))
	}

	if !slices.Contains(rc.ok, resp.StatusCode) {
		return nil, serverError(rc.op, resp.StatusCode)
	}
	return data, nil
}

// decode runs a codec decoder and classifies its failure as a decoding error.
func decode[T any](op string, data []byte, fn func([]byte) (T, error)) (T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		var zero T
		return zero, newError(op, KindInvalidResponse, errors.New("empty response body"))
	}
	v, err := fn(data)
	if err != nil {
		var zero T
		return zero, newError(op, KindDecoding, err)
	}
	return v, nil
}

// encodeErr classifies a failure to build a request body.
func encodeErr(op string, err error) error {
	return newError(op, KindUnknown, err)
}
