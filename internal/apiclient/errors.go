package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dvloznov/homeapp/internal/codec"
)

// Kind is the closed set of failures an API call can report.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindInvalidResponse
	KindServerError
	KindDecoding
	KindNetworkUnavailable
	KindMalformedTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid URL"
	case KindInvalidResponse:
		return "invalid response"
	case KindServerError:
		return "server error"
	case KindDecoding:
		return "decoding error"
	case KindNetworkUnavailable:
		return "network unavailable"
	case KindMalformedTimestamp:
		return "malformed timestamp"
	default:
		return "unknown error"
	}
}

// Error is the only error type returned by Client methods.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	Err        error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrInvalidURL         = &Error{Kind: KindInvalidURL}
	ErrInvalidResponse    = &Error{Kind: KindInvalidResponse}
	ErrServerError        = &Error{Kind: KindServerError}
	ErrDecoding           = &Error{Kind: KindDecoding}
	ErrNetworkUnavailable = &Error{Kind: KindNetworkUnavailable}
	ErrMalformedTimestamp = &Error{Kind: KindMalformedTimestamp}
	ErrUnknown            = &Error{Kind: KindUnknown}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindServerError {
		msg = fmt.Sprintf("%s (%d)", msg, e.StatusCode)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind. A decoding failure caused by a bad timestamp
// also matches ErrMalformedTimestamp.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind == t.Kind {
		return true
	}
	return t.Kind == KindMalformedTimestamp && errors.Is(e.Err, codec.ErrMalformedTimestamp)
}

// Retryable reports whether re-issuing the same call could succeed. Nothing
// in this module retries on its own; callers decide.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetworkUnavailable, KindInvalidResponse:
		return true
	case KindServerError:
		return e.StatusCode >= 500
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by a server error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindServerError {
		return e.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 from the backend, e.g. deleting an id that is gone.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func serverError(op string, status int) *Error {
	return &Error{Op: op, Kind: KindServerError, StatusCode: status, Err: errors.New(http.StatusText(status))}
}

// classify maps a transport-level failure onto the taxonomy.
func classify(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newError(op, KindUnknown, err)
	}
	if errors.Is(err, codec.ErrMalformedTimestamp) {
		return newError(op, KindMalformedTimestamp, err)
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return newError(op, KindNetworkUnavailable, err)
	}
	return newError(op, KindUnknown, err)
}

var errMissingID = errors.New("id is required")
