// Package mockapi is an in-memory stand-in for the finance backend. It
// speaks the same wire format as the real service and is meant for local
// runs and end-to-end tests.
package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/homeapp/internal/codec"
)

// maxBody bounds JSON request bodies; receipt uploads use maxObject.
const (
	maxBody   = 1 << 20
	maxObject = 20 << 20
)

type object struct {
	contentType string
	data        []byte
}

// upload is a negotiated but not yet confirmed receipt.
type upload struct {
	key         string
	filename    string
	contentType string
}

// receipt is a confirmed attachment.
type receipt struct {
	id          string
	key         string
	contentType string
}

// Backend holds all state. Records are kept in their wire shape, the way
// they were received.
type Backend struct {
	codec *codec.Codec
	now   func() time.Time
	log   zerolog.Logger

	mu           sync.Mutex
	transactions map[string]*codec.TransactionRecord
	order        []string
	schedules    map[string]*codec.ScheduleRecord
	balances     []*codec.BalanceRecord
	cashBalance  decimal.Decimal
	cashUpdated  string
	cash         []codec.CashTransactionRecord
	uploads      map[string]upload
	receipts     map[string]receipt
	objects      map[string]object
}

type Option func(*Backend)

func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

func New(cdc *codec.Codec, opts ...Option) *Backend {
	b := &Backend{
		codec:        cdc,
		now:          time.Now,
		log:          zerolog.Nop(),
		transactions: make(map[string]*codec.TransactionRecord),
		schedules:    make(map[string]*codec.ScheduleRecord),
		uploads:      make(map[string]upload),
		receipts:     make(map[string]receipt),
		objects:      make(map[string]object),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Router wires every endpoint. Storage routes stand in for signed URLs and
// skip bearer auth, like the real object store.
func (b *Backend) Router(token string) http.Handler {
	r := mux.NewRouter()
	r.Use(Recovery(b.log), RequestID, Logger(b.log))

	r.HandleFunc("/health", b.health).Methods(http.MethodGet)
	r.HandleFunc("/storage/{key}", b.putObject).Methods(http.MethodPut)
	r.HandleFunc("/storage/{key}", b.getObject).Methods(http.MethodGet)

	api := r.PathPrefix("/").Subrouter()
	api.Use(BearerAuth(token))

	api.HandleFunc("/expense", b.listTransactions).Methods(http.MethodGet)
	api.HandleFunc("/expense", b.createTransaction).Methods(http.MethodPost)
	api.HandleFunc("/expense/{id}", b.updateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/expense/{id}", b.deleteTransaction).Methods(http.MethodDelete)
	api.HandleFunc("/expense/{id}/receipt/upload-url", b.createUploadURL).Methods(http.MethodPost)
	api.HandleFunc("/expense/{id}/receipt/confirm", b.confirmUpload).Methods(http.MethodPost)
	api.HandleFunc("/expense/{id}/receipt/view-url", b.viewURL).Methods(http.MethodGet)

	api.HandleFunc("/payment-schedule", b.listSchedules).Methods(http.MethodGet)
	api.HandleFunc("/payment-schedule", b.createSchedule).Methods(http.MethodPost)
	api.HandleFunc("/payment-schedule/{id}", b.updateSchedule).Methods(http.MethodPut)
	api.HandleFunc("/payment-schedule/{id}", b.deleteSchedule).Methods(http.MethodDelete)

	api.HandleFunc("/balance", b.listBalances).Methods(http.MethodGet)
	api.HandleFunc("/balance", b.createBalance).Methods(http.MethodPost)
	api.HandleFunc("/balance/{id}", b.deleteBalance).Methods(http.MethodDelete)

	api.HandleFunc("/cash", b.cashStatus).Methods(http.MethodGet)
	api.HandleFunc("/cash", b.addCash).Methods(http.MethodPost)
	api.HandleFunc("/cash", b.resetCash).Methods(http.MethodDelete)

	api.HandleFunc("/report/trend", b.trend).Methods(http.MethodGet)
	api.HandleFunc("/report/category-breakdown", b.breakdown).Methods(http.MethodGet)

	return r
}

func (b *Backend) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   b.now().Format(time.RFC3339),
	})
}

// decodeBody reads a JSON request body into v, answering 400 itself on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (b *Backend) stamp() string {
	return b.codec.FormatTimestamp(b.now())
}

func ptr[T any](v T) *T { return &v }

func amountOf(a *codec.Amount) decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.Decimal
}
