package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/homeapp/internal/apiclient"
	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/dvloznov/homeapp/internal/netmon"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func tx(id string, amount int64, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Amount:    decimal.NewFromInt(amount),
		Category:  domain.CategoryGroceries,
		Type:      domain.Debit,
		Currency:  domain.CAD,
		CreatedAt: testNow.AddDate(0, 0, -daysAgo),
	}
}

// fakeTransactions is a scripted TransactionAPI. When gate is set,
// ListTransactions signals entered and then waits for gate to close.
type fakeTransactions struct {
	mu        sync.Mutex
	list      []domain.Transaction
	listErr   error
	listCalls int
	gate      chan struct{}
	entered   chan struct{}

	createErr error
	updateErr error
	deleteErr error
	viewErr   error
	deleted   []string
	updated   []domain.Transaction
}

func (f *fakeTransactions) ListTransactions(ctx context.Context, w domain.Window) ([]domain.Transaction, error) {
	f.mu.Lock()
	f.listCalls++
	gate, entered := f.gate, f.entered
	list, err := f.list, f.listErr
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	return list, err
}

func (f *fakeTransactions) CreateTransaction(ctx context.Context, d domain.Draft) (codec.CreateResult, error) {
	if f.createErr != nil {
		return codec.CreateResult{}, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("new-%d", len(f.list))
	f.list = append(f.list, domain.Transaction{ID: id, Amount: d.Amount, Category: d.Category, Type: d.Type, Currency: d.Currency, CreatedAt: d.CreatedAt})
	return codec.CreateResult{ID: id, Message: "ok"}, nil
}

func (f *fakeTransactions) UpdateTransaction(ctx context.Context, t domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, t)
	return f.updateErr
}

func (f *fakeTransactions) DeleteTransaction(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeTransactions) RequestViewTarget(ctx context.Context, id string) (domain.ViewTarget, error) {
	if f.viewErr != nil {
		return domain.ViewTarget{}, f.viewErr
	}
	return domain.ViewTarget{URL: "https://storage.example/" + id, ExpiresIn: time.Minute, ContentType: "image/jpeg"}, nil
}

func (f *fakeTransactions) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func ids(txs []domain.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func TestLoadReplacesListAndFilters(t *testing.T) {
	api := &fakeTransactions{list: []domain.Transaction{tx("a", 10, 3), tx("b", 20, 2), tx("c", 30, 1), tx("old", 5, 90)}}
	s := NewTransactionStore(api, WithClock(clock))
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(snap.Transactions), "outside the 1M window is hidden")
	assert.Equal(t, 4, snap.Resident)
	assert.Equal(t, domain.OneMonth, snap.TimeRange)

	lo := decimal.NewFromInt(15)
	s.SetFilters(domain.TransactionFilters{MinAmount: &lo})
	assert.Equal(t, []string{"c", "b"}, ids(s.Snapshot().Transactions))

	s.SetSearchText("30")
	assert.Equal(t, []string{"c"}, ids(s.Snapshot().Transactions))

	s.ClearFilters()
	s.SetSearchText("")
	assert.Len(t, s.Snapshot().Transactions, 3)

	require.NoError(t, s.SetTimeRange(ctx, domain.SixMonths))
	assert.Equal(t, []string{"c", "b", "a", "old"}, ids(s.Snapshot().Transactions))
	assert.Equal(t, 2, api.calls())

	assert.Error(t, s.SetTimeRange(ctx, "2W"))
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	api := &fakeTransactions{list: []domain.Transaction{tx("a", 10, 1)}}
	s := NewTransactionStore(api, WithClock(clock))
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	api.mu.Lock()
	api.list = nil
	api.listErr = &apiclient.Error{Kind: apiclient.KindServerError, StatusCode: 503}
	api.mu.Unlock()

	err := s.Load(ctx)
	assert.ErrorIs(t, err, apiclient.ErrServerError)

	snap := s.Snapshot()
	assert.ErrorIs(t, snap.Err, apiclient.ErrServerError)
	assert.Equal(t, []string{"a"}, ids(snap.Transactions))

	api.mu.Lock()
	api.listErr = nil
	api.list = []domain.Transaction{tx("b", 1, 1)}
	api.mu.Unlock()

	require.NoError(t, s.Refresh(ctx))
	snap = s.Snapshot()
	assert.NoError(t, snap.Err, "a fresh load clears the error")
	assert.Equal(t, []string{"b"}, ids(snap.Transactions))

	s.DismissError()
	assert.NoError(t, s.Snapshot().Err)
}

func TestConcurrentLoadIsDropped(t *testing.T) {
	api := &fakeTransactions{
		list:    []domain.Transaction{tx("a", 10, 1), tx("b", 20, 2)},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	s := NewTransactionStore(api, WithClock(clock))
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	<-api.entered

	assert.True(t, s.Snapshot().Loading)
	require.NoError(t, s.Load(ctx))

	close(api.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, api.calls())
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"a", "b"}, ids(snap.Transactions))
}

func TestLoadMore(t *testing.T) {
	var list []domain.Transaction
	for i := 0; i < 7; i++ {
		list = append(list, tx(fmt.Sprintf("t%d", i), int64(i+1), i))
	}
	api := &fakeTransactions{list: list}
	s := NewTransactionStore(api, WithClock(clock), WithPageSize(3))
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	prev := len(s.Snapshot().Transactions)
	assert.Equal(t, 3, prev)
	assert.True(t, s.Snapshot().CanLoadMore)

	for s.Snapshot().CanLoadMore {
		assert.True(t, s.LoadMore())
		n := len(s.Snapshot().Transactions)
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
	assert.Equal(t, 7, prev)

	before := s.Snapshot()
	assert.False(t, s.LoadMore())
	assert.Equal(t, before.Transactions, s.Snapshot().Transactions)
	assert.Equal(t, 1, api.calls(), "pagination never fetches")

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.Snapshot().Transactions, 3, "a fresh load resets pagination")

	snap := s.Snapshot()
	assert.LessOrEqual(t, len(snap.Transactions), snap.Total)
}

func TestMutations(t *testing.T) {
	api := &fakeTransactions{list: []domain.Transaction{tx("a", 10, 1), tx("b", 20, 2)}}
	s := NewTransactionStore(api, WithClock(clock))
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	t.Run("update replaces locally", func(t *testing.T) {
		changed := tx("a", 99, 1)
		changed.Merchant = domain.StringPtr("Costco")
		require.NoError(t, s.Update(ctx, changed))

		snap := s.Snapshot()
		assert.True(t, snap.Transactions[0].Amount.Equal(decimal.NewFromInt(99)))
		assert.Equal(t, 1, api.calls())
	})

	t.Run("delete removes locally", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "b"))
		assert.Equal(t, []string{"a"}, ids(s.Snapshot().Transactions))
		assert.Equal(t, []string{"b"}, api.deleted)
		assert.Equal(t, 1, api.calls())
	})

	t.Run("failed delete keeps the record", func(t *testing.T) {
		api.deleteErr = &apiclient.Error{Kind: apiclient.KindServerError, StatusCode: 404}
		err := s.Delete(ctx, "a")
		assert.True(t, apiclient.IsNotFound(err))

		snap := s.Snapshot()
		assert.Equal(t, []string{"a"}, ids(snap.Transactions))
		assert.True(t, apiclient.IsNotFound(snap.Err))
	})

	t.Run("create reloads", func(t *testing.T) {
		d, err := domain.DraftFromSigned(decimal.NewFromInt(12), domain.CategoryGroceries, testNow)
		require.NoError(t, err)

		id, err := s.Create(ctx, d)
		require.NoError(t, err)
		assert.Contains(t, ids(s.Snapshot().Transactions), id)
		assert.Equal(t, 2, api.calls())
	})

	t.Run("failed create is recorded", func(t *testing.T) {
		api.createErr = &apiclient.Error{Kind: apiclient.KindNetworkUnavailable}
		_, err := s.Create(ctx, domain.Draft{})
		assert.ErrorIs(t, err, apiclient.ErrNetworkUnavailable)
		assert.ErrorIs(t, s.Snapshot().Err, apiclient.ErrNetworkUnavailable)
		assert.Equal(t, 2, api.calls())
	})
}

type fakeAttacher struct {
	gate    chan struct{}
	entered chan struct{}
	err     error
	state   domain.UploadState
}

func (f *fakeAttacher) Attach(ctx context.Context, transactionID string, file domain.ReceiptFile) (string, error) {
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	if f.err != nil {
		return "", f.err
	}
	return "r-" + transactionID, nil
}

func (f *fakeAttacher) State(string) domain.UploadState { return f.state }

func TestAttachReceipt(t *testing.T) {
	api := &fakeTransactions{list: []domain.Transaction{tx("a", 10, 1)}}
	ctx := context.Background()
	file := domain.ReceiptFile{Filename: "r.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	t.Run("not configured", func(t *testing.T) {
		s := NewTransactionStore(api, WithClock(clock))
		_, err := s.AttachReceipt(ctx, "a", file)
		assert.ErrorIs(t, err, ErrNoReceipts)
		assert.Equal(t, domain.PhaseNone, s.UploadState("a").Phase)
	})

	t.Run("records receipt id", func(t *testing.T) {
		receipts := &fakeAttacher{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
		s := NewTransactionStore(api, WithClock(clock), WithReceipts(receipts))
		require.NoError(t, s.Load(ctx))

		done := make(chan error, 1)
		go func() {
			_, err := s.AttachReceipt(ctx, "a", file)
			done <- err
		}()
		<-receipts.entered

		_, err := s.AttachReceipt(ctx, "a", file)
		assert.ErrorIs(t, err, ErrAttachInProgress)

		close(receipts.gate)
		require.NoError(t, <-done)

		got := s.Snapshot().Transactions[0]
		require.NotNil(t, got.ReceiptID)
		assert.Equal(t, "r-a", *got.ReceiptID)
		assert.True(t, got.HasReceipt())
	})

	t.Run("failure is recorded", func(t *testing.T) {
		receipts := &fakeAttacher{err: errors.New("storage down"), state: domain.UploadState{Phase: domain.PhaseFailed}}
		s := NewTransactionStore(api, WithClock(clock), WithReceipts(receipts))
		_, err := s.AttachReceipt(ctx, "a", file)
		assert.Error(t, err)
		assert.Error(t, s.Snapshot().Err)
		assert.Equal(t, domain.PhaseFailed, s.UploadState("a").Phase)
	})
}

func TestFetchReceiptViewURL(t *testing.T) {
	api := &fakeTransactions{}
	s := NewTransactionStore(api, WithClock(clock))

	target, err := s.FetchReceiptViewURL(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example/a", target.URL)

	api.viewErr = &apiclient.Error{Kind: apiclient.KindServerError, StatusCode: 404}
	_, err = s.FetchReceiptViewURL(context.Background(), "a")
	assert.Error(t, err)
	assert.Error(t, s.Snapshot().Err)
}

func TestSubscribeAndConnectivity(t *testing.T) {
	api := &fakeTransactions{list: []domain.Transaction{tx("a", 10, 1)}}
	monitor := netmon.NewStatic(true)
	s := NewTransactionStore(api, WithClock(clock), WithMonitor(monitor))
	defer s.Close()

	snapshots, cancel := s.Subscribe()
	first := <-snapshots
	assert.True(t, first.Online)
	assert.Empty(t, first.Transactions)

	require.NoError(t, s.Load(context.Background()))
	latest := <-snapshots
	assert.Equal(t, []string{"a"}, ids(latest.Transactions), "only the latest snapshot is buffered")

	monitor.Set(false)
	offline := <-snapshots
	assert.False(t, offline.Online)
	assert.Equal(t, 1, api.calls(), "going offline does not trigger work")

	cancel()
	_, open := <-snapshots
	assert.False(t, open)
}

// Create against a real client: the backend answers 201 and the following
// reload brings the new record in.
func TestCreateThenReloadOverHTTP(t *testing.T) {
	var (
		mu      sync.Mutex
		records []string
		lists   int
	)
	created := time.Now().UTC().Add(-time.Hour).Format("2006-01-02T15:04:05.000000")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /expense", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		lists++
		_, _ = io.WriteString(w, "["+strings.Join(records, ",")+"]")
	})
	mux.HandleFunc("POST /expense", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		records = append(records, `{"id":"abc","amount":12.5,"category":"Groceries","transaction_type":"Debit","currency":"CAD","created_at":"`+created+`"}`)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"ok","expense_id":"abc"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := apiclient.New(srv.URL, "token", codec.Must(codec.ProfileUTCFraction, nil))
	require.NoError(t, err)
	s := NewTransactionStore(client)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	assert.Empty(t, s.Snapshot().Transactions)

	d, err := domain.DraftFromSigned(decimal.RequireFromString("12.5"), domain.CategoryGroceries, time.Now())
	require.NoError(t, err)
	id, err := s.Create(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	assert.Equal(t, []string{"abc"}, ids(s.Snapshot().Transactions))
	mu.Lock()
	assert.Equal(t, 2, lists)
	mu.Unlock()
}
