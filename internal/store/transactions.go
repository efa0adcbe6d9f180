package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/dvloznov/homeapp/internal/filter"
	"github.com/dvloznov/homeapp/internal/netmon"
)

var (
	// ErrAttachInProgress is returned when a receipt upload for the same
	// transaction has not finished yet.
	ErrAttachInProgress = errors.New("receipt upload already in progress")
	ErrNoReceipts       = errors.New("receipt uploads are not configured")
)

// Snapshot is what the transactions screen renders. Transactions is the
// visible page of the filtered list; Total counts the whole filtered list.
type Snapshot struct {
	Loading      bool
	Err          error
	Transactions []domain.Transaction
	CanLoadMore  bool
	Total        int
	Resident     int
	Filters      domain.TransactionFilters
	SearchText   string
	TimeRange    domain.TimeRange
	Online       bool
}

// TransactionStore owns the resident transaction list for the selected time
// range. Retries are always user initiated: a failed command leaves the
// previous data in place and is simply issued again.
type TransactionStore struct {
	api      TransactionAPI
	receipts Attacher
	monitor  netmon.Monitor
	now      func() time.Time
	log      zerolog.Logger

	loads       guard
	unsubscribe func()

	mu        sync.Mutex
	all       []domain.Transaction
	err       error
	filters   domain.TransactionFilters
	search    string
	timeRange domain.TimeRange
	pager     filter.Pager
	attaching map[string]bool

	snapshots hub[Snapshot]
}

type Option func(*TransactionStore)

// WithClock replaces time.Now for window resolution.
func WithClock(now func() time.Time) Option {
	return func(s *TransactionStore) { s.now = now }
}

func WithMonitor(m netmon.Monitor) Option {
	return func(s *TransactionStore) { s.monitor = m }
}

func WithReceipts(a Attacher) Option {
	return func(s *TransactionStore) { s.receipts = a }
}

func WithPageSize(n int) Option {
	return func(s *TransactionStore) { s.pager = filter.NewPager(n) }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *TransactionStore) { s.log = log }
}

func NewTransactionStore(api TransactionAPI, opts ...Option) *TransactionStore {
	s := &TransactionStore{
		api:       api,
		monitor:   netmon.NewStatic(true),
		now:       time.Now,
		log:       zerolog.Nop(),
		timeRange: domain.DefaultTimeRange,
		pager:     filter.NewPager(filter.DefaultPageSize),
		attaching: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = s.monitor.Subscribe(func(online bool) {
		s.log.Info().Bool("online", online).Msg("Connectivity changed")
		s.mu.Lock()
		defer s.mu.Unlock()
		s.publishLocked()
	})
	return s
}

// Close detaches the store from its network monitor.
func (s *TransactionStore) Close() {
	s.unsubscribe()
}

// Subscribe returns a channel that immediately holds the current snapshot
// and then every later one. Call cancel to stop receiving.
func (s *TransactionStore) Subscribe() (snapshots <-chan Snapshot, cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.subscribe(s.snapshotLocked())
}

func (s *TransactionStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Load fetches the selected time range and replaces the resident list. A
// call made while another load is in flight returns nil without doing
// anything. On failure the previous list stays and the error is recorded.
func (s *TransactionStore) Load(ctx context.Context) error {
	if !s.loads.acquire() {
		s.log.Debug().Msg("Load already in flight, dropping")
		return nil
	}

	s.mu.Lock()
	s.err = nil
	s.pager.Reset()
	window := s.timeRange.Window(s.now())
	s.publishLocked()
	s.mu.Unlock()

	list, err := s.api.ListTransactions(ctx, window)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.log.Warn().Err(err).Msg("Failed to load transactions")
	} else {
		s.all = list
		s.log.Info().Int("count", len(list)).Str("range", string(s.timeRange)).Msg("Transactions loaded")
	}
	s.loads.release()
	s.publishLocked()
	return err
}

// Refresh is Load for the current time range.
func (s *TransactionStore) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

// LoadMore reveals one more page of the filtered list. It never touches the
// network and reports whether anything changed.
func (s *TransactionStore) LoadMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.filteredLocked())
	if !s.pager.LoadMore(total) {
		return false
	}
	s.publishLocked()
	return true
}

// Create sends d to the backend and reloads so the new record shows up with
// its server-assigned fields. A failed reload is recorded in the snapshot;
// the returned error covers only the create itself.
func (s *TransactionStore) Create(ctx context.Context, d domain.Draft) (string, error) {
	res, err := s.api.CreateTransaction(ctx, d)
	if err != nil {
		s.recordErr(err, "Failed to create transaction")
		return "", err
	}
	s.log.Info().Str("transaction_id", res.ID).Msg("Transaction created")

	_ = s.Load(ctx)
	return res.ID, nil
}

// Update saves t and replaces the resident copy without a reload.
func (s *TransactionStore) Update(ctx context.Context, t domain.Transaction) error {
	if err := s.api.UpdateTransaction(ctx, t); err != nil {
		s.recordErr(err, "Failed to update transaction")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(t.ID); i >= 0 {
		s.all = slices.Clone(s.all)
		s.all[i] = t
	}
	s.publishLocked()
	return nil
}

// Delete removes id on the backend and then from the resident list.
func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTransaction(ctx, id); err != nil {
		s.recordErr(err, "Failed to delete transaction")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = slices.DeleteFunc(slices.Clone(s.all), func(t domain.Transaction) bool { return t.ID == id })
	s.publishLocked()
	return nil
}

func (s *TransactionStore) SetFilters(f domain.TransactionFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.publishLocked()
}

func (s *TransactionStore) ClearFilters() {
	s.SetFilters(domain.TransactionFilters{})
}

func (s *TransactionStore) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = text
	s.publishLocked()
}

// SetTimeRange selects r and reloads.
func (s *TransactionStore) SetTimeRange(ctx context.Context, r domain.TimeRange) error {
	if _, err := domain.ParseTimeRange(string(r)); err != nil {
		return err
	}
	s.mu.Lock()
	s.timeRange = r
	s.publishLocked()
	s.mu.Unlock()

	return s.Load(ctx)
}

// DismissError clears the user-visible error.
func (s *TransactionStore) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.publishLocked()
}

// AttachReceipt uploads file for transactionID and records the receipt id on
// the resident copy. Uploads for one transaction never overlap.
func (s *TransactionStore) AttachReceipt(ctx context.Context, transactionID string, file domain.ReceiptFile) (string, error) {
	if s.receipts == nil {
		return "", ErrNoReceipts
	}

	s.mu.Lock()
	if s.attaching[transactionID] {
		s.mu.Unlock()
		return "", ErrAttachInProgress
	}
	s.attaching[transactionID] = true
	s.mu.Unlock()

	receiptID, err := s.receipts.Attach(ctx, transactionID, file)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attaching, transactionID)
	if err != nil {
		s.err = err
		s.publishLocked()
		return "", err
	}
	if i := s.indexLocked(transactionID); i >= 0 {
		s.all = slices.Clone(s.all)
		s.all[i].ReceiptID = &receiptID
	}
	s.publishLocked()
	return receiptID, nil
}

// UploadState reports the receipt upload state of transactionID.
func (s *TransactionStore) UploadState(transactionID string) domain.UploadState {
	if s.receipts == nil {
		return domain.UploadState{Phase: domain.PhaseNone}
	}
	return s.receipts.State(transactionID)
}

// FetchReceiptViewURL returns a short-lived link to the receipt of
// transactionID.
func (s *TransactionStore) FetchReceiptViewURL(ctx context.Context, transactionID string) (domain.ViewTarget, error) {
	target, err := s.api.RequestViewTarget(ctx, transactionID)
	if err != nil {
		s.recordErr(err, "Failed to fetch receipt link")
		return domain.ViewTarget{}, err
	}
	return target, nil
}

func (s *TransactionStore) recordErr(err error, msg string) {
	s.log.Warn().Err(err).Msg(msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.publishLocked()
}

func (s *TransactionStore) indexLocked(id string) int {
	return slices.IndexFunc(s.all, func(t domain.Transaction) bool { return t.ID == id })
}

func (s *TransactionStore) filteredLocked() []domain.Transaction {
	return filter.Apply(s.all, s.filters, s.search, s.timeRange.Window(s.now()))
}

func (s *TransactionStore) snapshotLocked() Snapshot {
	filtered := s.filteredLocked()
	return Snapshot{
		Loading:      s.loads.active(),
		Err:          s.err,
		Transactions: filter.Page(s.pager, filtered),
		CanLoadMore:  s.pager.CanLoadMore(len(filtered)),
		Total:        len(filtered),
		Resident:     len(s.all),
		Filters:      s.filters,
		SearchText:   s.search,
		TimeRange:    s.timeRange,
		Online:       s.monitor.Online(),
	}
}

func (s *TransactionStore) publishLocked() {
	s.snapshots.publish(s.snapshotLocked())
}
