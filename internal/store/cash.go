package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/domain"
)

type CashSnapshot struct {
	Loading bool
	Err     error
	// Status is nil until the first successful load and right after a reset.
	Status  *domain.CashStatus
}

// CashStore tracks the cash-on-hand ledger.
type CashStore struct {
	api   CashAPI
	log   zerolog.Logger
	loads guard

	mu     sync.Mutex
	status *domain.CashStatus
	err    error

	snapshots hub[CashSnapshot]
}

func NewCashStore(api CashAPI, log zerolog.Logger) *CashStore {
	return &CashStore{api: api, log: log.With().Str("collection", "cash").Logger()}
}

func (s *CashStore) Load(ctx context.Context) error {
	if !s.loads.acquire() {
		return nil
	}
	s.mu.Lock()
	s.err = nil
	s.publishLocked()
	s.mu.Unlock()

	status, err := s.api.CashStatus(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.log.Warn().Err(err).Msg("Failed to load cash status")
	} else {
		s.status = &status
	}
	s.loads.release()
	s.publishLocked()
	return err
}

// Add records a cash movement and reloads.
func (s *CashStore) Add(ctx context.Context, in domain.CashInput) error {
	if err := s.api.AddCashTransaction(ctx, in); err != nil {
		return s.fail(err, "Failed to add cash transaction")
	}
	_ = s.Load(ctx)
	return nil
}

// Reset wipes the ledger on the backend, clears the local copy and reloads.
func (s *CashStore) Reset(ctx context.Context) error {
	if err := s.api.ResetCash(ctx); err != nil {
		return s.fail(err, "Failed to reset cash")
	}
	s.mu.Lock()
	s.status = nil
	s.publishLocked()
	s.mu.Unlock()

	_ = s.Load(ctx)
	return nil
}

func (s *CashStore) Snapshot() CashSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CashStore) Subscribe() (<-chan CashSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.subscribe(s.snapshotLocked())
}

func (s *CashStore) fail(err error, msg string) error {
	s.log.Warn().Err(err).Msg(msg)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.publishLocked()
	return err
}

func (s *CashStore) snapshotLocked() CashSnapshot {
	snap := CashSnapshot{Loading: s.loads.active(), Err: s.err}
	if s.status != nil {
		status := *s.status
		snap.Status = &status
	}
	return snap
}

func (s *CashStore) publishLocked() {
	s.snapshots.publish(s.snapshotLocked())
}
