package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/domain"
)

// BalanceStore holds the recorded account balances, newest first as the
// backend returns them.
type BalanceStore struct {
	api  BalanceAPI
	list *collection[domain.Balance]
}

func NewBalanceStore(api BalanceAPI, log zerolog.Logger) *BalanceStore {
	return &BalanceStore{api: api, list: newCollection[domain.Balance]("balances", log)}
}

func (s *BalanceStore) Load(ctx context.Context) error {
	return s.list.load(ctx, s.api.ListBalances)
}

// Create records a balance and reloads. The result carries the backend's
// reconciliation verdict.
func (s *BalanceStore) Create(ctx context.Context, in domain.BalanceInput) (domain.BalanceResult, error) {
	res, err := s.api.CreateBalance(ctx, in)
	if err != nil {
		return domain.BalanceResult{}, s.list.fail(err, "Failed to record balance")
	}
	_ = s.Load(ctx)
	return res, nil
}

func (s *BalanceStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteBalance(ctx, id); err != nil {
		return s.list.fail(err, "Failed to delete balance")
	}
	s.list.remove(func(b domain.Balance) bool { return b.ID == id })
	return nil
}

func (s *BalanceStore) Snapshot() ListSnapshot[domain.Balance] { return s.list.snapshot() }

func (s *BalanceStore) Subscribe() (<-chan ListSnapshot[domain.Balance], func()) {
	return s.list.subscribe()
}
