package store

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/homeapp/internal/domain"
)

const DefaultTrendMonths = 6

// InsightsSnapshot carries the two halves of the insights screen. They load
// together but fail independently.
type InsightsSnapshot struct {
	TrendLoading     bool
	TrendErr         error
	Trend            *domain.SpendingTrend
	BreakdownLoading bool
	BreakdownErr     error
	Breakdown        *domain.CategoryBreakdown

	Months   int
	Category *domain.Category
	Period   domain.BreakdownPeriod
}

// Selected returns the breakdown snapshot for the selected period, or nil.
func (s InsightsSnapshot) Selected() *domain.CategorySnapshot {
	if s.Breakdown == nil {
		return nil
	}
	return s.Breakdown.Snapshot(s.Period)
}

type InsightsStore struct {
	api InsightsAPI
	log zerolog.Logger

	trendLoads     guard
	breakdownLoads guard

	mu           sync.Mutex
	trend        *domain.SpendingTrend
	trendErr     error
	breakdown    *domain.CategoryBreakdown
	breakdownErr error
	months       int
	category     *domain.Category
	period       domain.BreakdownPeriod

	snapshots hub[InsightsSnapshot]
}

func NewInsightsStore(api InsightsAPI, log zerolog.Logger) *InsightsStore {
	return &InsightsStore{
		api:    api,
		log:    log.With().Str("collection", "insights").Logger(),
		months: DefaultTrendMonths,
		period: domain.PeriodLastMonth,
	}
}

// Load fetches the trend and the breakdown concurrently. Each failure is
// recorded on its own half; the returned error joins both.
func (s *InsightsStore) Load(ctx context.Context) error {
	var (
		g                      errgroup.Group
		trendErr, breakdownErr error
	)
	g.Go(func() error {
		trendErr = s.LoadTrend(ctx)
		return nil
	})
	g.Go(func() error {
		breakdownErr = s.LoadBreakdown(ctx)
		return nil
	})
	_ = g.Wait()
	return errors.Join(trendErr, breakdownErr)
}

func (s *InsightsStore) LoadTrend(ctx context.Context) error {
	if !s.trendLoads.acquire() {
		return nil
	}
	s.mu.Lock()
	s.trendErr = nil
	months, category := s.months, s.category
	s.publishLocked()
	s.mu.Unlock()

	trend, err := s.api.SpendingTrend(ctx, months, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.trendErr = err
		s.log.Warn().Err(err).Msg("Failed to load spending trend")
	} else {
		s.trend = &trend
	}
	s.trendLoads.release()
	s.publishLocked()
	return err
}

func (s *InsightsStore) LoadBreakdown(ctx context.Context) error {
	if !s.breakdownLoads.acquire() {
		return nil
	}
	s.mu.Lock()
	s.breakdownErr = nil
	s.publishLocked()
	s.mu.Unlock()

	breakdown, err := s.api.CategoryBreakdown(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.breakdownErr = err
		s.log.Warn().Err(err).Msg("Failed to load category breakdown")
	} else {
		s.breakdown = &breakdown
	}
	s.breakdownLoads.release()
	s.publishLocked()
	return err
}

// SetMonths changes the trend length and reloads the trend only.
func (s *InsightsStore) SetMonths(ctx context.Context, months int) error {
	if months <= 0 {
		return errors.New("months must be positive")
	}
	s.mu.Lock()
	s.months = months
	s.mu.Unlock()
	return s.LoadTrend(ctx)
}

// SetCategory narrows the trend to one category, or clears it with nil.
func (s *InsightsStore) SetCategory(ctx context.Context, c *domain.Category) error {
	s.mu.Lock()
	s.category = c
	s.mu.Unlock()
	return s.LoadTrend(ctx)
}

// SelectPeriod switches the breakdown view without a fetch.
func (s *InsightsStore) SelectPeriod(p domain.BreakdownPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = p
	s.publishLocked()
}

func (s *InsightsStore) Snapshot() InsightsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *InsightsStore) Subscribe() (<-chan InsightsSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.subscribe(s.snapshotLocked())
}

func (s *InsightsStore) snapshotLocked() InsightsSnapshot {
	return InsightsSnapshot{
		TrendLoading:     s.trendLoads.active(),
		TrendErr:         s.trendErr,
		Trend:            s.trend,
		BreakdownLoading: s.breakdownLoads.active(),
		BreakdownErr:     s.breakdownErr,
		Breakdown:        s.breakdown,
		Months:           s.months,
		Category:         s.category,
		Period:           s.period,
	}
}

func (s *InsightsStore) publishLocked() {
	s.snapshots.publish(s.snapshotLocked())
}
