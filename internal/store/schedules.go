package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dvloznov/homeapp/internal/domain"
)

// ScheduleStore holds the recurring payment schedules. The backend answers
// create and update without a body, so both are followed by a reload whose
// failure shows up in the snapshot.
type ScheduleStore struct {
	api  ScheduleAPI
	list *collection[domain.PaymentSchedule]
}

func NewScheduleStore(api ScheduleAPI, log zerolog.Logger) *ScheduleStore {
	return &ScheduleStore{api: api, list: newCollection[domain.PaymentSchedule]("schedules", log)}
}

func (s *ScheduleStore) Load(ctx context.Context) error {
	return s.list.load(ctx, s.api.ListSchedules)
}

func (s *ScheduleStore) Create(ctx context.Context, in domain.ScheduleInput) error {
	if err := s.api.CreateSchedule(ctx, in); err != nil {
		return s.list.fail(err, "Failed to create schedule")
	}
	_ = s.Load(ctx)
	return nil
}

func (s *ScheduleStore) Update(ctx context.Context, id string, in domain.ScheduleInput) error {
	if err := s.api.UpdateSchedule(ctx, id, in); err != nil {
		return s.list.fail(err, "Failed to update schedule")
	}
	_ = s.Load(ctx)
	return nil
}

func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteSchedule(ctx, id); err != nil {
		return s.list.fail(err, "Failed to delete schedule")
	}
	s.list.remove(func(p domain.PaymentSchedule) bool { return p.ID == id })
	return nil
}

func (s *ScheduleStore) Snapshot() ListSnapshot[domain.PaymentSchedule] { return s.list.snapshot() }

func (s *ScheduleStore) Subscribe() (<-chan ListSnapshot[domain.PaymentSchedule], func()) {
	return s.list.subscribe()
}
