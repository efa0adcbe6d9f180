package mockapi

import (
	"errors"
	"net/http"
	"sort"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

func (b *Backend) listSchedules(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]codec.ScheduleRecord, 0, len(b.schedules))
	for _, rec := range b.schedules {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].CreatedAt < *out[j].CreatedAt })
	WriteJSON(w, http.StatusOK, map[string]any{"schedules": out})
}

// POST /payment-schedule. Clients reload afterwards, so the body is only a
// courtesy.
func (b *Backend) createSchedule(w http.ResponseWriter, r *http.Request) {
	var in codec.ScheduleInputRecord
	if !decodeBody(w, r, &in) {
		return
	}
	if err := validateSchedule(in); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := b.stamp()
	rec := scheduleRecord(in)
	rec.ID = ptr(uuid.NewString())
	rec.CreatedAt = ptr(now)
	rec.UpdatedAt = ptr(now)

	b.mu.Lock()
	b.schedules[*rec.ID] = &rec
	b.mu.Unlock()

	WriteJSON(w, http.StatusCreated, map[string]string{"message": "Payment schedule created", "id": *rec.ID})
}

func (b *Backend) updateSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var in codec.ScheduleInputRecord
	if !decodeBody(w, r, &in) {
		return
	}
	if err := validateSchedule(in); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	prev, ok := b.schedules[id]
	if !ok {
		WriteError(w, http.StatusNotFound, "Payment schedule not found")
		return
	}
	rec := scheduleRecord(in)
	rec.ID = prev.ID
	rec.CreatedAt = prev.CreatedAt
	rec.UpdatedAt = ptr(b.stamp())
	b.schedules[id] = &rec
	writeMessage(w, http.StatusOK, "Payment schedule updated")
}

func (b *Backend) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.schedules[id]; !ok {
		WriteError(w, http.StatusNotFound, "Payment schedule not found")
		return
	}
	delete(b.schedules, id)
	writeMessage(w, http.StatusOK, "Payment schedule deleted")
}

func scheduleRecord(in codec.ScheduleInputRecord) codec.ScheduleRecord {
	return codec.ScheduleRecord{
		Name:         in.Name,
		Amount:       in.Amount,
		Currency:     in.Currency,
		Type:         in.Type,
		Category:     in.Category,
		Frequency:    in.Frequency,
		MonthlyDates: in.MonthlyDates,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Merchant:     in.Merchant,
		Description:  in.Description,
	}
}

func validateSchedule(in codec.ScheduleInputRecord) error {
	if in.Name == nil || in.Amount == nil || in.Type == nil || in.Category == nil || in.Frequency == nil || in.StartDate == nil {
		return errors.New("name, amount, transaction_type, category, frequency and start_date are required")
	}
	freq, err := domain.ParseScheduleFrequency(*in.Frequency)
	if err != nil {
		return err
	}
	if freq == domain.Monthly && len(in.MonthlyDates) == 0 {
		return errors.New("monthly schedules need monthly_dates")
	}
	if _, err := codec.ParseTimestamp(*in.StartDate); err != nil {
		return err
	}
	return nil
}
