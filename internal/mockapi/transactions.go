package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

// GET /expense?start_date&end_date. Both bounds are calendar dates in UTC
// and both are inclusive.
func (b *Backend) listTransactions(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]codec.TransactionRecord, 0, len(b.order))
	for _, id := range b.order {
		rec := b.transactions[id]
		day := civil.DateOf(createdAt(rec).UTC())
		if start.IsValid() && day.Before(start) {
			continue
		}
		if end.IsValid() && day.After(end) {
			continue
		}
		out = append(out, *rec)
	}
	WriteJSON(w, http.StatusOK, out)
}

func dateRange(r *http.Request) (civil.Date, civil.Date, error) {
	var start, end civil.Date
	var err error
	if s := r.URL.Query().Get("start_date"); s != "" {
		if start, err = civil.ParseDate(s); err != nil {
			return start, end, fmt.Errorf("invalid start_date %q", s)
		}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		if end, err = civil.ParseDate(s); err != nil {
			return start, end, fmt.Errorf("invalid end_date %q", s)
		}
	}
	return start, end, nil
}

// POST /expense answers 201 with {message, expense_id}.
func (b *Backend) createTransaction(w http.ResponseWriter, r *http.Request) {
	var in codec.DraftRecord
	if !decodeBody(w, r, &in) {
		return
	}
	rec := codec.TransactionRecord{
		ID:               ptr(uuid.NewString()),
		Amount:           in.Amount,
		Category:         in.Category,
		Type:             in.Type,
		Currency:         in.Currency,
		CreatedAt:        in.CreatedAt,
		Merchant:         in.Merchant,
		Description:      in.Description,
		RecurringPayment: in.RecurringPayment,
		PostalCode:       in.PostalCode,
	}
	if rec.Currency == nil {
		rec.Currency = ptr(string(domain.DefaultCurrency))
	}
	if err := validateTransaction(rec); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	b.transactions[*rec.ID] = &rec
	b.order = append(b.order, *rec.ID)
	b.mu.Unlock()

	b.log.Info().Str("expense_id", *rec.ID).Msg("Expense created")
	WriteJSON(w, http.StatusCreated, map[string]string{"message": "Expense created", "expense_id": *rec.ID})
}

// PUT /expense/{id} replaces the record. The receipt link is server owned
// and survives the update.
func (b *Backend) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var rec codec.TransactionRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	rec.ID = &id
	if err := validateTransaction(rec); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	prev, ok := b.transactions[id]
	if !ok {
		WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	rec.ReceiptID = prev.ReceiptID
	b.transactions[id] = &rec
	writeMessage(w, http.StatusOK, "Expense updated")
}

func (b *Backend) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.transactions[id]; !ok {
		WriteError(w, http.StatusNotFound, "Expense not found")
		return
	}
	delete(b.transactions, id)
	delete(b.uploads, id)
	if rc, ok := b.receipts[id]; ok {
		delete(b.objects, rc.key)
		delete(b.receipts, id)
	}
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
	writeMessage(w, http.StatusOK, "Expense deleted")
}

func validateTransaction(rec codec.TransactionRecord) error {
	if rec.Amount == nil || rec.Category == nil || rec.Type == nil || rec.CreatedAt == nil {
		return errors.New("amount, category, transaction_type and created_at are required")
	}
	if rec.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}
	if _, err := domain.ParseCategory(*rec.Category); err != nil {
		return err
	}
	if _, err := domain.ParseTransactionType(*rec.Type); err != nil {
		return err
	}
	if rec.Currency != nil {
		if _, err := domain.ParseCurrency(*rec.Currency); err != nil {
			return err
		}
	}
	if _, err := codec.ParseTimestamp(*rec.CreatedAt); err != nil {
		return err
	}
	return nil
}

// createdAt parses a stored record's timestamp; stored records were
// validated on the way in.
func createdAt(rec *codec.TransactionRecord) time.Time {
	t, _ := codec.ParseTimestamp(*rec.CreatedAt)
	return t
}
