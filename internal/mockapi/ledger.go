package mockapi

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

// GET /balance lists records newest first.
func (b *Backend) listBalances(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]codec.BalanceRecord, 0, len(b.balances))
	for i := len(b.balances) - 1; i >= 0; i-- {
		out = append(out, *b.balances[i])
	}
	WriteJSON(w, http.StatusOK, map[string]any{"balances": out})
}

// POST /balance reconciles the new figures against the previous record plus
// the net of expenses recorded since, per currency.
func (b *Backend) createBalance(w http.ResponseWriter, r *http.Request) {
	var in codec.BalanceInputRecord
	if !decodeBody(w, r, &in) {
		return
	}
	if in.CADBalance == nil || in.RMBBalance == nil || in.RecordTime == nil {
		WriteError(w, http.StatusBadRequest, "cad_balance, rmb_balance and record_time are required")
		return
	}
	at, err := codec.ParseTimestamp(*in.RecordTime)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	cadOff, rmbOff := decimal.Zero, decimal.Zero
	if n := len(b.balances); n > 0 {
		prev := b.balances[n-1]
		since, _ := codec.ParseTimestamp(*prev.RecordTime)
		cadNet, rmbNet := b.netSince(since, at)
		cadOff = in.CADBalance.Sub(amountOf(prev.CADBalance).Add(cadNet))
		rmbOff = in.RMBBalance.Sub(amountOf(prev.RMBBalance).Add(rmbNet))
	}
	reconciled := cadOff.IsZero() && rmbOff.IsZero()

	rec := &codec.BalanceRecord{
		ID:           ptr(uuid.NewString()),
		CADBalance:   in.CADBalance,
		RMBBalance:   in.RMBBalance,
		RecordTime:   in.RecordTime,
		Note:         in.Note,
		Reconciled:   ptr(reconciled),
		CADOffAmount: ptr(codec.NewAmount(cadOff)),
		RMBOffAmount: ptr(codec.NewAmount(rmbOff)),
	}
	b.balances = append(b.balances, rec)

	WriteJSON(w, http.StatusCreated, codec.BalanceResultRecord{
		Message:      ptr("Balance recorded"),
		BalanceID:    rec.ID,
		Reconciled:   rec.Reconciled,
		CADOffAmount: rec.CADOffAmount,
		RMBOffAmount: rec.RMBOffAmount,
	})
}

// netSince sums credits minus debits per currency for expenses in (from, to].
func (b *Backend) netSince(from, to time.Time) (cad, rmb decimal.Decimal) {
	for _, rec := range b.transactions {
		at := createdAt(rec)
		if !at.After(from) || at.After(to) {
			continue
		}
		signed := amountOf(rec.Amount)
		if *rec.Type == string(domain.Debit) {
			signed = signed.Neg()
		}
		if rec.Currency != nil && *rec.Currency == string(domain.RMB) {
			rmb = rmb.Add(signed)
		} else {
			cad = cad.Add(signed)
		}
	}
	return cad, rmb
}

func (b *Backend) deleteBalance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.balances, func(rec *codec.BalanceRecord) bool { return *rec.ID == id })
	if i < 0 {
		WriteError(w, http.StatusNotFound, "Balance not found")
		return
	}
	b.balances = slices.Delete(b.balances, i, i+1)
	writeMessage(w, http.StatusOK, "Balance deleted")
}

const (
	cashBalanceRecord     = "BALANCE"
	cashTransactionRecord = "TRANSACTION"
)

// GET /cash returns the running balance and the movements, newest first.
func (b *Backend) cashStatus(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	txs := make([]codec.CashTransactionRecord, 0, len(b.cash))
	for i := len(b.cash) - 1; i >= 0; i-- {
		txs = append(txs, b.cash[i])
	}
	balance := codec.NewAmount(b.cashBalance)
	WriteJSON(w, http.StatusOK, codec.CashStatusRecord{
		Balance: &codec.CashBalanceRecord{
			RecordType:      ptr(cashBalanceRecord),
			Balance:         &balance,
			LastUpdatedDate: ptr(b.cashUpdated),
		},
		Transactions: txs,
	})
}

func (b *Backend) addCash(w http.ResponseWriter, r *http.Request) {
	var in codec.CashInputRecord
	if !decodeBody(w, r, &in) {
		return
	}
	if err := validateCash(in); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()

	ct := domain.CashTransaction{Amount: in.Amount.Decimal, Type: domain.TransactionType(*in.Type)}
	b.cashBalance = b.cashBalance.Add(ct.Signed())
	b.cashUpdated = now.Format("2006-01-02")
	b.cash = append(b.cash, codec.CashTransactionRecord{
		RecordType: ptr(cashTransactionRecord),
		Amount:     in.Amount,
		Type:       in.Type,
		Timestamp:  ptr(b.codec.FormatTimestamp(now)),
	})
	writeMessage(w, http.StatusCreated, "Cash transaction recorded")
}

func validateCash(in codec.CashInputRecord) error {
	if in.Amount == nil || in.Type == nil {
		return errors.New("amount and type are required")
	}
	if !in.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	_, err := domain.ParseTransactionType(*in.Type)
	return err
}

func (b *Backend) resetCash(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cash = nil
	b.cashBalance = decimal.Zero
	b.cashUpdated = ""
	writeMessage(w, http.StatusOK, "Cash data reset")
}
