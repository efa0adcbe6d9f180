package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrZeroAmount     = errors.New("amount must not be zero")
)

// Transaction is one recorded debit or credit. Amount is always >= 0; the
// direction lives in Type.
type Transaction struct {
	ID               string
	Amount           decimal.Decimal
	Category         Category
	Type             TransactionType
	Currency         Currency
	CreatedAt        time.Time
	Merchant         *string
	Description      *string
	ReceiptID        *string
	RecurringPayment *bool
	PostalCode       *string
}

func (t Transaction) IsCredit() bool { return t.Type == Credit }

func (t Transaction) HasReceipt() bool { return t.ReceiptID != nil }

// IsRecurring treats an absent flag as false.
func (t Transaction) IsRecurring() bool {
	return t.RecurringPayment != nil && *t.RecurringPayment
}

// Validate checks the invariants shared by drafts and full records.
func (t Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !t.Category.Valid() {
		return fmt.Errorf("unknown category %q", t.Category)
	}
	if _, err := ParseTransactionType(string(t.Type)); err != nil {
		return err
	}
	if _, err := ParseCurrency(string(t.Currency)); err != nil {
		return err
	}
	return nil
}

// Draft is a transaction that has not been assigned an id yet.
type Draft struct {
	Amount           decimal.Decimal
	Category         Category
	Type             TransactionType
	Currency         Currency
	CreatedAt        time.Time
	Merchant         *string
	Description      *string
	RecurringPayment *bool
	PostalCode       *string
}

// Validate rejects drafts the backend must never see.
func (d Draft) Validate() error {
	if d.Amount.IsZero() {
		return ErrZeroAmount
	}
	return Transaction{
		Amount:   d.Amount,
		Category: d.Category,
		Type:     d.Type,
		Currency: d.Currency,
	}.Validate()
}

// DraftFromSigned builds a draft from a quick-log amount where a minus sign
// means income: the sign moves into the transaction type.
func DraftFromSigned(amount decimal.Decimal, category Category, at time.Time) (Draft, error) {
	if amount.IsZero() {
		return Draft{}, ErrZeroAmount
	}
	kind := Debit
	if amount.IsNegative() {
		kind = Credit
	}
	return Draft{
		Amount:    amount.Abs(),
		Category:  category,
		Type:      kind,
		Currency:  DefaultCurrency,
		CreatedAt: at,
	}, nil
}

// StringPtr returns nil for blank strings so optional fields stay absent.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func BoolPtr(b bool) *bool { return &b }
