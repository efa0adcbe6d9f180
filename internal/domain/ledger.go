package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a reconciliation snapshot. Reconciled and the off-by amounts are
// computed by the backend and treated as opaque here.
type Balance struct {
	ID           string
	CADBalance   decimal.Decimal
	RMBBalance   decimal.Decimal
	RecordTime   time.Time
	Note         *string
	Reconciled   bool
	CADOffAmount decimal.Decimal
	RMBOffAmount decimal.Decimal
}

type BalanceInput struct {
	CADBalance decimal.Decimal
	RMBBalance decimal.Decimal
	RecordTime time.Time
	Note       *string
}

// BalanceResult is the backend's verdict on a newly recorded balance.
type BalanceResult struct {
	Message      string
	BalanceID    string
	Reconciled   bool
	CADOffAmount decimal.Decimal
	RMBOffAmount decimal.Decimal
}

type CashBalance struct {
	RecordType      string
	Balance         decimal.Decimal
	LastUpdatedDate string
}

type CashTransaction struct {
	RecordType string
	Amount     decimal.Decimal
	Type       TransactionType
	Timestamp  time.Time
}

// Signed returns the amount with credits positive and debits negative.
func (c CashTransaction) Signed() decimal.Decimal {
	if c.Type == Credit {
		return c.Amount
	}
	return c.Amount.Neg()
}

type CashStatus struct {
	Balance      CashBalance
	Transactions []CashTransaction
}

type CashInput struct {
	Amount decimal.Decimal
	Type   TransactionType
}
