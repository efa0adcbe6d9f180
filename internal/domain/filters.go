package domain

import "github.com/shopspring/decimal"

// TransactionFilters holds independently optional predicates. A nil field
// means "no constraint"; set fields combine with AND.
type TransactionFilters struct {
	Category         *Category
	Type             *TransactionType
	HasReceipt       *bool
	RecurringPayment *bool
	Currency         *Currency
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
}

func (f TransactionFilters) IsEmpty() bool {
	return f.ActiveCount() == 0
}

// ActiveCount counts set filters; the amount range counts once.
func (f TransactionFilters) ActiveCount() int {
	n := 0
	if f.Category != nil {
		n++
	}
	if f.Type != nil {
		n++
	}
	if f.HasReceipt != nil {
		n++
	}
	if f.RecurringPayment != nil {
		n++
	}
	if f.Currency != nil {
		n++
	}
	if f.MinAmount != nil || f.MaxAmount != nil {
		n++
	}
	return n
}

func (f *TransactionFilters) Clear() {
	*f = TransactionFilters{}
}
