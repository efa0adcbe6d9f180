package domain

import "fmt"

// TransactionType carries the sign of a transaction; amounts are never negative.
type TransactionType string

const (
	Debit  TransactionType = "Debit"
	Credit TransactionType = "Credit"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Debit, Credit:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// Currency is a closed set of supported currencies.
type Currency string

const (
	CAD Currency = "CAD"
	RMB Currency = "RMB"
)

// DefaultCurrency is assumed for records written before the backend stored a currency.
const DefaultCurrency = CAD

func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CAD, RMB:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}

func (c Currency) Symbol() string {
	switch c {
	case RMB:
		return "¥"
	default:
		return "$"
	}
}
