// Package filter derives the visible transaction list from the resident one.
// Everything here is pure: inputs are never modified.
package filter

import (
	"slices"
	"strings"

	"github.com/dvloznov/homeapp/internal/domain"
)

// Apply restricts all to the window, applies the set filters and the search
// text, and returns the matches newest first. Equal timestamps keep their
// arrival order.
func Apply(all []domain.Transaction, f domain.TransactionFilters, search string, w domain.Window) []domain.Transaction {
	query := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Transaction, 0, len(all))
	for _, t := range all {
		if !w.Contains(t.CreatedAt) {
			continue
		}
		if !MatchesFilters(t, f) {
			continue
		}
		if !inAmountRange(t, f) {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// MatchesFilters checks the scalar predicates. Unset fields never exclude.
func MatchesFilters(t domain.Transaction, f domain.TransactionFilters) bool {
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.HasReceipt != nil && t.HasReceipt() != *f.HasReceipt {
		return false
	}
	if f.RecurringPayment != nil && t.IsRecurring() != *f.RecurringPayment {
		return false
	}
	if f.Currency != nil && t.Currency != *f.Currency {
		return false
	}
	return true
}

// inAmountRange applies inclusive bounds.
func inAmountRange(t domain.Transaction, f domain.TransactionFilters) bool {
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// MatchesSearch reports whether search occurs, ignoring case, in the category
// label, merchant, description or amount of t. Blank search matches all.
func MatchesSearch(t domain.Transaction, search string) bool {
	query := strings.ToLower(strings.TrimSpace(search))
	return query == "" || matchesQuery(t, query)
}

func matchesQuery(t domain.Transaction, query string) bool {
	if strings.Contains(strings.ToLower(t.Category.DisplayName()), query) {
		return true
	}
	if t.Merchant != nil && strings.Contains(strings.ToLower(*t.Merchant), query) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), query) {
		return true
	}
	return strings.Contains(t.Amount.String(), query)
}
