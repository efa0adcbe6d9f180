package filter

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	monthly = domain.OneMonth.Window(now)
)

func tx(id string, amount string, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:        id,
		Amount:    decimal.RequireFromString(amount),
		Category:  domain.CategoryGroceries,
		Type:      domain.Debit,
		Currency:  domain.CAD,
		CreatedAt: now.AddDate(0, 0, -daysAgo),
	}
}

func ids(ts []domain.Transaction) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestMinAmountKeepsLargerNewestFirst(t *testing.T) {
	all := []domain.Transaction{
		tx("day1", "10", 3),
		tx("day2", "20", 2),
		tx("day3", "30", 1),
	}

	got := Apply(all, domain.TransactionFilters{MinAmount: dec("15")}, "", monthly)
	assert.Equal(t, []string{"day3", "day2"}, ids(got))
}

func TestAmountBoundsAreInclusive(t *testing.T) {
	all := []domain.Transaction{tx("a", "20.00", 1), tx("b", "19.99", 1), tx("c", "35.01", 1)}

	got := Apply(all, domain.TransactionFilters{MinAmount: dec("20"), MaxAmount: dec("35.01")}, "", monthly)
	assert.ElementsMatch(t, []string{"a", "c"}, ids(got))
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	costco := tx("costco", "80", 1)
	costco.Merchant = domain.StringPtr("Costco")
	walmart := tx("walmart", "12", 2)
	walmart.Category = domain.CategoryShopping
	walmart.Merchant = domain.StringPtr("Walmart")
	noted := tx("noted", "5", 3)
	noted.Category = domain.CategoryCar
	noted.Description = domain.StringPtr("Parking at COSTCO lot")
	salary := tx("salary", "4200.5", 4)
	salary.Category = domain.CategorySalary
	all := []domain.Transaction{costco, walmart, noted, salary}

	tests := []struct {
		search string
		want   []string
	}{
		{search: "cost", want: []string{"costco", "noted"}},
		{search: "  WALM ", want: []string{"walmart"}},
		{search: "grocer", want: []string{"costco"}},
		{search: "dine", want: []string{}},
		{search: "4200.5", want: []string{"salary"}},
		{search: "", want: []string{"costco", "walmart", "noted", "salary"}},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(all, domain.TransactionFilters{}, tt.search, monthly)))
		})
	}

	assert.True(t, MatchesSearch(costco, "COST"))
	assert.False(t, MatchesSearch(walmart, "cost"))
}

func TestScalarFilters(t *testing.T) {
	withReceipt := tx("receipt", "1", 1)
	withReceipt.ReceiptID = domain.StringPtr("r1")
	recurring := tx("recurring", "2", 2)
	recurring.RecurringPayment = domain.BoolPtr(true)
	credit := tx("credit", "3", 3)
	credit.Type = domain.Credit
	credit.Category = domain.CategoryCashBack
	rmb := tx("rmb", "4", 4)
	rmb.Currency = domain.RMB
	all := []domain.Transaction{withReceipt, recurring, credit, rmb}

	cashBack := domain.CategoryCashBack
	creditType := domain.Credit
	rmbCurrency := domain.RMB

	tests := []struct {
		name    string
		filters domain.TransactionFilters
		want    []string
	}{
		{name: "none", filters: domain.TransactionFilters{}, want: []string{"receipt", "recurring", "credit", "rmb"}},
		{name: "category", filters: domain.TransactionFilters{Category: &cashBack}, want: []string{"credit"}},
		{name: "type", filters: domain.TransactionFilters{Type: &creditType}, want: []string{"credit"}},
		{name: "has receipt", filters: domain.TransactionFilters{HasReceipt: domain.BoolPtr(true)}, want: []string{"receipt"}},
		{name: "no receipt", filters: domain.TransactionFilters{HasReceipt: domain.BoolPtr(false)}, want: []string{"recurring", "credit", "rmb"}},
		{name: "recurring", filters: domain.TransactionFilters{RecurringPayment: domain.BoolPtr(true)}, want: []string{"recurring"}},
		{name: "not recurring includes unset flag", filters: domain.TransactionFilters{RecurringPayment: domain.BoolPtr(false)}, want: []string{"receipt", "credit", "rmb"}},
		{name: "currency", filters: domain.TransactionFilters{Currency: &rmbCurrency}, want: []string{"rmb"}},
		{name: "and", filters: domain.TransactionFilters{Type: &creditType, Currency: &rmbCurrency}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(all, tt.filters, "", monthly)))
		})
	}
}

func TestWindowRestriction(t *testing.T) {
	all := []domain.Transaction{
		tx("old", "1", 40),
		tx("edge", "1", 0),
		tx("start", "1", 0),
		tx("future", "1", 0),
	}
	all[1].CreatedAt = now
	all[2].CreatedAt = monthly.Start
	all[3].CreatedAt = now.Add(time.Second)

	got := Apply(all, domain.TransactionFilters{}, "", monthly)
	assert.Equal(t, []string{"edge", "start"}, ids(got))
}

func TestTiesKeepArrivalOrder(t *testing.T) {
	all := []domain.Transaction{tx("first", "1", 1), tx("second", "2", 1), tx("newer", "3", 0), tx("third", "4", 1)}
	assert.Equal(t, []string{"newer", "first", "second", "third"}, ids(Apply(all, domain.TransactionFilters{}, "", monthly)))
}

func randomTransactions(r *rand.Rand, n int) []domain.Transaction {
	cats := domain.Categories()
	out := make([]domain.Transaction, n)
	for i := range out {
		t := tx(fmt.Sprintf("t%03d", i), fmt.Sprintf("%d.%02d", r.Intn(200), r.Intn(100)), r.Intn(45))
		t.Category = cats[r.Intn(len(cats))]
		if r.Intn(2) == 0 {
			t.Type = domain.Credit
		}
		if r.Intn(3) == 0 {
			t.ReceiptID = domain.StringPtr("r")
		}
		if r.Intn(4) == 0 {
			t.Merchant = domain.StringPtr([]string{"Costco", "Walmart", "Metro", "Shell"}[r.Intn(4)])
		}
		t.CreatedAt = t.CreatedAt.Add(time.Duration(r.Intn(3600)) * time.Second)
		out[i] = t
	}
	return out
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	all := randomTransactions(r, 200)
	before := ids(all)

	f := domain.TransactionFilters{MaxAmount: dec("150")}
	first := Apply(all, f, "co", monthly)
	second := Apply(all, f, "co", monthly)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, before, ids(all), "input must not be reordered")
}

func TestFilteredPageIsSubsetOfResident(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	all := randomTransactions(r, 150)
	resident := make(map[string]bool, len(all))
	for _, t := range all {
		resident[t.ID] = true
	}

	groceries := domain.CategoryGroceries
	credit := domain.Credit
	configs := []domain.TransactionFilters{
		{},
		{Category: &groceries},
		{Type: &credit, HasReceipt: domain.BoolPtr(true)},
		{MinAmount: dec("50"), MaxAmount: dec("120")},
	}

	for i, f := range configs {
		for _, search := range []string{"", "co", "1"} {
			t.Run(fmt.Sprintf("%d/%q", i, search), func(t *testing.T) {
				filtered := Apply(all, f, search, monthly)
				p := NewPager(DefaultPageSize)
				for {
					page := Page(p, filtered)
					assert.LessOrEqual(t, len(page), len(filtered))
					for _, tr := range page {
						assert.True(t, resident[tr.ID])
					}
					if !p.LoadMore(len(filtered)) {
						break
					}
				}
			})
		}
	}
}

func TestPager(t *testing.T) {
	p := NewPager(0)
	require.Equal(t, DefaultPageSize, p.Limit())

	assert.True(t, p.CanLoadMore(75))
	assert.True(t, p.LoadMore(75))
	assert.Equal(t, 60, p.Limit())
	assert.True(t, p.LoadMore(75))
	assert.Equal(t, 90, p.Limit())

	assert.False(t, p.CanLoadMore(75))
	assert.False(t, p.LoadMore(75), "no-op once everything is visible")
	assert.Equal(t, 90, p.Limit())

	items := make([]int, 75)
	assert.Len(t, Page(p, items), 75)

	p.Reset()
	assert.Equal(t, DefaultPageSize, p.Limit())
	assert.Len(t, Page(p, items), 30)
	assert.Empty(t, Page(p, []int(nil)))
}
