package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/homeapp/internal/codec"
	"github.com/dvloznov/homeapp/internal/domain"
)

const defaultTrendMonths = 6

// period is a half-open [start, end) span of calendar time in UTC.
type period struct {
	start, end time.Time
}

func monthOf(t time.Time, offset int) period {
	start := time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	return period{start: start, end: start.AddDate(0, 1, 0)}
}

func yearOf(t time.Time, offset int) period {
	start := time.Date(t.Year()+offset, time.January, 1, 0, 0, 0, 0, time.UTC)
	return period{start: start, end: start.AddDate(1, 0, 0)}
}

func (p period) contains(t time.Time) bool {
	return !t.Before(p.start) && t.Before(p.end)
}

// netExpense is what a transaction adds to spending: debits count up,
// credits (refunds) count down. Earning categories are not spending.
func netExpense(rec *codec.TransactionRecord) (decimal.Decimal, bool) {
	if domain.Category(*rec.Category).IsEarning() {
		return decimal.Zero, false
	}
	amount := amountOf(rec.Amount)
	if *rec.Type == string(domain.Credit) {
		amount = amount.Neg()
	}
	return amount, true
}

// GET /report/trend?months&category
func (b *Backend) trend(w http.ResponseWriter, r *http.Request) {
	months := defaultTrendMonths
	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = n
	}
	var category *string
	if s := r.URL.Query().Get("category"); s != "" {
		if _, err := domain.ParseCategory(s); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = &s
	}

	now := b.now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()

	sum := func(p period) decimal.Decimal {
		total := decimal.Zero
		for _, rec := range b.transactions {
			if category != nil && *rec.Category != *category {
				continue
			}
			if !p.contains(createdAt(rec)) {
				continue
			}
			if v, ok := netExpense(rec); ok {
				total = total.Add(v)
			}
		}
		return total
	}

	trend := make([]codec.TrendMonthRecord, 0, months)
	for i := months; i >= 1; i-- {
		p := monthOf(now, -i)
		trend = append(trend, codec.TrendMonthRecord{
			Month:      ptr(p.start.Format("2006-01")),
			NetExpense: ptr(codec.NewAmount(sum(p))),
		})
	}

	current := monthOf(now, 0)
	earning := decimal.Zero
	previous := monthOf(now, -1)
	for _, rec := range b.transactions {
		if domain.Category(*rec.Category).IsEarning() && previous.contains(createdAt(rec)) {
			earning = earning.Add(amountOf(rec.Amount))
		}
	}

	WriteJSON(w, http.StatusOK, codec.TrendRecord{
		MonthsRequested: ptr(months),
		CategoryFilter:  category,
		CurrentMonth: &codec.CurrentMonthRecord{
			Month:         ptr(current.start.Format("2006-01")),
			NetExpense:    ptr(codec.NewAmount(sum(current))),
			DaysRemaining: ptr(int(current.end.Sub(now).Hours() / 24)),
		},
		PreviousMonthEarning: ptr(codec.NewAmount(earning)),
		Trend:                trend,
	})
}

// GET /report/category-breakdown
func (b *Backend) breakdown(w http.ResponseWriter, r *http.Request) {
	now := b.now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()

	lastMonth := monthOf(now, -1)
	lm := b.snapshot(lastMonth)
	lm.Month = ptr(lastMonth.start.Format("2006-01"))

	thisYear := yearOf(now, 0)
	cy := b.snapshot(thisYear)
	cy.Year = ptr(thisYear.start.Format("2006"))

	prevYear := yearOf(now, -1)
	ly := b.snapshot(prevYear)
	ly.Year = ptr(prevYear.start.Format("2006"))

	WriteJSON(w, http.StatusOK, codec.BreakdownRecord{LastMonth: lm, CurrentYear: cy, LastYear: ly})
}

func (b *Backend) snapshot(p period) *codec.SnapshotRecord {
	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, rec := range b.transactions {
		if !p.contains(createdAt(rec)) {
			continue
		}
		v, ok := netExpense(rec)
		if !ok {
			continue
		}
		total = total.Add(v)
		byCategory[*rec.Category] = byCategory[*rec.Category].Add(v)
		counts[*rec.Category]++
	}

	net := make(map[string]codec.Amount, len(byCategory))
	for k, v := range byCategory {
		net[k] = codec.NewAmount(v)
	}
	return &codec.SnapshotRecord{
		NetExpense:      ptr(codec.NewAmount(total)),
		NetByCategory:   net,
		CountByCategory: counts,
	}
}
