package codec

import (
	"fmt"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/shopspring/decimal"
)

var TrendMonthFields = Fields{
	{Domain: "Month", Wire: "month", Fallback: Required},
	{Domain: "NetExpense", Wire: "net_expense", Fallback: Required},
}

var CurrentMonthFields = Fields{
	{Domain: "Month", Wire: "month", Fallback: Required},
	{Domain: "NetExpense", Wire: "net_expense", Fallback: Required},
	{Domain: "DaysRemaining", Wire: "days_remaining", Fallback: Required},
}

var TrendFields = Fields{
	{Domain: "MonthsRequested", Wire: "months_requested", Fallback: Required},
	{Domain: "CategoryFilter", Wire: "category_filter", Fallback: NilWhenAbsent},
	{Domain: "CurrentMonth", Wire: "current_month", Fallback: Required},
	{Domain: "PreviousMonthEarning", Wire: "previous_month_earning", Fallback: Required},
	{Domain: "Trend", Wire: "trend", Fallback: NilWhenAbsent},
}

// SnapshotFields covers both the month and the year flavour; exactly one
// period key is expected.
var SnapshotFields = Fields{
	{Domain: "Month", Wire: "month", Fallback: NilWhenAbsent},
	{Domain: "Year", Wire: "year", Fallback: NilWhenAbsent},
	{Domain: "NetExpense", Wire: "net_expense", Fallback: Required},
	{Domain: "NetByCategory", Wire: "net_by_category", Fallback: NilWhenAbsent},
	{Domain: "CountByCategory", Wire: "count_by_category", Fallback: NilWhenAbsent},
}

var BreakdownFields = Fields{
	{Domain: "LastMonth", Wire: "last_month", Fallback: NilWhenAbsent},
	{Domain: "CurrentYear", Wire: "current_year", Fallback: NilWhenAbsent},
	{Domain: "LastYear", Wire: "last_year", Fallback: NilWhenAbsent},
}

type TrendMonthRecord struct {
	Month      *string `json:"month"`
	NetExpense *Amount `json:"net_expense"`
}

type CurrentMonthRecord struct {
	Month         *string `json:"month"`
	NetExpense    *Amount `json:"net_expense"`
	DaysRemaining *int    `json:"days_remaining"`
}

type TrendRecord struct {
	MonthsRequested      *int                `json:"months_requested"`
	CategoryFilter       *string             `json:"category_filter"`
	CurrentMonth         *CurrentMonthRecord `json:"current_month"`
	PreviousMonthEarning *Amount             `json:"previous_month_earning"`
	Trend                []TrendMonthRecord  `json:"trend"`
}

type SnapshotRecord struct {
	Month           *string           `json:"month"`
	Year            *string           `json:"year"`
	NetExpense      *Amount           `json:"net_expense"`
	NetByCategory   map[string]Amount `json:"net_by_category"`
	CountByCategory map[string]int    `json:"count_by_category"`
}

type BreakdownRecord struct {
	LastMonth   *SnapshotRecord `json:"last_month"`
	CurrentYear *SnapshotRecord `json:"current_year"`
	LastYear    *SnapshotRecord `json:"last_year"`
}

func DecodeTrend(data []byte) (domain.SpendingTrend, error) {
	var r TrendRecord
	if err := unmarshal("spending trend", data, &r); err != nil {
		return domain.SpendingTrend{}, err
	}
	d := newDecoder("spending trend", TrendFields)
	out := domain.SpendingTrend{
		MonthsRequested:      d.integer("MonthsRequested", r.MonthsRequested),
		CategoryFilter:       d.str("CategoryFilter", r.CategoryFilter),
		PreviousMonthEarning: d.amount("PreviousMonthEarning", r.PreviousMonthEarning, true).Decimal,
	}
	if r.CurrentMonth == nil {
		d.fail("CurrentMonth", ErrMissingField)
	}
	if d.err != nil {
		return domain.SpendingTrend{}, d.err
	}

	cm := newDecoder("current month", CurrentMonthFields)
	out.CurrentMonth = domain.CurrentMonthSummary{
		Month:         cm.required("Month", r.CurrentMonth.Month),
		NetExpense:    cm.amount("NetExpense", r.CurrentMonth.NetExpense, true).Decimal,
		DaysRemaining: cm.integer("DaysRemaining", r.CurrentMonth.DaysRemaining),
	}
	if cm.err != nil {
		return domain.SpendingTrend{}, cm.err
	}

	out.Trend = make([]domain.TrendMonth, 0, len(r.Trend))
	for i, m := range r.Trend {
		md := newDecoder("trend month", TrendMonthFields)
		tm := domain.TrendMonth{
			Month:      md.required("Month", m.Month),
			NetExpense: md.amount("NetExpense", m.NetExpense, true).Decimal,
		}
		if md.err != nil {
			return domain.SpendingTrend{}, fmt.Errorf("trend month %d: %w", i, md.err)
		}
		out.Trend = append(out.Trend, tm)
	}
	return out, nil
}

func DecodeBreakdown(data []byte) (domain.CategoryBreakdown, error) {
	var r BreakdownRecord
	if err := unmarshal("category breakdown", data, &r); err != nil {
		return domain.CategoryBreakdown{}, err
	}
	var (
		out domain.CategoryBreakdown
		err error
	)
	if out.LastMonth, err = decodeSnapshot(BreakdownFields.Wire("LastMonth"), r.LastMonth); err != nil {
		return domain.CategoryBreakdown{}, err
	}
	if out.CurrentYear, err = decodeSnapshot(BreakdownFields.Wire("CurrentYear"), r.CurrentYear); err != nil {
		return domain.CategoryBreakdown{}, err
	}
	if out.LastYear, err = decodeSnapshot(BreakdownFields.Wire("LastYear"), r.LastYear); err != nil {
		return domain.CategoryBreakdown{}, err
	}
	return out, nil
}

func decodeSnapshot(record string, r *SnapshotRecord) (*domain.CategorySnapshot, error) {
	if r == nil {
		return nil, nil
	}
	d := newDecoder(record, SnapshotFields)
	s := &domain.CategorySnapshot{
		NetExpense:      d.amount("NetExpense", r.NetExpense, true).Decimal,
		NetByCategory:   make(map[string]decimal.Decimal, len(r.NetByCategory)),
		CountByCategory: make(map[string]int, len(r.CountByCategory)),
	}
	switch {
	case d.str("Month", r.Month) != nil:
		s.Period = *r.Month
	case d.str("Year", r.Year) != nil:
		s.Period = *r.Year
	default:
		d.fail("Month", ErrMissingField)
	}
	for k, v := range r.NetByCategory {
		s.NetByCategory[k] = v.Decimal
	}
	for k, v := range r.CountByCategory {
		s.CountByCategory[k] = v
	}
	if d.err != nil {
		return nil, d.err
	}
	return s, nil
}
