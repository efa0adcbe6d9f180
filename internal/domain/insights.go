package domain

import "github.com/shopspring/decimal"

type TrendMonth struct {
	Month      string
	NetExpense decimal.Decimal
}

type CurrentMonthSummary struct {
	Month         string
	NetExpense    decimal.Decimal
	DaysRemaining int
}

type SpendingTrend struct {
	MonthsRequested      int
	CategoryFilter       *string
	CurrentMonth         CurrentMonthSummary
	PreviousMonthEarning decimal.Decimal
	Trend                []TrendMonth
}

// CategorySnapshot aggregates one period; Period is a month ("2026-01") or a year ("2026").
type CategorySnapshot struct {
	Period          string
	NetExpense      decimal.Decimal
	NetByCategory   map[string]decimal.Decimal
	CountByCategory map[string]int
}

type CategoryBreakdown struct {
	LastMonth   *CategorySnapshot
	CurrentYear *CategorySnapshot
	LastYear    *CategorySnapshot
}

// BreakdownPeriod selects one snapshot of a CategoryBreakdown.
type BreakdownPeriod string

const (
	PeriodLastMonth   BreakdownPeriod = "Last Month"
	PeriodCurrentYear BreakdownPeriod = "This Year"
	PeriodLastYear    BreakdownPeriod = "Last Year"
)

func (b CategoryBreakdown) Snapshot(p BreakdownPeriod) *CategorySnapshot {
	switch p {
	case PeriodCurrentYear:
		return b.CurrentYear
	case PeriodLastYear:
		return b.LastYear
	default:
		return b.LastMonth
	}
}
