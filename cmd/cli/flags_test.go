package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/homeapp/internal/domain"
)

func TestParseFilters(t *testing.T) {
	f, err := parseFilters("Groceries", "Debit", "CAD", "true", "no", "10", "25.50")
	require.NoError(t, err)

	require.NotNil(t, f.Category)
	assert.Equal(t, domain.CategoryGroceries, *f.Category)
	assert.Equal(t, domain.Debit, *f.Type)
	assert.Equal(t, domain.CAD, *f.Currency)
	assert.True(t, *f.HasReceipt)
	assert.False(t, *f.RecurringPayment)
	assert.True(t, decimal.RequireFromString("10").Equal(*f.MinAmount))
	assert.True(t, decimal.RequireFromString("25.50").Equal(*f.MaxAmount))
	assert.Equal(t, 6, f.ActiveCount())

	empty, err := parseFilters("", "", "", "", "", "", "")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestParseFiltersErrors(t *testing.T) {
	tests := []struct {
		name string
		args [7]string
	}{
		{"unknown category", [7]string{"Food", "", "", "", "", "", ""}},
		{"unknown type", [7]string{"", "Refund", "", "", "", "", ""}},
		{"unknown currency", [7]string{"", "", "USD", "", "", "", ""}},
		{"bad receipt flag", [7]string{"", "", "", "maybe", "", "", ""}},
		{"bad amount", [7]string{"", "", "", "", "", "ten", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			_, err := parseFilters(a[0], a[1], a[2], a[3], a[4], a[5], a[6])
			assert.Error(t, err)
		})
	}
}

func TestParseDays(t *testing.T) {
	days, err := parseDays("1, 15,28")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 15, 28}, days)

	days, err = parseDays("")
	require.NoError(t, err)
	assert.Nil(t, days)

	_, err = parseDays("1,x")
	assert.Error(t, err)
}

func TestScheduleInput(t *testing.T) {
	in, err := scheduleInput("Rent", "1800", "Debit", "CAD", "Housing", "Monthly", "1", "2026-01-01", "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.Monthly, in.Frequency)
	assert.Equal(t, []int{1}, in.MonthlyDates)
	assert.Nil(t, in.EndDate)

	_, err = scheduleInput("Rent", "1800", "Debit", "CAD", "Housing", "Monthly", "", "2026-01-01", "", "")
	assert.Error(t, err, "monthly schedules need days")

	_, err = scheduleInput("Gym", "40", "Debit", "CAD", "Personal Improvement", "Weekly", "", "2026-02-01", "2026-01-01", "")
	assert.Error(t, err, "end before start")
}

func TestParsePeriod(t *testing.T) {
	tests := map[string]domain.BreakdownPeriod{
		"last-month": domain.PeriodLastMonth,
		"this-year":  domain.PeriodCurrentYear,
		"last-year":  domain.PeriodLastYear,
	}
	for in, want := range tests {
		got, err := parsePeriod(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := parsePeriod("yesterday")
	assert.Error(t, err)
}
