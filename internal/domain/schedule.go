package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleFrequency is how often a scheduled payment recurs.
type ScheduleFrequency string

const (
	Weekly   ScheduleFrequency = "Weekly"
	Biweekly ScheduleFrequency = "Biweekly"
	Monthly  ScheduleFrequency = "Monthly"
)

func ParseScheduleFrequency(s string) (ScheduleFrequency, error) {
	switch ScheduleFrequency(s) {
	case Weekly, Biweekly, Monthly:
		return ScheduleFrequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// PaymentSchedule is a record describing a recurring payment. The client
// never executes schedules; they are data.
type PaymentSchedule struct {
	ID           string
	Name         string
	Amount       decimal.Decimal
	Currency     Currency
	Type         TransactionType
	Category     Category
	Frequency    ScheduleFrequency
	MonthlyDates []int
	StartDate    time.Time
	EndDate      *time.Time
	Merchant     *string
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ScheduleInput is the create/update payload.
type ScheduleInput struct {
	Name         string
	Amount       decimal.Decimal
	Currency     Currency
	Type         TransactionType
	Category     Category
	Frequency    ScheduleFrequency
	MonthlyDates []int
	StartDate    time.Time
	EndDate      *time.Time
	Merchant     *string
	Description  *string
}

func (in ScheduleInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("schedule name is required")
	}
	if in.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown category %q", in.Category)
	}
	if _, err := ParseTransactionType(string(in.Type)); err != nil {
		return err
	}
	if _, err := ParseCurrency(string(in.Currency)); err != nil {
		return err
	}
	switch in.Frequency {
	case Monthly:
		if len(in.MonthlyDates) == 0 {
			return errors.New("monthly schedule needs at least one day of month")
		}
		for _, d := range in.MonthlyDates {
			if d < 1 || d > 31 {
				return fmt.Errorf("day of month %d out of range", d)
			}
		}
	case Weekly, Biweekly:
		if len(in.MonthlyDates) > 0 {
			return fmt.Errorf("%s schedule must not list days of month", in.Frequency)
		}
	default:
		return fmt.Errorf("unknown frequency %q", in.Frequency)
	}
	if in.EndDate != nil && in.EndDate.Before(in.StartDate) {
		return errors.New("end date precedes start date")
	}
	return nil
}

// FrequencyLabel renders e.g. "Monthly on day 1, 15".
func (s PaymentSchedule) FrequencyLabel() string {
	switch s.Frequency {
	case Monthly:
		if len(s.MonthlyDates) == 0 {
			return "Monthly"
		}
		days := append([]int(nil), s.MonthlyDates...)
		sort.Ints(days)
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = strconv.Itoa(d)
		}
		return "Monthly on day " + strings.Join(parts, ", ")
	case Biweekly:
		return "Every 2 weeks"
	default:
		return "Weekly"
	}
}

// Input converts a stored schedule back into an editable payload.
func (s PaymentSchedule) Input() ScheduleInput {
	return ScheduleInput{
		Name:         s.Name,
		Amount:       s.Amount,
		Currency:     s.Currency,
		Type:         s.Type,
		Category:     s.Category,
		Frequency:    s.Frequency,
		MonthlyDates: append([]int(nil), s.MonthlyDates...),
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		Merchant:     s.Merchant,
		Description:  s.Description,
	}
}
