package codec

import (
	"fmt"

	"github.com/dvloznov/homeapp/internal/domain"
)

var ScheduleFields = Fields{
	{Domain: "ID", Wire: "id", Fallback: Required},
	{Domain: "Name", Wire: "name", Fallback: Required},
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Currency", Wire: "currency", Fallback: DefaultWhenAbsent, Default: string(domain.DefaultCurrency)},
	{Domain: "Type", Wire: "transaction_type", Fallback: Required},
	{Domain: "Category", Wire: "category", Fallback: Required},
	{Domain: "Frequency", Wire: "frequency", Fallback: Required},
	{Domain: "MonthlyDates", Wire: "monthly_dates", Fallback: NilWhenAbsent},
	{Domain: "StartDate", Wire: "start_date", Fallback: Required},
	{Domain: "EndDate", Wire: "end_date", Fallback: NilWhenAbsent},
	{Domain: "Merchant", Wire: "merchant", Fallback: NilWhenAbsent},
	{Domain: "Description", Wire: "description", Fallback: NilWhenAbsent},
	{Domain: "CreatedAt", Wire: "created_at", Fallback: Required},
	{Domain: "UpdatedAt", Wire: "updated_at", Fallback: Required},
}

var ScheduleInputFields = Fields{
	{Domain: "Name", Wire: "name", Fallback: Required},
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Currency", Wire: "currency", Fallback: Required},
	{Domain: "Type", Wire: "transaction_type", Fallback: Required},
	{Domain: "Category", Wire: "category", Fallback: Required},
	{Domain: "Frequency", Wire: "frequency", Fallback: Required},
	{Domain: "MonthlyDates", Wire: "monthly_dates", Fallback: NilWhenAbsent},
	{Domain: "StartDate", Wire: "start_date", Fallback: Required},
	{Domain: "EndDate", Wire: "end_date", Fallback: NilWhenAbsent},
	{Domain: "Merchant", Wire: "merchant", Fallback: NilWhenAbsent},
	{Domain: "Description", Wire: "description", Fallback: NilWhenAbsent},
}

type ScheduleRecord struct {
	ID           *string `json:"id"`
	Name         *string `json:"name"`
	Amount       *Amount `json:"amount"`
	Currency     *string `json:"currency"`
	Type         *string `json:"transaction_type"`
	Category     *string `json:"category"`
	Frequency    *string `json:"frequency"`
	MonthlyDates []int   `json:"monthly_dates"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Merchant     *string `json:"merchant"`
	Description  *string `json:"description"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

type ScheduleInputRecord struct {
	Name         *string `json:"name"`
	Amount       *Amount `json:"amount"`
	Currency     *string `json:"currency"`
	Type         *string `json:"transaction_type"`
	Category     *string `json:"category"`
	Frequency    *string `json:"frequency"`
	MonthlyDates []int   `json:"monthly_dates,omitempty"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date,omitempty"`
	Merchant     *string `json:"merchant,omitempty"`
	Description  *string `json:"description,omitempty"`
}

func DecodeSchedule(r ScheduleRecord) (domain.PaymentSchedule, error) {
	d := newDecoder("payment schedule", ScheduleFields)
	s := domain.PaymentSchedule{
		ID:          d.required("ID", r.ID),
		Name:        d.required("Name", r.Name),
		Amount:      d.amount("Amount", r.Amount, false).Decimal,
		StartDate:   d.requiredTimestamp("StartDate", r.StartDate),
		EndDate:     d.timestamp("EndDate", r.EndDate),
		Merchant:    d.str("Merchant", r.Merchant),
		Description: d.str("Description", r.Description),
		CreatedAt:   d.requiredTimestamp("CreatedAt", r.CreatedAt),
		UpdatedAt:   d.requiredTimestamp("UpdatedAt", r.UpdatedAt),
	}
	if len(r.MonthlyDates) > 0 {
		s.MonthlyDates = append([]int(nil), r.MonthlyDates...)
	}
	var err error
	s.Currency, err = domain.ParseCurrency(d.required("Currency", r.Currency))
	d.check("Currency", err)
	s.Type, err = domain.ParseTransactionType(d.required("Type", r.Type))
	d.check("Type", err)
	s.Category, err = domain.ParseCategory(d.required("Category", r.Category))
	d.check("Category", err)
	s.Frequency, err = domain.ParseScheduleFrequency(d.required("Frequency", r.Frequency))
	d.check("Frequency", err)
	if d.err != nil {
		return domain.PaymentSchedule{}, d.err
	}
	return s, nil
}

// DecodeSchedules accepts a bare array or a {"schedules": [...]} envelope.
func DecodeSchedules(data []byte) ([]domain.PaymentSchedule, error) {
	var records []ScheduleRecord
	if err := decodeList("payment schedule list", "schedules", data, &records); err != nil {
		return nil, err
	}
	out := make([]domain.PaymentSchedule, 0, len(records))
	for i, r := range records {
		s, err := DecodeSchedule(r)
		if err != nil {
			return nil, fmt.Errorf("payment schedule %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Codec) EncodeScheduleInput(in domain.ScheduleInput) ([]byte, error) {
	amount := NewAmount(in.Amount)
	r := ScheduleInputRecord{
		Name:        ptr(in.Name),
		Amount:      &amount,
		Currency:    ptr(string(in.Currency)),
		Type:        ptr(string(in.Type)),
		Category:    ptr(string(in.Category)),
		Frequency:   ptr(string(in.Frequency)),
		StartDate:   ptr(c.FormatTimestamp(in.StartDate)),
		EndDate:     c.formatOptional(in.EndDate),
		Merchant:    blankToNil(in.Merchant),
		Description: blankToNil(in.Description),
	}
	if in.Frequency == domain.Monthly {
		r.MonthlyDates = append([]int(nil), in.MonthlyDates...)
	}
	return marshal("payment schedule", r)
}
