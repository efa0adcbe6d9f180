package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/homeapp/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 1, 31, 17, 21, 28, 791000000, time.UTC)
	whole := time.Date(2026, 1, 31, 17, 21, 28, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "fraction utc", input: "2026-01-31T17:21:28.791000", want: want},
		{name: "short fraction utc", input: "2026-01-31T17:21:28.791", want: want},
		{name: "whole second utc", input: "2026-01-31T17:21:28", want: whole},
		{name: "fraction with zulu", input: "2026-01-31T17:21:28.791000Z", want: want},
		{name: "fraction with offset", input: "2026-01-31T12:21:28.791000-05:00", want: want},
		{name: "whole second with zulu", input: "2026-01-31T17:21:28Z", want: whole},
		{name: "whole second with offset", input: "2026-02-01T01:21:28+08:00", want: whole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2026-01-31", "31/01/2026 17:21", "2026-01-31 17:21:28"} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseTimestamp(input)
			assert.ErrorIs(t, err, ErrMalformedTimestamp)
			assert.True(t, got.IsZero())
		})
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	toronto, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)

	inputs := []string{
		"2026-01-31T17:21:28.791000",
		"2026-01-31T17:21:28",
		"2026-07-04T09:00:00.125000Z",
		"2026-07-04T09:00:00-04:00",
	}
	codecs := map[string]*Codec{
		"utc-fraction": Must(ProfileUTCFraction, nil),
		"local-offset": Must(ProfileLocalOffset, toronto),
	}

	for name, c := range codecs {
		for _, input := range inputs {
			t.Run(name+"/"+input, func(t *testing.T) {
				first, err := ParseTimestamp(input)
				require.NoError(t, err)

				encoded := c.FormatTimestamp(first)
				second, err := ParseTimestamp(encoded)
				require.NoError(t, err)
				assert.True(t, first.Equal(second), "%s re-decoded as %s", encoded, second)
			})
		}
	}
}

func TestFormatTimestampProfiles(t *testing.T) {
	toronto, err := time.LoadLocation("America/Toronto")
	require.NoError(t, err)
	at := time.Date(2026, 1, 31, 17, 21, 28, 791000000, time.UTC)

	assert.Equal(t, "2026-01-31T17:21:28.791000", Must(ProfileUTCFraction, nil).FormatTimestamp(at))
	assert.Equal(t, "2026-01-31T12:21:28.791000-05:00", Must(ProfileLocalOffset, toronto).FormatTimestamp(at))

	_, err = New("iso", nil)
	assert.Error(t, err)
}

// Every wire record must carry exactly the fields of its mapping table, in
// table order, with matching JSON names.
func TestFieldTablesMatchRecords(t *testing.T) {
	tables := []struct {
		name   string
		fields Fields
		record any
		model  any
	}{
		{"transaction", TransactionFields, TransactionRecord{}, domain.Transaction{}},
		{"draft", DraftFields, DraftRecord{}, domain.Draft{}},
		{"create result", CreateResultFields, CreateResultRecord{}, CreateResult{}},
		{"schedule", ScheduleFields, ScheduleRecord{}, domain.PaymentSchedule{}},
		{"schedule input", ScheduleInputFields, ScheduleInputRecord{}, domain.ScheduleInput{}},
		{"balance", BalanceFields, BalanceRecord{}, domain.Balance{}},
		{"balance input", BalanceInputFields, BalanceInputRecord{}, domain.BalanceInput{}},
		{"balance result", BalanceResultFields, BalanceResultRecord{}, domain.BalanceResult{}},
		{"cash balance", CashBalanceFields, CashBalanceRecord{}, domain.CashBalance{}},
		{"cash transaction", CashTransactionFields, CashTransactionRecord{}, domain.CashTransaction{}},
		{"cash input", CashInputFields, CashInputRecord{}, domain.CashInput{}},
		{"trend", TrendFields, TrendRecord{}, domain.SpendingTrend{}},
		{"trend month", TrendMonthFields, TrendMonthRecord{}, domain.TrendMonth{}},
		{"current month", CurrentMonthFields, CurrentMonthRecord{}, domain.CurrentMonthSummary{}},
		{"snapshot", SnapshotFields, SnapshotRecord{}, nil},
		{"breakdown", BreakdownFields, BreakdownRecord{}, domain.CategoryBreakdown{}},
		{"upload request", UploadRequestFields, UploadRequestRecord{}, nil},
		{"upload target", UploadTargetFields, UploadTargetRecord{}, domain.UploadTarget{}},
		{"confirm request", ConfirmRequestFields, ConfirmRequestRecord{}, nil},
		{"confirm result", ConfirmResultFields, ConfirmResultRecord{}, nil},
		{"view target", ViewTargetFields, ViewTargetRecord{}, domain.ViewTarget{}},
	}

	for _, tt := range tables {
		t.Run(tt.name, func(t *testing.T) {
			rt := reflect.TypeOf(tt.record)
			require.Equal(t, len(tt.fields), rt.NumField())

			for i, spec := range tt.fields {
				f := rt.Field(i)
				assert.Equal(t, spec.Domain, f.Name)
				tag := strings.Split(f.Tag.Get("json"), ",")[0]
				assert.Equal(t, spec.Wire, tag, spec.Domain)
				if spec.Fallback == DefaultWhenAbsent {
					assert.NotEmpty(t, spec.Default, spec.Domain)
				}

				if tt.model != nil {
					_, ok := reflect.TypeOf(tt.model).FieldByName(spec.Domain)
					assert.True(t, ok, "model has no field %s", spec.Domain)
				}
			}
		})
	}
}

func TestDecodeTransactionPolicies(t *testing.T) {
	body := `[
		{"id":"t1","amount":12.50,"category":"Groceries","transaction_type":"Debit","created_at":"2026-01-31T17:21:28.791000","merchant":"Costco","description":"","receipt_id":null},
		{"id":"t2","amount":"3000","category":"Salary","transaction_type":"Credit","currency":"RMB","created_at":"2026-01-30T08:00:00Z","recurring_payment":true,"postal_code":"M5V 2T6","receipt_id":"r-9"}
	]`

	got, err := DecodeTransactions([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "12.5", first.Amount.String())
	assert.Equal(t, domain.CAD, first.Currency, "missing currency defaults")
	require.NotNil(t, first.Merchant)
	assert.Equal(t, "Costco", *first.Merchant)
	assert.Nil(t, first.Description, "blank optional string becomes nil")
	assert.Nil(t, first.ReceiptID)
	assert.Nil(t, first.RecurringPayment)
	assert.False(t, first.HasReceipt())

	second := got[1]
	assert.Equal(t, domain.RMB, second.Currency)
	assert.Equal(t, domain.Credit, second.Type)
	assert.True(t, second.IsRecurring())
	assert.True(t, second.HasReceipt())
	assert.Equal(t, "M5V 2T6", *second.PostalCode)
}

func TestDecodeTransactionsFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		is   error
	}{
		{
			name: "malformed timestamp",
			body: `[{"id":"t1","amount":1,"category":"Car","transaction_type":"Debit","created_at":"Jan 31"}]`,
			is:   ErrMalformedTimestamp,
		},
		{
			name: "missing created_at",
			body: `[{"id":"t1","amount":1,"category":"Car","transaction_type":"Debit"}]`,
			is:   ErrMissingField,
		},
		{
			name: "unknown category",
			body: `[{"id":"t1","amount":1,"category":"Pets","transaction_type":"Debit","created_at":"2026-01-31T17:21:28"}]`,
			is:   ErrInvalidValue,
		},
		{
			name: "unknown type",
			body: `[{"id":"t1","amount":1,"category":"Car","transaction_type":"Refund","created_at":"2026-01-31T17:21:28"}]`,
			is:   ErrInvalidValue,
		},
		{
			name: "negative amount",
			body: `[{"id":"t1","amount":-4,"category":"Car","transaction_type":"Debit","created_at":"2026-01-31T17:21:28"}]`,
			is:   ErrInvalidValue,
		},
		{
			name: "envelope without key",
			body: `{"items":[]}`,
			is:   ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransactions([]byte(tt.body))
			assert.Nil(t, got, "no partial list")
			assert.ErrorIs(t, err, tt.is)

			var fe *FieldError
			assert.True(t, errors.As(err, &fe))
		})
	}

	_, err := DecodeTransactions([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeTransactionsEnvelope(t *testing.T) {
	body := `{"expenses":[{"id":"t1","amount":7,"category":"Gift","transaction_type":"Debit","created_at":"2026-01-31T17:21:28"}]}`
	got, err := DecodeTransactions([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].ID)

	empty, err := DecodeTransactions([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAmountsStayExact(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":0.1,"b":0.2,"c":12345678901234567.89}`), &v))

	assert.Equal(t, "0.3", v.A.Add(v.B.Decimal).String())
	assert.Equal(t, "12345678901234567.89", v.C.String())

	out, err := json.Marshal(NewAmount(decimal.RequireFromString("19.99")))
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(out))
}

func TestEncodeDraft(t *testing.T) {
	c := Must(ProfileUTCFraction, nil)
	blank := ""
	d := domain.Draft{
		Amount:      decimal.RequireFromString("45.10"),
		Category:    domain.CategoryDineOut,
		Type:        domain.Debit,
		CreatedAt:   time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Merchant:    domain.StringPtr("Pho House"),
		Description: &blank,
	}

	body, err := c.EncodeDraft(d)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, "45.1", string(raw["amount"]))
	assert.Equal(t, `"Dine Out"`, string(raw["category"]))
	assert.Equal(t, `"Debit"`, string(raw["transaction_type"]))
	assert.Equal(t, `"CAD"`, string(raw["currency"]))
	assert.Equal(t, `"2026-02-03T04:05:06.000000"`, string(raw["created_at"]))
	assert.Equal(t, `"Pho House"`, string(raw["merchant"]))
	assert.NotContains(t, raw, "description")
	assert.NotContains(t, raw, "receipt_id")
}

func TestEncodeTransactionRoundTrip(t *testing.T) {
	c := Must(ProfileUTCFraction, nil)
	in := domain.Transaction{
		ID:        "t9",
		Amount:    decimal.RequireFromString("0.07"),
		Category:  domain.CategoryUtilities,
		Type:      domain.Debit,
		Currency:  domain.RMB,
		CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 250000000, time.UTC),
		ReceiptID: domain.StringPtr("r1"),
	}

	body, err := c.EncodeTransaction(in)
	require.NoError(t, err)

	var r TransactionRecord
	require.NoError(t, json.Unmarshal(body, &r))
	out, err := DecodeTransaction(r)
	require.NoError(t, err)

	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.Currency, out.Currency)
	assert.Equal(t, *in.ReceiptID, *out.ReceiptID)
}

func TestDecodeCreateResult(t *testing.T) {
	res, err := DecodeCreateResult([]byte(`{"message":"ok","expense_id":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, CreateResult{ID: "abc", Message: "ok"}, res)

	_, err = DecodeCreateResult([]byte(`{"message":"ok"}`))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestEncodeScheduleInput(t *testing.T) {
	c := Must(ProfileUTCFraction, nil)
	in := domain.ScheduleInput{
		Name:         "Hydro",
		Amount:       decimal.NewFromInt(80),
		Currency:     domain.CAD,
		Type:         domain.Debit,
		Category:     domain.CategoryUtilities,
		Frequency:    domain.Weekly,
		MonthlyDates: []int{5},
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	body, err := c.EncodeScheduleInput(in)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "monthly_dates", "weekly schedules carry no days")
	assert.NotContains(t, string(body), "end_date")

	in.Frequency = domain.Monthly
	body, err = c.EncodeScheduleInput(in)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"monthly_dates":[5]`)
}

func TestDecodeSchedules(t *testing.T) {
	body := `[{"id":"s1","name":"Rent","amount":2000,"currency":"CAD","transaction_type":"Debit","category":"Housing",
		"frequency":"Monthly","monthly_dates":[1],"start_date":"2026-01-01T00:00:00","end_date":null,
		"created_at":"2026-01-01T00:00:00.000000","updated_at":"2026-01-02T00:00:00Z"}]`

	got, err := DecodeSchedules([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Monthly, got[0].Frequency)
	assert.Equal(t, []int{1}, got[0].MonthlyDates)
	assert.Nil(t, got[0].EndDate)

	_, err = DecodeSchedules([]byte(`[{"id":"s1","name":"Rent","amount":1,"transaction_type":"Debit","category":"Housing","frequency":"Daily","start_date":"2026-01-01T00:00:00","created_at":"2026-01-01T00:00:00","updated_at":"2026-01-01T00:00:00"}]`))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDecodeLedger(t *testing.T) {
	balances, err := DecodeBalances([]byte(`[{"id":"b1","cad_balance":1500.25,"rmb_balance":300,"record_time":"2026-01-31T17:21:28",
		"note":"","reconciled":false,"cad_off_amount":-12.5,"rmb_off_amount":0}]`))
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "-12.5", balances[0].CADOffAmount.String())
	assert.Nil(t, balances[0].Note)

	_, err = DecodeBalances([]byte(`[{"id":"b1","cad_balance":1,"rmb_balance":1,"record_time":"2026-01-31T17:21:28","cad_off_amount":0,"rmb_off_amount":0}]`))
	assert.ErrorIs(t, err, ErrMissingField, "reconciled is required")

	res, err := DecodeBalanceResult([]byte(`{"message":"saved","balance_id":"b2","reconciled":true,"cad_off_amount":0,"rmb_off_amount":0}`))
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, "b2", res.BalanceID)

	status, err := DecodeCashStatus([]byte(`{"balance":{"record_type":"cash","balance":-20,"last_updated_date":"2026-01-31"},
		"transactions":[{"record_type":"cash_tx","amount":20,"type":"Debit","timestamp":"2026-01-31T10:00:00"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "-20", status.Balance.Balance.String())
	require.Len(t, status.Transactions, 1)
	assert.Equal(t, "-20", status.Transactions[0].Signed().String())
}

func TestDecodeInsights(t *testing.T) {
	trend, err := DecodeTrend([]byte(`{"months_requested":3,"category_filter":null,
		"current_month":{"month":"2026-03","net_expense":410.5,"days_remaining":12},
		"previous_month_earning":5000,
		"trend":[{"month":"2026-01","net_expense":1200},{"month":"2026-02","net_expense":980.75}]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, trend.MonthsRequested)
	assert.Nil(t, trend.CategoryFilter)
	assert.Equal(t, 12, trend.CurrentMonth.DaysRemaining)
	require.Len(t, trend.Trend, 2)
	assert.Equal(t, "980.75", trend.Trend[1].NetExpense.String())

	_, err = DecodeTrend([]byte(`{"months_requested":3,"previous_month_earning":0}`))
	assert.ErrorIs(t, err, ErrMissingField)

	breakdown, err := DecodeBreakdown([]byte(`{"last_month":{"month":"2026-02","net_expense":900,"net_by_category":{"Groceries":400.1},"count_by_category":{"Groceries":7}},
		"current_year":{"year":"2026","net_expense":2100,"net_by_category":{},"count_by_category":{}},"last_year":null}`))
	require.NoError(t, err)
	require.NotNil(t, breakdown.LastMonth)
	assert.Equal(t, "2026-02", breakdown.LastMonth.Period)
	assert.Equal(t, "400.1", breakdown.LastMonth.NetByCategory["Groceries"].String())
	assert.Equal(t, 7, breakdown.LastMonth.CountByCategory["Groceries"])
	assert.Equal(t, "2026", breakdown.Snapshot(domain.PeriodCurrentYear).Period)
	assert.Nil(t, breakdown.LastYear)
}

func TestDecodeReceiptResponses(t *testing.T) {
	target, err := DecodeUploadTarget([]byte(`{"upload_url":"https://storage.example/put?sig=1","expires_in":300}`))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, target.ExpiresIn)

	id, err := DecodeConfirmResult([]byte(`{"message":"attached","receipt_id":"r-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "r-1", id)

	view, err := DecodeViewTarget([]byte(`{"view_url":"https://storage.example/get","expires_in":60}`))
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", view.ContentType)

	_, err = DecodeViewTarget([]byte(`{"expires_in":60}`))
	assert.ErrorIs(t, err, ErrMissingField)
}
