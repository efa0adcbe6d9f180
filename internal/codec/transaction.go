package codec

import (
	"strconv"

	"github.com/dvloznov/homeapp/internal/domain"
)

// TransactionFields maps domain.Transaction to its wire record.
var TransactionFields = Fields{
	{Domain: "ID", Wire: "id", Fallback: Required},
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Category", Wire: "category", Fallback: Required},
	{Domain: "Type", Wire: "transaction_type", Fallback: Required},
	{Domain: "Currency", Wire: "currency", Fallback: DefaultWhenAbsent, Default: string(domain.DefaultCurrency)},
	{Domain: "CreatedAt", Wire: "created_at", Fallback: Required},
	{Domain: "Merchant", Wire: "merchant", Fallback: NilWhenAbsent},
	{Domain: "Description", Wire: "description", Fallback: NilWhenAbsent},
	{Domain: "ReceiptID", Wire: "receipt_id", Fallback: NilWhenAbsent},
	{Domain: "RecurringPayment", Wire: "recurring_payment", Fallback: NilWhenAbsent},
	{Domain: "PostalCode", Wire: "postal_code", Fallback: NilWhenAbsent},
}

// DraftFields maps domain.Draft to the create payload.
var DraftFields = Fields{
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Category", Wire: "category", Fallback: Required},
	{Domain: "Type", Wire: "transaction_type", Fallback: Required},
	{Domain: "Currency", Wire: "currency", Fallback: DefaultWhenAbsent, Default: string(domain.DefaultCurrency)},
	{Domain: "CreatedAt", Wire: "created_at", Fallback: Required},
	{Domain: "Merchant", Wire: "merchant", Fallback: NilWhenAbsent},
	{Domain: "Description", Wire: "description", Fallback: NilWhenAbsent},
	{Domain: "RecurringPayment", Wire: "recurring_payment", Fallback: NilWhenAbsent},
	{Domain: "PostalCode", Wire: "postal_code", Fallback: NilWhenAbsent},
}

// CreateResultFields maps the create response.
var CreateResultFields = Fields{
	{Domain: "Message", Wire: "message", Fallback: NilWhenAbsent},
	{Domain: "ID", Wire: "expense_id", Fallback: Required},
}

type TransactionRecord struct {
	ID               *string `json:"id"`
	Amount           *Amount `json:"amount"`
	Category         *string `json:"category"`
	Type             *string `json:"transaction_type"`
	Currency         *string `json:"currency,omitempty"`
	CreatedAt        *string `json:"created_at"`
	Merchant         *string `json:"merchant,omitempty"`
	Description      *string `json:"description,omitempty"`
	ReceiptID        *string `json:"receipt_id,omitempty"`
	RecurringPayment *bool   `json:"recurring_payment,omitempty"`
	PostalCode       *string `json:"postal_code,omitempty"`
}

type DraftRecord struct {
	Amount           *Amount `json:"amount"`
	Category         *string `json:"category"`
	Type             *string `json:"transaction_type"`
	Currency         *string `json:"currency,omitempty"`
	CreatedAt        *string `json:"created_at"`
	Merchant         *string `json:"merchant,omitempty"`
	Description      *string `json:"description,omitempty"`
	RecurringPayment *bool   `json:"recurring_payment,omitempty"`
	PostalCode       *string `json:"postal_code,omitempty"`
}

type CreateResultRecord struct {
	Message *string `json:"message"`
	ID      *string `json:"expense_id"`
}

// CreateResult is the backend's answer to a create call.
type CreateResult struct {
	ID      string
	Message string
}

// DecodeTransaction maps one wire record. Unknown categories or types and
// negative amounts are decode failures, never coerced.
func DecodeTransaction(r TransactionRecord) (domain.Transaction, error) {
	d := newDecoder("transaction", TransactionFields)
	t := domain.Transaction{
		ID:               d.required("ID", r.ID),
		Amount:           d.amount("Amount", r.Amount, false).Decimal,
		CreatedAt:        d.requiredTimestamp("CreatedAt", r.CreatedAt),
		Merchant:         d.str("Merchant", r.Merchant),
		Description:      d.str("Description", r.Description),
		ReceiptID:        d.str("ReceiptID", r.ReceiptID),
		RecurringPayment: copyBool(r.RecurringPayment),
		PostalCode:       d.str("PostalCode", r.PostalCode),
	}
	var err error
	t.Category, err = domain.ParseCategory(d.required("Category", r.Category))
	d.check("Category", err)
	t.Type, err = domain.ParseTransactionType(d.required("Type", r.Type))
	d.check("Type", err)
	t.Currency, err = domain.ParseCurrency(d.required("Currency", r.Currency))
	d.check("Currency", err)
	if d.err != nil {
		return domain.Transaction{}, d.err
	}
	return t, nil
}

// DecodeTransactions decodes a list response. Both a bare array and the
// legacy {"expenses": [...]} envelope are accepted. One bad record fails the
// whole list.
func DecodeTransactions(data []byte) ([]domain.Transaction, error) {
	var records []TransactionRecord
	if err := decodeList("transaction list", "expenses", data, &records); err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, 0, len(records))
	for i, r := range records {
		t, err := DecodeTransaction(r)
		if err != nil {
			return nil, &FieldError{Record: "transaction list", Field: strconv.Itoa(i), Err: err}
		}
		out = append(out, t)
	}
	return out, nil
}

// DecodeCreateResult decodes {message, expense_id}.
func DecodeCreateResult(data []byte) (CreateResult, error) {
	var r CreateResultRecord
	if err := unmarshal("create result", data, &r); err != nil {
		return CreateResult{}, err
	}
	d := newDecoder("create result", CreateResultFields)
	res := CreateResult{ID: d.required("ID", r.ID)}
	if m := d.str("Message", r.Message); m != nil {
		res.Message = *m
	}
	return res, d.err
}

// EncodeDraft renders the create payload.
func (c *Codec) EncodeDraft(in domain.Draft) ([]byte, error) {
	currency := in.Currency
	if currency == "" {
		currency = domain.Currency(DraftFields.spec("Currency").Default)
	}
	amount := NewAmount(in.Amount)
	return marshal("draft", DraftRecord{
		Amount:           &amount,
		Category:         ptr(string(in.Category)),
		Type:             ptr(string(in.Type)),
		Currency:         ptr(string(currency)),
		CreatedAt:        ptr(c.FormatTimestamp(in.CreatedAt)),
		Merchant:         blankToNil(in.Merchant),
		Description:      blankToNil(in.Description),
		RecurringPayment: copyBool(in.RecurringPayment),
		PostalCode:       blankToNil(in.PostalCode),
	})
}

// EncodeTransaction renders a full record for replace semantics.
func (c *Codec) EncodeTransaction(t domain.Transaction) ([]byte, error) {
	amount := NewAmount(t.Amount)
	return marshal("transaction", TransactionRecord{
		ID:               ptr(t.ID),
		Amount:           &amount,
		Category:         ptr(string(t.Category)),
		Type:             ptr(string(t.Type)),
		Currency:         ptr(string(t.Currency)),
		CreatedAt:        ptr(c.FormatTimestamp(t.CreatedAt)),
		Merchant:         blankToNil(t.Merchant),
		Description:      blankToNil(t.Description),
		ReceiptID:        blankToNil(t.ReceiptID),
		RecurringPayment: copyBool(t.RecurringPayment),
		PostalCode:       blankToNil(t.PostalCode),
	})
}

func ptr[T any](v T) *T { return &v }

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return copyString(s)
}
