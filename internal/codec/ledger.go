package codec

import (
	"fmt"

	"github.com/dvloznov/homeapp/internal/domain"
)

var BalanceFields = Fields{
	{Domain: "ID", Wire: "id", Fallback: Required},
	{Domain: "CADBalance", Wire: "cad_balance", Fallback: Required},
	{Domain: "RMBBalance", Wire: "rmb_balance", Fallback: Required},
	{Domain: "RecordTime", Wire: "record_time", Fallback: Required},
	{Domain: "Note", Wire: "note", Fallback: NilWhenAbsent},
	{Domain: "Reconciled", Wire: "reconciled", Fallback: Required},
	{Domain: "CADOffAmount", Wire: "cad_off_amount", Fallback: Required},
	{Domain: "RMBOffAmount", Wire: "rmb_off_amount", Fallback: Required},
}

var BalanceInputFields = Fields{
	{Domain: "CADBalance", Wire: "cad_balance", Fallback: Required},
	{Domain: "RMBBalance", Wire: "rmb_balance", Fallback: Required},
	{Domain: "RecordTime", Wire: "record_time", Fallback: Required},
	{Domain: "Note", Wire: "note", Fallback: NilWhenAbsent},
}

var BalanceResultFields = Fields{
	{Domain: "Message", Wire: "message", Fallback: NilWhenAbsent},
	{Domain: "BalanceID", Wire: "balance_id", Fallback: Required},
	{Domain: "Reconciled", Wire: "reconciled", Fallback: Required},
	{Domain: "CADOffAmount", Wire: "cad_off_amount", Fallback: Required},
	{Domain: "RMBOffAmount", Wire: "rmb_off_amount", Fallback: Required},
}

var CashBalanceFields = Fields{
	{Domain: "RecordType", Wire: "record_type", Fallback: Required},
	{Domain: "Balance", Wire: "balance", Fallback: Required},
	{Domain: "LastUpdatedDate", Wire: "last_updated_date", Fallback: NilWhenAbsent},
}

var CashTransactionFields = Fields{
	{Domain: "RecordType", Wire: "record_type", Fallback: Required},
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Type", Wire: "type", Fallback: Required},
	{Domain: "Timestamp", Wire: "timestamp", Fallback: Required},
}

var CashInputFields = Fields{
	{Domain: "Amount", Wire: "amount", Fallback: Required},
	{Domain: "Type", Wire: "type", Fallback: Required},
}

type BalanceRecord struct {
	ID           *string `json:"id"`
	CADBalance   *Amount `json:"cad_balance"`
	RMBBalance   *Amount `json:"rmb_balance"`
	RecordTime   *string `json:"record_time"`
	Note         *string `json:"note"`
	Reconciled   *bool   `json:"reconciled"`
	CADOffAmount *Amount `json:"cad_off_amount"`
	RMBOffAmount *Amount `json:"rmb_off_amount"`
}

type BalanceInputRecord struct {
	CADBalance *Amount `json:"cad_balance"`
	RMBBalance *Amount `json:"rmb_balance"`
	RecordTime *string `json:"record_time"`
	Note       *string `json:"note,omitempty"`
}

type BalanceResultRecord struct {
	Message      *string `json:"message"`
	BalanceID    *string `json:"balance_id"`
	Reconciled   *bool   `json:"reconciled"`
	CADOffAmount *Amount `json:"cad_off_amount"`
	RMBOffAmount *Amount `json:"rmb_off_amount"`
}

type CashBalanceRecord struct {
	RecordType      *string `json:"record_type"`
	Balance         *Amount `json:"balance"`
	LastUpdatedDate *string `json:"last_updated_date"`
}

type CashTransactionRecord struct {
	RecordType *string `json:"record_type"`
	Amount     *Amount `json:"amount"`
	Type       *string `json:"type"`
	Timestamp  *string `json:"timestamp"`
}

type CashInputRecord struct {
	Amount *Amount `json:"amount"`
	Type   *string `json:"type"`
}

type CashStatusRecord struct {
	Balance      *CashBalanceRecord      `json:"balance"`
	Transactions []CashTransactionRecord `json:"transactions"`
}

func DecodeBalance(r BalanceRecord) (domain.Balance, error) {
	d := newDecoder("balance", BalanceFields)
	b := domain.Balance{
		ID:           d.required("ID", r.ID),
		CADBalance:   d.amount("CADBalance", r.CADBalance, true).Decimal,
		RMBBalance:   d.amount("RMBBalance", r.RMBBalance, true).Decimal,
		RecordTime:   d.requiredTimestamp("RecordTime", r.RecordTime),
		Note:         d.str("Note", r.Note),
		Reconciled:   d.flag("Reconciled", r.Reconciled),
		CADOffAmount: d.amount("CADOffAmount", r.CADOffAmount, true).Decimal,
		RMBOffAmount: d.amount("RMBOffAmount", r.RMBOffAmount, true).Decimal,
	}
	if d.err != nil {
		return domain.Balance{}, d.err
	}
	return b, nil
}

// DecodeBalances accepts a bare array or a {"balances": [...]} envelope.
func DecodeBalances(data []byte) ([]domain.Balance, error) {
	var records []BalanceRecord
	if err := decodeList("balance list", "balances", data, &records); err != nil {
		return nil, err
	}
	out := make([]domain.Balance, 0, len(records))
	for i, r := range records {
		b, err := DecodeBalance(r)
		if err != nil {
			return nil, fmt.Errorf("balance %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func DecodeBalanceResult(data []byte) (domain.BalanceResult, error) {
	var r BalanceResultRecord
	if err := unmarshal("balance result", data, &r); err != nil {
		return domain.BalanceResult{}, err
	}
	d := newDecoder("balance result", BalanceResultFields)
	res := domain.BalanceResult{
		BalanceID:    d.required("BalanceID", r.BalanceID),
		Reconciled:   d.flag("Reconciled", r.Reconciled),
		CADOffAmount: d.amount("CADOffAmount", r.CADOffAmount, true).Decimal,
		RMBOffAmount: d.amount("RMBOffAmount", r.RMBOffAmount, true).Decimal,
	}
	if m := d.str("Message", r.Message); m != nil {
		res.Message = *m
	}
	if d.err != nil {
		return domain.BalanceResult{}, d.err
	}
	return res, nil
}

func (c *Codec) EncodeBalanceInput(in domain.BalanceInput) ([]byte, error) {
	cad, rmb := NewAmount(in.CADBalance), NewAmount(in.RMBBalance)
	return marshal("balance", BalanceInputRecord{
		CADBalance: &cad,
		RMBBalance: &rmb,
		RecordTime: ptr(c.FormatTimestamp(in.RecordTime)),
		Note:       blankToNil(in.Note),
	})
}

// DecodeCashStatus decodes {balance, transactions}. Cash balances may be
// negative; individual cash transaction amounts may not.
func DecodeCashStatus(data []byte) (domain.CashStatus, error) {
	var r CashStatusRecord
	if err := unmarshal("cash status", data, &r); err != nil {
		return domain.CashStatus{}, err
	}
	if r.Balance == nil {
		return domain.CashStatus{}, &FieldError{Record: "cash status", Field: "balance", Err: ErrMissingField}
	}

	d := newDecoder("cash balance", CashBalanceFields)
	status := domain.CashStatus{
		Balance: domain.CashBalance{
			RecordType: d.required("RecordType", r.Balance.RecordType),
			Balance:    d.amount("Balance", r.Balance.Balance, true).Decimal,
		},
	}
	if s := d.str("LastUpdatedDate", r.Balance.LastUpdatedDate); s != nil {
		status.Balance.LastUpdatedDate = *s
	}
	if d.err != nil {
		return domain.CashStatus{}, d.err
	}

	status.Transactions = make([]domain.CashTransaction, 0, len(r.Transactions))
	for i, tr := range r.Transactions {
		ct, err := decodeCashTransaction(tr)
		if err != nil {
			return domain.CashStatus{}, fmt.Errorf("cash transaction %d: %w", i, err)
		}
		status.Transactions = append(status.Transactions, ct)
	}
	return status, nil
}

func decodeCashTransaction(r CashTransactionRecord) (domain.CashTransaction, error) {
	d := newDecoder("cash transaction", CashTransactionFields)
	ct := domain.CashTransaction{
		RecordType: d.required("RecordType", r.RecordType),
		Amount:     d.amount("Amount", r.Amount, false).Decimal,
		Timestamp:  d.requiredTimestamp("Timestamp", r.Timestamp),
	}
	var err error
	ct.Type, err = domain.ParseTransactionType(d.required("Type", r.Type))
	d.check("Type", err)
	if d.err != nil {
		return domain.CashTransaction{}, d.err
	}
	return ct, nil
}

func EncodeCashInput(in domain.CashInput) ([]byte, error) {
	amount := NewAmount(in.Amount)
	return marshal("cash transaction", CashInputRecord{
		Amount: &amount,
		Type:   ptr(string(in.Type)),
	})
}
