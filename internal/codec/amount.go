package codec

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a decimal that travels as a bare JSON number. The raw number
// text is handed to decimal directly so no float64 is ever involved.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if err := a.Decimal.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("amount %s: %w", b, err)
	}
	return nil
}
