package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Money renders a decimal amount on the wire as a quoted string with
// exactly two decimal places, e.g. "50.00".
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func NewMoneyPtr(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := NewMoney(*d)
	return &m
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
