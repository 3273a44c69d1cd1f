package model

import "github.com/shopspring/decimal"

// Decimal carries amounts and weights without floating point rounding.
type Decimal struct {
	value decimal.Decimal
}

func NewDecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{
		value: d,
	}, nil
}

func NewDecimalFromInt(i int64) Decimal {
	return Decimal{
		value: decimal.NewFromInt(i),
	}
}

func MustDecimal(s string) Decimal {
	return Decimal{
		value: decimal.RequireFromString(s),
	}
}

func (d Decimal) Add(other Decimal) Decimal {
	return Decimal{
		value: d.value.Add(other.value),
	}
}

func (d Decimal) IsNegative() bool {
	return d.value.IsNegative()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.value.Equal(other.value)
}

// SumDecimals adds up every value. The sum of nothing is zero.
func SumDecimals(values ...Decimal) Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v.value)
	}
	return Decimal{value: sum}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.value.String()), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	return d.value.UnmarshalJSON(b)
}

func (d Decimal) String() string {
	return d.value.String()
}
