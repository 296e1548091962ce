package bags

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only reporting currency of a portfolio.
const Currency = money.USD

// Money represents a monetary value in USD.
type Money struct {
	value decimal.Decimal // as major unit value
}

// USD returns a Money from a numeric constant.
func USD[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// currency returns the money's currency definition
func currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, Currency).Currency()
}

// String returns the formatted value, e.g. "$100,000.00".
func (m Money) String() string {
	cur := currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the money with an explicit sign, "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool         { return m.value.Equal(n.value) }
func (m Money) IsZero() bool               { return m.value.IsZero() }
func (m Money) Add(n Money) Money          { return Money{value: m.value.Add(n.value)} }
func (m Money) Mul(q Quantity) Money       { return Money{value: m.value.Mul(q.value)} }
func (m Money) Decimal() decimal.Decimal   { return m.value }
func (m Money) GreaterThan(n Money) bool   { return m.value.GreaterThan(n.value) }
func (m Money) LessThan(n Money) bool      { return m.value.LessThan(n.value) }
func (m Money) InexactFloat64() float64    { return m.value.InexactFloat64() }
func (m Money) StringFixed(p int32) string { return m.value.StringFixed(p) }

// MarshalJSON writes the amount rounded to the currency fraction.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", Currency)
	w.Append("amount", m.value.Round(int32(currency().Fraction)))
	return w.MarshalJSON()
}
