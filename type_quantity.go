package bags

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a quantity is not a finite number >= 0.
var ErrInvalidQuantity = errors.New("quantity must be a finite number >= 0")

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// A quantity is a float64 in range: at most 309 integer digits, and no digit
// below the smallest float64 subnormal.
const (
	maxIntegerDigits = 309
	minExponent      = -324
)

// inRange reports whether d is within the float64 range. It only inspects the
// exponent and the coefficient length, d is never expanded.
func inRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := int64(d.Exponent())
	return exp >= minExponent && int64(d.NumDigits())+exp <= maxIntegerDigits
}

// Quantity is the amount of a coin held. It is exact, and never negative once
// it went through ParseQuantity or NewQuantity.
type Quantity struct {
	value decimal.Decimal
}

// Q returns a Quantity from a numeric constant. It does not validate the sign,
// it is meant for tests and literals.
func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

// NewQuantity validates a float and returns it as a Quantity.
func NewQuantity(v float64) (Quantity, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Quantity{}, fmt.Errorf("%v: %w", v, ErrInvalidQuantity)
	}
	return Quantity{value: decimal.NewFromFloat(v)}, nil
}

// ParseQuantity parses a user provided quantity like "0.5" or "12".
// Non numeric, negative and out of float64 range inputs are rejected.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("%q: %w", s, ErrInvalidQuantity)
	}
	if d.IsNegative() || !inRange(d) {
		return Quantity{}, fmt.Errorf("%q: %w", s, ErrInvalidQuantity)
	}
	if d.IsZero() {
		// drop the exponent of inputs like "0e400".
		d = decimal.Zero
	}
	return Quantity{value: d}, nil
}

func (q Quantity) Equal(p Quantity) bool       { return q.value.Equal(p.value) }
func (q Quantity) LessThan(p Quantity) bool    { return q.value.LessThan(p.value) }
func (q Quantity) GreaterThan(p Quantity) bool { return q.value.GreaterThan(p.value) }
func (q Quantity) IsNegative() bool            { return q.value.IsNegative() }
func (q Quantity) IsZero() bool                { return q.value.IsZero() }
func (q Quantity) String() string              { return q.value.String() }
func (q Quantity) Decimal() decimal.Decimal    { return q.value }

// MarshalJSON writes the quantity as a bare JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.value.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil || !inRange(d) {
		return fmt.Errorf("%.20s: %w", b, ErrInvalidQuantity)
	}
	if d.IsZero() {
		d = decimal.Zero
	}
	q.value = d
	return nil
}
