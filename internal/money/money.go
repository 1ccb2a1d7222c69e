// Package money provides exact fixed-point monetary values and rates.
//
// Amounts are held as int64 counts of a currency's minor unit (cents for USD)
// and rates as basis points, so no computation ever touches a binary float.
package money

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// maxNumberLen bounds decimal input. Any valid amount or percentage fits well
// within it.
const maxNumberLen = 32

// checkNumber rejects input before it reaches the decimal parser. Exponent
// notation is refused since "1e20000000" parses into a value whose shifting
// and comparison cost grows with the exponent.
func checkNumber(s string) error {
	if len(s) > maxNumberLen {
		return fmt.Errorf("%s is longer than %d characters", quoteInput(s), maxNumberLen)
	}
	if strings.ContainsAny(s, "eE") {
		return fmt.Errorf("%s uses exponent notation", quoteInput(s))
	}
	return nil
}

// quoteInput quotes user input for error messages, truncated to maxNumberLen.
func quoteInput(s string) string {
	if len(s) > maxNumberLen {
		return fmt.Sprintf("%q...", s[:maxNumberLen])
	}
	return fmt.Sprintf("%q", s)
}

// Money is an immutable amount in minor units of a single currency.
// The zero value is a zero amount with no currency.
type Money struct {
	minor    int64
	currency string
	scale    int32
}

// Residue is the exact part of a rate multiplication that rounding discarded,
// expressed in 1/RateScale of a minor unit. It is negative when the result was
// rounded up.
type Residue int64

// New returns a non-negative amount of minor units.
func New(minor int64, code string) (Money, error) {
	if minor < 0 {
		return Money{}, fmt.Errorf("%w: negative amount %d", ErrInvalidAmount, minor)
	}
	return NewSigned(minor, code)
}

// NewSigned returns an amount of minor units of any sign. It exists for
// reversals and adjustments; regular amounts should use New or FromDecimal.
func NewSigned(minor int64, code string) (Money, error) {
	if minor == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}
	cur, scale, err := lookupCurrency(code)
	if err != nil {
		return Money{}, err
	}
	return Money{minor: minor, currency: cur, scale: scale}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(code string) (Money, error) {
	return New(0, code)
}

// FromDecimal parses a decimal string such as "99.99" into minor units.
// The value must be non-negative and carry no more fractional digits than the
// currency's minor unit allows; trailing zeros beyond that are accepted.
// Exponent notation and input longer than 32 characters are rejected.
func FromDecimal(value string, code string) (Money, error) {
	value = strings.TrimSpace(value)
	if err := checkNumber(value); err != nil {
		return Money{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s is not a decimal number", ErrInvalidAmount, quoteInput(value))
	}
	return fromDecimal(d, value, code)
}

// FromFloat converts a float amount using its shortest decimal representation.
func FromFloat(value float64, code string) (Money, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Money{}, fmt.Errorf("%w: non-finite value", ErrInvalidAmount)
	}
	return fromDecimal(decimal.NewFromFloat(value), strconv.FormatFloat(value, 'g', -1, 64), code)
}

// fromDecimal converts d; input is what the caller supplied, for errors.
func fromDecimal(d decimal.Decimal, input string, code string) (Money, error) {
	if d.Sign() < 0 {
		return Money{}, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, quoteInput(input))
	}
	cur, scale, err := lookupCurrency(code)
	if err != nil {
		return Money{}, err
	}
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places for %s",
			ErrInvalidAmount, quoteInput(input), scale, cur)
	}
	if shifted.GreaterThan(maxMinor) {
		return Money{}, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, quoteInput(input))
	}
	return Money{minor: shifted.IntPart(), currency: cur, scale: scale}, nil
}

// lookupCurrency normalizes an ISO 4217 code and returns its minor-unit exponent.
func lookupCurrency(code string) (string, int32, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", 0, fmt.Errorf("%w: unknown currency %q", ErrInvalidAmount, code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return unit.String(), int32(scale), nil
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.minor }

// Currency returns the ISO 4217 code.
func (m Money) Currency() string { return m.currency }

// Scale returns the number of decimal places of the currency's minor unit.
func (m Money) Scale() int32 { return m.scale }

func (m Money) IsZero() bool     { return m.minor == 0 }
func (m Money) IsNegative() bool { return m.minor < 0 }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -m.scale)
}

// Amount formats the amount in major units without the currency, e.g. "99.99".
func (m Money) Amount() string {
	return m.Decimal().StringFixed(m.scale)
}

// String formats the amount with its currency, e.g. "1000.00 USD".
func (m Money) String() string {
	return m.Amount() + " " + m.currency
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	sum := m.minor + other.minor
	if (other.minor > 0 && sum < m.minor) || (other.minor < 0 && sum > m.minor) {
		return Money{}, fmt.Errorf("%w: addition overflows", ErrInvalidAmount)
	}
	return Money{minor: sum, currency: m.currency, scale: m.scale}, nil
}

// Subtract returns m - other. The result may be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	diff := m.minor - other.minor
	if (other.minor < 0 && diff < m.minor) || (other.minor > 0 && diff > m.minor) {
		return Money{}, fmt.Errorf("%w: subtraction overflows", ErrInvalidAmount)
	}
	return Money{minor: diff, currency: m.currency, scale: m.scale}, nil
}

// MultiplyByRate returns round_half_up(m × r) and the residue the rounding
// discarded. Negative amounts round half away from zero. The intermediate
// product is 128 bits wide, so a 100% rate cannot overflow.
//
// r must be valid; MultiplyByRate panics otherwise.
func (m Money) MultiplyByRate(r Rate) (Money, Residue) {
	if !r.Valid() {
		panic(fmt.Sprintf("money: rate out of range: %d basis points", int64(r)))
	}
	abs := uint64(m.minor)
	if m.minor < 0 {
		abs = uint64(-m.minor)
	}
	hi, lo := bits.Mul64(abs, uint64(r))
	q, rem := bits.Div64(hi, lo, RateScale)
	residue := int64(rem)
	if 2*rem >= RateScale {
		q++
		residue -= RateScale
	}
	result := int64(q)
	if m.minor < 0 {
		result, residue = -result, -residue
	}
	return Money{minor: result, currency: m.currency, scale: m.scale}, Residue(residue)
}
