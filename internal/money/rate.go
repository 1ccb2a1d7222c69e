package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RateScale is the number of basis points in 100%.
const RateScale = 10000

var ErrInvalidRate = errors.New("invalid rate")

var hundred = decimal.NewFromInt(100)

// Rate is a proportion in [0, 1] stored as basis points (0..RateScale).
// Rate(2000) is 20%.
type Rate int64

// FromBasisPoints returns the rate bp/10000.
func FromBasisPoints(bp int64) (Rate, error) {
	r := Rate(bp)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %d basis points is outside [0, %d]", ErrInvalidRate, bp, RateScale)
	}
	return r, nil
}

// FromPercent converts a percentage such as 12.5 into a rate. Percentages
// finer than one basis point (0.01%) cannot be represented and are rejected.
func FromPercent(p float64) (Rate, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("%w: non-finite percentage", ErrInvalidRate)
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: %v%% is outside [0, 100]", ErrInvalidRate, p)
	}
	return fromPercentDecimal(decimal.NewFromFloat(p), strconv.FormatFloat(p, 'g', -1, 64))
}

// ParsePercent parses a percentage string such as "20" or "12.5".
// A trailing "%" is allowed. Exponent notation is not.
func ParsePercent(s string) (Rate, error) {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err := checkNumber(value); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRate, err)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a percentage", ErrInvalidRate, quoteInput(value))
	}
	if d.Sign() < 0 || d.GreaterThan(hundred) {
		return 0, fmt.Errorf("%w: %s is outside [0, 100]", ErrInvalidRate, quoteInput(value))
	}
	return fromPercentDecimal(d, value)
}

// MustPercent is like FromPercent but panics on error. Intended for
// package-level values and tests.
func MustPercent(p float64) Rate {
	r, err := FromPercent(p)
	if err != nil {
		panic(err)
	}
	return r
}

func fromPercentDecimal(d decimal.Decimal, input string) (Rate, error) {
	bp := d.Shift(2)
	if !bp.IsInteger() {
		return 0, fmt.Errorf("%w: %s is finer than one basis point", ErrInvalidRate, quoteInput(input))
	}
	return Rate(bp.IntPart()), nil
}

// Valid reports whether r lies in [0, 1].
func (r Rate) Valid() bool { return r >= 0 && r <= RateScale }

func (r Rate) BasisPoints() int64 { return int64(r) }

// Complement returns 1 - r.
func (r Rate) Complement() Rate { return RateScale - r }

// Percent returns the rate as a percentage, e.g. 12.5 for Rate(1250).
func (r Rate) Percent() decimal.Decimal {
	return decimal.New(int64(r), -2)
}

func (r Rate) String() string {
	return r.Percent().String() + "%"
}
