package calculator

import (
	"errors"

	"github.com/mmynk/commissions/internal/money"
)

var (
	ErrNegativeAmount = errors.New("gross amount cannot be negative")
	ErrInvalidRuleSet = errors.New("invalid commission rule set")
	ErrUnbalanced     = errors.New("distribution does not balance")
)

// ErrorKind names the class of a distribution input error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidAmount
	KindNegativeAmount
	KindInvalidRate
	KindInvalidRuleSet
)

// Classify maps err onto one of the distribution error kinds so callers can
// switch over them exhaustively. Errors outside the taxonomy are KindUnknown.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNegativeAmount):
		return KindNegativeAmount
	case errors.Is(err, ErrInvalidRuleSet):
		return KindInvalidRuleSet
	case errors.Is(err, money.ErrInvalidRate):
		return KindInvalidRate
	case errors.Is(err, money.ErrInvalidAmount):
		return KindInvalidAmount
	default:
		return KindUnknown
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidAmount:
		return "invalid_amount"
	case KindNegativeAmount:
		return "negative_amount"
	case KindInvalidRate:
		return "invalid_rate"
	case KindInvalidRuleSet:
		return "invalid_rule_set"
	default:
		return "unknown"
	}
}
