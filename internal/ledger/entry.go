// Package ledger defines the immutable record of one order's commission
// distribution. Persisting and crediting entries is left to collaborators.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/commissions/internal/calculator"
)

var ErrInvalidEntry = errors.New("invalid ledger entry")

// OrderRef identifies the order a distribution belongs to and the parties
// that take part in it.
type OrderRef struct {
	// OrderID is unique per order; at most one entry may exist for it.
	OrderID string

	ServiceID string
	VendorID  string
	ClientID  string

	// ReferrerID is empty when the sale had no referrer.
	ReferrerID string
}

// Entry is a DistributionLedgerEntry. Its fields are only reachable through
// accessors, so an entry cannot change after Create.
type Entry struct {
	id        string
	ref       OrderRef
	breakdown calculator.Breakdown
	createdAt time.Time
}

// Create assembles a new entry for ref. rules must be the rule set the
// breakdown was computed with, and the breakdown must balance.
func Create(ref OrderRef, b calculator.Breakdown, rules calculator.RuleSet, at time.Time) (Entry, error) {
	if b.Rules != rules {
		return Entry{}, fmt.Errorf("%w: breakdown was computed with %+v, not %+v", ErrInvalidEntry, b.Rules, rules)
	}
	return build(uuid.New().String(), ref, b, at)
}

// Restore rebuilds an entry read back from storage, applying the same checks
// as Create.
func Restore(id string, ref OrderRef, b calculator.Breakdown, at time.Time) (Entry, error) {
	if id == "" {
		return Entry{}, fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	return build(id, ref, b, at)
}

func build(id string, ref OrderRef, b calculator.Breakdown, at time.Time) (Entry, error) {
	if ref.OrderID == "" {
		return Entry{}, fmt.Errorf("%w: missing order id", ErrInvalidEntry)
	}
	if b.Gross.Currency() == "" {
		return Entry{}, fmt.Errorf("%w: breakdown has no currency", ErrInvalidEntry)
	}
	if at.IsZero() {
		return Entry{}, fmt.Errorf("%w: missing timestamp", ErrInvalidEntry)
	}
	if err := b.Verify(); err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return Entry{id: id, ref: ref, breakdown: b, createdAt: at.UTC()}, nil
}

func (e Entry) ID() string                      { return e.id }
func (e Entry) OrderRef() OrderRef              { return e.ref }
func (e Entry) Breakdown() calculator.Breakdown { return e.breakdown }
func (e Entry) Rules() calculator.RuleSet       { return e.breakdown.Rules }
func (e Entry) CreatedAt() time.Time            { return e.createdAt }

// HasReferrer reports whether the order named a referrer.
func (e Entry) HasReferrer() bool { return e.ref.ReferrerID != "" }
