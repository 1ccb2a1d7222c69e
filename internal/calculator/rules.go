package calculator

import (
	"fmt"

	"github.com/mmynk/commissions/internal/money"
)

// RuleSet holds the rates applied to one distribution.
type RuleSet struct {
	// VendorReferralRate is the share of the gross amount the service-owning
	// vendor pays out as a referral fee. Set per service by the vendor.
	VendorReferralRate money.Rate

	// PlatformFeeRate is the platform's cut of the referral fee (not of the
	// gross amount).
	PlatformFeeRate money.Rate

	// ClientShareRate is the client's portion of what remains after the
	// platform fee. The referrer receives the rest.
	ClientShareRate money.Rate

	// ReferrerShareToPlatform moves the referrer's computed share to the
	// platform fee. The client's share is unaffected. Used for sales that had
	// no referrer.
	ReferrerShareToPlatform bool
}

// NewRuleSet returns a validated rule set.
func NewRuleSet(vendorReferral, platformFee, clientShare money.Rate) (RuleSet, error) {
	rs := RuleSet{
		VendorReferralRate: vendorReferral,
		PlatformFeeRate:    platformFee,
		ClientShareRate:    clientShare,
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rs, nil
}

// Validate checks that every rate lies in [0, 1].
func (r RuleSet) Validate() error {
	fields := []struct {
		name string
		rate money.Rate
	}{
		{"vendor referral rate", r.VendorReferralRate},
		{"platform fee rate", r.PlatformFeeRate},
		{"client share rate", r.ClientShareRate},
	}
	for _, f := range fields {
		if !f.rate.Valid() {
			return fmt.Errorf("%w: %s of %d basis points is outside [0, %d]",
				ErrInvalidRuleSet, f.name, f.rate.BasisPoints(), money.RateScale)
		}
	}
	return nil
}

// ReferrerShareRate is the referrer's portion of the post-platform-fee remainder.
func (r RuleSet) ReferrerShareRate() money.Rate {
	return r.ClientShareRate.Complement()
}
