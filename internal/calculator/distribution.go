// Package calculator splits a sale's vendor referral fee among the platform,
// the client that owns the marketplace and the referrer.
package calculator

import (
	"fmt"

	"github.com/mmynk/commissions/internal/money"
)

// Residues are the exact remainders discarded by each rate multiplication,
// in 1/money.RateScale of a minor unit.
type Residues struct {
	VendorReferralFee money.Residue
	PlatformFee       money.Residue
	ClientShare       money.Residue
}

// Breakdown is the full result of one distribution, including every
// intermediate value so the calculation can be audited and explained.
type Breakdown struct {
	// Gross is the price the customer paid.
	Gross money.Money

	// VendorReferralFee is deducted from the vendor's proceeds, not charged
	// to the customer.
	VendorReferralFee money.Money

	// NetToServiceOwner is what the vendor keeps: Gross - VendorReferralFee.
	NetToServiceOwner money.Money

	// PlatformFee is the platform's cut of the referral fee.
	PlatformFee money.Money

	// Remainder is VendorReferralFee - PlatformFee, split between client and referrer.
	Remainder money.Money

	ClientShare money.Money

	// ReferrerShare is Remainder - ClientShare and absorbs all rounding of the split.
	ReferrerShare money.Money

	// Rules are the rates the breakdown was computed with.
	Rules RuleSet

	// RoundingAdjustment is how far ReferrerShare differs from rounding the
	// referrer's rate on its own. It is zero or one minor unit negative.
	RoundingAdjustment money.Money

	// ReroutedReferrerShare is the referrer share that was added to PlatformFee
	// because Rules.ReferrerShareToPlatform was set. Remainder then equals
	// ClientShare and ReferrerShare is zero.
	ReroutedReferrerShare money.Money

	Residues Residues
}

// CalculateDistribution splits gross according to rules.
//
// Order of operations:
//
//	vendor_referral_fee  = gross × vendor_referral_rate
//	net_to_service_owner = gross − vendor_referral_fee
//	platform_fee         = vendor_referral_fee × platform_fee_rate
//	remainder            = vendor_referral_fee − platform_fee
//	client_share         = remainder × client_share_rate
//	referrer_share       = remainder − client_share
//
// When rules.ReferrerShareToPlatform is set the referrer share is then added
// to platform_fee and zeroed, leaving client_share untouched.
//
// Every multiplication rounds half up on the minor unit. The referrer share is
// derived by subtraction so client_share + referrer_share == remainder exactly.
// The function is pure and safe for concurrent use.
func CalculateDistribution(gross money.Money, rules RuleSet) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: %s", ErrNegativeAmount, gross)
	}
	if err := rules.Validate(); err != nil {
		return Breakdown{}, err
	}

	vendorFee, vendorResidue := gross.MultiplyByRate(rules.VendorReferralRate)
	net, err := gross.Subtract(vendorFee)
	if err != nil {
		return Breakdown{}, err
	}

	platformFee, platformResidue := vendorFee.MultiplyByRate(rules.PlatformFeeRate)
	remainder, err := vendorFee.Subtract(platformFee)
	if err != nil {
		return Breakdown{}, err
	}

	clientShare, clientResidue := remainder.MultiplyByRate(rules.ClientShareRate)
	referrerShare, err := remainder.Subtract(clientShare)
	if err != nil {
		return Breakdown{}, err
	}

	standalone, _ := remainder.MultiplyByRate(rules.ReferrerShareRate())
	adjustment, err := referrerShare.Subtract(standalone)
	if err != nil {
		return Breakdown{}, err
	}

	// Zero in the gross currency, including the currency-less zero value.
	rerouted, err := gross.Subtract(gross)
	if err != nil {
		return Breakdown{}, err
	}
	if rules.ReferrerShareToPlatform {
		if platformFee, err = platformFee.Add(referrerShare); err != nil {
			return Breakdown{}, err
		}
		rerouted, referrerShare = referrerShare, rerouted
		remainder = clientShare
		adjustment = referrerShare
	}

	return Breakdown{
		Gross:                 gross,
		VendorReferralFee:     vendorFee,
		NetToServiceOwner:     net,
		PlatformFee:           platformFee,
		Remainder:             remainder,
		ClientShare:           clientShare,
		ReferrerShare:         referrerShare,
		Rules:                 rules,
		RoundingAdjustment:    adjustment,
		ReroutedReferrerShare: rerouted,
		Residues: Residues{
			VendorReferralFee: vendorResidue,
			PlatformFee:       platformResidue,
			ClientShare:       clientResidue,
		},
	}, nil
}

// Verify re-checks the conservation equations of b:
//
//	vendor_referral_fee + net_to_service_owner == gross
//	platform_fee + client_share + referrer_share == vendor_referral_fee
//
// It is used on breakdowns read back from storage or received over the wire.
func (b Breakdown) Verify() error {
	cur := b.Gross.Currency()
	for _, m := range []money.Money{
		b.VendorReferralFee, b.NetToServiceOwner, b.PlatformFee,
		b.Remainder, b.ClientShare, b.ReferrerShare, b.RoundingAdjustment,
		b.ReroutedReferrerShare,
	} {
		if m.Currency() != cur {
			return fmt.Errorf("%w: mixed currencies %s and %s", ErrUnbalanced, cur, m.Currency())
		}
	}
	if err := b.Rules.Validate(); err != nil {
		return err
	}
	if b.Gross.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeAmount, b.Gross)
	}
	if b.VendorReferralFee.Minor()+b.NetToServiceOwner.Minor() != b.Gross.Minor() {
		return fmt.Errorf("%w: fee %s + net %s != gross %s",
			ErrUnbalanced, b.VendorReferralFee, b.NetToServiceOwner, b.Gross)
	}
	if b.PlatformFee.Minor()+b.Remainder.Minor() != b.VendorReferralFee.Minor() {
		return fmt.Errorf("%w: platform fee %s + remainder %s != referral fee %s",
			ErrUnbalanced, b.PlatformFee, b.Remainder, b.VendorReferralFee)
	}
	if b.ClientShare.Minor()+b.ReferrerShare.Minor() != b.Remainder.Minor() {
		return fmt.Errorf("%w: client %s + referrer %s != remainder %s",
			ErrUnbalanced, b.ClientShare, b.ReferrerShare, b.Remainder)
	}
	if b.ReroutedReferrerShare.Minor() > b.PlatformFee.Minor() {
		return fmt.Errorf("%w: rerouted share %s exceeds platform fee %s",
			ErrUnbalanced, b.ReroutedReferrerShare, b.PlatformFee)
	}
	if !b.Rules.ReferrerShareToPlatform && !b.ReroutedReferrerShare.IsZero() {
		return fmt.Errorf("%w: rerouted share %s without platform routing",
			ErrUnbalanced, b.ReroutedReferrerShare)
	}
	if b.Rules.ReferrerShareToPlatform && !b.ReferrerShare.IsZero() {
		return fmt.Errorf("%w: referrer share %s with platform routing",
			ErrUnbalanced, b.ReferrerShare)
	}
	for _, m := range []money.Money{
		b.VendorReferralFee, b.NetToServiceOwner, b.PlatformFee,
		b.ClientShare, b.ReferrerShare, b.ReroutedReferrerShare,
	} {
		if m.IsNegative() {
			return fmt.Errorf("%w: negative share %s", ErrUnbalanced, m)
		}
	}
	return nil
}
