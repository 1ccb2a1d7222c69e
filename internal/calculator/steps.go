package calculator

import (
	"fmt"

	"github.com/mmynk/commissions/internal/money"
)

// Step is one line of the human-readable explanation of a breakdown.
type Step struct {
	Label   string
	Formula string
	Amount  money.Money
}

func (s Step) String() string {
	return fmt.Sprintf("%s: %s = %s", s.Label, s.Formula, s.Amount)
}

// Steps walks through the calculation in the order it was performed, e.g.
//
//	Vendor referral fee: 1000.00 USD × 20% = 200.00 USD
//	Net to service owner: 1000.00 USD − 200.00 USD = 800.00 USD
//	...
func (b Breakdown) Steps() []Step {
	if b.Rules.ReferrerShareToPlatform {
		return b.reroutedSteps()
	}
	return []Step{
		{
			Label:   "Vendor referral fee",
			Formula: fmt.Sprintf("%s × %s", b.Gross, b.Rules.VendorReferralRate),
			Amount:  b.VendorReferralFee,
		},
		{
			Label:   "Net to service owner",
			Formula: fmt.Sprintf("%s − %s", b.Gross, b.VendorReferralFee),
			Amount:  b.NetToServiceOwner,
		},
		{
			Label:   "Platform fee",
			Formula: fmt.Sprintf("%s × %s", b.VendorReferralFee, b.Rules.PlatformFeeRate),
			Amount:  b.PlatformFee,
		},
		{
			Label:   "Remaining referral fee",
			Formula: fmt.Sprintf("%s − %s", b.VendorReferralFee, b.PlatformFee),
			Amount:  b.Remainder,
		},
		{
			Label:   "Client share",
			Formula: fmt.Sprintf("%s × %s", b.Remainder, b.Rules.ClientShareRate),
			Amount:  b.ClientShare,
		},
		{
			Label:   "Referrer share",
			Formula: fmt.Sprintf("%s − %s", b.Remainder, b.ClientShare),
			Amount:  b.ReferrerShare,
		},
	}
}

// reroutedSteps explains a breakdown whose referrer share went to the platform.
func (b Breakdown) reroutedSteps() []Step {
	basePlatform := b.shifted(b.PlatformFee, -b.ReroutedReferrerShare.Minor())
	split := b.shifted(b.Remainder, b.ReroutedReferrerShare.Minor())
	return []Step{
		{
			Label:   "Vendor referral fee",
			Formula: fmt.Sprintf("%s × %s", b.Gross, b.Rules.VendorReferralRate),
			Amount:  b.VendorReferralFee,
		},
		{
			Label:   "Net to service owner",
			Formula: fmt.Sprintf("%s − %s", b.Gross, b.VendorReferralFee),
			Amount:  b.NetToServiceOwner,
		},
		{
			Label:   "Platform fee",
			Formula: fmt.Sprintf("%s × %s", b.VendorReferralFee, b.Rules.PlatformFeeRate),
			Amount:  basePlatform,
		},
		{
			Label:   "Remaining referral fee",
			Formula: fmt.Sprintf("%s − %s", b.VendorReferralFee, basePlatform),
			Amount:  split,
		},
		{
			Label:   "Client share",
			Formula: fmt.Sprintf("%s × %s", split, b.Rules.ClientShareRate),
			Amount:  b.ClientShare,
		},
		{
			Label:   "Unreferred share to platform",
			Formula: fmt.Sprintf("%s − %s", split, b.ClientShare),
			Amount:  b.ReroutedReferrerShare,
		},
		{
			Label:   "Platform total",
			Formula: fmt.Sprintf("%s + %s", basePlatform, b.ReroutedReferrerShare),
			Amount:  b.PlatformFee,
		},
	}
}

// shifted returns m moved by delta minor units. Verified breakdowns never
// leave the valid range, so m is returned unchanged on error.
func (b Breakdown) shifted(m money.Money, delta int64) money.Money {
	out, err := money.NewSigned(m.Minor()+delta, m.Currency())
	if err != nil {
		return m
	}
	return out
}
