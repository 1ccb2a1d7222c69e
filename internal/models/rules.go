package models

import "github.com/mmynk/commissions/internal/money"

// MissingReferrerPolicy decides what happens to the referrer's portion of a
// sale that has no referrer.
type MissingReferrerPolicy string

const (
	// PolicyNoReferral treats the sale as having no referral relationship:
	// the vendor pays no referral fee at all.
	PolicyNoReferral MissingReferrerPolicy = "no_referral"

	// PolicyClientTakesReferrerShare routes the whole post-platform-fee
	// remainder to the client.
	PolicyClientTakesReferrerShare MissingReferrerPolicy = "client_takes_referrer_share"

	// PolicyPlatformTakesReferrerShare adds the referrer's share to the
	// platform fee. The client keeps its own share.
	PolicyPlatformTakesReferrerShare MissingReferrerPolicy = "platform_takes_referrer_share"
)

// Valid reports whether p is a known policy.
func (p MissingReferrerPolicy) Valid() bool {
	switch p {
	case PolicyNoReferral, PolicyClientTakesReferrerShare, PolicyPlatformTakesReferrerShare:
		return true
	}
	return false
}

// ServiceRule is the commission configuration of one vendor service.
type ServiceRule struct {
	// ServiceID is the marketplace service this rule applies to.
	ServiceID string

	// VendorID owns the service.
	VendorID string

	// VendorReferralRate is the referral fee the vendor pays on each sale.
	VendorReferralRate money.Rate

	// PlatformFeeRate overrides the platform fee for this service when set.
	PlatformFeeRate *money.Rate

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// ClientRule holds per-client overrides. Nil fields inherit the defaults.
type ClientRule struct {
	// ClientID is the licensee operating the sub-marketplace.
	ClientID string

	PlatformFeeRate *money.Rate
	ClientShareRate *money.Rate

	// MissingReferrerPolicy is empty when the default policy applies.
	MissingReferrerPolicy MissingReferrerPolicy

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}
