package service

import "time"

const (
	// CommissionServiceName is the fully-qualified name of the CommissionService service.
	CommissionServiceName = "commissions.v1.CommissionService"
	// RuleServiceName is the fully-qualified name of the RuleService service.
	RuleServiceName = "commissions.v1.RuleService"
)

// Procedure paths, in the form Connect expects: /package.Service/Method.
const (
	PreviewDistributionProcedure = "/commissions.v1.CommissionService/PreviewDistribution"
	RecordDistributionProcedure  = "/commissions.v1.CommissionService/RecordDistribution"
	GetDistributionProcedure     = "/commissions.v1.CommissionService/GetDistribution"
	ListDistributionsProcedure   = "/commissions.v1.CommissionService/ListDistributions"
	GetEarningsProcedure         = "/commissions.v1.CommissionService/GetEarnings"

	SetServiceRuleProcedure = "/commissions.v1.RuleService/SetServiceRule"
	SetClientRuleProcedure  = "/commissions.v1.RuleService/SetClientRule"
	ResolveRulesProcedure   = "/commissions.v1.RuleService/ResolveRules"
)

// Amount is a monetary value on the wire. Amount is a decimal string in
// major units ("99.99"), Currency an ISO 4217 code.
type Amount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Rates are percentages on the wire ("20%", "12.5%").
type Rates struct {
	VendorReferral string `json:"vendor_referral"`
	PlatformFee    string `json:"platform_fee"`
	ClientShare    string `json:"client_share"`
	ReferrerShare  string `json:"referrer_share,omitempty"`

	// ReferrerShareToPlatform sends the referrer share to the platform.
	ReferrerShareToPlatform bool `json:"referrer_share_to_platform,omitempty"`
}

// Residues are the rounding remainders in 1/10000 of a minor unit.
type Residues struct {
	VendorReferralFee int64 `json:"vendor_referral_fee"`
	PlatformFee       int64 `json:"platform_fee"`
	ClientShare       int64 `json:"client_share"`
}

// Distribution is a computed or recorded breakdown.
type Distribution struct {
	EntryID    string `json:"entry_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	ServiceID  string `json:"service_id,omitempty"`
	VendorID   string `json:"vendor_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	ReferrerID string `json:"referrer_id,omitempty"`

	Gross              Amount `json:"gross"`
	VendorReferralFee  Amount `json:"vendor_referral_fee"`
	NetToServiceOwner  Amount `json:"net_to_service_owner"`
	PlatformFee        Amount `json:"platform_fee"`
	Remainder          Amount `json:"remainder"`
	ClientShare        Amount `json:"client_share"`
	ReferrerShare      Amount `json:"referrer_share"`
	RoundingAdjustment Amount `json:"rounding_adjustment"`

	// ReroutedReferrerShare is set when the referrer share went to the platform.
	ReroutedReferrerShare *Amount `json:"rerouted_referrer_share,omitempty"`

	Rules    Rates    `json:"rules"`
	Residues Residues `json:"residues"`
	Steps    []string `json:"steps"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Credit is one wallet credit instruction.
type Credit struct {
	PartyID string `json:"party_id"`
	Role    string `json:"role"`
	Amount  Amount `json:"amount"`
}

// RuleOrigins names the level each resolved rate came from.
type RuleOrigins struct {
	VendorReferral string `json:"vendor_referral"`
	PlatformFee    string `json:"platform_fee"`
	ClientShare    string `json:"client_share"`
	AppliedPolicy  string `json:"applied_policy,omitempty"`
}

type PreviewDistributionRequest struct {
	ServiceID  string `json:"service_id"`
	ClientID   string `json:"client_id"`
	ReferrerID string `json:"referrer_id"`
	Gross      Amount `json:"gross"`

	// Rules, when set, are used as given instead of being resolved from the
	// stored configuration. ServiceID is then optional.
	Rules *Rates `json:"rules,omitempty"`
}

type PreviewDistributionResponse struct {
	Distribution Distribution `json:"distribution"`
	Origins      *RuleOrigins `json:"origins,omitempty"`
}

type RecordDistributionRequest struct {
	OrderID    string `json:"order_id"`
	ServiceID  string `json:"service_id"`
	ClientID   string `json:"client_id"`
	ReferrerID string `json:"referrer_id"`
	Gross      Amount `json:"gross"`
}

type RecordDistributionResponse struct {
	Distribution Distribution `json:"distribution"`
	Credits      []Credit     `json:"credits"`

	// AlreadyRecorded is true when the order had been recorded by an earlier
	// call; Distribution is then the stored entry.
	AlreadyRecorded bool `json:"already_recorded"`
}

type GetDistributionRequest struct {
	OrderID string `json:"order_id"`
}

type GetDistributionResponse struct {
	Distribution Distribution `json:"distribution"`
	Credits      []Credit     `json:"credits"`
}

type ListDistributionsRequest struct {
	ClientID   string `json:"client_id"`
	ReferrerID string `json:"referrer_id"`
	VendorID   string `json:"vendor_id"`
	Limit      int    `json:"limit"`
}

type ListDistributionsResponse struct {
	Distributions []Distribution `json:"distributions"`
}

type GetEarningsRequest struct {
	PartyID string `json:"party_id"`
}

// Earnings is the total credited to a party in one role and currency.
type Earnings struct {
	Role   string `json:"role"`
	Total  Amount `json:"total"`
	Orders int    `json:"orders"`
}

type GetEarningsResponse struct {
	PartyID  string     `json:"party_id"`
	Earnings []Earnings `json:"earnings"`
}

// ServiceRule is a vendor service's commission configuration.
type ServiceRule struct {
	ServiceID          string `json:"service_id"`
	VendorID           string `json:"vendor_id"`
	VendorReferralRate string `json:"vendor_referral_rate"`

	// PlatformFeeRate is empty when the service does not override it.
	PlatformFeeRate string     `json:"platform_fee_rate,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type SetServiceRuleRequest struct {
	Rule ServiceRule `json:"rule"`
}

type SetServiceRuleResponse struct {
	Rule ServiceRule `json:"rule"`
}

// ClientRule holds a client's overrides. Empty fields inherit the defaults.
type ClientRule struct {
	ClientID              string     `json:"client_id"`
	PlatformFeeRate       string     `json:"platform_fee_rate,omitempty"`
	ClientShareRate       string     `json:"client_share_rate,omitempty"`
	MissingReferrerPolicy string     `json:"missing_referrer_policy,omitempty"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`
}

type SetClientRuleRequest struct {
	Rule ClientRule `json:"rule"`
}

type SetClientRuleResponse struct {
	Rule ClientRule `json:"rule"`
}

type ResolveRulesRequest struct {
	ServiceID   string `json:"service_id"`
	ClientID    string `json:"client_id"`
	HasReferrer bool   `json:"has_referrer"`
}

type ResolveRulesResponse struct {
	VendorID string      `json:"vendor_id"`
	Rules    Rates       `json:"rules"`
	Origins  RuleOrigins `json:"origins"`
}
