package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/rules"
	"github.com/mmynk/commissions/internal/wallet"
)

// ErrInvalidRequest marks a request that is missing or has malformed fields.
var ErrInvalidRequest = errors.New("invalid request")

// parseGross converts a wire amount into money. A leading minus sign yields a
// negative amount so the engine can reject it as such.
func parseGross(a Amount) (money.Money, error) {
	value := strings.TrimSpace(a.Amount)
	if value == "" {
		return money.Money{}, fmt.Errorf("%w: gross amount is required", ErrInvalidRequest)
	}
	abs, negative := strings.CutPrefix(value, "-")
	m, err := money.FromDecimal(abs, a.Currency)
	if err != nil || !negative {
		return m, err
	}
	return money.NewSigned(-m.Minor(), m.Currency())
}

func parseRate(field, value string) (money.Rate, error) {
	r, err := money.ParsePercent(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return r, nil
}

// parseOptionalRate returns nil for an empty value.
func parseOptionalRate(field, value string) (*money.Rate, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	r, err := parseRate(field, value)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func parseRuleSet(r Rates) (calculator.RuleSet, error) {
	vendor, err := parseRate("vendor_referral", r.VendorReferral)
	if err != nil {
		return calculator.RuleSet{}, err
	}
	platform, err := parseRate("platform_fee", r.PlatformFee)
	if err != nil {
		return calculator.RuleSet{}, err
	}
	share, err := parseRate("client_share", r.ClientShare)
	if err != nil {
		return calculator.RuleSet{}, err
	}
	rs, err := calculator.NewRuleSet(vendor, platform, share)
	if err != nil {
		return calculator.RuleSet{}, err
	}
	rs.ReferrerShareToPlatform = r.ReferrerShareToPlatform
	return rs, nil
}

func toAmount(m money.Money) Amount {
	return Amount{Amount: m.Amount(), Currency: m.Currency()}
}

func toRates(rs calculator.RuleSet) Rates {
	return Rates{
		VendorReferral:          rs.VendorReferralRate.String(),
		PlatformFee:             rs.PlatformFeeRate.String(),
		ClientShare:             rs.ClientShareRate.String(),
		ReferrerShare:           rs.ReferrerShareRate().String(),
		ReferrerShareToPlatform: rs.ReferrerShareToPlatform,
	}
}

func toOrigins(res rules.Resolution) RuleOrigins {
	return RuleOrigins{
		VendorReferral: string(res.VendorReferralOrigin),
		PlatformFee:    string(res.PlatformFeeOrigin),
		ClientShare:    string(res.ClientShareOrigin),
		AppliedPolicy:  string(res.AppliedPolicy),
	}
}

func toDistribution(b calculator.Breakdown) Distribution {
	steps := b.Steps()
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = s.String()
	}
	d := Distribution{
		Gross:              toAmount(b.Gross),
		VendorReferralFee:  toAmount(b.VendorReferralFee),
		NetToServiceOwner:  toAmount(b.NetToServiceOwner),
		PlatformFee:        toAmount(b.PlatformFee),
		Remainder:          toAmount(b.Remainder),
		ClientShare:        toAmount(b.ClientShare),
		ReferrerShare:      toAmount(b.ReferrerShare),
		RoundingAdjustment: toAmount(b.RoundingAdjustment),
		Rules:              toRates(b.Rules),
		Residues: Residues{
			VendorReferralFee: int64(b.Residues.VendorReferralFee),
			PlatformFee:       int64(b.Residues.PlatformFee),
			ClientShare:       int64(b.Residues.ClientShare),
		},
		Steps: lines,
	}
	if b.Rules.ReferrerShareToPlatform {
		rerouted := toAmount(b.ReroutedReferrerShare)
		d.ReroutedReferrerShare = &rerouted
	}
	return d
}

func entryToDistribution(e ledger.Entry) Distribution {
	d := toDistribution(e.Breakdown())
	ref := e.OrderRef()
	createdAt := e.CreatedAt()
	d.EntryID = e.ID()
	d.OrderID = ref.OrderID
	d.ServiceID = ref.ServiceID
	d.VendorID = ref.VendorID
	d.ClientID = ref.ClientID
	d.ReferrerID = ref.ReferrerID
	d.CreatedAt = &createdAt
	return d
}

func toCredits(credits []wallet.Credit) []Credit {
	out := make([]Credit, len(credits))
	for i, c := range credits {
		out[i] = Credit{PartyID: c.PartyID, Role: string(c.Role), Amount: toAmount(c.Amount)}
	}
	return out
}

func formatOptionalRate(r *money.Rate) string {
	if r == nil {
		return ""
	}
	return r.String()
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

func toServiceRule(r *models.ServiceRule) ServiceRule {
	return ServiceRule{
		ServiceID:          r.ServiceID,
		VendorID:           r.VendorID,
		VendorReferralRate: r.VendorReferralRate.String(),
		PlatformFeeRate:    formatOptionalRate(r.PlatformFeeRate),
		UpdatedAt:          unixTime(r.UpdatedAt),
	}
}

func fromServiceRule(r ServiceRule) (*models.ServiceRule, error) {
	if r.ServiceID == "" || r.VendorID == "" {
		return nil, fmt.Errorf("%w: service_id and vendor_id are required", ErrInvalidRequest)
	}
	vendor, err := parseRate("vendor_referral_rate", r.VendorReferralRate)
	if err != nil {
		return nil, err
	}
	platform, err := parseOptionalRate("platform_fee_rate", r.PlatformFeeRate)
	if err != nil {
		return nil, err
	}
	return &models.ServiceRule{
		ServiceID:          r.ServiceID,
		VendorID:           r.VendorID,
		VendorReferralRate: vendor,
		PlatformFeeRate:    platform,
	}, nil
}

func toClientRule(r *models.ClientRule) ClientRule {
	return ClientRule{
		ClientID:              r.ClientID,
		PlatformFeeRate:       formatOptionalRate(r.PlatformFeeRate),
		ClientShareRate:       formatOptionalRate(r.ClientShareRate),
		MissingReferrerPolicy: string(r.MissingReferrerPolicy),
		UpdatedAt:             unixTime(r.UpdatedAt),
	}
}

func fromClientRule(r ClientRule) (*models.ClientRule, error) {
	if r.ClientID == "" {
		return nil, fmt.Errorf("%w: client_id is required", ErrInvalidRequest)
	}
	platform, err := parseOptionalRate("platform_fee_rate", r.PlatformFeeRate)
	if err != nil {
		return nil, err
	}
	share, err := parseOptionalRate("client_share_rate", r.ClientShareRate)
	if err != nil {
		return nil, err
	}
	policy := models.MissingReferrerPolicy(r.MissingReferrerPolicy)
	if policy != "" && !policy.Valid() {
		return nil, fmt.Errorf("%w: %q", rules.ErrInvalidPolicy, policy)
	}
	return &models.ClientRule{
		ClientID:              r.ClientID,
		PlatformFeeRate:       platform,
		ClientShareRate:       share,
		MissingReferrerPolicy: policy,
	}, nil
}
