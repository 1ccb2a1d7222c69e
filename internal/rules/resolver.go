// Package rules resolves the commission rule set for an order from global
// defaults and per-service and per-client overrides.
package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/storage"
)

var (
	ErrServiceRuleNotFound = errors.New("no commission rule for service")
	ErrInvalidPolicy       = errors.New("invalid missing-referrer policy")
)

// Source looks up stored overrides. Implementations return an error
// wrapping storage.ErrNotFound when a rule does not exist.
type Source interface {
	GetServiceRule(ctx context.Context, serviceID string) (*models.ServiceRule, error)
	GetClientRule(ctx context.Context, clientID string) (*models.ClientRule, error)
}

// Defaults are the platform-wide values used when no override applies.
type Defaults struct {
	PlatformFeeRate money.Rate
	ClientShareRate money.Rate
	MissingReferrer models.MissingReferrerPolicy
}

// Validate checks the rates and the policy.
func (d Defaults) Validate() error {
	if !d.PlatformFeeRate.Valid() || !d.ClientShareRate.Valid() {
		return fmt.Errorf("%w: default platform fee %d or client share %d basis points out of range",
			money.ErrInvalidRate, d.PlatformFeeRate, d.ClientShareRate)
	}
	if !d.MissingReferrer.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, d.MissingReferrer)
	}
	return nil
}

// Request describes the order whose rules are being resolved.
type Request struct {
	ServiceID   string
	ClientID    string
	HasReferrer bool
}

// Origin names the level a rate was taken from.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginClient  Origin = "client"
	OriginService Origin = "service"
	OriginPolicy  Origin = "policy"
)

// Resolution is a resolved rule set together with where each rate came from.
type Resolution struct {
	Rules calculator.RuleSet

	// VendorID owns the service and pays the referral fee.
	VendorID string

	VendorReferralOrigin Origin
	PlatformFeeOrigin    Origin
	ClientShareOrigin    Origin

	// AppliedPolicy is set when the order had no referrer.
	AppliedPolicy models.MissingReferrerPolicy
}

// Resolver combines defaults with stored overrides.
type Resolver struct {
	source   Source
	defaults Defaults
}

// NewResolver returns a resolver over source.
func NewResolver(source Source, defaults Defaults) (*Resolver, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{source: source, defaults: defaults}, nil
}

// Defaults returns the platform-wide defaults.
func (r *Resolver) Defaults() Defaults { return r.defaults }

// Resolve returns the rule set for req.
//
// Precedence for the platform fee is service override, then client override,
// then default. The client share comes from the client override or the
// default. The vendor referral rate always comes from the service rule, which
// must exist.
//
// When the order has no referrer the missing-referrer policy (client override,
// then default) rewrites the rule set:
//
//	no_referral                    vendor referral rate = 0
//	client_takes_referrer_share    client share rate = 100%
//	platform_takes_referrer_share  referrer share is added to the platform fee
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if req.ServiceID == "" {
		return Resolution{}, fmt.Errorf("%w: missing service id", ErrServiceRuleNotFound)
	}

	svc, err := r.source.GetServiceRule(ctx, req.ServiceID)
	if errors.Is(err, storage.ErrNotFound) {
		return Resolution{}, fmt.Errorf("%w: %s", ErrServiceRuleNotFound, req.ServiceID)
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to load service rule: %w", err)
	}

	var client *models.ClientRule
	if req.ClientID != "" {
		client, err = r.source.GetClientRule(ctx, req.ClientID)
		if errors.Is(err, storage.ErrNotFound) {
			client = nil
		} else if err != nil {
			return Resolution{}, fmt.Errorf("failed to load client rule: %w", err)
		}
	}

	res := Resolution{
		VendorID:             svc.VendorID,
		VendorReferralOrigin: OriginService,
		PlatformFeeOrigin:    OriginDefault,
		ClientShareOrigin:    OriginDefault,
	}
	vendor := svc.VendorReferralRate
	platform := r.defaults.PlatformFeeRate
	share := r.defaults.ClientShareRate
	policy := r.defaults.MissingReferrer
	toPlatform := false

	if client != nil {
		if client.PlatformFeeRate != nil {
			platform, res.PlatformFeeOrigin = *client.PlatformFeeRate, OriginClient
		}
		if client.ClientShareRate != nil {
			share, res.ClientShareOrigin = *client.ClientShareRate, OriginClient
		}
		if client.MissingReferrerPolicy != "" {
			policy = client.MissingReferrerPolicy
		}
	}
	if svc.PlatformFeeRate != nil {
		platform, res.PlatformFeeOrigin = *svc.PlatformFeeRate, OriginService
	}

	if !req.HasReferrer {
		res.AppliedPolicy = policy
		switch policy {
		case models.PolicyNoReferral:
			vendor, res.VendorReferralOrigin = 0, OriginPolicy
		case models.PolicyClientTakesReferrerShare:
			share, res.ClientShareOrigin = money.RateScale, OriginPolicy
		case models.PolicyPlatformTakesReferrerShare:
			toPlatform = true
		default:
			return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, policy)
		}
	}

	rs, err := calculator.NewRuleSet(vendor, platform, share)
	if err != nil {
		return Resolution{}, err
	}
	rs.ReferrerShareToPlatform = toPlatform
	res.Rules = rs
	return res, nil
}
