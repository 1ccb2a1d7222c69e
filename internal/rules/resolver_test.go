package rules

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/models"
	"github.com/mmynk/commissions/internal/money"
	"github.com/mmynk/commissions/internal/storage"
)

type fakeSource struct {
	services map[string]*models.ServiceRule
	clients  map[string]*models.ClientRule
	err      error
}

func (f *fakeSource) GetServiceRule(_ context.Context, serviceID string) (*models.ServiceRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.services[serviceID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("service rule %s: %w", serviceID, storage.ErrNotFound)
}

func (f *fakeSource) GetClientRule(_ context.Context, clientID string) (*models.ClientRule, error) {
	if r, ok := f.clients[clientID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("client rule %s: %w", clientID, storage.ErrNotFound)
}

func ratePtr(percent float64) *money.Rate {
	r := money.MustPercent(percent)
	return &r
}

func testDefaults() Defaults {
	return Defaults{
		PlatformFeeRate: money.MustPercent(10),
		ClientShareRate: money.MustPercent(50),
		MissingReferrer: models.PolicyNoReferral,
	}
}

func TestResolve(t *testing.T) {
	source := &fakeSource{
		services: map[string]*models.ServiceRule{
			"plain":    {ServiceID: "plain", VendorID: "v1", VendorReferralRate: money.MustPercent(20)},
			"override": {ServiceID: "override", VendorID: "v2", VendorReferralRate: money.MustPercent(15), PlatformFeeRate: ratePtr(5)},
		},
		clients: map[string]*models.ClientRule{
			"vip":      {ClientID: "vip", PlatformFeeRate: ratePtr(8), ClientShareRate: ratePtr(70)},
			"generous": {ClientID: "generous", MissingReferrerPolicy: models.PolicyClientTakesReferrerShare},
			"greedy":   {ClientID: "greedy", MissingReferrerPolicy: models.PolicyPlatformTakesReferrerShare},
		},
	}
	resolver, err := NewResolver(source, testDefaults())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}

	tests := []struct {
		name           string
		req            Request
		want           calculator.RuleSet
		platformOrigin Origin
		shareOrigin    Origin
		vendorOrigin   Origin
		policy         models.MissingReferrerPolicy
	}{
		{
			name:           "defaults only",
			req:            Request{ServiceID: "plain", ClientID: "nobody", HasReferrer: true},
			want:           calculator.RuleSet{VendorReferralRate: 2000, PlatformFeeRate: 1000, ClientShareRate: 5000},
			platformOrigin: OriginDefault,
			shareOrigin:    OriginDefault,
			vendorOrigin:   OriginService,
		},
		{
			name:           "client overrides",
			req:            Request{ServiceID: "plain", ClientID: "vip", HasReferrer: true},
			want:           calculator.RuleSet{VendorReferralRate: 2000, PlatformFeeRate: 800, ClientShareRate: 7000},
			platformOrigin: OriginClient,
			shareOrigin:    OriginClient,
			vendorOrigin:   OriginService,
		},
		{
			name:           "service platform fee beats client",
			req:            Request{ServiceID: "override", ClientID: "vip", HasReferrer: true},
			want:           calculator.RuleSet{VendorReferralRate: 1500, PlatformFeeRate: 500, ClientShareRate: 7000},
			platformOrigin: OriginService,
			shareOrigin:    OriginClient,
			vendorOrigin:   OriginService,
		},
		{
			name:           "no referrer with default policy drops the referral fee",
			req:            Request{ServiceID: "plain", ClientID: "nobody"},
			want:           calculator.RuleSet{VendorReferralRate: 0, PlatformFeeRate: 1000, ClientShareRate: 5000},
			platformOrigin: OriginDefault,
			shareOrigin:    OriginDefault,
			vendorOrigin:   OriginPolicy,
			policy:         models.PolicyNoReferral,
		},
		{
			name:           "no referrer with client policy gives the client everything",
			req:            Request{ServiceID: "plain", ClientID: "generous"},
			want:           calculator.RuleSet{VendorReferralRate: 2000, PlatformFeeRate: 1000, ClientShareRate: 10000},
			platformOrigin: OriginDefault,
			shareOrigin:    OriginPolicy,
			vendorOrigin:   OriginService,
			policy:         models.PolicyClientTakesReferrerShare,
		},
		{
			name:           "no referrer with platform policy routes only the referrer share",
			req:            Request{ServiceID: "override", ClientID: "greedy"},
			want:           calculator.RuleSet{VendorReferralRate: 1500, PlatformFeeRate: 500, ClientShareRate: 5000, ReferrerShareToPlatform: true},
			platformOrigin: OriginService,
			shareOrigin:    OriginDefault,
			vendorOrigin:   OriginService,
			policy:         models.PolicyPlatformTakesReferrerShare,
		},
		{
			name:           "empty client id skips client lookup",
			req:            Request{ServiceID: "override", HasReferrer: true},
			want:           calculator.RuleSet{VendorReferralRate: 1500, PlatformFeeRate: 500, ClientShareRate: 5000},
			platformOrigin: OriginService,
			shareOrigin:    OriginDefault,
			vendorOrigin:   OriginService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.Resolve(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if res.Rules != tt.want {
				t.Errorf("Rules = %+v, want %+v", res.Rules, tt.want)
			}
			if res.PlatformFeeOrigin != tt.platformOrigin {
				t.Errorf("PlatformFeeOrigin = %s, want %s", res.PlatformFeeOrigin, tt.platformOrigin)
			}
			if res.ClientShareOrigin != tt.shareOrigin {
				t.Errorf("ClientShareOrigin = %s, want %s", res.ClientShareOrigin, tt.shareOrigin)
			}
			if res.VendorReferralOrigin != tt.vendorOrigin {
				t.Errorf("VendorReferralOrigin = %s, want %s", res.VendorReferralOrigin, tt.vendorOrigin)
			}
			if res.VendorID == "" {
				t.Error("Expected VendorID to be set")
			}
			if res.AppliedPolicy != tt.policy {
				t.Errorf("AppliedPolicy = %q, want %q", res.AppliedPolicy, tt.policy)
			}
		})
	}
}

func TestResolve_MissingReferrerAmounts(t *testing.T) {
	source := &fakeSource{
		services: map[string]*models.ServiceRule{
			"svc": {ServiceID: "svc", VendorID: "v1", VendorReferralRate: money.MustPercent(20)},
		},
		clients: map[string]*models.ClientRule{
			"generous": {ClientID: "generous", MissingReferrerPolicy: models.PolicyClientTakesReferrerShare},
			"greedy":   {ClientID: "greedy", MissingReferrerPolicy: models.PolicyPlatformTakesReferrerShare},
		},
	}
	resolver, err := NewResolver(source, testDefaults())
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	gross, err := money.FromDecimal("1000.00", "USD")
	if err != nil {
		t.Fatalf("FromDecimal failed: %v", err)
	}

	tests := []struct {
		name         string
		clientID     string
		wantFee      string
		wantPlatform string
		wantClient   string
		wantReferrer string
	}{
		{"no referral", "nobody", "0.00", "0.00", "0.00", "0.00"},
		{"client takes referrer share", "generous", "200.00", "20.00", "180.00", "0.00"},
		{"platform takes referrer share", "greedy", "200.00", "110.00", "90.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolver.Resolve(context.Background(), Request{ServiceID: "svc", ClientID: tt.clientID})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			b, err := calculator.CalculateDistribution(gross, res.Rules)
			if err != nil {
				t.Fatalf("CalculateDistribution failed: %v", err)
			}
			got := []string{b.VendorReferralFee.Amount(), b.PlatformFee.Amount(), b.ClientShare.Amount(), b.ReferrerShare.Amount()}
			want := []string{tt.wantFee, tt.wantPlatform, tt.wantClient, tt.wantReferrer}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("fee/platform/client/referrer = %v, want %v", got, want)
					break
				}
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown service", func(t *testing.T) {
		resolver, _ := NewResolver(&fakeSource{}, testDefaults())
		_, err := resolver.Resolve(ctx, Request{ServiceID: "ghost", HasReferrer: true})
		if !errors.Is(err, ErrServiceRuleNotFound) {
			t.Errorf("Expected ErrServiceRuleNotFound, got %v", err)
		}
	})

	t.Run("missing service id", func(t *testing.T) {
		resolver, _ := NewResolver(&fakeSource{}, testDefaults())
		_, err := resolver.Resolve(ctx, Request{})
		if !errors.Is(err, ErrServiceRuleNotFound) {
			t.Errorf("Expected ErrServiceRuleNotFound, got %v", err)
		}
	})

	t.Run("storage failure is not reported as not found", func(t *testing.T) {
		boom := errors.New("disk on fire")
		resolver, _ := NewResolver(&fakeSource{err: boom}, testDefaults())
		_, err := resolver.Resolve(ctx, Request{ServiceID: "plain"})
		if !errors.Is(err, boom) || errors.Is(err, ErrServiceRuleNotFound) {
			t.Errorf("Expected wrapped storage error, got %v", err)
		}
	})

	t.Run("unknown stored policy", func(t *testing.T) {
		source := &fakeSource{
			services: map[string]*models.ServiceRule{"plain": {ServiceID: "plain", VendorReferralRate: 100}},
			clients:  map[string]*models.ClientRule{"odd": {ClientID: "odd", MissingReferrerPolicy: "split_evenly"}},
		}
		resolver, _ := NewResolver(source, testDefaults())
		_, err := resolver.Resolve(ctx, Request{ServiceID: "plain", ClientID: "odd"})
		if !errors.Is(err, ErrInvalidPolicy) {
			t.Errorf("Expected ErrInvalidPolicy, got %v", err)
		}
	})

	t.Run("invalid stored rate", func(t *testing.T) {
		source := &fakeSource{
			services: map[string]*models.ServiceRule{"bad": {ServiceID: "bad", VendorReferralRate: 20000}},
		}
		resolver, _ := NewResolver(source, testDefaults())
		_, err := resolver.Resolve(ctx, Request{ServiceID: "bad", HasReferrer: true})
		if calculator.Classify(err) != calculator.KindInvalidRuleSet {
			t.Errorf("Expected invalid rule set, got %v", err)
		}
	})
}

func TestNewResolver_InvalidDefaults(t *testing.T) {
	tests := []struct {
		name     string
		defaults Defaults
		wantErr  error
	}{
		{"platform out of range", Defaults{PlatformFeeRate: 10001, ClientShareRate: 0, MissingReferrer: models.PolicyNoReferral}, money.ErrInvalidRate},
		{"negative share", Defaults{PlatformFeeRate: 0, ClientShareRate: -1, MissingReferrer: models.PolicyNoReferral}, money.ErrInvalidRate},
		{"empty policy", Defaults{PlatformFeeRate: 0, ClientShareRate: 0}, ErrInvalidPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(&fakeSource{}, tt.defaults)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
