package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/commissions/internal/middleware"
	"github.com/mmynk/commissions/internal/rules"
	"github.com/mmynk/commissions/internal/storage"
)

// RuleService implements the Connect RuleService, the admin surface for
// commission configuration.
type RuleService struct {
	store    storage.Store
	resolver *rules.Resolver
}

// NewRuleService creates a RuleService.
func NewRuleService(store storage.Store, resolver *rules.Resolver) *RuleService {
	return &RuleService{store: store, resolver: resolver}
}

// SetServiceRule creates or replaces a service's rule.
func (s *RuleService) SetServiceRule(ctx context.Context, req *connect.Request[SetServiceRuleRequest]) (*connect.Response[SetServiceRuleResponse], error) {
	rule, err := fromServiceRule(req.Msg.Rule)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpsertServiceRule(ctx, rule); err != nil {
		slog.Error("SetServiceRule failed", "service_id", rule.ServiceID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Service rule updated",
		"service_id", rule.ServiceID,
		"vendor_id", rule.VendorID,
		"vendor_referral_rate", rule.VendorReferralRate.String(),
		"admin", middleware.GetSubject(ctx),
	)
	return connect.NewResponse(&SetServiceRuleResponse{Rule: toServiceRule(rule)}), nil
}

// SetClientRule creates or replaces a client's overrides.
func (s *RuleService) SetClientRule(ctx context.Context, req *connect.Request[SetClientRuleRequest]) (*connect.Response[SetClientRuleResponse], error) {
	rule, err := fromClientRule(req.Msg.Rule)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.UpsertClientRule(ctx, rule); err != nil {
		slog.Error("SetClientRule failed", "client_id", rule.ClientID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Client rule updated", "client_id", rule.ClientID, "admin", middleware.GetSubject(ctx))
	return connect.NewResponse(&SetClientRuleResponse{Rule: toClientRule(rule)}), nil
}

// ResolveRules shows the rule set an order would be calculated with.
func (s *RuleService) ResolveRules(ctx context.Context, req *connect.Request[ResolveRulesRequest]) (*connect.Response[ResolveRulesResponse], error) {
	res, err := s.resolver.Resolve(ctx, rules.Request{
		ServiceID:   req.Msg.ServiceID,
		ClientID:    req.Msg.ClientID,
		HasReferrer: req.Msg.HasReferrer,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ResolveRulesResponse{
		VendorID: res.VendorID,
		Rules:    toRates(res.Rules),
		Origins:  toOrigins(res),
	}), nil
}
