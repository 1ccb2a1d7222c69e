package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/commissions/internal/calculator"
	"github.com/mmynk/commissions/internal/ledger"
	"github.com/mmynk/commissions/internal/metrics"
	"github.com/mmynk/commissions/internal/middleware"
	"github.com/mmynk/commissions/internal/rules"
	"github.com/mmynk/commissions/internal/storage"
	"github.com/mmynk/commissions/internal/wallet"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// CommissionService implements the Connect CommissionService.
type CommissionService struct {
	store    storage.Store
	resolver *rules.Resolver
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewCommissionService creates a CommissionService over the given storage
// backend and rule resolver.
func NewCommissionService(store storage.Store, resolver *rules.Resolver, m *metrics.Metrics) *CommissionService {
	return &CommissionService{store: store, resolver: resolver, metrics: m, now: time.Now}
}

// calculate resolves the rules of an order and runs the engine.
func (s *CommissionService) calculate(ctx context.Context, serviceID, clientID, referrerID string, gross Amount) (calculator.Breakdown, rules.Resolution, error) {
	amount, err := parseGross(gross)
	if err != nil {
		return calculator.Breakdown{}, rules.Resolution{}, err
	}

	res, err := s.resolver.Resolve(ctx, rules.Request{
		ServiceID:   serviceID,
		ClientID:    clientID,
		HasReferrer: referrerID != "",
	})
	if err != nil {
		return calculator.Breakdown{}, rules.Resolution{}, err
	}

	b, err := calculator.CalculateDistribution(amount, res.Rules)
	if err != nil {
		return calculator.Breakdown{}, rules.Resolution{}, err
	}
	return b, res, nil
}

// PreviewDistribution computes a breakdown without recording it.
func (s *CommissionService) PreviewDistribution(ctx context.Context, req *connect.Request[PreviewDistributionRequest]) (*connect.Response[PreviewDistributionResponse], error) {
	msg := req.Msg
	slog.Debug("PreviewDistribution",
		"service_id", msg.ServiceID,
		"client_id", msg.ClientID,
		"gross", msg.Gross.Amount,
		"currency", msg.Gross.Currency,
	)

	if msg.Rules != nil {
		// Explicit rates bypass stored configuration
		amount, err := parseGross(msg.Gross)
		if err != nil {
			return nil, s.calculationError(err)
		}
		rs, err := parseRuleSet(*msg.Rules)
		if err != nil {
			return nil, s.calculationError(err)
		}
		b, err := calculator.CalculateDistribution(amount, rs)
		if err != nil {
			return nil, s.calculationError(err)
		}
		return connect.NewResponse(&PreviewDistributionResponse{Distribution: toDistribution(b)}), nil
	}

	b, res, err := s.calculate(ctx, msg.ServiceID, msg.ClientID, msg.ReferrerID, msg.Gross)
	if err != nil {
		return nil, s.calculationError(err)
	}

	d := toDistribution(b)
	d.ServiceID = msg.ServiceID
	d.VendorID = res.VendorID
	d.ClientID = msg.ClientID
	d.ReferrerID = msg.ReferrerID
	origins := toOrigins(res)
	return connect.NewResponse(&PreviewDistributionResponse{Distribution: d, Origins: &origins}), nil
}

// RecordDistribution computes the breakdown of a completed order, stores it
// in the ledger and issues the wallet credits. Retrying an order returns the
// stored entry; retrying it with a different gross amount is rejected.
func (s *CommissionService) RecordDistribution(ctx context.Context, req *connect.Request[RecordDistributionRequest]) (*connect.Response[RecordDistributionResponse], error) {
	msg := req.Msg
	if msg.OrderID == "" {
		return nil, toConnectError(fmt.Errorf("%w: order_id is required", ErrInvalidRequest))
	}

	existing, err := s.store.GetDistribution(ctx, msg.OrderID)
	if err == nil {
		return s.alreadyRecorded(existing, msg)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		slog.Error("RecordDistribution: failed to look up order", "order_id", msg.OrderID, "error", err)
		return nil, toConnectError(err)
	}

	b, res, err := s.calculate(ctx, msg.ServiceID, msg.ClientID, msg.ReferrerID, msg.Gross)
	if err != nil {
		return nil, s.calculationError(err)
	}

	ref := ledger.OrderRef{
		OrderID:    msg.OrderID,
		ServiceID:  msg.ServiceID,
		VendorID:   res.VendorID,
		ClientID:   msg.ClientID,
		ReferrerID: msg.ReferrerID,
	}
	entry, err := ledger.Create(ref, b, res.Rules, s.now())
	if err != nil {
		slog.Error("RecordDistribution: failed to create ledger entry", "order_id", msg.OrderID, "error", err)
		return nil, toConnectError(err)
	}

	credits := wallet.CreditsFor(entry)
	err = s.store.RecordDistribution(ctx, entry, credits)
	if errors.Is(err, storage.ErrDuplicateOrder) {
		// A concurrent call recorded the order first
		existing, getErr := s.store.GetDistribution(ctx, msg.OrderID)
		if getErr != nil {
			return nil, toConnectError(getErr)
		}
		return s.alreadyRecorded(existing, msg)
	}
	if err != nil {
		slog.Error("RecordDistribution: failed to store distribution", "order_id", msg.OrderID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.RecordDistribution(b.Gross.Currency(), credits)
	slog.Info("Distribution recorded",
		"order_id", msg.OrderID,
		"entry_id", entry.ID(),
		"gross", b.Gross.String(),
		"vendor_referral_fee", b.VendorReferralFee.String(),
		"platform_fee", b.PlatformFee.String(),
		"client_share", b.ClientShare.String(),
		"referrer_share", b.ReferrerShare.String(),
		"caller", middleware.GetSubject(ctx),
	)

	return connect.NewResponse(&RecordDistributionResponse{
		Distribution: entryToDistribution(entry),
		Credits:      toCredits(credits),
	}), nil
}

// alreadyRecorded answers a retry of an order that is already in the ledger.
func (s *CommissionService) alreadyRecorded(existing ledger.Entry, msg *RecordDistributionRequest) (*connect.Response[RecordDistributionResponse], error) {
	s.metrics.RecordDuplicate()

	gross, err := parseGross(msg.Gross)
	if err != nil {
		return nil, toConnectError(err)
	}
	if gross != existing.Breakdown().Gross {
		slog.Warn("RecordDistribution: order already recorded with a different amount",
			"order_id", msg.OrderID,
			"recorded", existing.Breakdown().Gross.String(),
			"requested", gross.String(),
		)
		return nil, toConnectError(fmt.Errorf("order %s was recorded with gross %s: %w",
			msg.OrderID, existing.Breakdown().Gross, storage.ErrDuplicateOrder))
	}

	slog.Info("Distribution already recorded", "order_id", msg.OrderID, "entry_id", existing.ID())
	return connect.NewResponse(&RecordDistributionResponse{
		Distribution:    entryToDistribution(existing),
		Credits:         toCredits(wallet.CreditsFor(existing)),
		AlreadyRecorded: true,
	}), nil
}

// calculationError counts engine rejections before translating err.
func (s *CommissionService) calculationError(err error) error {
	if calculator.Classify(err) != calculator.KindUnknown {
		s.metrics.RecordFailure(err)
		slog.Warn("Distribution rejected", "kind", calculator.Classify(err).String(), "error", err)
	}
	return toConnectError(err)
}

// GetDistribution returns the entry recorded for an order.
func (s *CommissionService) GetDistribution(ctx context.Context, req *connect.Request[GetDistributionRequest]) (*connect.Response[GetDistributionResponse], error) {
	if req.Msg.OrderID == "" {
		return nil, toConnectError(fmt.Errorf("%w: order_id is required", ErrInvalidRequest))
	}

	entry, err := s.store.GetDistribution(ctx, req.Msg.OrderID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetDistributionResponse{
		Distribution: entryToDistribution(entry),
		Credits:      toCredits(wallet.CreditsFor(entry)),
	}), nil
}

// ListDistributions returns recorded entries, newest first.
func (s *CommissionService) ListDistributions(ctx context.Context, req *connect.Request[ListDistributionsRequest]) (*connect.Response[ListDistributionsResponse], error) {
	msg := req.Msg
	limit := msg.Limit
	switch {
	case limit < 0:
		return nil, toConnectError(fmt.Errorf("%w: limit cannot be negative", ErrInvalidRequest))
	case limit == 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	entries, err := s.store.ListDistributions(ctx, storage.DistributionFilter{
		ClientID:   msg.ClientID,
		ReferrerID: msg.ReferrerID,
		VendorID:   msg.VendorID,
		Limit:      limit,
	})
	if err != nil {
		slog.Error("ListDistributions failed", "error", err)
		return nil, toConnectError(err)
	}

	distributions := make([]Distribution, len(entries))
	for i, e := range entries {
		distributions[i] = entryToDistribution(e)
	}
	return connect.NewResponse(&ListDistributionsResponse{Distributions: distributions}), nil
}

// GetEarnings totals the credits issued to a party.
func (s *CommissionService) GetEarnings(ctx context.Context, req *connect.Request[GetEarningsRequest]) (*connect.Response[GetEarningsResponse], error) {
	partyID := req.Msg.PartyID
	if partyID == "" {
		return nil, toConnectError(fmt.Errorf("%w: party_id is required", ErrInvalidRequest))
	}

	credits, err := s.store.ListCredits(ctx, partyID)
	if err != nil {
		slog.Error("GetEarnings: failed to list credits", "party_id", partyID, "error", err)
		return nil, toConnectError(err)
	}

	summary, err := wallet.Summarize(credits)
	if err != nil {
		slog.Error("GetEarnings: failed to summarize credits", "party_id", partyID, "error", err)
		return nil, toConnectError(err)
	}

	earnings := make([]Earnings, len(summary))
	for i, e := range summary {
		earnings[i] = Earnings{Role: string(e.Role), Total: toAmount(e.Total), Orders: e.Orders}
	}
	return connect.NewResponse(&GetEarningsResponse{PartyID: partyID, Earnings: earnings}), nil
}
