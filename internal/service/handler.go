package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// CommissionServiceHandler is the server API of the CommissionService.
type CommissionServiceHandler interface {
	PreviewDistribution(context.Context, *connect.Request[PreviewDistributionRequest]) (*connect.Response[PreviewDistributionResponse], error)
	RecordDistribution(context.Context, *connect.Request[RecordDistributionRequest]) (*connect.Response[RecordDistributionResponse], error)
	GetDistribution(context.Context, *connect.Request[GetDistributionRequest]) (*connect.Response[GetDistributionResponse], error)
	ListDistributions(context.Context, *connect.Request[ListDistributionsRequest]) (*connect.Response[ListDistributionsResponse], error)
	GetEarnings(context.Context, *connect.Request[GetEarningsRequest]) (*connect.Response[GetEarningsResponse], error)
}

// RuleServiceHandler is the server API of the RuleService.
type RuleServiceHandler interface {
	SetServiceRule(context.Context, *connect.Request[SetServiceRuleRequest]) (*connect.Response[SetServiceRuleResponse], error)
	SetClientRule(context.Context, *connect.Request[SetClientRuleRequest]) (*connect.Response[SetClientRuleResponse], error)
	ResolveRules(context.Context, *connect.Request[ResolveRulesRequest]) (*connect.Response[ResolveRulesResponse], error)
}

var (
	_ CommissionServiceHandler = (*CommissionService)(nil)
	_ RuleServiceHandler       = (*RuleService)(nil)
)

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// procedureMux routes the methods of one service by path.
func procedureMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NewCommissionServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewCommissionServiceHandler(svc CommissionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + CommissionServiceName + "/", procedureMux(map[string]http.Handler{
		PreviewDistributionProcedure: connect.NewUnaryHandler(PreviewDistributionProcedure, svc.PreviewDistribution, opts...),
		RecordDistributionProcedure:  connect.NewUnaryHandler(RecordDistributionProcedure, svc.RecordDistribution, opts...),
		GetDistributionProcedure:     connect.NewUnaryHandler(GetDistributionProcedure, svc.GetDistribution, opts...),
		ListDistributionsProcedure:   connect.NewUnaryHandler(ListDistributionsProcedure, svc.ListDistributions, opts...),
		GetEarningsProcedure:         connect.NewUnaryHandler(GetEarningsProcedure, svc.GetEarnings, opts...),
	})
}

// NewRuleServiceHandler builds an HTTP handler for the RuleService.
func NewRuleServiceHandler(svc RuleServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + RuleServiceName + "/", procedureMux(map[string]http.Handler{
		SetServiceRuleProcedure: connect.NewUnaryHandler(SetServiceRuleProcedure, svc.SetServiceRule, opts...),
		SetClientRuleProcedure:  connect.NewUnaryHandler(SetClientRuleProcedure, svc.SetClientRule, opts...),
		ResolveRulesProcedure:   connect.NewUnaryHandler(ResolveRulesProcedure, svc.ResolveRules, opts...),
	})
}

// IsProcedurePath reports whether path belongs to one of the RPC services.
func IsProcedurePath(path string) bool {
	return strings.HasPrefix(path, "/"+CommissionServiceName+"/") ||
		strings.HasPrefix(path, "/"+RuleServiceName+"/")
}
