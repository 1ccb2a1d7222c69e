package service

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// CommissionServiceClient is a client for the CommissionService.
type CommissionServiceClient struct {
	preview  *connect.Client[PreviewDistributionRequest, PreviewDistributionResponse]
	record   *connect.Client[RecordDistributionRequest, RecordDistributionResponse]
	get      *connect.Client[GetDistributionRequest, GetDistributionResponse]
	list     *connect.Client[ListDistributionsRequest, ListDistributionsResponse]
	earnings *connect.Client[GetEarningsRequest, GetEarningsResponse]
}

// NewCommissionServiceClient constructs a client for the CommissionService
// at baseURL (for example, http://localhost:8080).
func NewCommissionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CommissionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &CommissionServiceClient{
		preview:  connect.NewClient[PreviewDistributionRequest, PreviewDistributionResponse](httpClient, baseURL+PreviewDistributionProcedure, opts...),
		record:   connect.NewClient[RecordDistributionRequest, RecordDistributionResponse](httpClient, baseURL+RecordDistributionProcedure, opts...),
		get:      connect.NewClient[GetDistributionRequest, GetDistributionResponse](httpClient, baseURL+GetDistributionProcedure, opts...),
		list:     connect.NewClient[ListDistributionsRequest, ListDistributionsResponse](httpClient, baseURL+ListDistributionsProcedure, opts...),
		earnings: connect.NewClient[GetEarningsRequest, GetEarningsResponse](httpClient, baseURL+GetEarningsProcedure, opts...),
	}
}

func (c *CommissionServiceClient) PreviewDistribution(ctx context.Context, req *connect.Request[PreviewDistributionRequest]) (*connect.Response[PreviewDistributionResponse], error) {
	return c.preview.CallUnary(ctx, req)
}

func (c *CommissionServiceClient) RecordDistribution(ctx context.Context, req *connect.Request[RecordDistributionRequest]) (*connect.Response[RecordDistributionResponse], error) {
	return c.record.CallUnary(ctx, req)
}

func (c *CommissionServiceClient) GetDistribution(ctx context.Context, req *connect.Request[GetDistributionRequest]) (*connect.Response[GetDistributionResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *CommissionServiceClient) ListDistributions(ctx context.Context, req *connect.Request[ListDistributionsRequest]) (*connect.Response[ListDistributionsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *CommissionServiceClient) GetEarnings(ctx context.Context, req *connect.Request[GetEarningsRequest]) (*connect.Response[GetEarningsResponse], error) {
	return c.earnings.CallUnary(ctx, req)
}

// RuleServiceClient is a client for the RuleService.
type RuleServiceClient struct {
	setService *connect.Client[SetServiceRuleRequest, SetServiceRuleResponse]
	setClient  *connect.Client[SetClientRuleRequest, SetClientRuleResponse]
	resolve    *connect.Client[ResolveRulesRequest, ResolveRulesResponse]
}

// NewRuleServiceClient constructs a client for the RuleService.
func NewRuleServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RuleServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &RuleServiceClient{
		setService: connect.NewClient[SetServiceRuleRequest, SetServiceRuleResponse](httpClient, baseURL+SetServiceRuleProcedure, opts...),
		setClient:  connect.NewClient[SetClientRuleRequest, SetClientRuleResponse](httpClient, baseURL+SetClientRuleProcedure, opts...),
		resolve:    connect.NewClient[ResolveRulesRequest, ResolveRulesResponse](httpClient, baseURL+ResolveRulesProcedure, opts...),
	}
}

func (c *RuleServiceClient) SetServiceRule(ctx context.Context, req *connect.Request[SetServiceRuleRequest]) (*connect.Response[SetServiceRuleResponse], error) {
	return c.setService.CallUnary(ctx, req)
}

func (c *RuleServiceClient) SetClientRule(ctx context.Context, req *connect.Request[SetClientRuleRequest]) (*connect.Response[SetClientRuleResponse], error) {
	return c.setClient.CallUnary(ctx, req)
}

func (c *RuleServiceClient) ResolveRules(ctx context.Context, req *connect.Request[ResolveRulesRequest]) (*connect.Response[ResolveRulesResponse], error) {
	return c.resolve.CallUnary(ctx, req)
}
