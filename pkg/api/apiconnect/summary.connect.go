package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/pkg/api"
)

const (
	// SummaryServiceName is the fully-qualified name of the SummaryService service.
	SummaryServiceName = "duitraya.v1.SummaryService"
)

const (
	SummaryServiceGetSummaryProcedure          = "/duitraya.v1.SummaryService/GetSummary"
	SummaryServiceGetYearlyComparisonProcedure = "/duitraya.v1.SummaryService/GetYearlyComparison"
)

// SummaryServiceClient is a client for the duitraya.v1.SummaryService service.
type SummaryServiceClient interface {
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	GetYearlyComparison(context.Context, *connect.Request[api.GetYearlyComparisonRequest]) (*connect.Response[api.GetYearlyComparisonResponse], error)
}

// NewSummaryServiceClient constructs a client for the duitraya.v1.SummaryService service.
func NewSummaryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SummaryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &summaryServiceClient{
		getSummary: connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](
			httpClient,
			baseURL+SummaryServiceGetSummaryProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		getYearlyComparison: connect.NewClient[api.GetYearlyComparisonRequest, api.GetYearlyComparisonResponse](
			httpClient,
			baseURL+SummaryServiceGetYearlyComparisonProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
	}
}

type summaryServiceClient struct {
	getSummary          *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	getYearlyComparison *connect.Client[api.GetYearlyComparisonRequest, api.GetYearlyComparisonResponse]
}

func (c *summaryServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *summaryServiceClient) GetYearlyComparison(ctx context.Context, req *connect.Request[api.GetYearlyComparisonRequest]) (*connect.Response[api.GetYearlyComparisonResponse], error) {
	return c.getYearlyComparison.CallUnary(ctx, req)
}

// SummaryServiceHandler is implemented by the duitraya.v1.SummaryService service.
type SummaryServiceHandler interface {
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	GetYearlyComparison(context.Context, *connect.Request[api.GetYearlyComparisonRequest]) (*connect.Response[api.GetYearlyComparisonResponse], error)
}

// NewSummaryServiceHandler returns the mount path and HTTP handler for the summary service.
func NewSummaryServiceHandler(svc SummaryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	summaryServiceGetSummaryHandler := connect.NewUnaryHandler(
		SummaryServiceGetSummaryProcedure,
		svc.GetSummary,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	summaryServiceGetYearlyComparisonHandler := connect.NewUnaryHandler(
		SummaryServiceGetYearlyComparisonProcedure,
		svc.GetYearlyComparison,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	return "/duitraya.v1.SummaryService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SummaryServiceGetSummaryProcedure:
			summaryServiceGetSummaryHandler.ServeHTTP(w, r)
		case SummaryServiceGetYearlyComparisonProcedure:
			summaryServiceGetYearlyComparisonHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
