package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/pkg/api"
)

const (
	// ReceiverServiceName is the fully-qualified name of the ReceiverService service.
	ReceiverServiceName = "duitraya.v1.ReceiverService"
)

const (
	ReceiverServiceCreateReceiverProcedure = "/duitraya.v1.ReceiverService/CreateReceiver"
	ReceiverServiceGetReceiverProcedure    = "/duitraya.v1.ReceiverService/GetReceiver"
	ReceiverServiceListReceiversProcedure  = "/duitraya.v1.ReceiverService/ListReceivers"
	ReceiverServiceUpdateReceiverProcedure = "/duitraya.v1.ReceiverService/UpdateReceiver"
	ReceiverServiceDeleteReceiverProcedure = "/duitraya.v1.ReceiverService/DeleteReceiver"
	ReceiverServiceListYearsProcedure      = "/duitraya.v1.ReceiverService/ListYears"
)

// ReceiverServiceClient is a client for the duitraya.v1.ReceiverService service.
type ReceiverServiceClient interface {
	CreateReceiver(context.Context, *connect.Request[api.CreateReceiverRequest]) (*connect.Response[api.CreateReceiverResponse], error)
	GetReceiver(context.Context, *connect.Request[api.GetReceiverRequest]) (*connect.Response[api.GetReceiverResponse], error)
	ListReceivers(context.Context, *connect.Request[api.ListReceiversRequest]) (*connect.Response[api.ListReceiversResponse], error)
	UpdateReceiver(context.Context, *connect.Request[api.UpdateReceiverRequest]) (*connect.Response[api.UpdateReceiverResponse], error)
	DeleteReceiver(context.Context, *connect.Request[api.DeleteReceiverRequest]) (*connect.Response[api.DeleteReceiverResponse], error)
	ListYears(context.Context, *connect.Request[api.ListYearsRequest]) (*connect.Response[api.ListYearsResponse], error)
}

// NewReceiverServiceClient constructs a client for the duitraya.v1.ReceiverService service.
func NewReceiverServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReceiverServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &receiverServiceClient{
		createReceiver: connect.NewClient[api.CreateReceiverRequest, api.CreateReceiverResponse](
			httpClient,
			baseURL+ReceiverServiceCreateReceiverProcedure,
			opts...,
		),
		getReceiver: connect.NewClient[api.GetReceiverRequest, api.GetReceiverResponse](
			httpClient,
			baseURL+ReceiverServiceGetReceiverProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		listReceivers: connect.NewClient[api.ListReceiversRequest, api.ListReceiversResponse](
			httpClient,
			baseURL+ReceiverServiceListReceiversProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		updateReceiver: connect.NewClient[api.UpdateReceiverRequest, api.UpdateReceiverResponse](
			httpClient,
			baseURL+ReceiverServiceUpdateReceiverProcedure,
			opts...,
		),
		deleteReceiver: connect.NewClient[api.DeleteReceiverRequest, api.DeleteReceiverResponse](
			httpClient,
			baseURL+ReceiverServiceDeleteReceiverProcedure,
			opts...,
		),
		listYears: connect.NewClient[api.ListYearsRequest, api.ListYearsResponse](
			httpClient,
			baseURL+ReceiverServiceListYearsProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
	}
}

type receiverServiceClient struct {
	createReceiver *connect.Client[api.CreateReceiverRequest, api.CreateReceiverResponse]
	getReceiver    *connect.Client[api.GetReceiverRequest, api.GetReceiverResponse]
	listReceivers  *connect.Client[api.ListReceiversRequest, api.ListReceiversResponse]
	updateReceiver *connect.Client[api.UpdateReceiverRequest, api.UpdateReceiverResponse]
	deleteReceiver *connect.Client[api.DeleteReceiverRequest, api.DeleteReceiverResponse]
	listYears      *connect.Client[api.ListYearsRequest, api.ListYearsResponse]
}

func (c *receiverServiceClient) CreateReceiver(ctx context.Context, req *connect.Request[api.CreateReceiverRequest]) (*connect.Response[api.CreateReceiverResponse], error) {
	return c.createReceiver.CallUnary(ctx, req)
}

func (c *receiverServiceClient) GetReceiver(ctx context.Context, req *connect.Request[api.GetReceiverRequest]) (*connect.Response[api.GetReceiverResponse], error) {
	return c.getReceiver.CallUnary(ctx, req)
}

func (c *receiverServiceClient) ListReceivers(ctx context.Context, req *connect.Request[api.ListReceiversRequest]) (*connect.Response[api.ListReceiversResponse], error) {
	return c.listReceivers.CallUnary(ctx, req)
}

func (c *receiverServiceClient) UpdateReceiver(ctx context.Context, req *connect.Request[api.UpdateReceiverRequest]) (*connect.Response[api.UpdateReceiverResponse], error) {
	return c.updateReceiver.CallUnary(ctx, req)
}

func (c *receiverServiceClient) DeleteReceiver(ctx context.Context, req *connect.Request[api.DeleteReceiverRequest]) (*connect.Response[api.DeleteReceiverResponse], error) {
	return c.deleteReceiver.CallUnary(ctx, req)
}

func (c *receiverServiceClient) ListYears(ctx context.Context, req *connect.Request[api.ListYearsRequest]) (*connect.Response[api.ListYearsResponse], error) {
	return c.listYears.CallUnary(ctx, req)
}

// ReceiverServiceHandler is implemented by the duitraya.v1.ReceiverService service.
type ReceiverServiceHandler interface {
	CreateReceiver(context.Context, *connect.Request[api.CreateReceiverRequest]) (*connect.Response[api.CreateReceiverResponse], error)
	GetReceiver(context.Context, *connect.Request[api.GetReceiverRequest]) (*connect.Response[api.GetReceiverResponse], error)
	ListReceivers(context.Context, *connect.Request[api.ListReceiversRequest]) (*connect.Response[api.ListReceiversResponse], error)
	UpdateReceiver(context.Context, *connect.Request[api.UpdateReceiverRequest]) (*connect.Response[api.UpdateReceiverResponse], error)
	DeleteReceiver(context.Context, *connect.Request[api.DeleteReceiverRequest]) (*connect.Response[api.DeleteReceiverResponse], error)
	ListYears(context.Context, *connect.Request[api.ListYearsRequest]) (*connect.Response[api.ListYearsResponse], error)
}

// NewReceiverServiceHandler returns the mount path and HTTP handler for the
// receiver service. Read procedures accept Connect GET requests.
func NewReceiverServiceHandler(svc ReceiverServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	receiverServiceCreateReceiverHandler := connect.NewUnaryHandler(
		ReceiverServiceCreateReceiverProcedure,
		svc.CreateReceiver,
		opts...,
	)
	receiverServiceGetReceiverHandler := connect.NewUnaryHandler(
		ReceiverServiceGetReceiverProcedure,
		svc.GetReceiver,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	receiverServiceListReceiversHandler := connect.NewUnaryHandler(
		ReceiverServiceListReceiversProcedure,
		svc.ListReceivers,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	receiverServiceUpdateReceiverHandler := connect.NewUnaryHandler(
		ReceiverServiceUpdateReceiverProcedure,
		svc.UpdateReceiver,
		opts...,
	)
	receiverServiceDeleteReceiverHandler := connect.NewUnaryHandler(
		ReceiverServiceDeleteReceiverProcedure,
		svc.DeleteReceiver,
		opts...,
	)
	receiverServiceListYearsHandler := connect.NewUnaryHandler(
		ReceiverServiceListYearsProcedure,
		svc.ListYears,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	return "/duitraya.v1.ReceiverService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ReceiverServiceCreateReceiverProcedure:
			receiverServiceCreateReceiverHandler.ServeHTTP(w, r)
		case ReceiverServiceGetReceiverProcedure:
			receiverServiceGetReceiverHandler.ServeHTTP(w, r)
		case ReceiverServiceListReceiversProcedure:
			receiverServiceListReceiversHandler.ServeHTTP(w, r)
		case ReceiverServiceUpdateReceiverProcedure:
			receiverServiceUpdateReceiverHandler.ServeHTTP(w, r)
		case ReceiverServiceDeleteReceiverProcedure:
			receiverServiceDeleteReceiverHandler.ServeHTTP(w, r)
		case ReceiverServiceListYearsProcedure:
			receiverServiceListYearsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
