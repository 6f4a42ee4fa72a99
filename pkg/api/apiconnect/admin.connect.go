package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/pkg/api"
)

const (
	// AdminServiceName is the fully-qualified name of the AdminService service.
	AdminServiceName = "duitraya.v1.AdminService"
)

const (
	AdminServiceListUsersProcedure     = "/duitraya.v1.AdminService/ListUsers"
	AdminServiceDeleteUserProcedure    = "/duitraya.v1.AdminService/DeleteUser"
	AdminServiceResetPasswordProcedure = "/duitraya.v1.AdminService/ResetPassword"
)

// AdminServiceClient is a client for the duitraya.v1.AdminService service.
type AdminServiceClient interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
}

// NewAdminServiceClient constructs a client for the duitraya.v1.AdminService service.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &adminServiceClient{
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient,
			baseURL+AdminServiceListUsersProcedure,
			connect.WithIdempotency(connect.IdempotencyNoSideEffects),
			connect.WithClientOptions(opts...),
		),
		deleteUser: connect.NewClient[api.DeleteUserRequest, api.DeleteUserResponse](
			httpClient,
			baseURL+AdminServiceDeleteUserProcedure,
			opts...,
		),
		resetPassword: connect.NewClient[api.ResetPasswordRequest, api.ResetPasswordResponse](
			httpClient,
			baseURL+AdminServiceResetPasswordProcedure,
			opts...,
		),
	}
}

type adminServiceClient struct {
	listUsers     *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
	deleteUser    *connect.Client[api.DeleteUserRequest, api.DeleteUserResponse]
	resetPassword *connect.Client[api.ResetPasswordRequest, api.ResetPasswordResponse]
}

func (c *adminServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

func (c *adminServiceClient) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	return c.deleteUser.CallUnary(ctx, req)
}

func (c *adminServiceClient) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	return c.resetPassword.CallUnary(ctx, req)
}

// AdminServiceHandler is implemented by the duitraya.v1.AdminService service.
type AdminServiceHandler interface {
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
	DeleteUser(context.Context, *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error)
}

// NewAdminServiceHandler returns the mount path and HTTP handler for the admin service.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	adminServiceListUsersHandler := connect.NewUnaryHandler(
		AdminServiceListUsersProcedure,
		svc.ListUsers,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	adminServiceDeleteUserHandler := connect.NewUnaryHandler(
		AdminServiceDeleteUserProcedure,
		svc.DeleteUser,
		opts...,
	)
	adminServiceResetPasswordHandler := connect.NewUnaryHandler(
		AdminServiceResetPasswordProcedure,
		svc.ResetPassword,
		opts...,
	)
	return "/duitraya.v1.AdminService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AdminServiceListUsersProcedure:
			adminServiceListUsersHandler.ServeHTTP(w, r)
		case AdminServiceDeleteUserProcedure:
			adminServiceDeleteUserHandler.ServeHTTP(w, r)
		case AdminServiceResetPasswordProcedure:
			adminServiceResetPasswordHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
