package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/auth"
	"github.com/mmynk/duitraya/internal/middleware"
	"github.com/mmynk/duitraya/internal/storage"
	"github.com/mmynk/duitraya/pkg/api"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDeleteSelf    = errors.New("admins cannot delete their own account")
	ErrMissingUserID = errors.New("user id is required")
)

// AdminService implements the AdminService RPC interface. Mount it behind
// middleware.RequireAdmin; the handlers re-check the claim as well.
type AdminService struct {
	users         storage.UserStore
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(users storage.UserStore, authenticator auth.Authenticator, logger *slog.Logger) *AdminService {
	return &AdminService{users: users, authenticator: authenticator, logger: logger}
}

func requireAdmin(ctx context.Context) (string, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return "", err
	}
	if !middleware.IsAdmin(ctx) {
		return "", connect.NewError(connect.CodePermissionDenied, middleware.ErrAdminRequired)
	}
	return userID, nil
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("ListUsers failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toAPIUser(u)
	}

	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}

// DeleteUser removes an account together with all of its receivers.
func (s *AdminService) DeleteUser(ctx context.Context, req *connect.Request[api.DeleteUserRequest]) (*connect.Response[api.DeleteUserResponse], error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrMissingUserID)
	}
	if req.Msg.UserID == adminID {
		return nil, connect.NewError(connect.CodeFailedPrecondition, ErrDeleteSelf)
	}

	s.logger.Info("DeleteUser request received", "admin_id", adminID, "user_id", req.Msg.UserID)

	if err := s.users.DeleteUser(ctx, req.Msg.UserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, ErrUserNotFound)
		}
		s.logger.Error("DeleteUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User deleted", "user_id", req.Msg.UserID)
	return connect.NewResponse(&api.DeleteUserResponse{}), nil
}

// ResetPassword sets a new password for any account.
func (s *AdminService) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[api.ResetPasswordResponse], error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrMissingUserID)
	}

	s.logger.Info("ResetPassword request received", "admin_id", adminID, "user_id", req.Msg.UserID)

	if err := s.authenticator.ResetCredential(ctx, req.Msg.UserID, req.Msg.NewPassword); err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, auth.ErrUserNotFound):
			return nil, connect.NewError(connect.CodeNotFound, ErrUserNotFound)
		}
		s.logger.Error("ResetPassword failed", "user_id", req.Msg.UserID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Password reset", "user_id", req.Msg.UserID)
	return connect.NewResponse(&api.ResetPasswordResponse{}), nil
}
