// Package service implements the duitraya.v1 Connect services on top of
// the storage, auth and calculator packages.
//
// Every handler reads the caller from the context set by
// middleware.RequireAuth and scopes all receiver access to that user.
package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/auth"
	"github.com/mmynk/duitraya/internal/middleware"
	"github.com/mmynk/duitraya/internal/models"
	"github.com/mmynk/duitraya/pkg/api"
)

// requireUser returns the authenticated user's ID.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIReceiver(r *models.Receiver) *api.Receiver {
	return &api.Receiver{
		ID:              r.ID,
		Name:            r.Name,
		Kind:            string(r.Kind),
		RecipientCount:  r.RecipientCount,
		AmountPerPacket: r.AmountPerPacket,
		Denomination:    r.Denomination,
		Eligible:        r.Eligible,
		Received:        r.Received,
		Year:            r.Year,
		TotalAmount:     r.TotalAmount(),
		CreatedAt:       r.CreatedAt,
	}
}
