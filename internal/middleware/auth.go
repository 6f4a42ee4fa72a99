package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for the authenticated user's token claims.
const ClaimsKey contextKey = "claims"

// ErrAdminRequired is returned to authenticated users who are not admins.
var ErrAdminRequired = errors.New("admin access required")

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims returns the claims stored by RequireAuth, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.Email
	}
	return ""
}

// IsAdmin reports whether the authenticated user has the admin claim.
func IsAdmin(ctx context.Context) bool {
	claims := GetClaims(ctx)
	return claims != nil && claims.IsAdmin
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrInvalidToken
	}

	return token, nil
}

// Authenticate validates the bearer header and returns a context carrying
// the token's claims.
func Authenticate(ctx context.Context, jwtManager *auth.JWTManager, header string) (context.Context, error) {
	tokenString, err := BearerToken(header)
	if err != nil {
		return ctx, err
	}

	claims, err := jwtManager.Validate(tokenString)
	if err != nil {
		return ctx, err
	}

	return WithClaims(ctx, claims), nil
}

// RequireAuth returns an interceptor that validates JWT tokens and requires
// authentication for every procedure except the public ones. It extracts the
// token from the Authorization header and adds its claims to the request
// context.
func RequireAuth(jwtManager *auth.JWTManager, publicProcedures ...string) connect.UnaryInterceptorFunc {
	public := make(map[string]bool, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if public[req.Spec().Procedure] {
				return next(ctx, req)
			}

			ctx, err := Authenticate(ctx, jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(ctx, req)
		}
	}
}

// RequireAdmin returns an interceptor that rejects callers without the admin
// claim. It must run after RequireAuth.
func RequireAdmin() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if GetClaims(ctx) == nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}
			if !IsAdmin(ctx) {
				return nil, connect.NewError(connect.CodePermissionDenied, ErrAdminRequired)
			}
			return next(ctx, req)
		}
	}
}
