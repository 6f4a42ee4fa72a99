package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duitraya/internal/auth"
	"github.com/mmynk/duitraya/internal/events"
	"github.com/mmynk/duitraya/internal/middleware"
	"github.com/mmynk/duitraya/internal/storage/sqlite"
	"github.com/mmynk/duitraya/pkg/api"
	"github.com/mmynk/duitraya/pkg/api/apiconnect"
)

const (
	testYear   = 2026
	testAdmin  = "admin@example.com"
	testSecret = "service-test-secret-key"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	store     *sqlite.SQLiteStore
	published *recordingPublisher

	auth      apiconnect.AuthServiceClient
	receivers apiconnect.ReceiverServiceClient
	summary   apiconnect.SummaryServiceClient
	admin     apiconnect.AdminServiceClient
}

// setupTestServer serves every service over httptest with the production
// interceptor chain and a temp-dir SQLite database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	published := &recordingPublisher{}
	emitter := events.NewEmitter(published, nil, logger)

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, []string{testAdmin})

	authInterceptor := middleware.RequireAuth(jwtManager,
		apiconnect.AuthServiceRegisterProcedure,
		apiconnect.AuthServiceLoginProcedure,
		apiconnect.AuthServiceLogoutProcedure,
	)
	userOpts := connect.WithInterceptors(authInterceptor, middleware.LoggingInterceptor(logger))
	adminOpts := connect.WithInterceptors(authInterceptor, middleware.RequireAdmin(), middleware.LoggingInterceptor(logger))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), userOpts))
	mux.Handle(apiconnect.NewReceiverServiceHandler(NewReceiverService(store, emitter, testYear, logger), userOpts))
	mux.Handle(apiconnect.NewSummaryServiceHandler(NewSummaryService(store, logger), userOpts))
	mux.Handle(apiconnect.NewAdminServiceHandler(NewAdminService(store, authenticator, logger), adminOpts))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:     store,
		published: published,
		auth:      apiconnect.NewAuthServiceClient(server.Client(), server.URL),
		receivers: apiconnect.NewReceiverServiceClient(server.Client(), server.URL),
		summary:   apiconnect.NewSummaryServiceClient(server.Client(), server.URL),
		admin:     apiconnect.NewAdminServiceClient(server.Client(), server.URL),
	}
}

// register creates an account and returns its user and bearer token.
func (e *testEnv) register(t *testing.T, username, email string) (*api.User, string) {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return resp.Msg.User, resp.Msg.Token
}

// authed wraps msg in a request carrying token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func ptr[T any](v T) *T { return &v }

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
