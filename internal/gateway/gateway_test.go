package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/duitraya/internal/auth"
	"github.com/mmynk/duitraya/internal/events"
	"github.com/mmynk/duitraya/internal/metrics"
	"github.com/mmynk/duitraya/internal/service"
	"github.com/mmynk/duitraya/internal/storage/sqlite"
	"github.com/mmynk/duitraya/pkg/api"
)

const adminEmail = "admin@example.com"

type testGateway struct {
	handler  http.Handler
	registry *prometheus.Registry
}

func setupGateway(t *testing.T) *testGateway {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "gateway.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	jwtManager := auth.NewJWTManager("gateway-test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, []string{adminEmail})
	emitter := events.NewEmitter(events.NopPublisher{}, m, logger)

	gw := New(Services{
		Auth:      service.NewAuthService(authenticator, jwtManager, store, logger),
		Receivers: service.NewReceiverService(store, emitter, 2026, logger),
		Summary:   service.NewSummaryService(store, logger),
		Admin:     service.NewAdminService(store, authenticator, logger),
	}, jwtManager, m, logger)

	return &testGateway{handler: gw.Handler(), registry: reg}
}

// do sends a JSON request and decodes the response body into out when set.
func (g *testGateway) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	g.handler.ServeHTTP(w, req)

	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to decode %s %s response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code
}

func (g *testGateway) register(t *testing.T, email string) string {
	t.Helper()
	var resp api.RegisterResponse
	code := g.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Username: "user",
		Email:    email,
		Password: "password123",
	}, &resp)
	if code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, code)
	}
	return resp.Token
}

func TestReceiverRoutes(t *testing.T) {
	g := setupGateway(t)
	token := g.register(t, "aina@example.com")
	otherToken := g.register(t, "bob@example.com")

	var created api.CreateReceiverResponse
	code := g.do(t, http.MethodPost, "/api/receivers", token, map[string]any{
		"name":           "Keluarga Ahmad",
		"recipientCount": 4,
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", code)
	}
	if created.Receiver.TotalAmount != 40 || created.Receiver.Year != 2026 {
		t.Errorf("Unexpected receiver: %+v", created.Receiver)
	}
	id := created.Receiver.ID
	path := "/api/receivers/" + jsonNumber(id)

	t.Run("list returns an array", func(t *testing.T) {
		var list []api.Receiver
		if code := g.do(t, http.MethodGet, "/api/receivers?year=2026", token, nil, &list); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if len(list) != 1 || list[0].ID != id {
			t.Errorf("Unexpected list: %+v", list)
		}
	})

	t.Run("non-integer year is rejected", func(t *testing.T) {
		var body map[string]string
		for _, p := range []string{"/api/receivers?year=abc", "/api/summary?year=2026.5"} {
			if code := g.do(t, http.MethodGet, p, token, nil, &body); code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", p, code)
			}
			if body["error"] == "" {
				t.Errorf("%s: expected error message", p)
			}
		}
	})

	t.Run("update", func(t *testing.T) {
		var updated api.UpdateReceiverResponse
		code := g.do(t, http.MethodPut, path, token, map[string]any{"received": true}, &updated)
		if code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if !updated.Receiver.Received || updated.Receiver.RecipientCount != 4 {
			t.Errorf("Unexpected receiver: %+v", updated.Receiver)
		}
	})

	t.Run("invalid update", func(t *testing.T) {
		if code := g.do(t, http.MethodPut, path, token, map[string]any{"denomination": 7}, nil); code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})

	t.Run("other owner gets 404", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			var body map[string]string
			if code := g.do(t, method, path, otherToken, map[string]any{"name": "X"}, &body); code != http.StatusNotFound {
				t.Errorf("%s: expected 404, got %d", method, code)
			}
		}
	})

	t.Run("summary and comparison", func(t *testing.T) {
		var summary api.GetSummaryResponse
		if code := g.do(t, http.MethodGet, "/api/summary?year=2026", token, nil, &summary); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if summary.TotalPlanned != 40 || summary.TotalDistributed != 40 || summary.Balance != 0 {
			t.Errorf("Unexpected summary: %+v", summary)
		}

		var years []api.YearTotal
		if code := g.do(t, http.MethodGet, "/api/summary/comparison", token, nil, &years); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if len(years) != 1 || years[0].TotalBudget != 40 {
			t.Errorf("Unexpected comparison: %+v", years)
		}

		var list []int
		g.do(t, http.MethodGet, "/api/receivers/years", token, nil, &list)
		if len(list) != 1 || list[0] != 2026 {
			t.Errorf("Unexpected years: %v", list)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if code := g.do(t, http.MethodDelete, path, token, nil, nil); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if code := g.do(t, http.MethodGet, path, token, nil, nil); code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		if code := g.do(t, http.MethodGet, "/api/receivers/abc", token, nil, nil); code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", code)
		}
	})
}

func TestAuthRoutes(t *testing.T) {
	g := setupGateway(t)
	token := g.register(t, "aina@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"me", http.MethodGet, "/api/auth/me", token, nil, http.StatusOK},
		{"me without token", http.MethodGet, "/api/auth/me", "", nil, http.StatusUnauthorized},
		{"receivers with bad token", http.MethodGet, "/api/receivers", "not-a-jwt", nil, http.StatusUnauthorized},
		{"duplicate register", http.MethodPost, "/api/auth/register", "", api.RegisterRequest{Username: "x", Email: "aina@example.com", Password: "password123"}, http.StatusConflict},
		{"wrong password", http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "aina@example.com", Password: "nope-nope"}, http.StatusUnauthorized},
		{"login", http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: "aina@example.com", Password: "password123"}, http.StatusOK},
		{"logout", http.MethodPost, "/api/auth/logout", "", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := g.do(t, tt.method, tt.path, tt.token, tt.body, nil); code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, code)
			}
		})
	}
}

func TestAdminRoutes(t *testing.T) {
	g := setupGateway(t)
	adminToken := g.register(t, adminEmail)
	userToken := g.register(t, "aina@example.com")

	if code := g.do(t, http.MethodGet, "/api/users", userToken, nil, nil); code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-admin, got %d", code)
	}

	var users []api.User
	if code := g.do(t, http.MethodGet, "/api/users", adminToken, nil, &users); code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}

	var target, self string
	for _, u := range users {
		if u.IsAdmin {
			self = u.ID
		} else {
			target = u.ID
		}
	}

	if code := g.do(t, http.MethodPut, "/api/users/"+target+"/reset-password", adminToken,
		map[string]string{"newPassword": "fresh-password"}, nil); code != http.StatusOK {
		t.Errorf("Expected 200 for reset, got %d", code)
	}
	if code := g.do(t, http.MethodPost, "/api/auth/login", "",
		api.LoginRequest{Email: "aina@example.com", Password: "fresh-password"}, nil); code != http.StatusOK {
		t.Errorf("Expected login with reset password to succeed, got %d", code)
	}

	if code := g.do(t, http.MethodDelete, "/api/users/"+self, adminToken, nil, nil); code != http.StatusPreconditionFailed {
		t.Errorf("Expected 412 for self delete, got %d", code)
	}
	if code := g.do(t, http.MethodDelete, "/api/users/"+target, adminToken, nil, nil); code != http.StatusOK {
		t.Errorf("Expected 200 for delete, got %d", code)
	}
	if code := g.do(t, http.MethodDelete, "/api/users/"+target, adminToken, nil, nil); code != http.StatusNotFound {
		t.Errorf("Expected 404 for second delete, got %d", code)
	}
}

func TestHTTPMetrics(t *testing.T) {
	g := setupGateway(t)
	g.do(t, http.MethodGet, "/api/receivers", "", nil, nil)
	g.do(t, http.MethodGet, "/nowhere", "", nil, nil)

	expected := `
# HELP duitraya_http_requests_total REST gateway requests, by method, route and status.
# TYPE duitraya_http_requests_total counter
duitraya_http_requests_total{method="GET",route="/api/receivers",status="401"} 1
duitraya_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	if err := testutil.GatherAndCompare(g.registry, strings.NewReader(expected), "duitraya_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[connect.Code]int{
		connect.CodeInvalidArgument:    http.StatusBadRequest,
		connect.CodeUnauthenticated:    http.StatusUnauthorized,
		connect.CodePermissionDenied:   http.StatusForbidden,
		connect.CodeNotFound:           http.StatusNotFound,
		connect.CodeAlreadyExists:      http.StatusConflict,
		connect.CodeFailedPrecondition: http.StatusPreconditionFailed,
		connect.CodeInternal:           http.StatusInternalServerError,
		connect.CodeUnknown:            http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := httpStatus(code); got != want {
			t.Errorf("httpStatus(%v) = %d, want %d", code, got, want)
		}
	}
}

func jsonNumber(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
