// Package gateway exposes the Connect services as a JSON REST API under
// /api, with the same routes the browser client has always used.
package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"

	"github.com/mmynk/duitraya/internal/auth"
	"github.com/mmynk/duitraya/internal/metrics"
	"github.com/mmynk/duitraya/internal/middleware"
	"github.com/mmynk/duitraya/pkg/api/apiconnect"
)

// ErrInvalidYear is returned for a year query parameter that is not an integer.
var ErrInvalidYear = errors.New("year must be an integer")

// Services are the handlers the gateway forwards to.
type Services struct {
	Auth      apiconnect.AuthServiceHandler
	Receivers apiconnect.ReceiverServiceHandler
	Summary   apiconnect.SummaryServiceHandler
	Admin     apiconnect.AdminServiceHandler
}

// Gateway translates REST calls into service calls.
type Gateway struct {
	svc        Services
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func New(svc Services, jwtManager *auth.JWTManager, m *metrics.Metrics, logger *slog.Logger) *Gateway {
	return &Gateway{svc: svc, jwtManager: jwtManager, metrics: m, logger: logger}
}

// Handler builds the gin router. Routes are rooted at /api.
func (g *Gateway) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), g.observe())

	v1 := r.Group("/api")
	{
		v1.POST("/auth/register", g.register)
		v1.POST("/auth/login", g.login)
		v1.POST("/auth/logout", g.logout)

		secured := v1.Group("")
		secured.Use(g.jwtAuth())
		{
			secured.GET("/auth/me", g.me)

			secured.GET("/receivers", g.listReceivers)
			secured.POST("/receivers", g.createReceiver)
			secured.GET("/receivers/years", g.listYears)
			secured.GET("/receivers/:id", g.getReceiver)
			secured.PUT("/receivers/:id", g.updateReceiver)
			secured.DELETE("/receivers/:id", g.deleteReceiver)

			secured.GET("/summary", g.summary)
			secured.GET("/summary/comparison", g.comparison)

			admin := secured.Group("/users")
			admin.Use(requireAdmin())
			{
				admin.GET("", g.listUsers)
				admin.DELETE("/:id", g.deleteUser)
				admin.PUT("/:id/reset-password", g.resetPassword)
			}
		}
	}

	return r
}

// observe records request counts and latency by route template.
func (g *Gateway) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		g.metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// jwtAuth validates the bearer token and stores the claims on the request
// context, where the services look for them.
func (g *Gateway) jwtAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := middleware.Authenticate(c.Request.Context(), g.jwtManager, c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !middleware.IsAdmin(c.Request.Context()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": middleware.ErrAdminRequired.Error()})
			return
		}
		c.Next()
	}
}

// fail writes err as {"error": message} with the status matching its
// Connect code.
func (g *Gateway) fail(c *gin.Context, err error) {
	status := httpStatus(connect.CodeOf(err))
	msg := err.Error()
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		msg = connectErr.Message()
	}
	if status >= http.StatusInternalServerError {
		g.logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeAlreadyExists:
		return http.StatusConflict
	case connect.CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case connect.CodeUnimplemented:
		return http.StatusNotImplemented
	case connect.CodeDeadlineExceeded, connect.CodeUnavailable, connect.CodeResourceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// yearQuery parses the optional ?year= parameter.
func yearQuery(c *gin.Context) (*int, error) {
	raw, ok := c.GetQuery("year")
	if !ok || raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ErrInvalidYear
	}
	return &year, nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}
