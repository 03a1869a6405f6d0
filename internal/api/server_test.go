package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Storage:  "memory",
		Platform: config.PlatformConfig{Admin: "admin", FeeBasisPoints: 250, CurrencyDecimals: 2},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", Issuer: "marketplace"},
	}
	svc := service.NewMarketplaceService(repository.NewMemoryStore(), service.Options{})
	require.NoError(t, svc.Bootstrap(context.Background(), "admin", 250))

	return NewServerWithService(cfg, svc)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/platform", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.IssueToken("alice", "test-secret", "marketplace", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/platform", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fee_basis_points":250`)
}

func TestSearchWithoutIndex(t *testing.T) {
	s := newTestServer(t)
	token, err := middleware.IssueToken("alice", "test-secret", "marketplace", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/events/search?q=jazz", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "not configured"))
}

func TestNewServer_UnknownStorage(t *testing.T) {
	_, err := NewServer(&config.Config{GinMode: gin.TestMode, Storage: "sqlite"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
