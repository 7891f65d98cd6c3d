package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/config"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ctxutil"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/security/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealth map[string]error

func (f fakeHealth) Health(_ context.Context) map[string]error { return f }

type fixture struct {
	srv    *Server
	tokens *jwt.TokenManager
}

func newFixture(t *testing.T, health fakeHealth) *fixture {
	t.Helper()
	mediaDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "jobs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "jobs", "a.png"), []byte("png"), 0o644))

	tokens := jwt.NewTokenManager("server-test-secret")
	srv, err := New(Options{
		Config: &config.Config{
			RunMode:        gin.TestMode,
			Port:           8080,
			RequestTimeout: time.Second,
			Auth:           &config.Auth{Whitelist: []string{"/health", "/metrics"}},
		},
		Logger:    logger.NewLogger(io.Discard),
		Identity:  tokens,
		Collector: metrics.NewCollector(),
		Health:    health,
		MediaDir:  mediaDir,
		Routes: func(r gin.IRouter) {
			r.GET("/whoami", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user": ctxutil.GetUserID(c.Request.Context())})
			})
			r.GET("/panic", func(*gin.Context) { panic("boom") })
			r.GET("/deadline", func(c *gin.Context) {
				_, ok := c.Request.Context().Deadline()
				c.JSON(http.StatusOK, gin.H{"deadline": ok})
			})
		},
	})
	require.NoError(t, err)
	return &fixture{srv: srv, tokens: tokens}
}

func (f *fixture) get(t *testing.T, path, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		token, err := f.tokens.GenerateAccessToken("jti", user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Config: &config.Config{}})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, fakeHealth{"mongodb": nil, "redis": nil})
	rec := f.get(t, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "healthy", body["message"])
	assert.Equal(t, map[string]any{"mongodb": "ok", "redis": "ok"}, body["components"])

	f = newFixture(t, fakeHealth{"mongodb": errors.New("server selection timeout")})
	rec = f.get(t, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "unhealthy", body["message"])
	assert.Equal(t, "server selection timeout", body["components"].(map[string]any)["mongodb"])
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, fakeHealth{"mongodb": nil})
	f.get(t, "/health", "")

	rec := f.get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "transport_http_requests_total")
}

func TestAuthentication(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.get(t, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, decode(t, rec)["error"])

	rec = f.get(t, "/whoami", "driver-7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "driver-7", decode(t, rec)["user"])
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestMediaIsPublic(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/media/jobs/a.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestRecovery(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/panic", "driver-7")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "internal server error", body["message"])
	assert.False(t, strings.Contains(rec.Body.String(), "boom"))
}

func TestRequestTimeout(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/deadline", "driver-7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["deadline"])
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/nowhere", "driver-7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, true, decode(t, rec)["error"])
}
