package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BDorzho/shareit/internal/auth"
	"github.com/BDorzho/shareit/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingLimiter struct {
	budget int
	keys   []string
}

func (l *countingLimiter) Allow(_ context.Context, key string) bool {
	l.keys = append(l.keys, key)
	l.budget--
	return l.budget >= 0
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestRequestLoggerRecordsUser(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	logging.InitWriter(&buf, "info")

	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/items/:id", func(c *gin.Context) {
		auth.SetUser(c, "user-1", "u@example.com")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	req.Header.Set(RequestIDHeader, "rid")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "http_request", rec["msg"])
	assert.Equal(t, "/items/:id", rec["path"])
	assert.Equal(t, float64(http.StatusNoContent), rec["status"])
	assert.Equal(t, "rid", rec["request_id"])
	assert.Equal(t, "user-1", rec["user_id"])
}

func TestRateLimitKeysByUser(t *testing.T) {
	limiter := &countingLimiter{budget: 1}

	r := gin.New()
	r.POST("/bookings",
		func(c *gin.Context) { auth.SetUser(c, "user-1", "u@example.com") },
		RateLimit(limiter),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bookings", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())

	assert.Equal(t, []string{"user-1", "user-1"}, limiter.keys)
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:8081"}, allowedOrigins(Config{}))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		allowedOrigins(Config{IsProduction: true, ProdOrigins: " https://a.example, ,https://b.example"}),
	)
	assert.Empty(t, allowedOrigins(Config{IsProduction: true}))
}
