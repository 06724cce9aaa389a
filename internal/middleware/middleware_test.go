package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-seat-api/internal/dto"
	"github.com/noah-isme/library-seat-api/internal/models"
	"github.com/noah-isme/library-seat-api/internal/service"
	"github.com/noah-isme/library-seat-api/pkg/config"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func guardedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := CurrentClaims(c)
		email := ""
		if claims != nil {
			email = claims.Email
		}
		c.String(http.StatusOK, email)
	})
	router.POST("/add-seat", handlers...)
	return router
}

func decodeResult(t *testing.T, body io.Reader) dto.MutationResult {
	t.Helper()
	var result dto.MutationResult
	require.NoError(t, json.NewDecoder(body).Decode(&result))
	return result
}

func TestGuardRequiresAdminToken(t *testing.T) {
	validator := stubValidator{
		"admin":   {Email: "admin@library.local", Role: models.RoleAdmin},
		"display": {Email: "display@library.local", Role: "VIEWER"},
	}
	router := guardedRouter(Guard(true, validator, models.RoleAdmin)...)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "missing header", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "unknown token", header: "Bearer nope", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "wrong role", header: "Bearer display", status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "admin", header: "bearer admin", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/add-seat", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.code != "" {
				result := decodeResult(t, rec.Body)
				assert.False(t, result.Success)
				assert.Equal(t, tc.code, result.Code)
			} else {
				assert.Equal(t, "admin@library.local", rec.Body.String())
			}
		})
	}
}

func TestGuardDisabledPassesThrough(t *testing.T) {
	assert.Nil(t, Guard(false, stubValidator{}, models.RoleAdmin))
	router := guardedRouter(Guard(false, stubValidator{}, models.RoleAdmin)...)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-seat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type stubLimiter struct {
	remaining int64
	keys      []string
	err       error
}

func (s *stubLimiter) Take(_ context.Context, key string) (Decision, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return Decision{}, s.err
	}
	if s.remaining <= 0 {
		return Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond}, nil
	}
	s.remaining--
	return Decision{Allowed: true, Remaining: s.remaining}, nil
}

func TestRateLimitRejectsWhenBucketEmpty(t *testing.T) {
	limiter := &stubLimiter{remaining: 2}
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 2, Prefix: "library-seat:rl"}
	router := guardedRouter(RateLimit(limiter, cfg, nil))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/add-seat", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		router.ServeHTTP(last, req)
		if i < 2 {
			assert.Equal(t, http.StatusOK, last.Code)
		}
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "2", last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	result := decodeResult(t, last.Body)
	assert.Equal(t, "RATE_LIMITED", result.Code)
	assert.Equal(t, "library-seat:rl:ip:10.0.0.7:route:POST /add-seat", limiter.keys[0])
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := guardedRouter(RateLimit(&stubLimiter{err: errors.New("redis down")}, config.RateLimitConfig{Enabled: true, Capacity: 1}, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-seat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	disabled := guardedRouter(RateLimit(&stubLimiter{}, config.RateLimitConfig{Enabled: false}, nil))
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add-seat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenBucketSurfacesRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	bucket := NewTokenBucket(client, config.RateLimitConfig{Capacity: 5, RefillInterval: time.Second})

	_, err := bucket.Take(context.Background(), "library-seat:rl:test")
	assert.Error(t, err)
	assert.Equal(t, 5*time.Second+time.Minute, bucket.ttl)
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(4), asInt64("4"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics, "/ws"))
	router.GET("/seats", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/ws", func(c *gin.Context) { c.Status(http.StatusSwitchingProtocols) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/seats", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws", nil))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `path="/seats"`), body)
	assert.True(t, strings.Contains(body, `path="unmatched"`), body)
	assert.False(t, strings.Contains(body, `path="/ws"`), body)
}
