package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/metrics"
)

// serve runs one request through a router holding only mw and a 200 handler
func serve(mw gin.HandlerFunc, method, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(mw)
	router.Handle(method, "/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(method, path, nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{"exact match", "chrome-extension://abcdefg12345", []string{"chrome-extension://abcdefg12345"}, true},
		{"wildcard match", "chrome-extension://abcdefg12345", []string{"chrome-extension://*"}, true},
		{"matches second entry", "http://localhost:3000", []string{"chrome-extension://*", "http://localhost:3000"}, true},
		{"no match", "http://evil.com", []string{"chrome-extension://*"}, false},
		{"empty origin", "", []string{"chrome-extension://*"}, false},
		{"empty origin with bare wildcard", "", []string{"*"}, false},
		{"empty allowed list", "chrome-extension://abcdefg12345", []string{}, false},
		{"partial wildcard match", "chrome-extension://abcdefg12345", []string{"chrome-*"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isAllowedOrigin(tt.origin, tt.allowedOrigins))
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	allowed := []string{"chrome-extension://*"}

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{"allowed origin - GET request", "chrome-extension://abcdefg12345", http.MethodGet, http.StatusOK, true},
		{"allowed origin - OPTIONS request", "chrome-extension://abcdefg12345", http.MethodOptions, http.StatusNoContent, true},
		{"disallowed origin", "http://evil.com", http.MethodGet, http.StatusOK, false},
		{"no origin header", "", http.MethodGet, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(CORSMiddleware(allowed), tt.method, "/test", func(r *http.Request) {
				if tt.origin != "" {
					r.Header.Set("Origin", tt.origin)
				}
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCORS {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
				assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
				assert.NotEmpty(t, w.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		w := serve(RequestIDMiddleware(), http.MethodGet, "/test", nil)

		id := w.Header().Get(requestIDHeader)
		require.NotEmpty(t, id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})

	t.Run("propagates a client id", func(t *testing.T) {
		w := serve(RequestIDMiddleware(), http.MethodGet, "/test", func(r *http.Request) {
			r.Header.Set(requestIDHeader, "req-123")
		})

		assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	})

	t.Run("stores the id on the context", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestIDMiddleware())
		var seen string
		router.GET("/test", func(c *gin.Context) {
			seen = requestID(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(requestIDHeader, "abc")
		router.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "abc", seen)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("rejects requests over the per-IP budget", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitMiddleware(2))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		send := func(ip string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = ip + ":1234"
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

		limited := send("10.0.0.1")
		assert.Equal(t, http.StatusTooManyRequests, limited.Code)
		assert.Equal(t, "60", limited.Header().Get("Retry-After"))
		assert.Contains(t, limited.Body.String(), domain.ErrRateLimited.Error())

		// Other clients have their own bucket
		assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
	})

	t.Run("disabled when limit is not positive", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimitMiddleware(0))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 50; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			require.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	limiter := newIPRateLimiter(10)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.2"))
	assert.Len(t, limiter.limiters, 2)

	now = now.Add(limiterIdleTTL + time.Minute)
	assert.True(t, limiter.allow("10.0.0.3"))
	assert.Len(t, limiter.limiters, 1)
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	router := gin.New()
	router.Use(MetricsMiddleware(collector))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP nutriswap_http_requests_total HTTP requests by method, route and status
# TYPE nutriswap_http_requests_total counter
nutriswap_http_requests_total{method="GET",route="/items/:id",status="200"} 2
nutriswap_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "nutriswap_http_requests_total"))
}

func TestMetricsMiddleware_NilCollector(t *testing.T) {
	w := serve(MetricsMiddleware(nil), http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	w := serve(LoggerMiddleware(logger.Discard()), http.MethodGet, "/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
