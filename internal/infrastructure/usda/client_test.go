package usda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at baseURL with no backoff between attempts
func newTestClient(baseURL string) *Client {
	client := NewClient(Config{
		APIKey:  "test-api-key",
		BaseURL: baseURL,
		Logger:  logger.Discard(),
	})
	client.backoff = func(int) time.Duration { return 0 }
	return client
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNewClient(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		client := NewClient(Config{APIKey: "test-api-key"})

		assert.NotNil(t, client)
		assert.Equal(t, "test-api-key", client.apiKey)
		assert.Equal(t, DefaultBaseURL, client.baseURL)
		assert.Equal(t, DefaultPageSize, client.pageSize)
		assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
		assert.NotNil(t, client.rateLimiter)
		assert.Equal(t, limiterBurst, client.rateLimiter.Burst())
		assert.False(t, client.debug)
	})

	t.Run("honours overrides", func(t *testing.T) {
		client := NewClient(Config{
			APIKey:   "k",
			BaseURL:  "https://api.example.com",
			PageSize: 10,
			Timeout:  5 * time.Second,
		})

		assert.Equal(t, "https://api.example.com", client.baseURL)
		assert.Equal(t, 10, client.pageSize)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})
}

func TestSetDebug(t *testing.T) {
	client := NewClient(Config{APIKey: "test-api-key", Logger: logger.Discard()})

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestSearchFoods_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/foods/search", r.URL.Path)
		assert.Equal(t, "grilled chicken", r.URL.Query().Get("query"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "NutriSwap/1.0", r.Header.Get("User-Agent"))

		writeJSON(w, SearchResponse{
			TotalHits: 1,
			Foods: []Food{
				{
					FdcID:       171077,
					Description: "Chicken, broilers or fryers, breast, grilled",
					DataType:    "SR Legacy",
					FoodNutrients: []FoodNutrient{
						{NutrientID: NutrientIDEnergy, Value: 151.4},
						{NutrientID: NutrientIDProtein, Value: 30.54},
						{NutrientID: NutrientIDTotalFat, Value: 3.17},
						{NutrientID: NutrientIDSodium, Value: 52.6},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "grilled chicken")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "171077", result[0].ExternalID)
	assert.Equal(t, "Chicken, broilers or fryers, breast, grilled", result[0].Name)
	assert.Equal(t, "SR Legacy", result[0].DataType)
	assert.Equal(t, 151.0, result[0].Calories)
	assert.Equal(t, 30.5, result[0].Protein)
	assert.Equal(t, 3.2, result[0].Fat)
	assert.Equal(t, 53.0, result[0].Sodium)
}

func TestSearchFoods_TruncatesToPageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foods := make([]Food, 8)
		for i := range foods {
			foods[i] = Food{FdcID: i + 1, Description: "Apple"}
		}
		writeJSON(w, SearchResponse{TotalHits: 8, Foods: foods})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "apple")

	require.NoError(t, err)
	assert.Len(t, result, DefaultPageSize)
}

func TestSearchFoods_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "nonexistent-product")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestSearchFoods_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, SearchResponse{Foods: []Food{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "empty-results")

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSearchFoods_ServerError_Retries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, SearchResponse{Foods: []Food{{FdcID: 123, Description: "Success after retry"}}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "retry-test")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Success after retry", result[0].Name)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestSearchFoods_ClientError_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "bad-request")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchFoods_TooManyRequests_Retries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, SearchResponse{Foods: []Food{{FdcID: 456, Description: "Success after rate limit"}}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "rate-limit-test")

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestSearchFoods_InvalidJSON(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "invalid-json")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Contains(t, err.Error(), "failed to decode response")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchFoods_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := client.SearchFoods(ctx, "timeout-test")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDebugLog(t *testing.T) {
	client := NewClient(Config{APIKey: "test-api-key", Logger: logger.Discard()})

	// Should not panic either way
	client.debug = false
	client.debugLog("test message", "key", "value")

	client.debug = true
	client.debugLog("test message", "key", "value")
}

func TestReadLimitedBody(t *testing.T) {
	t.Run("reads within limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("short content"))
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 1000)
		require.NoError(t, err)
		assert.Equal(t, "short content", string(body))
	})

	t.Run("truncates beyond limit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for i := 0; i < 100; i++ {
				w.Write([]byte("0123456789"))
			}
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := readLimitedBody(resp.Body, 100)
		require.NoError(t, err)
		assert.Len(t, body, 100)
	})
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(http.StatusInternalServerError))
	assert.True(t, retryable(http.StatusServiceUnavailable))
	assert.True(t, retryable(http.StatusTooManyRequests))
	assert.False(t, retryable(http.StatusBadRequest))
	assert.False(t, retryable(http.StatusForbidden))
}

func TestSearchFoods_AllRetriesFail(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchFoods(context.Background(), "all-fail")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, int32(maxAttempts), attempts.Load())
}

func TestSearchFoods_TransportError_Retries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url)

	result, err := client.SearchFoods(context.Background(), "closed")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
}

func TestSearchFoods_RequestCreationError(t *testing.T) {
	client := newTestClient("://invalid-url")

	result, err := client.SearchFoods(context.Background(), "test")

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUpstreamFailure)
}
