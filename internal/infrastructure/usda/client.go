package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
)

const (
	DefaultBaseURL         = "https://api.nal.usda.gov/fdc"
	DefaultPageSize        = 5
	DefaultRequestsPerHour = 1000

	maxAttempts   = 3
	maxErrorBody  = 1024
	maxResultBody = 4 << 20
	limiterBurst  = 10
)

// Config holds configuration for the FoodData Central client
type Config struct {
	APIKey          string
	BaseURL         string
	PageSize        int
	RequestsPerHour int
	Timeout         time.Duration
	Logger          *slog.Logger
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	pageSize    int
	rateLimiter *rate.Limiter
	log         *slog.Logger
	debug       bool
	backoff     func(attempt int) time.Duration
}

// NewClient creates a new USDA API client
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	perHour := config.RequestsPerHour
	if perHour <= 0 {
		perHour = DefaultRequestsPerHour
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      config.APIKey,
		baseURL:     baseURL,
		pageSize:    pageSize,
		rateLimiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), limiterBurst),
		log:         logger.Component(config.Logger, "usda"),
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables logging of request and response details
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(msg string, args ...any) {
	if c.debug {
		c.log.Info(msg, args...)
	}
}

// exponentialBackoff returns 500ms, 1s, 2s for attempts 1, 2, 3
func exponentialBackoff(attempt int) time.Duration {
	return 500 * time.Millisecond * time.Duration(1<<(attempt-1))
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// SearchFoods searches FoodData Central and returns at most PageSize per-100g
// records. A 404 or an empty hit list is an empty result, not an error.
// Server errors, 429 and transport failures are retried up to three times;
// other client errors fail at once.
func (c *Client) SearchFoods(ctx context.Context, query string) ([]domain.FoodRecord, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("pageSize", strconv.Itoa(c.pageSize))
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "NutriSwap/1.0")
		req.Header.Set("Accept", "application/json")

		c.debugLog("search request", "query", query, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			c.log.Warn("request failed", "query", query, "attempt", attempt, "error", err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			continue
		}

		records, retry, err := c.handleSearchResponse(resp, query, attempt)
		if err == nil {
			return records, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	c.log.Error("all retries failed", "query", query, "attempts", maxAttempts, "error", lastErr)
	return nil, lastErr
}

// handleSearchResponse decodes one response and reports whether a failure is retryable
func (c *Client) handleSearchResponse(resp *http.Response, query string, attempt int) ([]domain.FoodRecord, bool, error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.debugLog("no foods found", "query", query)
		return []domain.FoodRecord{}, false, nil

	case resp.StatusCode != http.StatusOK:
		body, _ := readLimitedBody(resp.Body, maxErrorBody)
		c.log.Warn("api error",
			"query", query, "attempt", attempt, "status", resp.StatusCode, "body", string(body))
		err := fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
		return nil, retryable(resp.StatusCode), err
	}

	body, err := readLimitedBody(resp.Body, maxResultBody)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamFailure, err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, false, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}

	foods := searchResp.Foods
	if len(foods) > c.pageSize {
		foods = foods[:c.pageSize]
	}

	records := make([]domain.FoodRecord, 0, len(foods))
	for _, food := range foods {
		records = append(records, MapToFoodRecord(food))
	}

	c.debugLog("search response", "query", query, "totalHits", searchResp.TotalHits, "returned", len(records))
	return records, false, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
