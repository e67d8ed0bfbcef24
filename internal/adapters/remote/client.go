// Package remote talks to the basket analytics API that serves live
// metrics, fund lists and graph series per basket and horizon.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/pkg/circuitbreaker"
	"github.com/basket-service/basket_service/pkg/metrics"
	"github.com/basket-service/basket_service/pkg/retry"
	"github.com/basket-service/basket_service/pkg/tracing"
	"github.com/basket-service/basket_service/pkg/version"
)

const (
	serviceName = "basket_api"

	defaultTimeout        = 10 * time.Second
	defaultRateLimitRPS   = 20
	defaultRateLimitBurst = 10
	maxBodySize           = 4 << 20
)

// Config represents remote basket API configuration
type Config struct {
	BaseURL        string // e.g. http://localhost:5000/api
	Timeout        time.Duration
	RateLimitRPS   float64 // Requests per second (0 = use default)
	RateLimitBurst int     // Burst capacity (0 = use default)
	Retry          retry.RetryConfig
	Breaker        circuitbreaker.Config
}

// APIError is a non-2xx response from the remote API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Endpoint   string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("basket API %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("basket API %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Temporary reports whether the status is worth retrying
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client represents a remote basket API client
type Client struct {
	config         Config
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	limiter        *rate.Limiter
	logger         *zap.Logger
}

// NewClient creates a new remote basket API client
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.RateLimitRPS == 0 {
		config.RateLimitRPS = defaultRateLimitRPS
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = defaultRateLimitBurst
	}
	if config.Retry.MaxAttempts == 0 {
		config.Retry = retry.DefaultConfig()
	}
	if config.Breaker.Timeout == 0 {
		config.Breaker = circuitbreaker.DefaultConfig()
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	breakerCfg := config.Breaker
	breakerCfg.IsSuccessful = func(err error) bool {
		// A client error means the API is up and answering.
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return !apiErr.Temporary()
		}
		return err == nil
	}
	breakerCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Info("Circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
		metrics.UpdateCircuitBreakerState(serviceName, float64(to))
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: circuitbreaker.New("BasketAPI", breakerCfg),
		limiter:        rate.NewLimiter(rate.Limit(config.RateLimitRPS), config.RateLimitBurst),
		logger:         logger,
	}
}

// FetchBasket loads the payload for a basket path and horizon. The graph
// block is shape-tagged while decoding.
func (c *Client) FetchBasket(ctx context.Context, path string, horizon entities.Horizon) (*entities.RemoteBasketPayload, error) {
	if !horizon.Valid() {
		return nil, fmt.Errorf("%w: got %d", entities.ErrInvalidHorizon, int(horizon))
	}

	endpoint := "/baskets/" + url.PathEscape(path)
	query := url.Values{"years": []string{strconv.Itoa(int(horizon))}}

	var payload entities.RemoteBasketPayload
	_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, c.doRequestWithRetry(ctx, endpoint, query, &payload)
	})
	if err != nil {
		c.logger.Warn("Failed to fetch remote basket",
			zap.String("basket", path),
			zap.Int("horizon", int(horizon)),
			zap.Error(err))
		return nil, fmt.Errorf("fetch basket %s: %w", path, err)
	}

	c.logger.Debug("Fetched remote basket",
		zap.String("basket", path),
		zap.Int("horizon", int(horizon)),
		zap.Int("funds", len(payload.Funds)))

	return &payload, nil
}

// HealthCheck verifies the remote API answers its health endpoint
func (c *Client) HealthCheck(ctx context.Context) error {
	var body map[string]interface{}
	return c.doRequest(ctx, "/health", nil, &body)
}

// GetMetrics returns client metrics for monitoring
func (c *Client) GetMetrics() map[string]interface{} {
	counts := c.circuitBreaker.Counts()
	return map[string]interface{}{
		"circuit_breaker_state": c.circuitBreaker.State().String(),
		"requests":              counts.Requests,
		"total_successes":       counts.TotalSuccesses,
		"total_failures":        counts.TotalFailures,
		"consecutive_failures":  counts.ConsecutiveFailures,
		"rate_limit_rps":        c.config.RateLimitRPS,
	}
}

func (c *Client) doRequestWithRetry(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	attempt := 0
	return retry.WithExponentialBackoff(ctx, c.config.Retry, func() error {
		attempt++
		if attempt > 1 {
			c.logger.Info("Retrying basket API request",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt))
		}
		return c.doRequest(ctx, endpoint, query, out)
	}, isRetryableError)
}

// doRequest performs a single GET request
func (c *Client) doRequest(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	fullURL := c.config.BaseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	tracing.InjectTraceContext(ctx, req.Header)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalAPICall(serviceName, endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.RecordExternalAPICall(serviceName, endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Received basket API response",
		zap.String("url", fullURL),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("body_size", len(respBody)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return retry.IsTemporaryError(err)
}
