// Package backend holds the HTTP clients for the two downstream services the
// portal orchestrates against: the submission service and the
// payment-calculation service. Each call is one best-effort round trip;
// transport-level retries (network errors, 5xx) live here and nowhere above.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// APIError represents a non-2xx response from a downstream service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

// IsNotFound reports whether the response was a 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// IsServerError reports whether the response was a 5xx.
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// Client is the shared HTTP core for one downstream service. SubmissionClient
// and PaymentClient embed it and add typed endpoints.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	logger       logging.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// NewClient constructs a Client from one backend section of the portal
// configuration.
func NewClient(cfg config.BackendConfig, logger logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.Validation("backend base URL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "backend base URL is not a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.Validation("backend base URL scheme must be http or https")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		apiKey:       cfg.APIKey,
		logger:       logger,
		retryMax:     cfg.RetryMax,
		retryWaitMin: cfg.RetryWaitMin,
		retryWaitMax: cfg.RetryWaitMax,
	}, nil
}

// do performs one HTTP request with retry on network errors and 5xx
// responses. 4xx responses are returned immediately as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal request body")
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("retrying backend call",
				logging.Int("attempt", attempt),
				logging.Duration("backoff", backoff),
				logging.String("path", path),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
		}

		requestID := uuid.New().String()
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("backend request failed", logging.String("path", path), logging.Err(err))
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Debug("backend request",
			logging.String("method", method),
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
			logging.Duration("duration", time.Since(start)),
		)
		if readErr != nil {
			return errors.Wrap(readErr, errors.ErrCodeExternalService, "failed to read response body")
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
			if len(respBody) > 0 {
				var errResp struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				}
				if jsonErr := json.Unmarshal(respBody, &errResp); jsonErr == nil {
					apiErr.Code = errResp.Code
					apiErr.Message = errResp.Message
				} else {
					apiErr.Message = string(respBody)
				}
			}
			lastErr = apiErr
			if apiErr.IsServerError() {
				continue
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal response")
			}
		}
		return nil
	}

	return lastErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// calculateBackoff returns exponential backoff with up to 25% jitter, capped
// at retryWaitMax.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if backoff <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
	return backoff + jitter
}

// isNotFound reports whether err is an APIError 404.
func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.IsNotFound()
}
