// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package mlclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/questwise/internal/breaker"
	"github.com/tomtom215/questwise/internal/metrics"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "http://localhost:8000"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 32 << 20

// Config controls the client's transport, rate limit and breaker.
type Config struct {
	// BaseURL of the ML service. Default: http://localhost:8000
	BaseURL string

	// Timeout per HTTP request. Default: 30s
	Timeout time.Duration

	// RequestsPerSecond caps outbound calls. Zero disables the limiter.
	RequestsPerSecond float64

	// Burst is the limiter burst. Default: 1
	Burst int

	// Breaker trips on server errors and transport failures.
	Breaker breaker.Config

	// FallbackLimit is the number of quests returned when the service
	// cannot recommend. Default: 5
	FallbackLimit int

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// DefaultConfig returns a client configuration for a local ML service.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 20,
		Burst:             5,
		Breaker:           breaker.DefaultConfig(),
		FallbackLimit:     5,
	}
}

// APIError is a non-2xx response from the ML service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("ml service returned %d", e.StatusCode)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// ClientFault reports whether the request itself was rejected.
func (e *APIError) ClientFault() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client calls the ML service.
type Client struct {
	baseURL       string
	http          *http.Client
	limiter       *rate.Limiter
	breaker       *breaker.Breaker
	fallbackLimit int
	logger        zerolog.Logger
}

// New creates a client. Zero fields in cfg take their defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Breaker == (breaker.Config{}) {
		cfg.Breaker = defaults.Breaker
	}
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = defaults.FallbackLimit
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          httpClient,
		limiter:       rate.NewLimiter(limit, cfg.Burst),
		breaker:       breaker.New("ml-service", cfg.Breaker, countsAsSuccess),
		fallbackLimit: cfg.FallbackLimit,
		logger:        logger.With().Str("component", "mlclient").Logger(),
	}
}

// countsAsSuccess keeps rejected requests from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ClientFault()
}

// errorBody covers both failure shapes: /predict's {error, message} and
// the {status, message, code, detail} of /train and /recommend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Detail  string `json:"detail"`
}

// post sends body to path and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordMLClientRequest(endpoint, time.Since(start), err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ml service rate limit: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	return breaker.Do(c.breaker, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("post %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("read %s response: %w", endpoint, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var eb errorBody
			if json.Unmarshal(data, &eb) == nil {
				apiErr.Code = eb.Code
				apiErr.Message = eb.Message
				apiErr.Detail = eb.Detail
				if eb.Error != "" {
					apiErr.Detail = eb.Error
				}
			}
			return apiErr
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		return nil
	})
}
