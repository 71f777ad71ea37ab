package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lian220/quant-jump-stock-frontend-sub001/internal/config"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Client executes one outbound call to the remote backend per inbound proxy
// request. A single attempt per call, no retry: the browser owns the retry
// decision.
type Client struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// Call describes one outbound backend call.
type Call struct {
	Method  string
	Path    string
	Query   url.Values
	Body    []byte
	Headers http.Header
	// Timeout bounds the whole call. Zero means the configured default.
	Timeout time.Duration
}

// Response is the raw backend answer; non-2xx statuses are carried here, not
// as errors.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the backend answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func NewClient(cfg *config.Config, log *zap.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		logger: log,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     10,
			},
		},
	}

	settings := gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 10,
		Interval:    time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
	c.breaker = gobreaker.NewCircuitBreaker(settings)

	c.logger.Info("Gateway client initialized",
		zap.String("origin", cfg.Backend.Origin),
		zap.Duration("default_timeout", cfg.Backend.Timeout),
	)
	return c
}

// BreakerState exposes the circuit state for the ops surface.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Do executes the call. The returned error is ErrTimeout, ErrUnreachable, or
// nil; backend-reported failures arrive as a Response with its status code.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.execute(ctx, call)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Circuit breaker rejected backend call", zap.String("path", call.Path))
			return nil, fmt.Errorf("%w: circuit open", ErrUnreachable)
		}
		return nil, err
	}
	return result.(*Response), nil
}

func (c *Client) execute(ctx context.Context, call Call) (*Response, error) {
	timeout := call.Timeout
	if timeout <= 0 {
		timeout = c.cfg.Backend.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.cfg.BackendURL(call.Path)
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	var body io.Reader
	if len(call.Body) > 0 {
		body = bytes.NewReader(call.Body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	if len(call.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range call.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Warn("Backend call timed out",
				zap.String("method", call.Method),
				zap.String("path", call.Path),
				zap.Duration("timeout", timeout),
			)
			return nil, fmt.Errorf("%w after %s: %s %s", ErrTimeout, timeout, call.Method, call.Path)
		}
		c.logger.Warn("Backend call failed",
			zap.String("method", call.Method),
			zap.String("path", call.Path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	c.logger.Debug("Backend call completed",
		zap.String("method", call.Method),
		zap.String("path", call.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("response_size", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

// DecodeErrorMessage extracts a human-readable message from a backend error
// body. It never fails: an unparseable or empty body yields the fallback.
func DecodeErrorMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallback
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return fallback
}

// DecodeData parses a backend success body into a generic value. An empty
// body decodes to nil; an unparseable body is handed through as a string so
// a misbehaving backend cannot fail the whole response.
func DecodeData(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return string(body)
	}
	return data
}
