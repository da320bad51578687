package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-leaveform/internal/leaveform"

	"go.uber.org/zap"
)

// StatusError reports a non-2xx answer from the endpoint. It is only
// returned in strict mode.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("submission endpoint responded %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) StatusCode() int {
	return e.Code
}

type Config struct {
	Endpoint     string
	Timeout      time.Duration
	StrictStatus bool
}

type Option func(*Client)

// WithHTTPClient replaces the default client; Config.Timeout is ignored then.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("submission.client")
		}
	}
}

// Client posts leave-form payloads as JSON to a fixed endpoint.
type Client struct {
	endpoint     string
	strictStatus bool
	httpClient   *http.Client
	logger       *zap.Logger
}

var _ leaveform.Submitter = (*Client)(nil)

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		endpoint:     cfg.Endpoint,
		strictStatus: cfg.StrictStatus,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       zap.L().Named("submission.client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends one payload. Transport errors always fail. The response body
// is drained and ignored; its status only matters in strict mode.
func (c *Client) Submit(ctx context.Context, payload leaveform.SubmissionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode submission payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("submission request failed",
			zap.String("endpoint", c.endpoint),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	fields := []zap.Field{
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if c.strictStatus {
			c.logger.Warn("submission rejected by endpoint", fields...)
			return &StatusError{Code: resp.StatusCode}
		}
		c.logger.Warn("submission endpoint returned non-2xx, treated as delivered", fields...)
		return nil
	}

	c.logger.Debug("submission delivered", fields...)
	return nil
}
