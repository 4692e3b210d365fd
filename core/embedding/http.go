package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// Option configures an HTTPEmbedder.
type Option func(*HTTPEmbedder)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *HTTPEmbedder) { e.client = c }
}

// HTTPEmbedder calls a remote inference service.
type HTTPEmbedder struct {
	endpoint string
	model    string
	client   *http.Client
}

type embedResponse struct {
	Vector []float32 `json:"vector"`
	Error  string    `json:"error,omitempty"`
}

// NewHTTPEmbedder creates an embedder for cfg.Endpoint.
func NewHTTPEmbedder(cfg Config, opts ...Option) (*HTTPEmbedder, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("embedding endpoint is not configured")
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	e := &HTTPEmbedder{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Model returns the configured model name.
func (e *HTTPEmbedder) Model() string { return e.model }

// Embed posts image to the service and returns the vector it computed.
func (e *HTTPEmbedder) Embed(ctx context.Context, image []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")
	if e.model != "" {
		req.Header.Set("X-Model", e.model)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding response: %w", err)
	}

	var out embedResponse
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		_ = json.Unmarshal(body, &out)
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, &DecodeError{Err: errors.New(msg)}
	default:
		return nil, fmt.Errorf("embedding service returned %s", resp.Status)
	}

	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(out.Vector) == 0 {
		return nil, errors.New("embedding service returned an empty vector")
	}
	return out.Vector, nil
}
