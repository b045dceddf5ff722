// Package llama sends blocking completion requests to a llama.cpp server.
package llama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

const provider = "llama"

// Client implements domain.Completer against the llama.cpp HTTP server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a completion client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Complete returns the generated text for req. Failures wrap
// domain.ErrCompletionFailed.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	start := time.Now()
	text, err := c.complete(ctx, req)
	c.metrics.UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(provider, "error").Inc()
		c.logger.Debug("completion failed", "n_predict", req.MaxTokens, "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrCompletionFailed, err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(provider, "success").Inc()
	return text, nil
}

func (c *Client) complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:        req.Prompt,
		NPredict:      req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		RepeatPenalty: req.RepeatPenalty,
		Stop:          req.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("llama server error: status %d: %s", resp.StatusCode, msg)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Content, nil
}

// llama.cpp /completion wire types.

type completionRequest struct {
	Prompt        string   `json:"prompt"`
	NPredict      int      `json:"n_predict"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	RepeatPenalty float64  `json:"repeat_penalty"`
	Stop          []string `json:"stop,omitempty"`
	Stream        bool     `json:"stream"`
}

type completionResponse struct {
	Content string `json:"content"`
}
