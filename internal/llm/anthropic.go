// Package llm wraps the remote language-model and image-generation APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const anthropicVersion = "2023-06-01"

// CompletionClient is the single-turn text capability consumed by the
// analysis and digest engines.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client calls the Anthropic Messages API. Requests are throttled with a
// shared limiter so concurrent pipelines stay under the API rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	limiter    *rate.Limiter
}

func NewClient(apiKey, model string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &Client{
		httpClient: &http.Client{Timeout: 3 * time.Minute},
		baseURL:    "https://api.anthropic.com",
		apiKey:     apiKey,
		model:      model,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1),
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends a single-turn prompt and returns the model's text. Failures
// (timeout, auth, rate limit) are hard errors; the caller decides whether to
// degrade or fail its unit of work.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read LLM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API error: %d - %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("LLM response contained no content")
	}
	return parsed.Content[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
