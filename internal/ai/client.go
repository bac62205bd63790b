// Package ai talks to an OpenAI-compatible chat completions API to generate
// quiz questions and concept explanations.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/verte-zerg/typemaster/internal/logger"
)

// ClientConfig holds connection settings.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// DefaultEndpoint is the public OpenAI API root.
const DefaultEndpoint = "https://api.openai.com"

// ChatRequest is a single-message chat completion.
type ChatRequest struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client calls the chat completions and model listing endpoints.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	log      *logger.Logger
}

// NewClient returns a Client. A zero Timeout means 30 seconds.
func NewClient(cfg ClientConfig, log *logger.Logger) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		log: log,
	}
}

// ValidateCredential performs an authenticated GET of the model list. Any
// transport failure or non-2xx status yields false.
func (c *Client) ValidateCredential(ctx context.Context, apiKey string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/v1/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("credential check failed", "err", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestBody struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponseBody struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatComplete sends one user message and returns the first choice's text.
// Failures are returned to the caller; nothing is retried here.
func (c *Client) ChatComplete(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	start := time.Now()
	text, err := c.chat(ctx, apiKey, req)
	fields := []interface{}{"model", req.Model, "latency_ms", time.Since(start).Milliseconds()}
	if err != nil {
		c.log.Warn("chat completion failed", append(fields, "err", err)...)
		return "", err
	}
	c.log.Info("chat completion", fields...)
	return text, nil
}

func (c *Client) chat(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := json.Marshal(chatRequestBody{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var body errorBody
		msg := ""
		if json.Unmarshal(respBody, &body) == nil {
			msg = body.Error.Message
		}
		return "", &HTTPError{StatusCode: httpResp.StatusCode, Message: msg}
	}

	var resp chatResponseBody
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrInvalidOutput)
	}
	return resp.Choices[0].Message.Content, nil
}
