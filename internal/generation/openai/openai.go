package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/apperr"
	"github.com/Shreyaskrishnareddy/HoustonNonprofitRAG/internal/domain"
)

// Client is an OpenAI-compatible chat completions client. Groq is the default
// provider. It never retries: one failed call is one failed generation.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	maxTokens   int
	temperature float64
	topP        float64
	client      *http.Client
}

// Config configures the chat completions client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 1024

// NewClient creates a client. A missing API key is not an error here; calls
// fail with an upstream error instead so the server can still start.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	key := ""
	if cfg.APIKeyEnv != "" {
		key = strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      key,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		client:      httpClient,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Configured reports whether an API key was found.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the composed prompt as the system message and the raw question
// as the user message, bounded by the configured timeout.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if !c.Configured() {
		return "", apperr.NewUpstreamError("no API key configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserQuestion},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return "", apperr.NewUpstreamError(fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", apperr.NewUpstreamError(fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apperr.NewUpstreamError(fmt.Sprintf("status %s: %s", resp.Status, strings.TrimSpace(string(snippet))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportError(ctx, err)
	}
	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", apperr.NewUpstreamError(fmt.Sprintf("decode response: %v", err))
	}
	if len(out.Choices) == 0 {
		return "", apperr.NewUpstreamError("response has no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", apperr.NewUpstreamError("response has empty content")
	}
	return text, nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return apperr.NewUpstreamTimeoutError(c.timeout)
	}
	return apperr.NewUpstreamError(err.Error())
}
