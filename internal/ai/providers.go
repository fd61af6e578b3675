// internal/ai/providers.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatMessage is a single turn in a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallOptions tunes a single completion call
type CallOptions struct {
	MaxTokens   int
	Temperature float64
}

// Completion is the result of a chat completion, tagged with the provider
// that produced it
type Completion struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Content    string `json:"content"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

// Provider is a single LLM backend. Available reports whether the
// provider is configured; Call performs one completion.
type Provider interface {
	Name() string
	Available() bool
	Call(ctx context.Context, messages []ChatMessage, opts CallOptions) (*Completion, error)
}

// chatProvider talks to an OpenAI-compatible chat completions endpoint.
// All three hosted backends expose this wire format.
type chatProvider struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewDeepSeekProvider creates the DeepSeek backend
func NewDeepSeekProvider(apiKey string, timeout time.Duration) Provider {
	return &chatProvider{
		name:    "deepseek",
		baseURL: "https://api.deepseek.com/chat/completions",
		apiKey:  apiKey,
		model:   "deepseek-chat",
		client:  &http.Client{Timeout: timeout},
	}
}

// NewTencentProvider creates the Tencent Hunyuan backend
func NewTencentProvider(apiKey string, timeout time.Duration) Provider {
	return &chatProvider{
		name:    "tencent",
		baseURL: "https://api.hunyuan.cloud.tencent.com/v1/chat/completions",
		apiKey:  apiKey,
		model:   "hunyuan-lite",
		client:  &http.Client{Timeout: timeout},
	}
}

// NewAIMLAPIProvider creates the AIMLAPI backend
func NewAIMLAPIProvider(apiKey string, timeout time.Duration) Provider {
	return &chatProvider{
		name:    "aimlapi",
		baseURL: "https://api.aimlapi.com/v1/chat/completions",
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *chatProvider) Name() string { return p.name }

func (p *chatProvider) Available() bool { return p.apiKey != "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *chatProvider) Call(ctx context.Context, messages []ChatMessage, opts CallOptions) (*Completion, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: call failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", p.name, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%s: %s", p.name, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty choices", p.name)
	}

	return &Completion{
		Provider:   p.name,
		Model:      p.model,
		Content:    parsed.Choices[0].Message.Content,
		TokensUsed: parsed.Usage.TotalTokens,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// MockProvider returns a canned completion. It backs the manager's
// last-resort fallback and the test suite.
type MockProvider struct {
	Response string
	Err      error
	Calls    int
}

// NewMockProvider creates a mock provider with the given canned response
func NewMockProvider(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) Available() bool { return true }

func (p *MockProvider) Call(ctx context.Context, messages []ChatMessage, opts CallOptions) (*Completion, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return &Completion{
		Provider: "mock",
		Model:    "mock",
		Content:  p.Response,
	}, nil
}
