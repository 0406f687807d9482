package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Upstream API paths relative to the base URL
const (
	PathResponses       = "responses"
	PathChatCompletions = "chat/completions"
)

// Options configures the upstream client handle
type Options struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	// HTTPClient overrides the transport, used by tests
	HTTPClient *http.Client
}

// API is the pair of upstream call shapes the tool uses
type API interface {
	Responses(ctx context.Context, req ResponsesRequest) (json.RawMessage, error)
	ChatCompletions(ctx context.Context, req ChatCompletionsRequest) (json.RawMessage, error)
}

// Client wraps the OpenAI client with the configured ceilings
type Client struct {
	client  openai.Client
	timeout time.Duration
	retries int
}

type (
	// ResponsesRequest is the body of a responses call
	ResponsesRequest struct {
		Model     string           `json:"model"`
		Input     string           `json:"input"`
		Reasoning *ReasoningParams `json:"reasoning,omitempty"`
		Text      *TextParams      `json:"text,omitempty"`
	}

	ReasoningParams struct {
		Effort string `json:"effort,omitempty"`
	}

	TextParams struct {
		Verbosity string `json:"verbosity,omitempty"`
	}

	// ChatCompletionsRequest is the body of a chat completions call. At most
	// one of MaxTokens and MaxCompletionTokens is set.
	ChatCompletionsRequest struct {
		Model               string        `json:"model"`
		Messages            []ChatMessage `json:"messages"`
		ReasoningEffort     string        `json:"reasoning_effort,omitempty"`
		Verbosity           string        `json:"verbosity,omitempty"`
		MaxTokens           json.Number   `json:"max_tokens,omitempty"`
		MaxCompletionTokens json.Number   `json:"max_completion_tokens,omitempty"`
	}

	ChatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
)

var _ API = (*Client)(nil)

// NewClient creates a new OpenAI client handle
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = cnst.UpstreamTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = cnst.UpstreamMaxRetries
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(opts.Timeout),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &Client{
		client:  openai.NewClient(reqOpts...),
		timeout: opts.Timeout,
		retries: opts.MaxRetries,
	}
}

// Timeout returns the per-call ceiling
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// MaxRetries returns the retry ceiling
func (c *Client) MaxRetries() int {
	return c.retries
}

// Responses performs a responses call and returns the raw response body
func (c *Client) Responses(ctx context.Context, req ResponsesRequest) (json.RawMessage, error) {
	return c.post(ctx, PathResponses, req)
}

// ChatCompletions performs a chat completions call and returns the raw response body
func (c *Client) ChatCompletions(ctx context.Context, req ChatCompletionsRequest) (json.RawMessage, error) {
	return c.post(ctx, PathChatCompletions, req)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	var raw []byte
	if err := c.client.Post(ctx, path, body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// StatusCode extracts the upstream HTTP status from err, or 0 when err did
// not come from an upstream HTTP response
func StatusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
