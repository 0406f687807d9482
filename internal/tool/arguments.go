package tool

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/amoylab/openai-mcp/internal/common/errorx"
)

// Argument defaults
const (
	DefaultModel           = "gpt-5"
	DefaultMaxTokens       = "1000"
	DefaultReasoningEffort = "medium"
	DefaultVerbosity       = "medium"
)

// Arguments are the query_openai tool arguments. Token ceilings are kept as
// json.Number so they reach the upstream call uninterpreted.
type Arguments struct {
	Prompt              string      `json:"prompt"`
	Model               string      `json:"model,omitempty"`
	MaxTokens           json.Number `json:"max_tokens,omitempty"`
	MaxCompletionTokens json.Number `json:"max_completion_tokens,omitempty"`
	ReasoningEffort     string      `json:"reasoning_effort,omitempty"`
	Verbosity           string      `json:"verbosity,omitempty"`
	UseResponsesAPI     *bool       `json:"use_responses_api,omitempty"`
}

// ParseArguments decodes and validates raw tool arguments and applies the
// defaults. defaultModel replaces DefaultModel when non-empty.
func ParseArguments(raw json.RawMessage, defaultModel string) (Arguments, error) {
	var args Arguments
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return args, errorx.InvalidParams(nil, "Invalid params: arguments are required")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil {
		return args, errorx.InvalidParams(err, "Invalid params")
	}
	if strings.TrimSpace(args.Prompt) == "" {
		return args, errorx.InvalidParams(nil, "Invalid params: prompt is required")
	}

	args.applyDefaults(defaultModel)
	return args, nil
}

func (a *Arguments) applyDefaults(defaultModel string) {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	if a.Model == "" {
		a.Model = defaultModel
	}
	if a.MaxTokens == "" {
		a.MaxTokens = DefaultMaxTokens
	}
	if a.ReasoningEffort == "" {
		a.ReasoningEffort = DefaultReasoningEffort
	}
	if a.Verbosity == "" {
		a.Verbosity = DefaultVerbosity
	}
	if a.UseResponsesAPI == nil {
		enabled := true
		a.UseResponsesAPI = &enabled
	}
}

// IsReasoningModel reports whether model belongs to the gpt-5 family
func IsReasoningModel(model string) bool {
	return strings.HasPrefix(model, "gpt-5")
}
