package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amoylab/openai-mcp/internal/common/errorx"
	"github.com/amoylab/openai-mcp/internal/openai"
	"github.com/amoylab/openai-mcp/pkg/mcp"

	"go.uber.org/zap"
)

// Name is the only tool exposed
const Name = "query_openai"

// Recorder receives upstream call outcomes
type Recorder interface {
	UpstreamCall(callShape, model, status string)
}

// QueryOpenAI executes the query_openai tool
type QueryOpenAI struct {
	logger       *zap.Logger
	defaultModel string
	recorder     Recorder
}

// New creates the tool. recorder may be nil.
func New(logger *zap.Logger, defaultModel string, recorder Recorder) *QueryOpenAI {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &QueryOpenAI{
		logger:       logger.Named("tool"),
		defaultModel: defaultModel,
		recorder:     recorder,
	}
}

// Descriptor returns the tools/list entry
func (t *QueryOpenAI) Descriptor() mcp.ToolSchema {
	return mcp.ToolSchema{
		Name:        Name,
		Description: "Query OpenAI models. gpt-5 family models use the Responses API by default with reasoning effort and verbosity controls; other models use Chat Completions.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"prompt": map[string]any{
					"type":        "string",
					"description": "The prompt to send to the model",
				},
				"model": map[string]any{
					"type":        "string",
					"description": "Model to use",
					"default":     t.defaultModel,
				},
				"max_tokens": map[string]any{
					"type":        "number",
					"description": "Maximum tokens in the response (legacy ceiling, used when max_completion_tokens is absent)",
					"default":     1000,
				},
				"max_completion_tokens": map[string]any{
					"type":        "number",
					"description": "Maximum completion tokens; takes precedence over max_tokens",
				},
				"reasoning_effort": map[string]any{
					"type":        "string",
					"description": "Reasoning effort for gpt-5 models",
					"enum":        []string{"minimal", "low", "medium", "high"},
					"default":     DefaultReasoningEffort,
				},
				"verbosity": map[string]any{
					"type":        "string",
					"description": "Response verbosity for gpt-5 models",
					"enum":        []string{"low", "medium", "high"},
					"default":     DefaultVerbosity,
				},
				"use_responses_api": map[string]any{
					"type":        "boolean",
					"description": "Use the Responses API for gpt-5 models",
					"default":     true,
				},
			},
			Required: []string{"prompt"},
		},
	}
}

// Execute parses raw arguments, performs the planned upstream call and
// returns its text as a tool result. Invalid arguments fail with an
// invalid-params error, upstream failures with an upstream error.
func (t *QueryOpenAI) Execute(ctx context.Context, api openai.API, raw json.RawMessage) (*mcp.CallToolResult, error) {
	args, err := ParseArguments(raw, t.defaultModel)
	if err != nil {
		return nil, err
	}

	call := Plan(args)
	text, err := t.Invoke(ctx, api, call)
	if err != nil {
		return nil, err
	}
	return mcp.NewCallToolResultText(text), nil
}

// Invoke performs call against api and normalizes the answer
func (t *QueryOpenAI) Invoke(ctx context.Context, api openai.API, call Call) (string, error) {
	logger := t.logger.With(zap.String("call_shape", call.Shape()), zap.String("model", call.Model()))
	logger.Debug("calling upstream")

	var (
		body json.RawMessage
		err  error
		text string
	)
	switch c := call.(type) {
	case ResponsesCall:
		body, err = api.Responses(ctx, c.Request)
		if err == nil {
			text = responsesText(body)
		}
	case ChatCompletionsCall:
		body, err = api.ChatCompletions(ctx, c.Request)
		if err == nil {
			text = chatText(body)
		}
	default:
		err = fmt.Errorf("unsupported call shape %T", call)
	}

	if err != nil {
		t.record(call, "error")
		status := openai.StatusCode(err)
		logger.Error("upstream call failed", zap.Int("status", status), zap.Error(err))
		return "", errorx.Upstream(err, "OpenAI API error")
	}

	t.record(call, "success")
	return text, nil
}

func (t *QueryOpenAI) record(call Call, status string) {
	if t.recorder != nil {
		t.recorder.UpstreamCall(call.Shape(), call.Model(), status)
	}
}
