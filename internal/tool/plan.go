package tool

import (
	"github.com/amoylab/openai-mcp/internal/openai"
)

// Call shapes
const (
	ShapeResponses       = "responses"
	ShapeChatCompletions = "chat_completions"
)

// Call is one planned upstream call. Its implementations are ResponsesCall
// and ChatCompletionsCall.
type Call interface {
	Shape() string
	Model() string
	isCall()
}

type ResponsesCall struct {
	Request openai.ResponsesRequest
}

type ChatCompletionsCall struct {
	Request openai.ChatCompletionsRequest
}

func (c ResponsesCall) Shape() string { return ShapeResponses }
func (c ResponsesCall) Model() string { return c.Request.Model }
func (ResponsesCall) isCall() {}

func (c ChatCompletionsCall) Shape() string { return ShapeChatCompletions }
func (c ChatCompletionsCall) Model() string { return c.Request.Model }
func (ChatCompletionsCall) isCall() {}

// Plan selects the call shape for args, which must already carry defaults
func Plan(args Arguments) Call {
	if IsReasoningModel(args.Model) {
		if args.UseResponsesAPI == nil || *args.UseResponsesAPI {
			return ResponsesCall{Request: openai.ResponsesRequest{
				Model:     args.Model,
				Input:     args.Prompt,
				Reasoning: &openai.ReasoningParams{Effort: args.ReasoningEffort},
				Text:      &openai.TextParams{Verbosity: args.Verbosity},
			}}
		}
		req := chatRequest(args)
		req.ReasoningEffort = args.ReasoningEffort
		req.Verbosity = args.Verbosity
		return ChatCompletionsCall{Request: req}
	}
	return ChatCompletionsCall{Request: chatRequest(args)}
}

func chatRequest(args Arguments) openai.ChatCompletionsRequest {
	req := openai.ChatCompletionsRequest{
		Model:    args.Model,
		Messages: []openai.ChatMessage{{Role: "user", Content: args.Prompt}},
	}
	if args.MaxCompletionTokens != "" {
		req.MaxCompletionTokens = args.MaxCompletionTokens
	} else {
		req.MaxTokens = args.MaxTokens
	}
	return req
}
