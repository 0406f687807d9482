package core

import (
	"context"
	"testing"

	"github.com/amoylab/openai-mcp/pkg/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func dispatch(t *testing.T, f *fixture, raw string) string {
	t.Helper()
	return marshal(t, f.dispatcher.Dispatch(context.Background(), request(t, raw)))
}

func TestDispatch_Initialize(t *testing.T) {
	f := newFixture(t, true)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`)

	assert.Equal(t, "2.0", gjson.Get(out, "jsonrpc").String())
	assert.Equal(t, int64(1), gjson.Get(out, "id").Int())
	assert.Equal(t, mcp.ProtocolVersion, gjson.Get(out, "result.protocolVersion").String())
	assert.Equal(t, "openai-mcp-server", gjson.Get(out, "result.serverInfo.name").String())
	assert.NotEmpty(t, gjson.Get(out, "result.serverInfo.version").String())
	for _, capability := range []string{"tools", "logging", "prompts", "resources"} {
		assert.True(t, gjson.Get(out, "result.capabilities."+capability).Exists(), capability)
	}
	assert.False(t, gjson.Get(out, "error").Exists())
}

func TestDispatch_IDEcho(t *testing.T) {
	f := newFixture(t, true)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"abc","result":{"status":"ok"}}`, dispatch(t, f, `{"jsonrpc":"2.0","id":"abc","method":"ping"}`))
	assert.Contains(t, dispatch(t, f, `{"jsonrpc":"2.0","id":9007199254740993,"method":"ping"}`), `"id":9007199254740993`)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":0,"result":{"status":"ok"}}`, dispatch(t, f, `{"jsonrpc":"2.0","id":0,"method":"ping"}`))
}

func TestDispatch_NotificationsInitialized(t *testing.T) {
	f := newFixture(t, true)

	resp := f.dispatcher.Dispatch(context.Background(), request(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	assert.True(t, resp.IsEmpty())
	assert.Equal(t, `{}`, marshal(t, resp))

	out := dispatch(t, f, `{"jsonrpc":"2.0","id":7,"method":"notifications/initialized"}`)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"result":{}}`, out)

	resp = f.dispatcher.Dispatch(context.Background(), request(t, `{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":1}}`))
	assert.True(t, resp.IsEmpty())
}

func TestDispatch_ToolsList(t *testing.T) {
	f := newFixture(t, true)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	tools := gjson.Get(out, "result.tools").Array()
	require.Len(t, tools, 1)
	assert.Equal(t, "query_openai", tools[0].Get("name").String())
	assert.JSONEq(t, `["prompt"]`, tools[0].Get("inputSchema.required").Raw)
	assert.Len(t, tools[0].Get("inputSchema.properties").Map(), 7)
	assert.Equal(t, "medium", tools[0].Get("inputSchema.properties.verbosity.default").String())
}

func TestDispatch_ToolsCallChatCompletions(t *testing.T) {
	f := newFixture(t, true)
	f.api.chatBody = `{"choices":[{"message":{"role":"assistant","content":"Hello"}}]}`

	out := dispatch(t, f, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"query_openai","arguments":{"prompt":"Hi","model":"gpt-4"}}}`)
	assert.Equal(t, "Hello", gjson.Get(out, "result.content.0.text").String())
	assert.Equal(t, "text", gjson.Get(out, "result.content.0.type").String())
	assert.False(t, gjson.Get(out, "result.isError").Bool())

	require.Len(t, f.api.chats, 1)
	req := f.api.chats[0]
	assert.Equal(t, "gpt-4", req.Model)
	assert.Empty(t, req.ReasoningEffort)
	assert.Empty(t, req.Verbosity)
	assert.Equal(t, "1000", req.MaxTokens.String())
}

func TestDispatch_ToolsCallResponses(t *testing.T) {
	f := newFixture(t, true)
	f.api.responsesBody = `{"id":"resp_1","output_text":"Quantum!"}`

	out := dispatch(t, f, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"query_openai","arguments":{"prompt":"Explain","model":"gpt-5.1"}}}`)
	assert.Equal(t, "Quantum!", gjson.Get(out, "result.content.0.text").String())
	require.Len(t, f.api.responses, 1)
	assert.Equal(t, "medium", f.api.responses[0].Reasoning.Effort)
	assert.Equal(t, "medium", f.api.responses[0].Text.Verbosity)
	assert.Empty(t, f.api.chats)
}

func TestDispatch_ToolsCallUpstreamFailure(t *testing.T) {
	f := newFixture(t, true)
	f.api.err = errBoom

	out := dispatch(t, f, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"query_openai","arguments":{"prompt":"Hi","model":"gpt-4"}}}`)
	assert.Equal(t, int64(5), gjson.Get(out, "id").Int())
	assert.Equal(t, int64(mcp.ErrorCodeInternalError), gjson.Get(out, "error.code").Int())
	assert.Contains(t, gjson.Get(out, "error.message").String(), "boom")
	assert.False(t, gjson.Get(out, "result").Exists())
}

func TestDispatch_ToolsCallInvalid(t *testing.T) {
	f := newFixture(t, true)
	for _, raw := range []string{
		`{"jsonrpc":"2.0","id":6,"method":"tools/call"}`,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"query_openai"}}`,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"query_openai","arguments":{"model":"gpt-4"}}}`,
		`{"jsonrpc":"2.0","id":6,"method":"tools/call","params":"oops"}`,
	} {
		out := dispatch(t, f, raw)
		assert.Equal(t, int64(mcp.ErrorCodeInvalidParams), gjson.Get(out, "error.code").Int(), raw)
	}
	assert.Empty(t, f.api.chats)
	assert.Empty(t, f.api.responses)
}

func TestDispatch_ToolsCallOtherTool(t *testing.T) {
	f := newFixture(t, true)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"other_tool","arguments":{"prompt":"x"}}}`)
	assert.Equal(t, int64(7), gjson.Get(out, "id").Int())
	assert.Equal(t, int64(mcp.ErrorCodeMethodNotFound), gjson.Get(out, "error.code").Int())
	assert.Contains(t, gjson.Get(out, "error.message").String(), "tools/call")
	assert.Contains(t, gjson.Get(out, "error.message").String(), "other_tool")
	assert.Empty(t, f.api.chats)
	assert.Empty(t, f.api.responses)
}

func TestDispatch_UnknownMethod(t *testing.T) {
	f := newFixture(t, true)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":8,"method":"foo/bar"}`)
	assert.Equal(t, int64(mcp.ErrorCodeMethodNotFound), gjson.Get(out, "error.code").Int())
	assert.Equal(t, "Unknown method: foo/bar", gjson.Get(out, "error.message").String())

	// matching is case-sensitive
	out = dispatch(t, f, `{"jsonrpc":"2.0","id":9,"method":"Ping"}`)
	assert.Equal(t, int64(mcp.ErrorCodeMethodNotFound), gjson.Get(out, "error.code").Int())
}

func TestDispatch_SupplementedMethods(t *testing.T) {
	f := newFixture(t, true)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":1,"result":{}}`, dispatch(t, f, `{"jsonrpc":"2.0","id":1,"method":"logging/setLevel","params":{"level":"debug"}}`))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":2,"result":{"resources":[]}}`, dispatch(t, f, `{"jsonrpc":"2.0","id":2,"method":"resources/list"}`))
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":3,"result":{"prompts":[]}}`, dispatch(t, f, `{"jsonrpc":"2.0","id":3,"method":"prompts/list"}`))
}

func TestDispatch_NotInitialized(t *testing.T) {
	f := newFixture(t, false)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	assert.Equal(t, int64(mcp.ErrorCodeInternalError), gjson.Get(out, "error.code").Int())
	assert.Contains(t, gjson.Get(out, "error.message").String(), "not initialized")
}

func TestDispatch_MissingMethod(t *testing.T) {
	f := newFixture(t, true)
	out := dispatch(t, f, `{"jsonrpc":"2.0","id":1}`)
	assert.Equal(t, int64(mcp.ErrorCodeInvalidRequest), gjson.Get(out, "error.code").Int())
}

func TestDecodeRequest(t *testing.T) {
	_, err := decodeRequest([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Parse error")

	_, err = decodeRequest([]byte(`[1,2]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Request")

	req, err := decodeRequest([]byte(`{"jsonrpc":"2.0","id":null,"method":"ping"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())
}
