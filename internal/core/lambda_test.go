package core

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func lambdaEvent(method, path, authz, body string, b64 bool) events.LambdaFunctionURLRequest {
	ev := events.LambdaFunctionURLRequest{
		RawPath: path,
		Headers: map[string]string{"content-type": "application/json"},
		Body:    body,
	}
	if authz != "" {
		ev.Headers["authorization"] = authz
	}
	if b64 {
		ev.Body = base64.StdEncoding.EncodeToString([]byte(body))
		ev.IsBase64Encoded = true
	}
	ev.RequestContext.HTTP.Method = method
	ev.RequestContext.HTTP.SourceIP = "203.0.113.7"
	return ev
}

func TestLambdaAdapter_RPC(t *testing.T) {
	f := newFixture(t, false)
	f.api.chatBody = `{"choices":[{"message":{"content":"Hello"}}]}`
	a := NewLambdaAdapter(zap.NewNop(), f.server(nil).Handler())

	for _, b64 := range []bool{false, true} {
		resp, err := a.Handle(context.Background(), lambdaEvent(http.MethodPost, "/", basicAuth("admin:correct"),
			`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"query_openai","arguments":{"prompt":"Hi","model":"gpt-4"}}}`, b64))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Hello", gjson.Get(resp.Body, "result.content.0.text").String())
		assert.Contains(t, resp.Headers["Content-Type"], "application/json")
	}
	assert.True(t, f.session.Ready(), "cold start initializes the session")
}

func TestLambdaAdapter_Unauthorized(t *testing.T) {
	f := newFixture(t, false)
	a := NewLambdaAdapter(zap.NewNop(), f.server(nil).Handler())

	resp, err := a.Handle(context.Background(), lambdaEvent(http.MethodPost, "/", "", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="MCP Server"`, resp.Headers["Www-Authenticate"])
	assert.False(t, f.session.Ready())
}

func TestLambdaAdapter_HealthAndDefaults(t *testing.T) {
	f := newFixture(t, false)
	a := NewLambdaAdapter(zap.NewNop(), f.server(nil).Handler())

	resp, err := a.Handle(context.Background(), lambdaEvent(http.MethodGet, "/health", "", "", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", gjson.Get(resp.Body, "status").String())

	resp, err = a.Handle(context.Background(), lambdaEvent("", "", basicAuth("admin:correct"), "", false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http", gjson.Get(resp.Body, "transport").String())
}

func TestLambdaAdapter_BadBase64(t *testing.T) {
	f := newFixture(t, false)
	a := NewLambdaAdapter(zap.NewNop(), f.server(nil).Handler())

	ev := lambdaEvent(http.MethodPost, "/", "", "", false)
	ev.Body = "%%%"
	ev.IsBase64Encoded = true
	resp, err := a.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
