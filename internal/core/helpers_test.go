package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/amoylab/openai-mcp/internal/auth"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/amoylab/openai-mcp/internal/openai"
	"github.com/amoylab/openai-mcp/internal/secrets"
	"github.com/amoylab/openai-mcp/internal/session"
	"github.com/amoylab/openai-mcp/internal/tool"
	"github.com/amoylab/openai-mcp/pkg/mcp"
	"github.com/amoylab/openai-mcp/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	apiKey   string
	password string
	err      error
}

func (r *stubResolver) Resolve(_ context.Context, kind secrets.Kind) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if kind == secrets.KindAPIKey {
		return r.apiKey, nil
	}
	return r.password, nil
}

type fakeAPI struct {
	responsesBody string
	chatBody      string
	err           error

	responses []openai.ResponsesRequest
	chats     []openai.ChatCompletionsRequest
}

func (f *fakeAPI) Responses(_ context.Context, req openai.ResponsesRequest) (json.RawMessage, error) {
	f.responses = append(f.responses, req)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.responsesBody), nil
}

func (f *fakeAPI) ChatCompletions(_ context.Context, req openai.ChatCompletionsRequest) (json.RawMessage, error) {
	f.chats = append(f.chats, req)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.chatBody), nil
}

type fixture struct {
	api        *fakeAPI
	resolver   *stubResolver
	session    *session.Session
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

func newFixture(t *testing.T, ready bool) *fixture {
	t.Helper()
	f := &fixture{
		api:      &fakeAPI{},
		resolver: &stubResolver{apiKey: "sk-test", password: "correct"},
		metrics:  metrics.New(config.MetricsConfig{Namespace: "test"}),
	}
	f.session = session.New(zap.NewNop(), f.resolver, func(string) openai.API { return f.api })
	if ready {
		require.NoError(t, f.session.Initialize(context.Background()))
	}
	f.dispatcher = NewDispatcher(zap.NewNop(), f.session, tool.New(zap.NewNop(), "", f.metrics), f.metrics, DefaultServerInfo(""))
	return f
}

func (f *fixture) server(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	gate := auth.NewGate(zap.NewNop(), f.resolver, cfg.Auth.Username, cfg.Auth.Realm)
	return NewServer(zap.NewNop(), cfg, f.dispatcher, gate, f.metrics)
}

func basicAuth(userpass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userpass))
}

func request(t *testing.T, raw string) *mcp.JSONRPCRequest {
	t.Helper()
	req, err := decodeRequest([]byte(raw))
	require.NoError(t, err)
	return req
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

var errBoom = errors.New("boom")
