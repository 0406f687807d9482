package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/errorx"
	"github.com/amoylab/openai-mcp/internal/session"
	"github.com/amoylab/openai-mcp/internal/tool"
	"github.com/amoylab/openai-mcp/pkg/mcp"
	"github.com/amoylab/openai-mcp/pkg/metrics"
	"github.com/amoylab/openai-mcp/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Dispatcher routes MCP requests for one session
type Dispatcher struct {
	logger  *zap.Logger
	session *session.Session
	tool    *tool.QueryOpenAI
	metrics *metrics.Metrics
	info    ServerInfo
}

// NewDispatcher creates a dispatcher bound to sess
func NewDispatcher(logger *zap.Logger, sess *session.Session, t *tool.QueryOpenAI, m *metrics.Metrics, info ServerInfo) *Dispatcher {
	return &Dispatcher{
		logger:  logger.Named("dispatcher"),
		session: sess,
		tool:    t,
		metrics: m,
		info:    info,
	}
}

// Session returns the session the dispatcher serves
func (d *Dispatcher) Session() *session.Session {
	return d.session
}

// Info returns the advertised server identity
func (d *Dispatcher) Info() ServerInfo {
	return d.info
}

// Dispatch handles one request and always returns a response. The empty
// response (see mcp.JSONRPCResponse.IsEmpty) acknowledges a notification.
func (d *Dispatcher) Dispatch(ctx context.Context, req *mcp.JSONRPCRequest) *mcp.JSONRPCResponse {
	start := time.Now()
	method := req.Method
	d.metrics.McpReqStart(method)

	span := trace.Start(ctx, cnst.TraceCore, cnst.SpanMCPMethodPrefix+method,
		attribute.String(cnst.AttrMCPMethod, method))
	defer span.End()

	resp := d.dispatch(span.Ctx, req)

	outcome := "result"
	switch {
	case resp.IsEmpty():
		outcome = "ack"
	case resp.Error != nil:
		outcome = "error"
		span.Set(attribute.Int(cnst.AttrMCPErrorCode, resp.Error.Code))
		d.logger.Warn("request failed",
			zap.String("method", method),
			zap.Any("id", req.Id),
			zap.Int("code", resp.Error.Code),
			zap.String("message", resp.Error.Message))
	}
	d.metrics.McpReqDone(method, start, outcome)
	return resp
}

func (d *Dispatcher) dispatch(ctx context.Context, req *mcp.JSONRPCRequest) *mcp.JSONRPCResponse {
	if req.Method == "" {
		return errorx.ToJSONRPC(req.Id, errorx.MalformedRequest(nil, "Invalid Request: method is required"))
	}
	if !d.session.Ready() {
		return errorx.ToJSONRPC(req.Id, errorx.NotInitialized())
	}

	switch req.Method {
	case mcp.Initialize:
		return mcp.NewResult(req.Id, d.initializeResult())
	case mcp.NotificationInitialized:
		if req.IsNotification() {
			return &mcp.JSONRPCResponse{}
		}
		return mcp.NewResult(req.Id, struct{}{})
	case mcp.Ping:
		return mcp.NewResult(req.Id, map[string]string{"status": "ok"})
	case mcp.ToolsList:
		return mcp.NewResult(req.Id, mcp.ListToolsResult{Tools: []mcp.ToolSchema{d.tool.Descriptor()}})
	case mcp.ToolsCall:
		return d.callTool(ctx, req)
	case mcp.LoggingSetLevel:
		return mcp.NewResult(req.Id, struct{}{})
	case mcp.ResourcesList:
		return mcp.NewResult(req.Id, map[string]any{"resources": []any{}})
	case mcp.PromptsList:
		return mcp.NewResult(req.Id, map[string]any{"prompts": []any{}})
	}

	// other notifications need no answer
	if req.IsNotification() && strings.HasPrefix(req.Method, "notifications/") {
		return &mcp.JSONRPCResponse{}
	}
	return errorx.ToJSONRPC(req.Id, errorx.UnknownMethod(req.Method))
}

func (d *Dispatcher) initializeResult() mcp.InitializedResult {
	return mcp.InitializedResult{
		ProtocolVersion: d.info.ProtocolVersion,
		Capabilities: mcp.ServerCapabilitiesSchema{
			Logging:   mcp.LoggingCapabilitySchema{},
			Prompts:   mcp.PromptsCapabilitySchema{},
			Resources: mcp.ResourcesCapabilitySchema{},
			Tools:     mcp.ToolsCapabilitySchema{},
		},
		ServerInfo: mcp.ImplementationSchema{
			Name:    d.info.Name,
			Version: d.info.Version,
		},
	}
}

func (d *Dispatcher) callTool(ctx context.Context, req *mcp.JSONRPCRequest) *mcp.JSONRPCResponse {
	var params mcp.CallToolParams
	if len(req.Params) == 0 {
		return errorx.ToJSONRPC(req.Id, errorx.InvalidParams(nil, "Invalid params: params are required"))
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorx.ToJSONRPC(req.Id, errorx.InvalidParams(err, "Invalid params"))
	}
	if params.Name != tool.Name {
		return errorx.ToJSONRPC(req.Id, errorx.New(errorx.KindUnknownMethod, nil, "Unknown method: %s (tool %q)", req.Method, params.Name))
	}

	span := trace.Start(ctx, cnst.TraceCore, cnst.SpanUpstreamCall,
		attribute.String(cnst.AttrMCPTool, params.Name))
	defer span.End()

	api, err := d.session.Client()
	if err != nil {
		span.Fail(err)
		return errorx.ToJSONRPC(req.Id, err)
	}

	start := time.Now()
	result, err := d.tool.Execute(span.Ctx, api, params.Arguments)
	if err != nil {
		span.Fail(err)
		d.metrics.ToolExecDone(params.Name, start, "error")
		return errorx.ToJSONRPC(req.Id, err)
	}
	d.metrics.ToolExecDone(params.Name, start, "success")
	return mcp.NewResult(req.Id, result)
}
