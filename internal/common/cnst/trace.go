package cnst

// Tracer names used across the services
const (
	// TraceCore is the tracer name for dispatcher logic
	TraceCore = "openai-mcp/core"
	// TraceUpstream is the tracer name for the OpenAI client
	TraceUpstream = "openai-mcp/upstream"
)

// Common span names and prefixes
const (
	// SpanMCPMethodPrefix prefixes spans for handling MCP methods
	SpanMCPMethodPrefix = "mcp.method."
	SpanUpstreamCall    = "openai.call"
)

// Common attribute keys
const (
	AttrMCPMethod    = "mcp.method"
	AttrMCPTool      = "mcp.tool"
	AttrMCPErrorCode = "mcp.error_code"
	AttrModel        = "openai.model"
	AttrCallShape    = "openai.call_shape"
)
