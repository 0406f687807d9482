package mcp

const (
	// ProtocolVersion is the MCP revision reported by initialize
	ProtocolVersion = "2024-11-05"
	JSONRPCVersion  = "2.0"
)

// Methods
const (
	Initialize              = "initialize"
	NotificationInitialized = "notifications/initialized"
	Ping                    = "ping"
	ToolsList               = "tools/list"
	ToolsCall               = "tools/call"

	LoggingSetLevel = "logging/setLevel"
	PromptsList     = "prompts/list"
	ResourcesList   = "resources/list"
)

// Error codes for MCP protocol
// Standard JSON-RPC error codes
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

// Content types
const (
	ContentTypeText = "text"
)
