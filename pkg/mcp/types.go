package mcp

import "encoding/json"

type (
	// JSONRPCRequest represents an inbound JSON-RPC request or notification
	JSONRPCRequest struct {
		// JSONRPC version, "2.0" when present
		JSONRPC string `json:"jsonrpc,omitempty"`
		// A uniquely identifying ID for a request in JSON-RPC.
		// Can be string or number, nil for notifications.
		Id any `json:"id,omitempty"`
		// The method to be invoked
		Method string `json:"method"`
		// The parameters to be passed to the method
		Params json.RawMessage `json:"params,omitempty"`
	}

	// JSONRPCResponse is the single outbound envelope. Exactly one of Result
	// or Error is set, except for the empty notification acknowledgement
	// which carries neither (and no id).
	JSONRPCResponse struct {
		JSONRPC string        `json:"jsonrpc,omitempty"`
		ID      any           `json:"id,omitempty"`
		Result  any           `json:"result,omitempty"`
		Error   *JSONRPCError `json:"error,omitempty"`
	}

	// JSONRPCError represents an error in a JSON-RPC response
	JSONRPCError struct {
		// The error type that occurred
		Code int `json:"code"`
		// A short description of the error
		Message string `json:"message"`
		// Additional information about the error
		Data any `json:"data,omitempty"`
	}

	// ToolSchema represents a tool definition
	ToolSchema struct {
		// The name of the tool
		Name string `json:"name"`
		// A human-readable description of the tool
		Description string `json:"description"`
		// A JSON Schema object defining the expected parameters for the tool
		InputSchema ToolInputSchema `json:"inputSchema"`
	}

	ToolInputSchema struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Required   []string       `json:"required,omitempty"`
	}

	// ListToolsResult represents the result of a tools/list request
	ListToolsResult struct {
		Tools []ToolSchema `json:"tools"`
	}

	// CallToolParams represents parameters for a tools/call request
	CallToolParams struct {
		// The name of the tool to call
		Name string `json:"name"`
		// The arguments to pass to the tool
		Arguments json.RawMessage `json:"arguments"`
	}

	// TextContent represents a text content item
	TextContent struct {
		// Must be "text"
		Type string `json:"type"`
		// The text content
		Text string `json:"text"`
	}

	// CallToolResult represents the result of a tools/call request
	CallToolResult struct {
		Content []TextContent `json:"content"`
		IsError bool          `json:"isError,omitempty"`
	}

	// ImplementationSchema describes the name and version of an MCP implementation
	ImplementationSchema struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// ServerCapabilitiesSchema represents capabilities a server may support
	ServerCapabilitiesSchema struct {
		Logging   LoggingCapabilitySchema   `json:"logging"`
		Prompts   PromptsCapabilitySchema   `json:"prompts"`
		Resources ResourcesCapabilitySchema `json:"resources"`
		Tools     ToolsCapabilitySchema     `json:"tools"`
	}

	LoggingCapabilitySchema struct {
	}

	// PromptsCapabilitySchema represents prompts-related capabilities
	PromptsCapabilitySchema struct {
		ListChanged bool `json:"listChanged"`
	}

	// ResourcesCapabilitySchema represents resources-related capabilities
	ResourcesCapabilitySchema struct {
		Subscribe   bool `json:"subscribe"`
		ListChanged bool `json:"listChanged"`
	}

	// ToolsCapabilitySchema represents tools-related capabilities
	ToolsCapabilitySchema struct {
		ListChanged bool `json:"listChanged"`
	}

	// InitializedResult represents the result of an initialize request
	InitializedResult struct {
		// The version of the Model Context Protocol that the server wants to use
		ProtocolVersion string `json:"protocolVersion"`
		// Server capabilities
		Capabilities ServerCapabilitiesSchema `json:"capabilities"`
		// Server implementation information
		ServerInfo ImplementationSchema `json:"serverInfo"`
	}
)

// IsNotification reports whether the request carries no correlation id
func (r *JSONRPCRequest) IsNotification() bool {
	return r.Id == nil
}
