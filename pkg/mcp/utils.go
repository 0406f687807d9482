package mcp

// NewResult builds a success envelope echoing id
func NewResult(id any, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewError builds an error envelope echoing id
func NewError(id any, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
}

// NewCallToolResultText
// Helper function to create a single-block text tool result
func NewCallToolResultText(text string) *CallToolResult {
	return &CallToolResult{
		Content: []TextContent{
			{
				Type: ContentTypeText,
				Text: text,
			},
		},
	}
}

// IsEmpty reports whether the response is the id-less notification ack
func (r *JSONRPCResponse) IsEmpty() bool {
	return r.ID == nil && r.Result == nil && r.Error == nil
}
