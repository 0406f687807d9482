package cnst

import "time"

const (
	AppName     = "openai-mcp"
	CommandName = "openai-mcp"
	// ServerName is reported in the initialize result and discovery documents
	ServerName = "openai-mcp-server"
)

// Upstream client ceilings
const (
	UpstreamTimeout    = 14 * time.Minute
	UpstreamMaxRetries = 1
)

const (
	// SecretCacheTTL bounds how long a secret-store value is reused
	SecretCacheTTL = 5 * time.Minute
	// SecretFetchTimeout bounds a single shared secret-store read
	SecretFetchTimeout = 30 * time.Second
	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 5 * time.Second
	DefaultPort     = 3000
)

// Authentication gate
const (
	AuthScheme   = "Basic"
	AuthUsername = "admin"
	AuthRealm    = "MCP Server"
)

const (
	// HeaderRequestID carries the per-request correlation id on HTTP exchanges
	HeaderRequestID = "X-Request-Id"
)
