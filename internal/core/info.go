package core

import (
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/pkg/mcp"
	"github.com/amoylab/openai-mcp/pkg/version"
)

// ServerInfo is the identity advertised by initialize and the discovery documents
type ServerInfo struct {
	Name            string
	Version         string
	ProtocolVersion string
	// CustomDomain is the public host name, when fronted by one
	CustomDomain string
	Username     string
}

// DefaultServerInfo returns the identity of this build
func DefaultServerInfo(customDomain string) ServerInfo {
	return ServerInfo{
		Name:            cnst.ServerName,
		Version:         version.Get(),
		ProtocolVersion: mcp.ProtocolVersion,
		CustomDomain:    customDomain,
		Username:        cnst.AuthUsername,
	}
}

func (i ServerInfo) health() map[string]any {
	return map[string]any{
		"status":    "healthy",
		"service":   i.Name,
		"version":   i.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

func (i ServerInfo) discovery() map[string]any {
	doc := map[string]any{
		"name":            i.Name,
		"version":         i.Version,
		"protocolVersion": i.ProtocolVersion,
		"transport":       "http",
		"endpoint":        "/",
		"capabilities":    []string{"tools", "logging", "prompts", "resources"},
		"authentication": map[string]any{
			"type":     "basic",
			"username": i.Username,
		},
	}
	if i.CustomDomain != "" {
		doc["customDomain"] = i.CustomDomain
		doc["url"] = "https://" + i.CustomDomain + "/"
	}
	return doc
}
