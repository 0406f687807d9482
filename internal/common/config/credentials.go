package config

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/amoylab/openai-mcp/internal/common/errorx"
)

// Credentials is the local-mode credentials file
type Credentials struct {
	OpenAIAPIKey string `json:"openaiApiKey"`
	CustomDomain string `json:"customDomain,omitempty"`
}

// LoadCredentials reads and validates the JSON credentials file. A missing
// file or a missing openaiApiKey is a configuration error.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errorx.Configuration(nil, "credentials file %s not found", path)
		}
		return nil, errorx.Configuration(err, "failed to read credentials file %s", path)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, errorx.Configuration(err, "invalid credentials file %s", path)
	}
	creds.OpenAIAPIKey = strings.TrimSpace(creds.OpenAIAPIKey)
	if creds.OpenAIAPIKey == "" {
		return nil, errorx.Configuration(nil, "credentials file %s: openaiApiKey is required", path)
	}
	return &creds, nil
}
