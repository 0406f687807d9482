package config

import (
	"os"
	"regexp"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/pkg/helper"
	"github.com/amoylab/openai-mcp/pkg/trace"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// Config represents the server configuration
	Config struct {
		Port            int           `yaml:"port"`
		PID             string        `yaml:"pid"`
		CredentialsFile string        `yaml:"credentials_file"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		Logger          LoggerConfig  `yaml:"logger"`
		Secrets         SecretsConfig `yaml:"secrets"`
		Auth            AuthConfig    `yaml:"auth"`
		OpenAI          OpenAIConfig  `yaml:"openai"`
		Metrics         MetricsConfig `yaml:"metrics"`
		Tracing         trace.Config  `yaml:"tracing"`
	}

	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, stderr, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, e.g., "UTC", default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps, default is "2006-01-02 15:04:05"
	}

	// SecretsConfig selects and configures the managed secret store
	SecretsConfig struct {
		Type     string             `yaml:"type"` // "aws" or "redis"
		CacheTTL time.Duration      `yaml:"cache_ttl"`
		AWS      SecretsAWSConfig   `yaml:"aws"`
		Redis    SecretsRedisConfig `yaml:"redis"`
	}

	SecretsAWSConfig struct {
		Region   string `yaml:"region"`
		Endpoint string `yaml:"endpoint"` // optional, for localstack style endpoints
	}

	SecretsRedisConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	}

	// AuthConfig configures the inbound Basic authentication gate
	AuthConfig struct {
		Username     string `yaml:"username"`
		Realm        string `yaml:"realm"`
		HealthPublic *bool  `yaml:"health_public"`
	}

	// OpenAIConfig configures the upstream client
	OpenAIConfig struct {
		BaseURL      string        `yaml:"base_url"`
		Timeout      time.Duration `yaml:"timeout"`
		MaxRetries   *int          `yaml:"max_retries"`
		DefaultModel string        `yaml:"default_model"`
	}

	// MetricsConfig configures the prometheus endpoint
	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}
)

// IsHealthPublic reports whether /health bypasses the authentication gate
func (a AuthConfig) IsHealthPublic() bool {
	return a.HealthPublic == nil || *a.HealthPublic
}

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig(filename string) (*Config, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	// Resolve environment variables
	data = resolveEnv(data)
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}

	cfg.SetDefaults()
	return &cfg, cfgPath, nil
}

// Default returns a configuration with every default applied, used when no
// config file is present
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields
func (c *Config) SetDefaults() {
	if c.Port == 0 {
		c.Port = cnst.DefaultPort
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = "config.json"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = cnst.ShutdownTimeout
	}
	if c.Secrets.Type == "" {
		c.Secrets.Type = cnst.SecretStoreAWS
	}
	if c.Secrets.CacheTTL <= 0 {
		c.Secrets.CacheTTL = cnst.SecretCacheTTL
	}
	if c.Auth.Username == "" {
		c.Auth.Username = cnst.AuthUsername
	}
	if c.Auth.Realm == "" {
		c.Auth.Realm = cnst.AuthRealm
	}
	if c.OpenAI.Timeout <= 0 {
		c.OpenAI.Timeout = cnst.UpstreamTimeout
	}
	if c.OpenAI.MaxRetries == nil {
		retries := cnst.UpstreamMaxRetries
		c.OpenAI.MaxRetries = &retries
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "openai_mcp"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = cnst.AppName
	}
}

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	regex := regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

	return regex.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := regex.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}
