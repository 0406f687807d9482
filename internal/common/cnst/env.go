package cnst

// Environment variables selecting where credentials come from
const (
	// EnvAPIKeySecretName, when set, names the secret-store entry holding the
	// upstream API key. When unset the key is read from the credentials file.
	EnvAPIKeySecretName = "OPENAI_API_KEY_SECRET_NAME"
	// EnvAuthSecretName names the secret-store entry holding the auth password
	EnvAuthSecretName = "AUTH_SECRET_NAME"
	// EnvConfigDir overrides the directory searched for the YAML config
	EnvConfigDir = "CONFIG_DIR"
)

// DefaultAuthSecretName is used when EnvAuthSecretName is unset
const DefaultAuthSecretName = "openai-mcp/auth-password"

// Secret store types
const (
	SecretStoreAWS   = "aws"
	SecretStoreRedis = "redis"
)
