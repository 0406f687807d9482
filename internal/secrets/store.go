package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"go.uber.org/zap"
)

// ErrSecretNotFound is returned by a Store when the named secret does not exist
var ErrSecretNotFound = errors.New("secret not found")

// Store fetches the raw payload of a named secret from a managed secret store
type Store interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// NewStore creates the secret store selected by cfg.Type
func NewStore(ctx context.Context, logger *zap.Logger, cfg config.SecretsConfig) (Store, error) {
	logger.Info("initializing secret store", zap.String("type", cfg.Type))

	switch cfg.Type {
	case cnst.SecretStoreAWS:
		return NewAWSStore(ctx, cfg.AWS)
	case cnst.SecretStoreRedis:
		return NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported secret store type: %s", cfg.Type)
	}
}
