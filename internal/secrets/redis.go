package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/openai-mcp/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisStore reads secrets stored as plain string keys in Redis, for
// self-hosted deployments without a cloud secret manager
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(ctx context.Context, cfg config.SecretsRedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix != "" {
		prefix += ":"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// GetSecret implements Store.GetSecret
func (s *RedisStore) GetSecret(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
