package secrets

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/amoylab/openai-mcp/internal/common/errorx"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Kind names which credential is being resolved
type Kind string

const (
	KindAPIKey       Kind = "api_key"
	KindAuthPassword Kind = "auth_password"
)

// payloadFields lists the accepted JSON field names per kind, in lookup order.
// The second name is the legacy spelling.
var payloadFields = map[Kind][]string{
	KindAPIKey:       {"apiKey", "token"},
	KindAuthPassword: {"password", "token"},
}

type (
	// Sources tells the resolver where each credential lives
	Sources struct {
		// APIKeySecret names the secret-store entry for the API key; empty
		// means the key comes from CredentialsFile.
		APIKeySecret string
		// AuthSecret names the secret-store entry for the auth password
		AuthSecret      string
		CredentialsFile string
	}

	cacheEntry struct {
		value     string
		expiresAt time.Time
	}

	// Resolver resolves credentials from the credentials file or a secret
	// store. Secret-store values are cached for ttl; file reads are not.
	Resolver struct {
		logger  *zap.Logger
		store   Store
		sources Sources
		ttl     time.Duration
		now     func() time.Time

		mu    sync.Mutex
		cache map[string]cacheEntry
		// fetches collapses concurrent misses for the same secret
		fetches singleflight.Group
	}
)

// SourcesFromEnv builds Sources from the environment: the API key comes from
// the secret store only when OPENAI_API_KEY_SECRET_NAME is set, and the auth
// password secret name falls back to a fixed default.
func SourcesFromEnv(credentialsFile string) Sources {
	authSecret := os.Getenv(cnst.EnvAuthSecretName)
	if authSecret == "" {
		authSecret = cnst.DefaultAuthSecretName
	}
	return Sources{
		APIKeySecret:    os.Getenv(cnst.EnvAPIKeySecretName),
		AuthSecret:      authSecret,
		CredentialsFile: credentialsFile,
	}
}

// NewResolver creates a resolver. store may be nil when no credential is
// configured to come from a secret store.
func NewResolver(logger *zap.Logger, store Store, sources Sources, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = cnst.SecretCacheTTL
	}
	return &Resolver{
		logger:  logger.Named("secrets"),
		store:   store,
		sources: sources,
		ttl:     ttl,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
	}
}

// Resolve returns the credential of the given kind
func (r *Resolver) Resolve(ctx context.Context, kind Kind) (string, error) {
	var (
		value string
		err   error
	)
	switch kind {
	case KindAPIKey:
		if r.sources.APIKeySecret == "" {
			value, err = r.fromFile()
		} else {
			value, err = r.fromStore(ctx, r.sources.APIKeySecret, kind)
		}
	case KindAuthPassword:
		value, err = r.fromStore(ctx, r.sources.AuthSecret, kind)
	default:
		err = errorx.Configuration(nil, "unknown credential kind %q", kind)
	}

	if err != nil {
		r.logger.Error("failed to resolve credential",
			zap.String("kind", string(kind)),
			zap.String("source", r.sourceName(kind)),
			zap.Error(err))
		return "", err
	}
	return value, nil
}

// RequiresStore reports whether resolving kind needs the secret store
func (s Sources) RequiresStore(kind Kind) bool {
	return kind == KindAuthPassword || s.APIKeySecret != ""
}

// RequiresStore reports whether resolving kind needs the secret store
func (r *Resolver) RequiresStore(kind Kind) bool {
	return r.sources.RequiresStore(kind)
}

func (r *Resolver) fromFile() (string, error) {
	if r.sources.CredentialsFile == "" {
		return "", errorx.Configuration(nil, "no credentials file configured")
	}
	creds, err := config.LoadCredentials(r.sources.CredentialsFile)
	if err != nil {
		return "", err
	}
	return creds.OpenAIAPIKey, nil
}

func (r *Resolver) fromStore(ctx context.Context, name string, kind Kind) (string, error) {
	if name == "" {
		return "", errorx.Configuration(nil, "no secret name configured for %s", kind)
	}
	if r.store == nil {
		return "", errorx.Configuration(nil, "secret %q requires a secret store, none configured", name)
	}

	key := string(kind) + "/" + name
	if v, ok := r.cached(key); ok {
		return v, nil
	}

	// the fetch is shared by every waiter on key, so one caller's
	// cancellation must not fail the others
	v, err, _ := r.fetches.Do(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cnst.SecretFetchTimeout)
		defer cancel()
		payload, err := r.store.GetSecret(fetchCtx, name)
		if err != nil {
			return "", errorx.SecretAccess(err, "failed to read secret %q", name)
		}
		value, err := extractField(payload, payloadFields[kind])
		if err != nil {
			return "", errorx.SecretAccess(err, "malformed secret %q", name)
		}

		r.mu.Lock()
		r.cache[key] = cacheEntry{value: value, expiresAt: r.now().Add(r.ttl)}
		r.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) cached(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[key]
	if !ok {
		return "", false
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.cache, key)
		return "", false
	}
	return entry.value, true
}

func (r *Resolver) sourceName(kind Kind) string {
	if kind == KindAPIKey && r.sources.APIKeySecret == "" {
		return "file:" + r.sources.CredentialsFile
	}
	if kind == KindAPIKey {
		return "store:" + r.sources.APIKeySecret
	}
	return "store:" + r.sources.AuthSecret
}

// extractField pulls the first non-empty string field out of a JSON object
func extractField(payload string, fields []string) (string, error) {
	if !gjson.Valid(payload) {
		return "", errMalformedPayload("payload is not valid JSON")
	}
	doc := gjson.Parse(payload)
	if !doc.IsObject() {
		return "", errMalformedPayload("payload is not a JSON object")
	}
	for _, field := range fields {
		res := doc.Get(field)
		if res.Type != gjson.String {
			continue
		}
		if v := strings.TrimSpace(res.String()); v != "" {
			return v, nil
		}
	}
	return "", errMalformedPayload("none of the fields " + strings.Join(fields, ", ") + " holds a value")
}

type errMalformedPayload string

func (e errMalformedPayload) Error() string { return string(e) }
