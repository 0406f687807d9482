package auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/errorx"
	"github.com/amoylab/openai-mcp/internal/secrets"

	"go.uber.org/zap"
)

// SecretResolver resolves the password the gate compares against
type SecretResolver interface {
	Resolve(ctx context.Context, kind secrets.Kind) (string, error)
}

// Gate validates inbound Basic credentials against the resolved auth secret
type Gate struct {
	logger   *zap.Logger
	resolver SecretResolver
	username string
	realm    string
}

// Challenge is the fixed rejection envelope sent on a failed check
type Challenge struct {
	Header string
	Body   ChallengeBody
}

type ChallengeBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewGate creates a gate. Empty username and realm fall back to the defaults.
func NewGate(logger *zap.Logger, resolver SecretResolver, username, realm string) *Gate {
	if username == "" {
		username = cnst.AuthUsername
	}
	if realm == "" {
		realm = cnst.AuthRealm
	}
	return &Gate{
		logger:   logger.Named("auth"),
		resolver: resolver,
		username: username,
		realm:    realm,
	}
}

// Username returns the only username the gate accepts
func (g *Gate) Username() string {
	return g.username
}

// Validate reports whether header carries valid credentials. Every failure,
// including a secret store failure, is reported as false.
func (g *Gate) Validate(ctx context.Context, header string) bool {
	username, password, err := parseBasic(header)
	if err != nil {
		g.logger.Debug("rejecting credentials", zap.Error(err))
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) != 1 {
		g.logger.Debug("rejecting credentials", zap.String("reason", "unknown username"))
		return false
	}

	expected, err := g.resolver.Resolve(ctx, secrets.KindAuthPassword)
	if err != nil {
		g.logger.Warn("auth secret unavailable, rejecting request", zap.Error(err))
		return false
	}
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

// Challenge returns the 401 envelope naming the scheme, realm and username
func (g *Gate) Challenge() Challenge {
	return Challenge{
		Header: fmt.Sprintf(`%s realm="%s"`, cnst.AuthScheme, g.realm),
		Body: ChallengeBody{
			Error: "Unauthorized",
			Message: fmt.Sprintf("Authentication required. Use Basic authentication with username '%s' and the configured password.",
				g.username),
		},
	}
}

func parseBasic(header string) (string, string, error) {
	if header == "" {
		return "", "", errorx.Authentication(nil, "missing Authorization header")
	}
	prefix := cnst.AuthScheme + " "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", "", errorx.Authentication(nil, "invalid Authorization header format")
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", errorx.Authentication(err, "invalid base64 encoding")
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", errorx.Authentication(nil, "invalid credentials format")
	}
	return username, password, nil
}
