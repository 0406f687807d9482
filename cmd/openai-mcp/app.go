package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amoylab/openai-mcp/internal/auth"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/amoylab/openai-mcp/internal/core"
	"github.com/amoylab/openai-mcp/internal/openai"
	"github.com/amoylab/openai-mcp/internal/secrets"
	"github.com/amoylab/openai-mcp/internal/session"
	"github.com/amoylab/openai-mcp/internal/tool"
	"github.com/amoylab/openai-mcp/pkg/logger"
	"github.com/amoylab/openai-mcp/pkg/metrics"
	"github.com/amoylab/openai-mcp/pkg/trace"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// app holds the components shared by every serving mode
type app struct {
	logger     *zap.Logger
	resolver   *secrets.Resolver
	session    *session.Session
	dispatcher *core.Dispatcher
	gate       *auth.Gate
	metrics    *metrics.Metrics

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, gated bool) (*app, error) {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a := &app{logger: lg}
	a.closers = append(a.closers, func() { _ = lg.Sync() })

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.closers = append(a.closers, func() { _ = shutdownTracing(context.Background()) })

	// the auth password always lives in the store; the API key only when named
	sources := secrets.SourcesFromEnv(cfg.CredentialsFile)
	var store secrets.Store
	if sources.RequiresStore(secrets.KindAPIKey) || gated {
		store, err = secrets.NewStore(ctx, lg, cfg.Secrets)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize secret store: %w", err)
		}
		if c, ok := store.(interface{ Close() error }); ok {
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
	}
	a.resolver = secrets.NewResolver(lg, store, sources, cfg.Secrets.CacheTTL)

	a.metrics = metrics.New(cfg.Metrics)
	a.gate = auth.NewGate(lg, a.resolver, cfg.Auth.Username, cfg.Auth.Realm)
	a.session = session.New(lg, a.resolver, session.NewClientFactory(upstreamOptions(cfg)))

	info := core.DefaultServerInfo(customDomain(cfg))
	info.Username = a.gate.Username()
	a.dispatcher = core.NewDispatcher(lg, a.session,
		tool.New(lg, cfg.OpenAI.DefaultModel, a.metrics), a.metrics, info)
	return a, nil
}

func upstreamOptions(cfg *config.Config) openai.Options {
	opts := openai.Options{
		BaseURL:    cfg.OpenAI.BaseURL,
		Timeout:    cfg.OpenAI.Timeout,
		MaxRetries: *cfg.OpenAI.MaxRetries,
	}
	if cfg.Tracing.Enabled {
		opts.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return opts
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// customDomain reads the optional public host name from the credentials file
func customDomain(cfg *config.Config) string {
	creds, err := config.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		return ""
	}
	return creds.CustomDomain
}

// checkCredentials verifies the credentials file when the API key is read
// from it
func checkCredentials(cfg *config.Config) error {
	sources := secrets.SourcesFromEnv(cfg.CredentialsFile)
	if sources.APIKeySecret != "" {
		return nil
	}
	_, err := config.LoadCredentials(cfg.CredentialsFile)
	return err
}
