package session

import (
	"context"
	"strings"
	"sync"

	"github.com/amoylab/openai-mcp/internal/common/errorx"
	"github.com/amoylab/openai-mcp/internal/openai"
	"github.com/amoylab/openai-mcp/internal/secrets"

	"go.uber.org/zap"
)

// State is the initialization state of a session
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type (
	// Resolver resolves the upstream API key
	Resolver interface {
		Resolve(ctx context.Context, kind secrets.Kind) (string, error)
	}

	// ClientFactory builds the upstream handle from a resolved API key
	ClientFactory func(apiKey string) openai.API

	// Session holds the upstream handle for the lifetime of the process.
	// Initialize runs its sequence at most once to success; concurrent
	// callers wait for the one in progress.
	Session struct {
		logger    *zap.Logger
		resolver  Resolver
		newClient ClientFactory

		initMu sync.Mutex

		mu     sync.RWMutex
		state  State
		client openai.API
	}
)

// New creates an uninitialized session
func New(logger *zap.Logger, resolver Resolver, newClient ClientFactory) *Session {
	return &Session{
		logger:    logger.Named("session"),
		resolver:  resolver,
		newClient: newClient,
	}
}

// NewClientFactory returns a factory building real clients with opts; the
// resolved key replaces opts.APIKey
func NewClientFactory(opts openai.Options) ClientFactory {
	return func(apiKey string) openai.API {
		o := opts
		o.APIKey = apiKey
		return openai.NewClient(o)
	}
}

// Initialize resolves the API key and builds the upstream handle. It returns
// immediately when the session is already ready. On failure the session
// stays uninitialized.
func (s *Session) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.State() == StateReady {
		return nil
	}
	s.setState(StateInitializing, nil)

	apiKey, err := s.resolver.Resolve(ctx, secrets.KindAPIKey)
	if err != nil {
		s.setState(StateUninitialized, nil)
		return errorx.Initialization(err, "failed to resolve upstream API key")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		s.setState(StateUninitialized, nil)
		return errorx.Initialization(nil, "upstream API key is empty")
	}

	client := s.newClient(apiKey)
	if client == nil {
		s.setState(StateUninitialized, nil)
		return errorx.Initialization(nil, "failed to create upstream client")
	}

	s.setState(StateReady, client)
	s.logger.Info("session initialized")
	return nil
}

// Client returns the upstream handle, or a not-initialized error when the
// session is not ready
func (s *Session) Client() (openai.API, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, errorx.NotInitialized()
	}
	return s.client, nil
}

// State returns the current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready reports whether the session is ready
func (s *Session) Ready() bool {
	return s.State() == StateReady
}

func (s *Session) setState(state State, client openai.API) {
	s.mu.Lock()
	s.state = state
	s.client = client
	s.mu.Unlock()
}
