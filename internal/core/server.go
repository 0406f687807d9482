package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/amoylab/openai-mcp/internal/auth"
	"github.com/amoylab/openai-mcp/internal/common/cnst"
	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/amoylab/openai-mcp/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// OAuth discovery paths answered with 404 without passing the gate
var wellKnownPaths = []string{
	"/.well-known/oauth-authorization-server",
	"/.well-known/openid_configuration",
}

// Server is the HTTP boundary in front of the dispatcher
type Server struct {
	logger     *zap.Logger
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	dispatcher *Dispatcher
	gate       *auth.Gate
	metrics    *metrics.Metrics
}

// NewServer creates the HTTP server and registers its routes
func NewServer(logger *zap.Logger, cfg *config.Config, d *Dispatcher, gate *auth.Gate, m *metrics.Metrics) *Server {
	s := &Server{
		logger:     logger.Named("http"),
		cfg:        cfg,
		router:     gin.New(),
		dispatcher: d,
		gate:       gate,
		metrics:    m,
	}
	s.router.HandleMethodNotAllowed = true

	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggerMiddleware())
	s.router.Use(s.recoveryMiddleware())
	if cfg.Tracing.Enabled {
		s.router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	s.router.Use(m.Middleware())

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	for _, p := range wellKnownPaths {
		s.router.GET(p, s.handleWellKnown)
	}
	if s.cfg.Auth.IsHealthPublic() {
		s.router.GET("/health", s.handleHealth)
	}

	authed := s.router.Group("", s.authMiddleware())
	if !s.cfg.Auth.IsHealthPublic() {
		authed.GET("/health", s.handleHealth)
	}
	authed.GET("/", s.handleInfo)
	authed.GET("/mcp/info", s.handleInfo)
	authed.POST("/", s.handleRPC)
	authed.POST("/mcp", s.handleRPC)
	if s.cfg.Metrics.Enabled {
		authed.GET(s.cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Unknown path " + c.Request.URL.Path})
	})
	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed", "message": c.Request.Method + " is not supported on " + c.Request.URL.Path})
	})
}

// Handler returns the HTTP handler, used by the Lambda adapter and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port in the background. Listener errors
// other than a clean shutdown are sent on the returned channel.
func (s *Server) Start() <-chan error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.Int("port", s.cfg.Port))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("failed to start server", zap.Error(err))
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server within the configured window
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = cnst.ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("shutting down server", zap.Duration("timeout", timeout))
	if err := s.httpServer.Shutdown(ctx); err != nil {
		_ = s.httpServer.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
