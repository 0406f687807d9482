package core

import (
	"net/http"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/cnst"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ctxKeyRequestID = "request_id"

// requestIDMiddleware assigns a correlation id to every exchange
func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(cnst.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(cnst.HeaderRequestID, id)
		c.Next()
	}
}

// loggerMiddleware logs incoming requests and outgoing responses
func (s *Server) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := s.getLogger(c)
		logger.Debug("incoming request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.Request.RemoteAddr),
		)

		c.Next()

		logger.Info("outgoing response",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// recoveryMiddleware recovers from panics and returns 500 error
func (s *Server) recoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				s.getLogger(c).Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// authMiddleware runs the authentication gate
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.gate.Validate(c.Request.Context(), c.GetHeader("Authorization")) {
			c.Next()
			return
		}

		s.metrics.AuthRejected()
		s.getLogger(c).Info("unauthorized request",
			zap.String("path", c.Request.URL.Path),
			zap.String("remote_addr", c.Request.RemoteAddr))

		challenge := s.gate.Challenge()
		c.Header("WWW-Authenticate", challenge.Header)
		c.AbortWithStatusJSON(http.StatusUnauthorized, challenge.Body)
	}
}

func (s *Server) getLogger(c *gin.Context) *zap.Logger {
	if id := c.GetString(ctxKeyRequestID); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}
