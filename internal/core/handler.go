package core

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/amoylab/openai-mcp/internal/common/errorx"
	"github.com/amoylab/openai-mcp/pkg/mcp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a single JSON-RPC request body
const maxBodyBytes = 10 << 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.dispatcher.Info().health())
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, s.dispatcher.Info().discovery())
}

func (s *Server) handleWellKnown(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": "OAuth discovery is not supported by this server. Use Basic authentication with username '" + s.gate.Username() + "'.",
	})
}

func (s *Server) handleRPC(c *gin.Context) {
	logger := s.getLogger(c)

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorx.ToJSONRPC(nil, errorx.MalformedRequest(err, "Invalid Request: failed to read body")))
		return
	}
	req, err := decodeRequest(body)
	if err != nil {
		logger.Debug("malformed request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorx.ToJSONRPC(nil, err))
		return
	}

	sess := s.dispatcher.Session()
	if !sess.Ready() {
		if err := sess.Initialize(c.Request.Context()); err != nil {
			logger.Error("session initialization failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Initialization failed",
				"message": err.Error(),
			})
			return
		}
	}

	resp := s.dispatcher.Dispatch(c.Request.Context(), req)
	if resp.IsEmpty() {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// decodeRequest parses one JSON-RPC request, keeping numeric ids verbatim.
// Bytes that are not JSON are a parse error; JSON of the wrong shape is an
// invalid request.
func decodeRequest(data []byte) (*mcp.JSONRPCRequest, error) {
	if !json.Valid(data) {
		return nil, errorx.ParseError(nil)
	}
	var req mcp.JSONRPCRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, errorx.MalformedRequest(err, "Invalid Request")
	}
	return &req, nil
}
