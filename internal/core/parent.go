package core

import (
	"bufio"
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
)

// Parent shutdown triggers
const (
	ParentMessageShutdown = "shutdown"
	ReasonParentShutdown  = "parent requested shutdown"
	ReasonParentGone      = "parent disconnected"
)

// WatchParent reads newline-delimited control messages from r. The returned
// channel yields one reason when the parent asks for shutdown or r reaches
// EOF, then closes. Unknown messages are ignored.
func WatchParent(ctx context.Context, logger *zap.Logger, r io.Reader) <-chan string {
	logger = logger.Named("parent")
	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			msg := strings.TrimSpace(scanner.Text())
			if msg == "" {
				continue
			}
			if strings.EqualFold(msg, ParentMessageShutdown) || strings.Contains(msg, `"`+ParentMessageShutdown+`"`) {
				logger.Info("shutdown message received")
				ch <- ReasonParentShutdown
				return
			}
			logger.Debug("ignoring parent message", zap.String("message", msg))
			if ctx.Err() != nil {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		logger.Info("parent channel closed")
		ch <- ReasonParentGone
	}()
	return ch
}
