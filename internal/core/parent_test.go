package core

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func waitReason(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case reason := <-ch:
		return reason
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for parent watcher")
		return ""
	}
}

func TestWatchParent_ShutdownMessage(t *testing.T) {
	ch := WatchParent(context.Background(), zap.NewNop(), strings.NewReader("hello\nshutdown\nignored\n"))
	assert.Equal(t, ReasonParentShutdown, waitReason(t, ch))
	_, open := <-ch
	assert.False(t, open)
}

func TestWatchParent_JSONMessage(t *testing.T) {
	ch := WatchParent(context.Background(), zap.NewNop(), strings.NewReader(`{"type":"shutdown"}`+"\n"))
	assert.Equal(t, ReasonParentShutdown, waitReason(t, ch))
}

func TestWatchParent_Disconnect(t *testing.T) {
	r, w := io.Pipe()
	ch := WatchParent(context.Background(), zap.NewNop(), r)
	_, _ = w.Write([]byte("status\n"))
	_ = w.Close()
	assert.Equal(t, ReasonParentGone, waitReason(t, ch))
}
