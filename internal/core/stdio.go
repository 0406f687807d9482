package core

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/amoylab/openai-mcp/internal/common/errorx"

	"go.uber.org/zap"
)

// maxLineBytes bounds a single stdio message
const maxLineBytes = 1024 * 1024

// StdioTransport serves the dispatcher over newline-delimited JSON-RPC.
// The pipe is owned by the local parent process, so no gate is applied.
type StdioTransport struct {
	logger     *zap.Logger
	dispatcher *Dispatcher

	mu  sync.Mutex
	out io.Writer
}

// NewStdioTransport creates a transport writing responses to out
func NewStdioTransport(logger *zap.Logger, d *Dispatcher, out io.Writer) *StdioTransport {
	return &StdioTransport{
		logger:     logger.Named("stdio"),
		dispatcher: d,
		out:        out,
	}
}

// Serve reads requests from in until EOF or ctx is done. A bad line is
// answered with an error line and never stops the loop. The reader runs in
// its own goroutine so cancellation does not wait for the next line.
func (t *StdioTransport) Serve(ctx context.Context, in io.Reader) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		readErr <- t.scan(ctx, in, lines)
	}()

	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			t.logger.Info("stdio transport stopped")
			return nil
		case err := <-readErr:
			if err != nil {
				return err
			}
			t.logger.Info("input closed")
			return nil
		case line := <-lines:
			if err := t.handle(ctx, line); err != nil {
				return err
			}
		}
	}
	t.logger.Info("stdio transport stopped")
	return nil
}

func (t *StdioTransport) scan(ctx context.Context, in io.Reader, lines chan<- []byte) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- bytes.Clone(line):
		case <-ctx.Done():
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

func (t *StdioTransport) handle(ctx context.Context, line []byte) error {
	req, err := decodeRequest(line)
	if err != nil {
		t.logger.Debug("malformed line", zap.Error(err))
		return t.write(errorx.ToJSONRPC(nil, err))
	}
	resp := t.dispatcher.Dispatch(ctx, req)
	if resp.IsEmpty() {
		return nil
	}
	return t.write(resp)
}

func (t *StdioTransport) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
