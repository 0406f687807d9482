package core

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// LambdaAdapter serves function-URL invocations through the HTTP handler so
// routes, gate and dispatcher behave as in the standalone server
type LambdaAdapter struct {
	logger  *zap.Logger
	handler http.Handler
}

// NewLambdaAdapter wraps h
func NewLambdaAdapter(logger *zap.Logger, h http.Handler) *LambdaAdapter {
	return &LambdaAdapter{
		logger:  logger.Named("lambda"),
		handler: h,
	}
}

// Handle is the Lambda entry point
func (a *LambdaAdapter) Handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	req, err := toHTTPRequest(ctx, event)
	if err != nil {
		a.logger.Error("failed to convert invocation", zap.Error(err))
		return events.LambdaFunctionURLResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Bad Request","message":"invalid invocation payload"}`,
		}, nil
	}

	rw := newBufferedResponseWriter()
	a.handler.ServeHTTP(rw, req)
	return rw.toLambda(), nil
}

func toHTTPRequest(ctx context.Context, event events.LambdaFunctionURLRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	method := event.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}
	path := event.RawPath
	if path == "" {
		path = "/"
	}
	if event.RawQueryString != "" {
		path += "?" + event.RawQueryString
	}

	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range event.Headers {
		req.Header.Set(k, v)
	}
	if len(event.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP
	req.RequestURI = path
	return req, nil
}

type bufferedResponseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponseWriter() *bufferedResponseWriter {
	return &bufferedResponseWriter{header: make(http.Header)}
}

func (w *bufferedResponseWriter) Header() http.Header {
	return w.header
}

func (w *bufferedResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *bufferedResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedResponseWriter) toLambda() events.LambdaFunctionURLResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	headers := make(map[string]string, len(w.header))
	var cookies []string
	for k, v := range w.header {
		if k == "Set-Cookie" {
			cookies = append(cookies, v...)
			continue
		}
		headers[k] = strings.Join(v, ", ")
	}
	return events.LambdaFunctionURLResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       w.body.String(),
		Cookies:    cookies,
	}
}
