package errorx

import (
	"errors"
	"fmt"

	"github.com/amoylab/openai-mcp/pkg/mcp"
)

// Kind classifies a failure by the stage that produced it
type Kind string

const (
	KindConfiguration    Kind = "configuration"
	KindSecretAccess     Kind = "secret_access"
	KindInitialization   Kind = "initialization"
	KindNotInitialized   Kind = "not_initialized"
	KindAuthentication   Kind = "authentication"
	KindUpstream         Kind = "upstream"
	KindUnknownMethod    Kind = "unknown_method"
	KindMalformedRequest Kind = "malformed_request"
)

// defaultCodes maps a kind to its JSON-RPC error code. Authentication has no
// code: it is answered with the HTTP 401 envelope before JSON-RPC framing.
var defaultCodes = map[Kind]int{
	KindConfiguration:    mcp.ErrorCodeInternalError,
	KindSecretAccess:     mcp.ErrorCodeInternalError,
	KindInitialization:   mcp.ErrorCodeInternalError,
	KindNotInitialized:   mcp.ErrorCodeInternalError,
	KindUpstream:         mcp.ErrorCodeInternalError,
	KindUnknownMethod:    mcp.ErrorCodeMethodNotFound,
	KindMalformedRequest: mcp.ErrorCodeInvalidRequest,
}

// Error is a classified failure. Message must never contain secret values.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on kind so errors.Is(err, &Error{Kind: KindUpstream}) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == 0 || t.Code == e.Code)
}

// New creates an error of the given kind with its default code
func New(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Code:    defaultCodes[kind],
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

// WithCode overrides the JSON-RPC code
func (e *Error) WithCode(code int) *Error {
	e.Code = code
	return e
}

func Configuration(cause error, format string, args ...any) *Error {
	return New(KindConfiguration, cause, format, args...)
}

func SecretAccess(cause error, format string, args ...any) *Error {
	return New(KindSecretAccess, cause, format, args...)
}

func Initialization(cause error, format string, args ...any) *Error {
	return New(KindInitialization, cause, format, args...)
}

// NotInitialized is returned when the session is used before it is ready
func NotInitialized() *Error {
	return New(KindNotInitialized, nil, "session not initialized")
}

func Authentication(cause error, format string, args ...any) *Error {
	return New(KindAuthentication, cause, format, args...)
}

func Upstream(cause error, format string, args ...any) *Error {
	return New(KindUpstream, cause, format, args...)
}

// UnknownMethod reports a method the dispatcher does not recognize
func UnknownMethod(method string) *Error {
	return New(KindUnknownMethod, nil, "Unknown method: %s", method)
}

func MalformedRequest(cause error, format string, args ...any) *Error {
	return New(KindMalformedRequest, cause, format, args...)
}

// ParseError is a malformed request whose bytes are not JSON at all
func ParseError(cause error) *Error {
	return MalformedRequest(cause, "Parse error").WithCode(mcp.ErrorCodeParseError)
}

// InvalidParams is a malformed request whose params fail validation
func InvalidParams(cause error, format string, args ...any) *Error {
	return MalformedRequest(cause, format, args...).WithCode(mcp.ErrorCodeInvalidParams)
}

// KindOf returns the kind of err, or "" when err is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ToJSONRPC converts any error into a protocol-conformant error envelope
func ToJSONRPC(id any, err error) *mcp.JSONRPCResponse {
	var e *Error
	if errors.As(err, &e) {
		code := e.Code
		if code == 0 {
			code = mcp.ErrorCodeInternalError
		}
		return mcp.NewError(id, code, e.Error())
	}
	return mcp.NewError(id, mcp.ErrorCodeInternalError, fmt.Sprintf("Internal error: %v", err))
}
