package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindValidation
	KindUnauthenticated
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the normalized failure returned by every client call. Status is
// zero when no response was received.
type Error struct {
	Message string
	Status  int
	Details any
	Kind    Kind
	Err     error

	// callerDone marks failures caused by the caller's context ending.
	callerDone bool
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts the normalized error, if err carries one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthenticated reports a missing or rejected credential.
func IsUnauthenticated(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindUnauthenticated
}

// IsNotFound reports a 404 from the store.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNotFound
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthenticated
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

func statusError(status int, body []byte) *Error {
	out := &Error{Status: status, Kind: kindForStatus(status)}
	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		out.Message = parsed.Error
		if out.Message == "" {
			out.Message = parsed.Message
		}
		out.Details = parsed.Details
	}
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}

// requestError classifies a failed exchange, separating the caller's own
// cancellation or deadline from store failures.
func requestError(ctx context.Context, msg string, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Message: "request " + ctxErr.Error(), Kind: KindTransport, Err: err, callerDone: true}
	}
	return transportError(msg, err)
}

func transportError(msg string, err error) *Error {
	return &Error{Message: msg + ": " + err.Error(), Kind: KindTransport, Err: err}
}
