package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Kind classifies a backend failure so handlers can map it onto an HTTP
// status without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not-found"
	case KindMapping:
		return "mapping"
	default:
		return "internal"
	}
}

// Error is the single error type crossing the gateway boundary. Status is the
// upstream HTTP status when the error came off the wire, 0 otherwise.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	cause   error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so callers can use errors.Is with the sentinel helpers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == "" && t.Status == 0
}

// Sentinels for errors.Is checks.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrMapping        = &Error{Kind: KindMapping}
	ErrInternal       = &Error{Kind: KindInternal}
)

func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func AuthenticationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func MappingError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMapping, Message: fmt.Sprintf(format, args...)}
}

func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), cause: err}
}

// Translate converts a non-2xx backend response into an *Error. The message is
// taken from the JSON body's "message" field, then "error", falling back to
// the HTTP status text when the body carries neither.
func Translate(status int, body []byte) *Error {
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	var kind Kind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuthentication
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 400 && status < 500:
		kind = KindValidation
	default:
		kind = KindInternal
	}

	return &Error{Kind: kind, Message: msg, Status: status}
}

func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return msg
	}
	return ""
}
