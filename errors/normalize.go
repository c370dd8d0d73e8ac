package errors

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"
)

// ErrSessionInvalid is the terminal renewal failure: the refresh token is
// missing or the renewal exchange was rejected. Callers observing it must
// treat the session as destroyed and re-authenticate.
var ErrSessionInvalid = New(401, "session invalid")

// maxRawMessage bounds how much of a non-JSON body is used as a message.
const maxRawMessage = 256

// Normalize converts one of the backends' error payloads into an *Error.
// The services answer with a bare string, {"detail": ...}, {"message": ...},
// {"error": ...}, or a field-keyed validation map whose values are a string
// or a list of strings. Field messages land in the error's metadata.
func Normalize(status int, body []byte) *Error {
	message := http.StatusText(status)
	if message == "" {
		message = "request failed"
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return New(status, "%s", message)
	}

	var payload any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		// Not JSON at all; surface the raw body when it is printable.
		return New(status, "%s", rawMessage(trimmed, message))
	}

	switch v := payload.(type) {
	case string:
		if v != "" {
			return New(status, "%s", v)
		}
		return New(status, "%s", message)
	case map[string]any:
		return normalizeObject(status, message, v)
	default:
		return New(status, "%s", message)
	}
}

func normalizeObject(status int, fallback string, obj map[string]any) *Error {
	// Well-known single-message keys take precedence over field maps.
	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return New(status, "%s", s)
		}
	}

	// Treat the rest as a field-keyed validation map.
	metadata := make(map[string]string, len(obj))
	for field, value := range obj {
		if msg := fieldMessage(value); msg != "" {
			metadata[field] = msg
		}
	}
	if len(metadata) == 0 {
		return New(status, "%s", fallback)
	}
	return New(status, "validation failed").WithMetadata(metadata)
}

// fieldMessage flattens a validation value (string or list of strings).
func fieldMessage(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func rawMessage(body, fallback string) string {
	if !utf8.ValidString(body) {
		return fallback
	}
	if len(body) > maxRawMessage {
		body = body[:maxRawMessage]
	}
	return body
}
