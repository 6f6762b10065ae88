package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"lpr-console/internal/i18n"
)

type Kind string

const (
	KindValidation  Kind = "validation"
	KindAuth        Kind = "unauthorized"
	KindTooLarge    Kind = "payload_too_large"
	KindRateLimited Kind = "rate_limited"
	KindServer      Kind = "server"
	KindTimeout     Kind = "timeout"
	KindNetwork     Kind = "network"
	KindUnknown     Kind = "unknown"
)

// APIError is the single error shape callers see for a failed request. Status is 0 when no
// response arrived. Message is ready for display; Detail carries the backend's own text.
type APIError struct {
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	cause   error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("inference api: %d %s: %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("inference api: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

var kindMessages = map[Kind]i18n.Key{
	KindValidation:  i18n.ErrBadInput,
	KindAuth:        i18n.ErrUnauthorized,
	KindTooLarge:    i18n.ErrTooLarge,
	KindRateLimited: i18n.ErrRateLimited,
	KindServer:      i18n.ErrServer,
	KindTimeout:     i18n.ErrTimeout,
	KindNetwork:     i18n.ErrNetwork,
}

// Localized renders the display message for e in another catalog's language.
func (e *APIError) Localized(cat *i18n.Catalog) string {
	if key, ok := kindMessages[e.Kind]; ok {
		return cat.T(key)
	}
	return cat.T(i18n.ErrUnknown, e.Status)
}

// translateStatus maps a non-2xx response to an APIError. The message depends on the status
// alone; the body only feeds Detail.
func translateStatus(status int, body []byte, cat *i18n.Catalog) *APIError {
	e := &APIError{Status: status, Detail: bodyDetail(body)}

	switch status {
	case http.StatusBadRequest:
		e.Kind = KindValidation
	case http.StatusUnauthorized:
		e.Kind = KindAuth
	case http.StatusRequestEntityTooLarge:
		e.Kind = KindTooLarge
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case http.StatusInternalServerError:
		e.Kind = KindServer
	default:
		e.Kind = KindUnknown
	}
	e.Message = e.Localized(cat)
	return e
}

func translateTransportError(err error, cat *i18n.Catalog) *APIError {
	e := &APIError{cause: err, Detail: err.Error(), Kind: KindNetwork}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		e.Kind = KindTimeout
	}
	e.Message = e.Localized(cat)
	return e
}

func bodyDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
