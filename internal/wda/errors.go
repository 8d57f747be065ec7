package wda

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure reported by (or on the way to) the agent.
type Kind string

const (
	KindNoSuchElement     Kind = "no_such_element"
	KindSessionExpired    Kind = "session_expired"
	KindConnectionRefused Kind = "connection_refused"
	KindInvalidArgument   Kind = "invalid_argument"
	KindTimeout           Kind = "timeout"
	KindNotImplemented    Kind = "not_implemented"
	KindUnknownAgent      Kind = "unknown_agent_error"
)

// AutomationError is a normalized agent failure. Raw keeps the original
// response body for diagnosis when the envelope shape was not recognized
// or the error text did not match a known signature.
type AutomationError struct {
	Kind    Kind
	Message string
	Raw     json.RawMessage
}

func (e *AutomationError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf extracts the normalized kind from err, or KindUnknownAgent if err
// is not an AutomationError.
func KindOf(err error) Kind {
	var ae *AutomationError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknownAgent
}

// IsKind reports whether err is an AutomationError of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *AutomationError
	return errors.As(err, &ae) && ae.Kind == kind
}

// envelope is the error identifier and message extracted from one of the
// agent's response shapes.
type envelope struct {
	ident   string
	message string
}

// envelopeMatcher tries to read one known error-envelope shape out of a
// parsed response body. Matchers are pure: they either recognize the shape
// completely or report no match.
type envelopeMatcher func(body map[string]any) (envelope, bool)

// The agent does not version its error envelope and different endpoint
// families answer with different shapes. Matchers are tried in priority
// order; the first full match wins.
var envelopeMatchers = []envelopeMatcher{
	matchTopLevel,
	matchNestedValue,
	matchLegacyStatus,
}

// matchTopLevel recognizes {"error": ..., "message": ...}.
func matchTopLevel(body map[string]any) (envelope, bool) {
	ident, ok := body["error"].(string)
	if !ok {
		return envelope{}, false
	}
	msg, ok := body["message"].(string)
	if !ok {
		return envelope{}, false
	}
	return envelope{ident: ident, message: msg}, true
}

// matchNestedValue recognizes {"value": {"error": ..., "message": ...}}.
func matchNestedValue(body map[string]any) (envelope, bool) {
	value, ok := body["value"].(map[string]any)
	if !ok {
		return envelope{}, false
	}
	ident, ok := value["error"].(string)
	if !ok {
		return envelope{}, false
	}
	msg, _ := value["message"].(string)
	return envelope{ident: ident, message: msg}, true
}

// matchLegacyStatus recognizes the pre-W3C numeric-status form
// {"status": <n>, "value": {"message": ...}}. A zero status is success,
// not an error envelope.
func matchLegacyStatus(body map[string]any) (envelope, bool) {
	status, ok := body["status"].(float64)
	if !ok || status == 0 {
		return envelope{}, false
	}
	value, ok := body["value"].(map[string]any)
	if !ok {
		return envelope{}, false
	}
	msg, ok := value["message"].(string)
	if !ok {
		return envelope{}, false
	}
	return envelope{ident: legacyStatusIdent(int(status)), message: msg}, true
}

// legacyStatusIdent maps the old JSONWP numeric status codes that WDA still
// emits on some endpoints to their W3C error identifiers.
func legacyStatusIdent(status int) string {
	switch status {
	case 7:
		return "no such element"
	case 6, 33:
		return "invalid session id"
	case 21:
		return "timeout"
	case 9:
		return "unknown command"
	default:
		return fmt.Sprintf("status %d", status)
	}
}

// NormalizeResponse inspects an agent response and maps it to an
// AutomationError, or nil when the response does not carry an error. The
// raw body is preserved on every normalized error so nothing is lost when
// the agent says something we do not recognize.
func NormalizeResponse(statusCode int, raw []byte) *AutomationError {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		if statusCode >= 400 {
			return &AutomationError{
				Kind:    KindUnknownAgent,
				Message: fmt.Sprintf("HTTP %d with unparseable body", statusCode),
				Raw:     append(json.RawMessage(nil), raw...),
			}
		}
		return nil
	}

	for _, match := range envelopeMatchers {
		if env, ok := match(body); ok {
			return &AutomationError{
				Kind:    classify(env.ident, env.message),
				Message: env.message,
				Raw:     append(json.RawMessage(nil), raw...),
			}
		}
	}

	if statusCode >= 400 {
		return &AutomationError{
			Kind:    KindUnknownAgent,
			Message: fmt.Sprintf("HTTP %d", statusCode),
			Raw:     append(json.RawMessage(nil), raw...),
		}
	}
	return nil
}

// classify maps the extracted error identifier and message onto the closed
// error taxonomy by substring matching. Defaults to KindUnknownAgent.
func classify(ident, message string) Kind {
	text := strings.ToLower(ident + " " + message)

	switch {
	case strings.Contains(text, "no such element"),
		strings.Contains(text, "element not found"),
		strings.Contains(text, "no such alert"),
		strings.Contains(text, "element could not be located"):
		return KindNoSuchElement

	case strings.Contains(text, "invalid session"),
		strings.Contains(text, "session does not exist"),
		strings.Contains(text, "session not created"),
		strings.Contains(text, "session is either terminated"),
		strings.Contains(text, "session") && strings.Contains(text, "expired"),
		strings.Contains(text, "session") && strings.Contains(text, "deleted"):
		return KindSessionExpired

	case strings.Contains(text, "invalid argument"),
		strings.Contains(text, "invalid parameter"),
		strings.Contains(text, "missing parameter"):
		return KindInvalidArgument

	case strings.Contains(text, "unknown command"),
		strings.Contains(text, "not implemented"),
		strings.Contains(text, "unsupported"),
		strings.Contains(text, "unknown method"):
		return KindNotImplemented

	case strings.Contains(text, "timed out"),
		strings.Contains(text, "timeout"):
		return KindTimeout
	}
	return KindUnknownAgent
}
