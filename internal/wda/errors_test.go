package wda

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeResponse_EnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Kind
	}{
		{
			name: "top level",
			body: `{"error": "no such element", "message": "unable to locate element"}`,
			want: KindNoSuchElement,
		},
		{
			name: "nested value",
			body: `{"value": {"error": "no such element", "message": "An element could not be located"}}`,
			want: KindNoSuchElement,
		},
		{
			name: "legacy status",
			body: `{"status": 7, "value": {"message": "cell not found"}}`,
			want: KindNoSuchElement,
		},
		{
			name: "legacy invalid session",
			body: `{"status": 6, "value": {"message": "session gone"}}`,
			want: KindSessionExpired,
		},
		{
			name: "expired session nested",
			body: `{"value": {"error": "invalid session id", "message": "Session does not exist"}}`,
			want: KindSessionExpired,
		},
		{
			name: "unsupported endpoint",
			body: `{"value": {"error": "unknown command", "message": "unhandled endpoint"}}`,
			want: KindNotImplemented,
		},
		{
			name: "unrecognized text",
			body: `{"error": "weird", "message": "something odd happened"}`,
			want: KindUnknownAgent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := NormalizeResponse(500, []byte(tt.body))
			if ae == nil {
				t.Fatal("expected an error")
			}
			if ae.Kind != tt.want {
				t.Errorf("kind = %s, want %s", ae.Kind, tt.want)
			}
			if string(ae.Raw) != tt.body {
				t.Errorf("raw body not preserved: %s", ae.Raw)
			}
		})
	}
}

func TestNormalizeResponse_Success(t *testing.T) {
	if ae := NormalizeResponse(200, []byte(`{"value": {"sessionId": "abc"}}`)); ae != nil {
		t.Errorf("success body normalized to error: %v", ae)
	}
	// Legacy status 0 is success even with a value.message present.
	if ae := NormalizeResponse(200, []byte(`{"status": 0, "value": {"message": "ok"}}`)); ae != nil {
		t.Errorf("status 0 normalized to error: %v", ae)
	}
}

func TestNormalizeResponse_UnparseableBody(t *testing.T) {
	ae := NormalizeResponse(502, []byte("<html>bad gateway</html>"))
	if ae == nil {
		t.Fatal("expected an error for HTTP 502")
	}
	if ae.Kind != KindUnknownAgent {
		t.Errorf("kind = %s", ae.Kind)
	}
	if NormalizeResponse(200, []byte("not json")) != nil {
		t.Error("non-JSON 200 should not be an error")
	}
}

func TestNormalizeResponse_MatcherPriority(t *testing.T) {
	// A body carrying both the top-level and nested shapes must be read
	// by the top-level matcher first.
	body := `{"error": "invalid argument", "message": "bad coords", "value": {"error": "no such element", "message": "x"}}`
	ae := NormalizeResponse(400, []byte(body))
	if ae == nil {
		t.Fatal("expected an error")
	}
	if ae.Kind != KindInvalidArgument {
		t.Errorf("kind = %s, want invalid_argument from the top-level shape", ae.Kind)
	}
}

func TestKindOf(t *testing.T) {
	err := &AutomationError{Kind: KindTimeout, Message: "timed out after 60s"}
	if KindOf(err) != KindTimeout {
		t.Errorf("KindOf = %s", KindOf(err))
	}
	wrapped := errors.New("op failed: " + err.Error())
	if KindOf(wrapped) != KindUnknownAgent {
		t.Error("non-AutomationError should map to unknown")
	}
	if !IsKind(err, KindTimeout) {
		t.Error("IsKind should match")
	}
}

func TestAutomationError_Message(t *testing.T) {
	err := &AutomationError{Kind: KindNoSuchElement, Message: "unable to locate"}
	if !strings.Contains(err.Error(), "no_such_element") {
		t.Errorf("error text = %q", err.Error())
	}
	bare := &AutomationError{Kind: KindTimeout}
	if bare.Error() != "timeout" {
		t.Errorf("bare error text = %q", bare.Error())
	}
}
