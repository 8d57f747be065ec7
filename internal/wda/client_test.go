package wda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeAgent is a minimal in-process agent for client tests.
type fakeAgent struct {
	mux      *http.ServeMux
	server   *httptest.Server
	requests atomic.Int64
}

func newFakeAgent(t *testing.T) *fakeAgent {
	t.Helper()
	a := &fakeAgent{mux: http.NewServeMux()}
	outer := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.requests.Add(1)
		a.mux.ServeHTTP(w, r)
	})
	a.server = httptest.NewServer(outer)
	t.Cleanup(a.server.Close)
	return a
}

func (a *fakeAgent) client() *Client {
	return NewClientURL(a.server.URL, 5*time.Second)
}

func jsonBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestCreateSession_NestedID(t *testing.T) {
	agent := newFakeAgent(t)
	agent.mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode session request: %v", err)
		}
		if _, ok := req["capabilities"]; !ok {
			t.Error("session request missing capabilities")
		}
		jsonBody(w, 200, `{"value": {"sessionId": "ABC-123", "capabilities": {}}}`)
	})

	id, err := agent.client().CreateSession(context.Background(), Capabilities{})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if id != "ABC-123" {
		t.Errorf("session id = %q", id)
	}
}

func TestCreateSession_TopLevelID(t *testing.T) {
	agent := newFakeAgent(t)
	agent.mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		jsonBody(w, 200, `{"sessionId": "OLD-9", "value": {}}`)
	})

	id, err := agent.client().CreateSession(context.Background(), Capabilities{})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if id != "OLD-9" {
		t.Errorf("session id = %q", id)
	}
}

func TestCreateSession_Unreachable(t *testing.T) {
	agent := newFakeAgent(t)
	client := agent.client()
	agent.server.Close()

	_, err := client.CreateSession(context.Background(), Capabilities{})
	if !IsKind(err, KindConnectionRefused) {
		t.Errorf("err = %v, want connection_refused", err)
	}
}

func TestDeleteSession_Idempotent(t *testing.T) {
	agent := newFakeAgent(t)
	var deletes atomic.Int64
	agent.mux.HandleFunc("DELETE /session/{id}", func(w http.ResponseWriter, r *http.Request) {
		if deletes.Add(1) == 1 {
			jsonBody(w, 200, `{"value": null}`)
			return
		}
		jsonBody(w, 404, `{"value": {"error": "invalid session id", "message": "Session does not exist"}}`)
	})

	client := agent.client()
	if err := client.DeleteSession(context.Background(), "S1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := client.DeleteSession(context.Background(), "S1"); err != nil {
		t.Fatalf("second delete should be swallowed: %v", err)
	}
	if deletes.Load() != 2 {
		t.Errorf("deletes = %d", deletes.Load())
	}
	if err := client.DeleteSession(context.Background(), ""); err != nil {
		t.Errorf("empty session id delete: %v", err)
	}
}

func TestScreenshot_DecodesBase64(t *testing.T) {
	agent := newFakeAgent(t)
	payload := []byte{0x89, 'P', 'N', 'G'}
	agent.mux.HandleFunc("GET /session/{id}/screenshot", func(w http.ResponseWriter, r *http.Request) {
		jsonBody(w, 200, fmt.Sprintf(`{"value": %q}`, base64.StdEncoding.EncodeToString(payload)))
	})

	data, err := agent.client().Screenshot(context.Background(), "S1")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("data = %v", data)
	}
}

func TestSource_JSONHierarchy(t *testing.T) {
	agent := newFakeAgent(t)
	agent.mux.HandleFunc("GET /session/{id}/wda/accessibleSource", func(w http.ResponseWriter, r *http.Request) {
		jsonBody(w, 200, `{"value": {"type": "XCUIElementTypeApplication", "label": "App", "children": [{"type": "XCUIElementTypeButton", "label": "Go"}]}}`)
	})

	root, err := agent.client().Source(context.Background(), "S1", SourceJSON)
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if root.Type != "Application" || len(root.Children) != 1 {
		t.Errorf("root = %+v", root)
	}
}

func TestHealth(t *testing.T) {
	agent := newFakeAgent(t)
	agent.mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		jsonBody(w, 200, `{"value": {"ready": true}}`)
	})
	client := agent.client()
	if !client.Health(context.Background()) {
		t.Error("healthy agent reported unhealthy")
	}

	agent.server.Close()
	if client.Health(context.Background()) {
		t.Error("closed agent reported healthy")
	}
}
