package wda

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

func TestTapSequence_Shape(t *testing.T) {
	seq := TapSequence(120, 240)
	if seq.Type != "pointer" {
		t.Errorf("type = %q", seq.Type)
	}
	if seq.Parameters["pointerType"] != "touch" {
		t.Errorf("pointerType = %v", seq.Parameters["pointerType"])
	}
	wantTypes := []string{"pointerMove", "pointerDown", "pause", "pointerUp"}
	if len(seq.Actions) != len(wantTypes) {
		t.Fatalf("actions = %d", len(seq.Actions))
	}
	for i, want := range wantTypes {
		if seq.Actions[i].Type != want {
			t.Errorf("action %d = %q, want %q", i, seq.Actions[i].Type, want)
		}
	}
}

func TestSequences_FirstMoveRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		seq  PointerSequence
		x, y int
	}{
		{"tap", TapSequence(10, 20), 10, 20},
		{"long press", LongPressSequence(33, 44, time.Second), 33, 44},
		{"swipe", SwipeSequence(5, 6, 100, 200, 500*time.Millisecond), 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Encode to wire form and back: the decoded first move must
			// report the original coordinates.
			data, err := json.Marshal(tt.seq)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var decoded PointerSequence
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			x, y, ok := decoded.FirstMove()
			if !ok {
				t.Fatal("no pointerMove found")
			}
			if x != tt.x || y != tt.y {
				t.Errorf("first move = (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestTap_FallsBackOnNotImplemented(t *testing.T) {
	agent := newFakeAgent(t)
	var actionsCalls, legacyCalls atomic.Int64
	agent.mux.HandleFunc("POST /session/{id}/actions", func(w http.ResponseWriter, r *http.Request) {
		actionsCalls.Add(1)
		jsonBody(w, 404, `{"value": {"error": "unknown command", "message": "unhandled endpoint"}}`)
	})
	agent.mux.HandleFunc("POST /session/{id}/wda/tap", func(w http.ResponseWriter, r *http.Request) {
		legacyCalls.Add(1)
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode tap body: %v", err)
		}
		if body["x"] != float64(50) || body["y"] != float64(60) {
			t.Errorf("legacy tap coords = %v", body)
		}
		jsonBody(w, 200, `{"value": null}`)
	})

	if err := agent.client().Tap(context.Background(), "S1", 50, 60); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	if actionsCalls.Load() != 1 || legacyCalls.Load() != 1 {
		t.Errorf("actions=%d legacy=%d", actionsCalls.Load(), legacyCalls.Load())
	}
}

func TestTap_NoFallbackOnOtherErrors(t *testing.T) {
	agent := newFakeAgent(t)
	var legacyCalls atomic.Int64
	agent.mux.HandleFunc("POST /session/{id}/actions", func(w http.ResponseWriter, r *http.Request) {
		jsonBody(w, 404, `{"value": {"error": "invalid session id", "message": "Session does not exist"}}`)
	})
	agent.mux.HandleFunc("POST /session/{id}/wda/tap", func(w http.ResponseWriter, r *http.Request) {
		legacyCalls.Add(1)
		jsonBody(w, 200, `{"value": null}`)
	})

	err := agent.client().Tap(context.Background(), "S1", 1, 2)
	if !IsKind(err, KindSessionExpired) {
		t.Errorf("err = %v, want session_expired", err)
	}
	if legacyCalls.Load() != 0 {
		t.Error("expired session must not trigger the legacy fallback")
	}
}

func TestTypeText_SplitsCharacters(t *testing.T) {
	agent := newFakeAgent(t)
	agent.mux.HandleFunc("POST /session/{id}/wda/keys", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Value []string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode keys body: %v", err)
		}
		if len(body.Value) != 5 || body.Value[0] != "h" {
			t.Errorf("keys = %v", body.Value)
		}
		jsonBody(w, 200, `{"value": null}`)
	})

	if err := agent.client().TypeText(context.Background(), "S1", "hello"); err != nil {
		t.Fatalf("TypeText: %v", err)
	}
}

func TestPressButton_RejectsUnknown(t *testing.T) {
	agent := newFakeAgent(t)
	err := agent.client().PressButton(context.Background(), "S1", "power")
	if !IsKind(err, KindInvalidArgument) {
		t.Errorf("err = %v, want invalid_argument", err)
	}
	if agent.requests.Load() != 0 {
		t.Error("invalid button name must be rejected before any request")
	}
}
