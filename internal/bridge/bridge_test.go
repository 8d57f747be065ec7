package bridge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// testAgent simulates the automation agent's session lifecycle.
type testAgent struct {
	server   *httptest.Server
	mux      *http.ServeMux
	requests atomic.Int64

	mu      sync.Mutex
	expired bool
}

func newTestAgent(t *testing.T) *testAgent {
	t.Helper()
	a := &testAgent{mux: http.NewServeMux()}

	a.mux.HandleFunc("POST /session", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.expired = false
		a.mu.Unlock()
		w.WriteHeader(200)
		fmt.Fprint(w, `{"value": {"sessionId": "SESSION-1"}}`)
	})
	a.mux.HandleFunc("DELETE /session/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		fmt.Fprint(w, `{"value": null}`)
	})
	a.mux.HandleFunc("POST /session/{id}/actions", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		expired := a.expired
		a.mu.Unlock()
		if expired {
			w.WriteHeader(404)
			fmt.Fprint(w, `{"value": {"error": "invalid session id", "message": "Session does not exist"}}`)
			return
		}
		w.WriteHeader(200)
		fmt.Fprint(w, `{"value": null}`)
	})

	a.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.requests.Add(1)
		a.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(a.server.Close)
	return a
}

func (a *testAgent) expireSession() {
	a.mu.Lock()
	a.expired = true
	a.mu.Unlock()
}

func (a *testAgent) bridge(t *testing.T) *Bridge {
	t.Helper()
	client := wda.NewClientURL(a.server.URL, 5*time.Second)
	return New("TEST-UDID", client, wda.Capabilities{})
}

func tapOnce(ctx context.Context, b *Bridge) error {
	return b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.Tap(ctx, sessionID, 10, 10)
	})
}

func TestBridge_StartActivates(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)

	if b.Status().State != StateDisconnected {
		t.Fatalf("initial state = %s", b.Status().State)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	st := b.Status()
	if st.State != StateActive || st.SessionID != "SESSION-1" {
		t.Errorf("status = %+v", st)
	}

	// Starting an active bridge keeps its session.
	before := agent.requests.Load()
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if agent.requests.Load() != before {
		t.Error("second Start issued network traffic")
	}
}

func TestBridge_DoRequiresActive(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)

	err := tapOnce(context.Background(), b)
	if err == nil {
		t.Fatal("Do on a disconnected bridge should fail")
	}
	if agent.requests.Load() != 0 {
		t.Error("disconnected bridge issued network traffic")
	}
}

func TestBridge_ExpiryThenFastFailure(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	agent.expireSession()
	err := tapOnce(context.Background(), b)
	if !wda.IsKind(err, wda.KindSessionExpired) {
		t.Fatalf("err = %v, want session_expired", err)
	}
	if b.Status().State != StateExpired {
		t.Errorf("state = %s, want expired", b.Status().State)
	}

	// Subsequent operations fail immediately, without touching the agent.
	before := agent.requests.Load()
	err = tapOnce(context.Background(), b)
	if !wda.IsKind(err, wda.KindSessionExpired) {
		t.Fatalf("err = %v", err)
	}
	if agent.requests.Load() != before {
		t.Error("expired bridge issued network traffic")
	}
}

func TestBridge_ResetRecovers(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	agent.expireSession()
	_ = tapOnce(context.Background(), b)
	if b.Status().State != StateExpired {
		t.Fatalf("state = %s", b.Status().State)
	}

	if err := b.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if b.Status().State != StateActive {
		t.Errorf("state after reset = %s", b.Status().State)
	}
	if err := tapOnce(context.Background(), b); err != nil {
		t.Errorf("tap after reset: %v", err)
	}
}

func TestBridge_StopIsIdempotent(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := b.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if b.Status().State != StateDisconnected {
		t.Errorf("state = %s", b.Status().State)
	}
	if err := b.Stop(context.Background()); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestBridge_DoSerializes(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var inFlight, maxInFlight atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Do(context.Background(), func(ctx context.Context, client *wda.Client, sessionID string) error {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					prev := maxInFlight.Load()
					if n <= prev || maxInFlight.CompareAndSwap(prev, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				return client.Tap(ctx, sessionID, 1, 1)
			})
			if err != nil {
				t.Errorf("concurrent tap: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInFlight.Load() != 1 {
		t.Errorf("max concurrent operations = %d, want 1", maxInFlight.Load())
	}
	if b.Status().Busy {
		t.Error("busy flag not cleared after operations finished")
	}
}

func TestBridge_StatusNonBlockingDuringDo(t *testing.T) {
	agent := newTestAgent(t)
	b := agent.bridge(t)
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(context.Background(), func(ctx context.Context, client *wda.Client, sessionID string) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	// Status must return while the operation is still in flight.
	statuses := make(chan Status, 1)
	go func() { statuses <- b.Status() }()
	select {
	case st := <-statuses:
		if !st.Busy {
			t.Error("Busy = false during in-flight operation, want true")
		}
		if st.State != StateActive {
			t.Errorf("State = %q during in-flight operation, want %q", st.State, StateActive)
		}
	case <-time.After(time.Second):
		t.Fatal("Status blocked behind an in-flight operation")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Do: %v", err)
	}
	if b.Status().Busy {
		t.Error("busy flag not cleared after operation finished")
	}
}

func TestRegistry_GetOrCreate(t *testing.T) {
	agent := newTestAgent(t)
	r := NewRegistry(agent.server.URL, 5*time.Second, wda.Capabilities{})

	b1 := r.GetOrCreate("UDID-A")
	b2 := r.GetOrCreate("UDID-A")
	if b1 != b2 {
		t.Error("same UDID should return the same bridge")
	}
	if b3 := r.GetOrCreate("UDID-B"); b3 == b1 {
		t.Error("different UDIDs should not share a bridge")
	}

	if _, err := r.Get("UDID-A"); err != nil {
		t.Errorf("Get existing: %v", err)
	}
	if _, err := r.Get("UDID-MISSING"); err == nil {
		t.Error("Get of unknown device should fail")
	}

	statuses := r.List()
	if len(statuses) != 2 {
		t.Fatalf("List = %d entries", len(statuses))
	}
	if statuses[0].UDID != "UDID-A" || statuses[1].UDID != "UDID-B" {
		t.Errorf("List not sorted by UDID: %v", statuses)
	}

	r.Remove("UDID-A")
	if _, err := r.Get("UDID-A"); err == nil {
		t.Error("removed bridge still resolvable")
	}
}
