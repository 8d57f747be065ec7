// Package bridge owns the per-device connection state: when an agent
// session is usable, when it must be torn down and recreated, and how
// concurrent callers are serialized against the single session.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// State is the bridge lifecycle state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateActive       State = "active"
	StateExpired      State = "expired"
)

// Bridge manages the agent connection and session for one device. All
// operations on a bridge are serialized: one outstanding command at a
// time, in submission order. Operations on different bridges are
// independent.
type Bridge struct {
	udid   string
	client *wda.Client
	caps   wda.Capabilities

	// opMu serializes operations and lifecycle changes. It is held for
	// the duration of agent calls; mu is not, so Status stays
	// non-blocking while a command is in flight.
	opMu sync.Mutex

	mu        sync.Mutex
	state     State
	sessionID string
	busy      bool
	lastUsed  time.Time
}

// New creates a bridge for the device in the Disconnected state.
func New(udid string, client *wda.Client, caps wda.Capabilities) *Bridge {
	return &Bridge{
		udid:   udid,
		client: client,
		caps:   caps,
		state:  StateDisconnected,
	}
}

// UDID returns the device identifier this bridge serves.
func (b *Bridge) UDID() string {
	return b.udid
}

// Client exposes the underlying protocol client for session-free calls
// (health checks).
func (b *Bridge) Client() *wda.Client {
	return b.client
}

// Status is a point-in-time snapshot of the bridge.
type Status struct {
	UDID      string    `yaml:"udid"                json:"udid"`
	State     State     `yaml:"state"               json:"state"`
	SessionID string    `yaml:"session_id,omitempty" json:"session_id,omitempty"`
	AgentURL  string    `yaml:"agent_url"           json:"agent_url"`
	Busy      bool      `yaml:"busy"                json:"busy"`
	LastUsed  time.Time `yaml:"last_used,omitempty"  json:"last_used,omitempty"`
}

// Status reports the bridge's current state without issuing any commands.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		UDID:      b.udid,
		State:     b.state,
		SessionID: b.sessionID,
		AgentURL:  b.client.BaseURL(),
		Busy:      b.busy,
		LastUsed:  b.lastUsed,
	}
}

// Start connects the bridge: Disconnected -> Connecting -> Active. A
// bridge that is already Active keeps its session.
func (b *Bridge) Start(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	active := b.state == StateActive
	b.mu.Unlock()
	if active {
		return nil
	}
	return b.connect(ctx)
}

// connect creates a fresh session. Caller holds b.opMu.
func (b *Bridge) connect(ctx context.Context) error {
	b.mu.Lock()
	b.state = StateConnecting
	b.mu.Unlock()
	logger.Info("bridge %s: connecting to agent at %s", b.udid, b.client.BaseURL())

	sessionID, err := b.client.CreateSession(ctx, b.caps)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.state = StateDisconnected
		return fmt.Errorf("start bridge for %s: %w", b.udid, err)
	}
	b.sessionID = sessionID
	b.state = StateActive
	b.lastUsed = time.Now()
	logger.Info("bridge %s: session %s active", b.udid, sessionID)
	return nil
}

// Stop tears the bridge down: the session is deleted and the bridge
// returns to Disconnected. Deleting an already-gone session is fine.
func (b *Bridge) Stop(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	sessionID := b.sessionID
	b.sessionID = ""
	b.state = StateDisconnected
	b.mu.Unlock()

	if sessionID == "" {
		return nil
	}
	logger.Info("bridge %s: deleting session %s", b.udid, sessionID)
	return b.client.DeleteSession(ctx, sessionID)
}

// Reset recovers an expired bridge: delete-then-create, tolerating delete
// failure since the agent has likely already discarded the session.
func (b *Bridge) Reset(ctx context.Context) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	sessionID := b.sessionID
	b.sessionID = ""
	b.mu.Unlock()

	if sessionID != "" {
		if err := b.client.DeleteSession(ctx, sessionID); err != nil {
			logger.Warn("bridge %s: delete of stale session failed: %v", b.udid, err)
		}
	}
	return b.connect(ctx)
}

// Healthy reports whether the agent answers its health endpoint. No
// session is required.
func (b *Bridge) Healthy(ctx context.Context) bool {
	return b.client.Health(ctx)
}

// Do runs one operation against the bridge's session, holding the
// per-bridge critical section for the duration. The section is released
// on every exit path, so a timed-out operation cannot wedge the device.
// A SessionExpired result transitions the bridge to Expired; every
// subsequent operation fails immediately, without a network call, until
// Reset is called.
func (b *Bridge) Do(ctx context.Context, fn func(ctx context.Context, client *wda.Client, sessionID string) error) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	switch b.state {
	case StateActive:
	case StateExpired:
		b.mu.Unlock()
		return &wda.AutomationError{
			Kind:    wda.KindSessionExpired,
			Message: fmt.Sprintf("session for device %s has expired; call reset_session to recover", b.udid),
		}
	default:
		state := b.state
		b.mu.Unlock()
		return fmt.Errorf("bridge for %s is %s; call start_bridge first", b.udid, state)
	}
	b.busy = true
	b.lastUsed = time.Now()
	sessionID := b.sessionID
	b.mu.Unlock()

	err := fn(ctx, b.client, sessionID)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	if err != nil && wda.IsKind(err, wda.KindSessionExpired) {
		b.state = StateExpired
		logger.Warn("bridge %s: session %s expired", b.udid, sessionID)
		return &wda.AutomationError{
			Kind:    wda.KindSessionExpired,
			Message: fmt.Sprintf("session for device %s expired mid-operation; call reset_session to recover (%v)", b.udid, err),
		}
	}
	return err
}
