package wda

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
)

// PointerAction is one event in a W3C pointer-action sequence.
type PointerAction struct {
	Type     string `json:"type"`
	X        *int   `json:"x,omitempty"`
	Y        *int   `json:"y,omitempty"`
	Button   *int   `json:"button,omitempty"`
	Duration *int   `json:"duration,omitempty"`
}

// PointerSequence is a single-finger touch input source with its ordered
// actions, as sent to the agent's /actions endpoint.
type PointerSequence struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Parameters map[string]any  `json:"parameters"`
	Actions    []PointerAction `json:"actions"`
}

func intPtr(v int) *int { return &v }

// newTouchSequence starts a pointer sequence for one synthetic finger.
func newTouchSequence(actions []PointerAction) PointerSequence {
	return PointerSequence{
		Type:       "pointer",
		ID:         "touch-" + uuid.NewString(),
		Parameters: map[string]any{"pointerType": "touch"},
		Actions:    actions,
	}
}

// TapSequence encodes a tap at (x, y) as a pointer-action sequence.
func TapSequence(x, y int) PointerSequence {
	return newTouchSequence([]PointerAction{
		{Type: "pointerMove", X: intPtr(x), Y: intPtr(y)},
		{Type: "pointerDown", Button: intPtr(0)},
		{Type: "pause", Duration: intPtr(100)},
		{Type: "pointerUp", Button: intPtr(0)},
	})
}

// LongPressSequence encodes a touch-and-hold at (x, y).
func LongPressSequence(x, y int, hold time.Duration) PointerSequence {
	return newTouchSequence([]PointerAction{
		{Type: "pointerMove", X: intPtr(x), Y: intPtr(y)},
		{Type: "pointerDown", Button: intPtr(0)},
		{Type: "pause", Duration: intPtr(int(hold.Milliseconds()))},
		{Type: "pointerUp", Button: intPtr(0)},
	})
}

// SwipeSequence encodes a drag from (x1, y1) to (x2, y2) over the given
// duration.
func SwipeSequence(x1, y1, x2, y2 int, d time.Duration) PointerSequence {
	return newTouchSequence([]PointerAction{
		{Type: "pointerMove", X: intPtr(x1), Y: intPtr(y1)},
		{Type: "pointerDown", Button: intPtr(0)},
		{Type: "pointerMove", X: intPtr(x2), Y: intPtr(y2), Duration: intPtr(int(d.Milliseconds()))},
		{Type: "pointerUp", Button: intPtr(0)},
	})
}

// FirstMove returns the coordinates of the first pointerMove in the
// sequence. This is the inverse of the encoders above for single-point
// gestures.
func (s PointerSequence) FirstMove() (x, y int, ok bool) {
	for _, a := range s.Actions {
		if a.Type == "pointerMove" && a.X != nil && a.Y != nil {
			return *a.X, *a.Y, true
		}
	}
	return 0, 0, false
}

// performActions posts a pointer sequence to the W3C actions endpoint.
func (c *Client) performActions(ctx context.Context, sessionID string, seqs ...PointerSequence) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/actions"), map[string]any{
		"actions": seqs,
	})
	return err
}

// withGestureFallback runs the primary actions-API encoding and, only when
// the agent signals the endpoint itself is unsupported, retries through
// the device-specific legacy endpoint. Any other failure propagates: a
// blanket catch-and-fallback would re-issue gestures that half-ran.
func withGestureFallback(name string, primary, fallback func() error) error {
	err := primary()
	if err == nil {
		return nil
	}
	if !IsKind(err, KindNotImplemented) {
		return err
	}
	logger.Debug("actions endpoint unsupported for %s, using legacy endpoint", name)
	return fallback()
}

// Tap taps at (x, y).
func (c *Client) Tap(ctx context.Context, sessionID string, x, y int) error {
	return withGestureFallback("tap",
		func() error {
			return c.performActions(ctx, sessionID, TapSequence(x, y))
		},
		func() error {
			_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/tap"), map[string]any{
				"x": x, "y": y,
			})
			return err
		})
}

// DoubleTap double-taps at (x, y). The actions encoding is two tap bursts
// separated by a short pause on the same pointer.
func (c *Client) DoubleTap(ctx context.Context, sessionID string, x, y int) error {
	seq := newTouchSequence([]PointerAction{
		{Type: "pointerMove", X: intPtr(x), Y: intPtr(y)},
		{Type: "pointerDown", Button: intPtr(0)},
		{Type: "pause", Duration: intPtr(60)},
		{Type: "pointerUp", Button: intPtr(0)},
		{Type: "pause", Duration: intPtr(60)},
		{Type: "pointerDown", Button: intPtr(0)},
		{Type: "pause", Duration: intPtr(60)},
		{Type: "pointerUp", Button: intPtr(0)},
	})
	return withGestureFallback("doubleTap",
		func() error {
			return c.performActions(ctx, sessionID, seq)
		},
		func() error {
			_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/doubleTap"), map[string]any{
				"x": x, "y": y,
			})
			return err
		})
}

// LongPress touches and holds at (x, y) for the given duration.
func (c *Client) LongPress(ctx context.Context, sessionID string, x, y int, hold time.Duration) error {
	return withGestureFallback("touchAndHold",
		func() error {
			return c.performActions(ctx, sessionID, LongPressSequence(x, y, hold))
		},
		func() error {
			_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/touchAndHold"), map[string]any{
				"x": x, "y": y, "duration": hold.Seconds(),
			})
			return err
		})
}

// Swipe drags from (x1, y1) to (x2, y2) over the given duration.
func (c *Client) Swipe(ctx context.Context, sessionID string, x1, y1, x2, y2 int, d time.Duration) error {
	return withGestureFallback("drag",
		func() error {
			return c.performActions(ctx, sessionID, SwipeSequence(x1, y1, x2, y2, d))
		},
		func() error {
			_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/dragfromtoforduration"), map[string]any{
				"fromX": x1, "fromY": y1, "toX": x2, "toY": y2, "duration": d.Seconds(),
			})
			return err
		})
}

// TypeText types text through the agent's keyboard.
func (c *Client) TypeText(ctx context.Context, sessionID, text string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/keys"), map[string]any{
		"value": strings.Split(text, ""),
	})
	return err
}

// PressButton presses a hardware button (home, volumeUp, volumeDown).
func (c *Client) PressButton(ctx context.Context, sessionID, name string) error {
	switch name {
	case "home", "volumeUp", "volumeDown":
	default:
		return &AutomationError{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("unknown hardware button %q (use home, volumeUp, volumeDown)", name),
		}
	}
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/pressButton"), map[string]any{
		"name": name,
	})
	return err
}
