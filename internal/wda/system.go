package wda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
)

// recordingState tracks the start/stop pairing of the agent's screen
// recorder. Stop without a matching start is a usage error, not a no-op.
type recordingState struct {
	mu     sync.Mutex
	active bool
}

// SetLocation overrides the simulated device location.
func (c *Client) SetLocation(ctx context.Context, sessionID string, latitude, longitude float64) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/device/location"), map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
	})
	return err
}

// GetClipboard returns the device pasteboard content as plain text.
func (c *Client) GetClipboard(ctx context.Context, sessionID string) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/getPasteboard"), map[string]any{
		"contentType": "plaintext",
	})
	if err != nil {
		return "", err
	}
	var b64 string
	if err := valueOf(raw, &b64); err != nil {
		return "", err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		// Some agent versions return the text unencoded.
		return b64, nil
	}
	return string(data), nil
}

// SetClipboard replaces the device pasteboard content.
func (c *Client) SetClipboard(ctx context.Context, sessionID, content string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/setPasteboard"), map[string]any{
		"content":     base64.StdEncoding.EncodeToString([]byte(content)),
		"contentType": "plaintext",
	})
	return err
}

// StatusBarOverride holds the demo status-bar values to pin on screen.
// Zero-valued fields are left untouched.
type StatusBarOverride struct {
	Time         string `json:"time,omitempty"`
	DataNetwork  string `json:"dataNetwork,omitempty"`
	WifiBars     *int   `json:"wifiBars,omitempty"`
	CellularBars *int   `json:"cellularBars,omitempty"`
	BatteryLevel *int   `json:"batteryLevel,omitempty"`
}

// OverrideStatusBar pins status-bar values for clean screenshots.
func (c *Client) OverrideStatusBar(ctx context.Context, sessionID string, override StatusBarOverride) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/device/statusBar/override"), override)
	return err
}

// ClearStatusBar removes any status-bar override.
func (c *Client) ClearStatusBar(ctx context.Context, sessionID string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/device/statusBar/clear"), nil)
	return err
}

// Appearance is the UI style, "light" or "dark".
type Appearance string

const (
	AppearanceLight Appearance = "light"
	AppearanceDark  Appearance = "dark"
)

// GetAppearance returns the current UI style.
func (c *Client) GetAppearance(ctx context.Context, sessionID string) (Appearance, error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/wda/device/appearance"), nil)
	if err != nil {
		return "", err
	}
	var resp struct {
		Style string `json:"style"`
	}
	if err := valueOf(raw, &resp); err != nil {
		return "", err
	}
	return Appearance(resp.Style), nil
}

// SetAppearance switches the UI style.
func (c *Client) SetAppearance(ctx context.Context, sessionID string, style Appearance) error {
	if style != AppearanceLight && style != AppearanceDark {
		return &AutomationError{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("unknown appearance %q (use light or dark)", style),
		}
	}
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/device/appearance"), map[string]any{
		"style": string(style),
	})
	return err
}

// MatchBiometric simulates a Touch ID / Face ID prompt result.
func (c *Client) MatchBiometric(ctx context.Context, sessionID string, match bool) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/touch_id"), map[string]any{
		"match": match,
	})
	return err
}

// StartRecording starts the agent's screen recorder. Starting while a
// recording is already active is a usage error.
func (c *Client) StartRecording(ctx context.Context, sessionID string) error {
	c.recording.mu.Lock()
	defer c.recording.mu.Unlock()
	if c.recording.active {
		return &AutomationError{Kind: KindInvalidArgument, Message: "recording already in progress"}
	}
	if _, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/video/start"), nil); err != nil {
		return err
	}
	c.recording.active = true
	return nil
}

// StopRecording stops the recorder and returns the captured video bytes.
// Stopping without a prior start is a usage error, not silently ignored.
func (c *Client) StopRecording(ctx context.Context, sessionID string) ([]byte, error) {
	c.recording.mu.Lock()
	defer c.recording.mu.Unlock()
	if !c.recording.active {
		return nil, &AutomationError{Kind: KindInvalidArgument, Message: "no recording in progress; call start first"}
	}
	raw, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/video/stop"), nil)
	if err != nil {
		return nil, err
	}
	c.recording.active = false

	var b64 string
	if err := valueOf(raw, &b64); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	return data, nil
}

// RecordingActive reports whether a recording start is awaiting its stop.
func (c *Client) RecordingActive() bool {
	c.recording.mu.Lock()
	defer c.recording.mu.Unlock()
	return c.recording.active
}

// OpenURL opens a URL or deep link on the device.
func (c *Client) OpenURL(ctx context.Context, sessionID, url string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/url"), map[string]any{
		"url": url,
	})
	return err
}
