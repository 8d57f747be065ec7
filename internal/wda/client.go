package wda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
)

// Client issues commands to the automation agent. It is stateless with
// respect to sessions: the session id is owned by the bridge and passed
// into every session-scoped call.
type Client struct {
	transport *Transport

	recording recordingState
}

// NewClient creates a client on top of an existing transport.
func NewClient(transport *Transport) *Client {
	return &Client{transport: transport}
}

// NewClientURL creates a client for the agent at baseURL.
func NewClientURL(baseURL string, timeout time.Duration) *Client {
	return NewClient(NewTransport(baseURL, timeout))
}

// BaseURL returns the agent base URL.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}

// do sends one request and routes every failure through the error
// normalizer, so callers only ever see AutomationError values.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	status, raw, err := c.transport.Send(ctx, method, path, body)
	if err != nil {
		return nil, reclassifyTransport(err)
	}
	if aerr := NormalizeResponse(status, raw); aerr != nil {
		return nil, aerr
	}
	return raw, nil
}

// reclassifyTransport converts transport sentinels into typed automation
// errors. Raw transport errors never escape the client.
func reclassifyTransport(err error) error {
	switch {
	case errors.Is(err, ErrAgentUnreachable):
		return &AutomationError{Kind: KindConnectionRefused, Message: err.Error()}
	case errors.Is(err, ErrRequestTimeout):
		return &AutomationError{Kind: KindTimeout, Message: err.Error()}
	case errors.Is(err, context.Canceled):
		return err
	default:
		return &AutomationError{Kind: KindUnknownAgent, Message: err.Error()}
	}
}

// valueOf unmarshals the "value" member of a WebDriver response into dst.
func valueOf(raw json.RawMessage, dst any) error {
	var outer struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return fmt.Errorf("parse agent response: %w", err)
	}
	if outer.Value == nil {
		return fmt.Errorf("agent response has no value member")
	}
	if err := json.Unmarshal(outer.Value, dst); err != nil {
		return fmt.Errorf("parse agent response value: %w", err)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/session/" + sessionID + suffix
}

// Capabilities are the session-creation capabilities sent to the agent.
type Capabilities struct {
	BundleID              string `json:"bundleId,omitempty"`
	ShouldWaitForQuiesce  *bool  `json:"shouldWaitForQuiescence,omitempty"`
	DefaultAlertAction    string `json:"defaultAlertAction,omitempty"`
	ShouldUseTestManagerd *bool  `json:"shouldUseTestManagerForVisibilityDetection,omitempty"`
}

// CreateSession creates an agent session and returns its id. When the
// agent is unreachable this fails with KindConnectionRefused.
func (c *Client) CreateSession(ctx context.Context, caps Capabilities) (string, error) {
	body := map[string]any{
		"capabilities": map[string]any{
			"alwaysMatch": caps,
		},
	}
	raw, err := c.do(ctx, http.MethodPost, "/session", body)
	if err != nil {
		return "", err
	}

	// Modern agents return {"value": {"sessionId": ...}}; older ones put
	// sessionId at the top level.
	var resp struct {
		SessionID string `json:"sessionId"`
		Value     struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse session response: %w", err)
	}
	id := resp.Value.SessionID
	if id == "" {
		id = resp.SessionID
	}
	if id == "" {
		return "", &AutomationError{Kind: KindUnknownAgent, Message: "session created without an id", Raw: raw}
	}
	logger.Debug("created agent session %s", id)
	return id, nil
}

// DeleteSession ends a session. Deleting a session the agent has already
// forgotten is not an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	_, err := c.do(ctx, http.MethodDelete, "/session/"+sessionID, nil)
	if err != nil && (IsKind(err, KindSessionExpired) || IsKind(err, KindNoSuchElement)) {
		return nil
	}
	return err
}

// Health reports whether the agent answers /status. It never returns an
// error; any failure means not healthy.
func (c *Client) Health(ctx context.Context) bool {
	_, err := c.do(ctx, http.MethodGet, "/status", nil)
	return err == nil
}

// Status returns the agent's /status payload.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return nil, err
	}
	var status map[string]any
	if err := valueOf(raw, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// SourceFormat selects the hierarchy encoding requested from the agent.
type SourceFormat string

const (
	SourceJSON SourceFormat = "json"
	SourceXML  SourceFormat = "xml"
)

// Source fetches the current UI hierarchy and parses it into an element
// tree. JSON is preferred; XML is parsed into the same shape.
func (c *Client) Source(ctx context.Context, sessionID string, format SourceFormat) (*tree.Element, error) {
	switch format {
	case SourceXML:
		var xmlSrc string
		raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/source"), nil)
		if err != nil {
			return nil, err
		}
		if err := valueOf(raw, &xmlSrc); err != nil {
			return nil, err
		}
		return tree.ParseXML([]byte(xmlSrc))
	default:
		raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/wda/accessibleSource"), nil)
		if err != nil {
			return nil, err
		}
		var node json.RawMessage
		if err := valueOf(raw, &node); err != nil {
			return nil, err
		}
		return tree.ParseJSON(node)
	}
}

// Orientation is the device orientation as reported by the agent.
type Orientation string

const (
	OrientationPortrait       Orientation = "PORTRAIT"
	OrientationLandscape      Orientation = "LANDSCAPE"
	OrientationLandscapeRight Orientation = "LANDSCAPE_RIGHT"
	OrientationPortraitUpside Orientation = "UIA_DEVICE_ORIENTATION_PORTRAIT_UPSIDEDOWN"
)

// IsLandscape reports whether the orientation is a landscape variant.
func (o Orientation) IsLandscape() bool {
	return o == OrientationLandscape || o == OrientationLandscapeRight
}

// GetOrientation returns the current device orientation.
func (c *Client) GetOrientation(ctx context.Context, sessionID string) (Orientation, error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/orientation"), nil)
	if err != nil {
		return "", err
	}
	var value string
	if err := valueOf(raw, &value); err != nil {
		return "", err
	}
	return Orientation(value), nil
}

// SetOrientation rotates the device.
func (c *Client) SetOrientation(ctx context.Context, sessionID string, o Orientation) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/orientation"), map[string]any{
		"orientation": string(o),
	})
	return err
}

// Screenshot captures the screen and returns raw PNG bytes.
func (c *Client) Screenshot(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/screenshot"), nil)
	if err != nil {
		return nil, err
	}
	var b64 string
	if err := valueOf(raw, &b64); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return data, nil
}

// WindowSize returns the screen dimensions in points.
func (c *Client) WindowSize(ctx context.Context, sessionID string) (width, height int, err error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/window/size"), nil)
	if err != nil {
		return 0, 0, err
	}
	var size struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := valueOf(raw, &size); err != nil {
		return 0, 0, err
	}
	return int(size.Width), int(size.Height), nil
}
