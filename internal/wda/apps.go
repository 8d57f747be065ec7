package wda

import (
	"context"
	"net/http"
)

// AppInfo describes one application known to the agent.
type AppInfo struct {
	BundleID string `yaml:"bundle_id"      json:"bundleId"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	PID      int    `yaml:"pid,omitempty"  json:"pid,omitempty"`
}

// LaunchApp launches an app by bundle identifier. Launching is not
// idempotent (a relaunch may reset app state), so failures are never
// silently retried.
func (c *Client) LaunchApp(ctx context.Context, sessionID, bundleID string, arguments []string, environment map[string]string) error {
	body := map[string]any{"bundleId": bundleID}
	if len(arguments) > 0 {
		body["arguments"] = arguments
	}
	if len(environment) > 0 {
		body["environment"] = environment
	}
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/apps/launch"), body)
	return err
}

// TerminateApp terminates an app by bundle identifier.
func (c *Client) TerminateApp(ctx context.Context, sessionID, bundleID string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/apps/terminate"), map[string]any{
		"bundleId": bundleID,
	})
	return err
}

// ActivateApp brings an app to the foreground without relaunching it.
func (c *Client) ActivateApp(ctx context.Context, sessionID, bundleID string) error {
	_, err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/wda/apps/activate"), map[string]any{
		"bundleId": bundleID,
	})
	return err
}

// ListApps returns the applications the agent currently reports.
func (c *Client) ListApps(ctx context.Context, sessionID string) ([]AppInfo, error) {
	raw, err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/wda/apps/list"), nil)
	if err != nil {
		return nil, err
	}
	var apps []AppInfo
	if err := valueOf(raw, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}
