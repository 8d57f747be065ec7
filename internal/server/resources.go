package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources publishes static reference documents so MCP clients
// can self-serve usage docs without a round trip to the tools.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource("ios-sim://api-reference", "API Reference",
			mcp.WithResourceDescription("Tool-by-tool reference for the simulator automation surface"),
			mcp.WithMIMEType("text/markdown"),
		),
		staticResource("ios-sim://api-reference", apiReference),
	)

	s.mcp.AddResource(
		mcp.NewResource("ios-sim://automation-guide", "Automation Guide",
			mcp.WithResourceDescription("Recommended workflow for driving a simulator through this server"),
			mcp.WithMIMEType("text/markdown"),
		),
		staticResource("ios-sim://automation-guide", automationGuide),
	)
}

func staticResource(uri, text string) func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}

const apiReference = `# iOS Simulator MCP — API Reference

## Device lifecycle
- **list_devices** — list simulators with UDID, name, iOS version, boot
  state, and whether an automation bridge is connected.
- **boot_device** / **shutdown_device** — boot or shut down a simulator
  and wait for the state change (timeout in seconds, default 60).
- **install_app** — install a .app bundle by path.
- **open_url** — open a deep link or web URL.
- **discover_dtd_uris** — scan device logs for Dart VM service and Dart
  Tooling Daemon URIs announced by a running Flutter app.

## Bridge lifecycle
- **start_bridge** — connect to WebDriverAgent and create a session.
  Required before any UI tool. The device must be booted.
- **stop_bridge** — delete the session and forget the bridge.
- **reset_session** — recover an expired session (delete-then-create).
- **bridge_status** — state, session id, and busy flag per device.

## Observation
- **get_screenshot** — capture, orientation-correct, scale, and save the
  screen; returns the image inline and the artifact path.
- **get_ui_tree** — indexed accessibility outline. Element indices are
  valid until the next UI change.
- **find_element** — match one element by type/identifier/label/value;
  ambiguous matches fail and list the candidate indices.
- **screen_info** — window size and orientation.

## Interaction
- **tap** / **double_tap** / **long_press** — by element index, by
  predicate, or by x/y coordinates.
- **swipe** — from/to coordinates with optional duration.
- **type_text** — type into the focused element.
- **press_button** — home, volumeUp, volumeDown.
- **set_orientation** — portrait or landscape.

## Apps, system, alerts
- **launch_app** / **terminate_app** / **activate_app** / **list_apps**
- **set_location**, **get_clipboard** / **set_clipboard**
- **set_status_bar** / **clear_status_bar**, **get_appearance** /
  **set_appearance**, **match_biometric**
- **start_recording** / **stop_recording** — screen capture to a saved
  .mp4 artifact.
- **alert_accept** / **alert_dismiss** / **alert_text**

All tools accept an optional ` + "`udid`" + `; without it the configured
default device is used.
`

const automationGuide = `# iOS Simulator MCP — Automation Guide

## Setup
1. ` + "`list_devices`" + ` to find the target simulator's UDID.
2. ` + "`boot_device`" + ` if it is not already Booted.
3. ` + "`start_bridge`" + ` to create the WebDriverAgent session. UI
   tools fail until a bridge is active.

## Driving the UI
The reliable loop is observe, act, re-observe:

1. ` + "`get_ui_tree`" + ` — every element gets an index.
2. Act on an index (` + "`tap`" + ` with ` + "`element`" + `) or on a
   predicate (` + "`label_contains`" + `, ` + "`identifier`" + `).
3. After any action the previous indices are stale; fetch the tree again
   before the next index-based action.

Prefer predicates or indices over raw coordinates: they survive layout
changes and scale factors. If a predicate matches several elements the
tool fails and lists the matching indices; retry with ` + "`index`" + `
to pick one.

## Screenshots and recordings
` + "`get_screenshot`" + ` rotates landscape captures upright and scales
to 50% by default. For motion, bracket the interaction with
` + "`start_recording`" + ` / ` + "`stop_recording`" + `; the saved path
is returned.

## Session recovery
A session can expire if the agent restarts. Tools then fail with a
session-expired error and the bridge refuses further commands until
` + "`reset_session`" + ` is called, which replaces the session in one
step. ` + "`bridge_status`" + ` shows the current state at any time.

## Flutter apps
` + "`discover_dtd_uris`" + ` finds the Dart VM service and Dart Tooling
Daemon endpoints a debug-mode Flutter app printed to the device log,
for wiring DevTools or driving hot reload.
`
