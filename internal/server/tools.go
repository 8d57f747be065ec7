package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	// Device lifecycle
	s.mcp.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List available iOS simulators with their boot state and bridge status"),
		),
		s.handleListDevices,
	)

	s.mcp.AddTool(
		mcp.NewTool("boot_device",
			mcp.WithDescription("Boot a simulator and wait until it reports Booted"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("timeout", mcp.Description("Seconds to wait for boot (default 60)")),
		),
		s.handleBootDevice,
	)

	s.mcp.AddTool(
		mcp.NewTool("shutdown_device",
			mcp.WithDescription("Shut down a simulator and wait until it reports Shutdown"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("timeout", mcp.Description("Seconds to wait for shutdown (default 60)")),
		),
		s.handleShutdownDevice,
	)

	s.mcp.AddTool(
		mcp.NewTool("install_app",
			mcp.WithDescription("Install a .app bundle onto a simulator"),
			mcp.WithString("path", mcp.Description("Path to the .app bundle"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleInstallApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("open_url",
			mcp.WithDescription("Open a URL on the device (deep links and web URLs)"),
			mcp.WithString("url", mcp.Description("URL to open"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleOpenURL,
	)

	s.mcp.AddTool(
		mcp.NewTool("discover_dtd_uris",
			mcp.WithDescription("Scan the device log for Dart VM service and Dart Tooling Daemon URIs announced by a running Flutter app"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("window", mcp.Description("Seconds of log history to scan (default 300)")),
		),
		s.handleDiscoverDTDURIs,
	)

	// Bridge lifecycle
	s.mcp.AddTool(
		mcp.NewTool("start_bridge",
			mcp.WithDescription("Connect the automation bridge for a device, creating an agent session. Required before UI tools."),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleStartBridge,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop_bridge",
			mcp.WithDescription("Disconnect the bridge, deleting its agent session"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleStopBridge,
	)

	s.mcp.AddTool(
		mcp.NewTool("reset_session",
			mcp.WithDescription("Recover an expired bridge by replacing its agent session"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleResetSession,
	)

	s.mcp.AddTool(
		mcp.NewTool("bridge_status",
			mcp.WithDescription("Report bridge state for one device, or all bridges when udid is omitted"),
			mcp.WithString("udid", mcp.Description("Simulator UDID")),
		),
		s.handleBridgeStatus,
	)

	// UI inspection
	s.mcp.AddTool(
		mcp.NewTool("get_screenshot",
			mcp.WithDescription("Capture the device screen, scaled and orientation-corrected. Returns the image and saves an artifact."),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default 0.5)")),
			mcp.WithString("format", mcp.Description("Image format: png, jpeg (default png)")),
			mcp.WithNumber("quality", mcp.Description("JPEG quality 1-100 (default 80)")),
		),
		s.handleGetScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_ui_tree",
			mcp.WithDescription("Fetch the accessibility tree as an indexed outline. Indices address elements in follow-up tools until the next UI change."),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithString("source", mcp.Description("Source format: json (accessibility), xml (page source); default json")),
		),
		s.handleGetUITree,
	)

	s.mcp.AddTool(
		mcp.NewTool("screen_info",
			mcp.WithDescription("Report screen size in points and current orientation"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleScreenInfo,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_orientation",
			mcp.WithDescription("Rotate the device"),
			mcp.WithString("orientation", mcp.Description("Target orientation: portrait, landscape"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleSetOrientation,
	)

	s.mcp.AddTool(
		mcp.NewTool("find_element",
			mcp.WithDescription("Find a single element by predicate fields. Fails with candidate indices when the predicate is ambiguous."),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithString("type", mcp.Description("Element type (e.g. Button, TextField)")),
			mcp.WithString("identifier", mcp.Description("Exact accessibility identifier")),
			mcp.WithString("label", mcp.Description("Exact label")),
			mcp.WithString("label_contains", mcp.Description("Label substring (case-insensitive)")),
			mcp.WithString("value", mcp.Description("Exact value")),
			mcp.WithBoolean("visible", mcp.Description("Require visibility")),
			mcp.WithNumber("index", mcp.Description("Pick the nth match (0-based) instead of requiring uniqueness")),
		),
		s.handleFindElement,
	)

	// Gestures
	s.mcp.AddTool(
		mcp.NewTool("tap",
			mcp.WithDescription("Tap at coordinates, at an element index from the last get_ui_tree, or at an element matched by predicate"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("x", mcp.Description("X coordinate in points")),
			mcp.WithNumber("y", mcp.Description("Y coordinate in points")),
			mcp.WithNumber("element", mcp.Description("Element index from the last UI snapshot")),
			mcp.WithString("label_contains", mcp.Description("Tap the element whose label contains this text")),
			mcp.WithString("identifier", mcp.Description("Tap the element with this accessibility identifier")),
		),
		s.handleTap,
	)

	s.mcp.AddTool(
		mcp.NewTool("double_tap",
			mcp.WithDescription("Double-tap at coordinates"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("x", mcp.Description("X coordinate in points"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Y coordinate in points"), mcp.Required()),
		),
		s.handleDoubleTap,
	)

	s.mcp.AddTool(
		mcp.NewTool("long_press",
			mcp.WithDescription("Press and hold at coordinates"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("x", mcp.Description("X coordinate in points"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Y coordinate in points"), mcp.Required()),
			mcp.WithNumber("duration", mcp.Description("Hold duration in seconds (default 1.0)")),
		),
		s.handleLongPress,
	)

	s.mcp.AddTool(
		mcp.NewTool("swipe",
			mcp.WithDescription("Swipe from one point to another"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
			mcp.WithNumber("from_x", mcp.Description("Start X"), mcp.Required()),
			mcp.WithNumber("from_y", mcp.Description("Start Y"), mcp.Required()),
			mcp.WithNumber("to_x", mcp.Description("End X"), mcp.Required()),
			mcp.WithNumber("to_y", mcp.Description("End Y"), mcp.Required()),
			mcp.WithNumber("duration", mcp.Description("Swipe duration in seconds (default 0.5)")),
		),
		s.handleSwipe,
	)

	s.mcp.AddTool(
		mcp.NewTool("type_text",
			mcp.WithDescription("Type text into the focused element"),
			mcp.WithString("text", mcp.Description("Text to type"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleTypeText,
	)

	s.mcp.AddTool(
		mcp.NewTool("press_button",
			mcp.WithDescription("Press a hardware button: home, volumeUp, volumeDown"),
			mcp.WithString("name", mcp.Description("Button name"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handlePressButton,
	)

	// App management
	s.mcp.AddTool(
		mcp.NewTool("launch_app",
			mcp.WithDescription("Launch an app by bundle identifier"),
			mcp.WithString("bundle_id", mcp.Description("App bundle identifier"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleLaunchApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("terminate_app",
			mcp.WithDescription("Terminate a running app"),
			mcp.WithString("bundle_id", mcp.Description("App bundle identifier"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleTerminateApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("activate_app",
			mcp.WithDescription("Bring an app to the foreground"),
			mcp.WithString("bundle_id", mcp.Description("App bundle identifier"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleActivateApp,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_apps",
			mcp.WithDescription("List running apps with their state"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleListApps,
	)

	// System state
	s.mcp.AddTool(
		mcp.NewTool("set_location",
			mcp.WithDescription("Set the simulated GPS location"),
			mcp.WithNumber("latitude", mcp.Description("Latitude"), mcp.Required()),
			mcp.WithNumber("longitude", mcp.Description("Longitude"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleSetLocation,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_clipboard",
			mcp.WithDescription("Read the device pasteboard"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleGetClipboard,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_clipboard",
			mcp.WithDescription("Write the device pasteboard"),
			mcp.WithString("content", mcp.Description("Text to place on the pasteboard"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleSetClipboard,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_status_bar",
			mcp.WithDescription("Override status bar time, battery, and signal for clean screenshots"),
			mcp.WithString("time", mcp.Description("Displayed clock time (e.g. 9:41)")),
			mcp.WithString("data_network", mcp.Description("Data network badge: wifi, 4g, 5g")),
			mcp.WithNumber("wifi_bars", mcp.Description("Wifi bars 0-3")),
			mcp.WithNumber("cellular_bars", mcp.Description("Cellular bars 0-4")),
			mcp.WithNumber("battery_level", mcp.Description("Battery percent 0-100")),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleSetStatusBar,
	)

	s.mcp.AddTool(
		mcp.NewTool("clear_status_bar",
			mcp.WithDescription("Remove all status bar overrides"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleClearStatusBar,
	)

	s.mcp.AddTool(
		mcp.NewTool("get_appearance",
			mcp.WithDescription("Report light or dark appearance"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleGetAppearance,
	)

	s.mcp.AddTool(
		mcp.NewTool("set_appearance",
			mcp.WithDescription("Switch between light and dark appearance"),
			mcp.WithString("style", mcp.Description("Appearance: light, dark"), mcp.Required()),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleSetAppearance,
	)

	s.mcp.AddTool(
		mcp.NewTool("match_biometric",
			mcp.WithDescription("Simulate a Face ID / Touch ID prompt response"),
			mcp.WithBoolean("match", mcp.Description("true for a matching biometric, false for non-matching (default true)")),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleMatchBiometric,
	)

	// Recording
	s.mcp.AddTool(
		mcp.NewTool("start_recording",
			mcp.WithDescription("Start recording the device screen"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleStartRecording,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop_recording",
			mcp.WithDescription("Stop the active recording and save the video artifact"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleStopRecording,
	)

	// Alerts
	s.mcp.AddTool(
		mcp.NewTool("alert_accept",
			mcp.WithDescription("Accept the visible system alert"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleAlertAccept,
	)

	s.mcp.AddTool(
		mcp.NewTool("alert_dismiss",
			mcp.WithDescription("Dismiss the visible system alert"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleAlertDismiss,
	)

	s.mcp.AddTool(
		mcp.NewTool("alert_text",
			mcp.WithDescription("Read the visible system alert's text"),
			mcp.WithString("udid", mcp.Description("Simulator UDID (defaults to the configured device)")),
		),
		s.handleAlertText,
	)
}
