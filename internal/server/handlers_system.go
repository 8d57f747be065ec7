package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// sessionAction runs one client call against the device's bridge and
// renders a fixed confirmation text.
func (s *Server) sessionAction(ctx context.Context, request mcp.CallToolRequest, confirmation string,
	fn func(ctx context.Context, client *wda.Client, sessionID string) error,
) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	if err := b.Do(ctx, fn); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(confirmation), nil
}

func (s *Server) handleSetLocation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	lat := floatParam(params, "latitude", 0)
	lon := floatParam(params, "longitude", 0)
	return s.sessionAction(ctx, request, fmt.Sprintf("location set to %.6f, %.6f", lat, lon),
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.SetLocation(ctx, sessionID, lat, lon)
		})
}

func (s *Server) handleGetClipboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var content string
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		content, err = client.GetClipboard(ctx, sessionID)
		return err
	})
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) handleSetClipboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	content := stringParam(params, "content", "")
	if content == "" {
		return mcp.NewToolResultError("content parameter is required"), nil
	}
	return s.sessionAction(ctx, request, fmt.Sprintf("clipboard set (%d characters)", len([]rune(content))),
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.SetClipboard(ctx, sessionID, content)
		})
}

func (s *Server) handleSetStatusBar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	override := wda.StatusBarOverride{
		Time:        stringParam(params, "time", ""),
		DataNetwork: stringParam(params, "data_network", ""),
	}
	if _, ok := params["wifi_bars"]; ok {
		n := intParam(params, "wifi_bars", 0)
		override.WifiBars = &n
	}
	if _, ok := params["cellular_bars"]; ok {
		n := intParam(params, "cellular_bars", 0)
		override.CellularBars = &n
	}
	if _, ok := params["battery_level"]; ok {
		n := intParam(params, "battery_level", 0)
		override.BatteryLevel = &n
	}
	return s.sessionAction(ctx, request, "status bar overridden",
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.OverrideStatusBar(ctx, sessionID, override)
		})
}

func (s *Server) handleClearStatusBar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.sessionAction(ctx, request, "status bar overrides cleared",
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.ClearStatusBar(ctx, sessionID)
		})
}

func (s *Server) handleGetAppearance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var style wda.Appearance
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		style, err = client.GetAppearance(ctx, sessionID)
		return err
	})
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(string(style)), nil
}

func (s *Server) handleSetAppearance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	style := wda.Appearance(stringParam(params, "style", ""))
	return s.sessionAction(ctx, request, fmt.Sprintf("appearance set to %s", style),
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.SetAppearance(ctx, sessionID, style)
		})
}

func (s *Server) handleMatchBiometric(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	match := boolParam(params, "match", true)
	confirmation := "sent matching biometric"
	if !match {
		confirmation = "sent non-matching biometric"
	}
	return s.sessionAction(ctx, request, confirmation,
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.MatchBiometric(ctx, sessionID, match)
		})
}

func (s *Server) handleStartRecording(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.sessionAction(ctx, request, "recording started",
		func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.StartRecording(ctx, sessionID)
		})
}

func (s *Server) handleStopRecording(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var video []byte
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		video, err = client.StopRecording(ctx, sessionID)
		return err
	})
	if err != nil {
		return errResult(err)
	}

	path, err := s.store.SaveRecording(video)
	if err != nil {
		return errResult(err)
	}
	logger.Info("recording saved to %s (%d bytes)", path, len(video))
	return mcp.NewToolResultText(fmt.Sprintf("Recording saved: %s", path)), nil
}

func (s *Server) handleAlertAccept(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.AcceptAlert(ctx, sessionID)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText("alert accepted"), nil
}

func (s *Server) handleAlertDismiss(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.DismissAlert(ctx, sessionID)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText("alert dismissed"), nil
}

func (s *Server) handleAlertText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var text string
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		text, err = client.AlertText(ctx, sessionID)
		return err
	})
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(text), nil
}
