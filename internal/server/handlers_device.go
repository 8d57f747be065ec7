package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// deviceEntry is a simulator row enriched with bridge connectivity.
type deviceEntry struct {
	UDID         string `yaml:"udid"          json:"udid"`
	Name         string `yaml:"name"          json:"name"`
	OSVersion    string `yaml:"ios_version"   json:"ios_version"`
	State        string `yaml:"state"         json:"state"`
	WDAConnected bool   `yaml:"wda_connected" json:"wda_connected"`
}

func (s *Server) handleListDevices(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.sim.ListDevices(ctx)
	if err != nil {
		return errResult(err)
	}

	connected := make(map[string]bool)
	for _, st := range s.registry.List() {
		connected[st.UDID] = st.State == bridge.StateActive
	}

	entries := make([]deviceEntry, 0, len(devices))
	for _, d := range devices {
		entries = append(entries, deviceEntry{
			UDID:         d.UDID,
			Name:         d.Name,
			OSVersion:    d.OSVersion,
			State:        string(d.State),
			WDAConnected: connected[d.UDID],
		})
	}
	return mcp.NewToolResultText(toText(entries)), nil
}

func (s *Server) handleBootDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}
	timeout := time.Duration(intParam(params, "timeout", 60)) * time.Second

	logger.Info("booting device %s", udid)
	if err := s.sim.Boot(ctx, udid, timeout); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("device %s booted", udid)), nil
}

func (s *Server) handleShutdownDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}
	timeout := time.Duration(intParam(params, "timeout", 60)) * time.Second

	// A live bridge cannot survive its device going away.
	if b, err := s.registry.Get(udid); err == nil {
		if err := b.Stop(ctx); err != nil {
			logger.Warn("stopping bridge for %s: %v", udid, err)
		}
		s.registry.Remove(udid)
	}
	s.cache.invalidate(udid)

	if err := s.sim.Shutdown(ctx, udid, timeout); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("device %s shut down", udid)), nil
}

func (s *Server) handleInstallApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	path := stringParam(params, "path", "")
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}

	if err := s.sim.InstallApp(ctx, udid, path); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("installed %s on %s", path, udid)), nil
}

func (s *Server) handleOpenURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	url := stringParam(params, "url", "")
	if url == "" {
		return mcp.NewToolResultError("url parameter is required"), nil
	}
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}

	// Prefer the bridge session when one is active; fall back to the
	// lifecycle tool so URLs work before any bridge exists.
	if b, err := s.registry.Get(udid); err == nil && b.Status().State == bridge.StateActive {
		err := b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.OpenURL(ctx, sessionID, url)
		})
		if err != nil {
			return errResult(err)
		}
	} else if err := s.sim.OpenURL(ctx, udid, url); err != nil {
		return errResult(err)
	}

	s.cache.invalidate(udid)
	return mcp.NewToolResultText(fmt.Sprintf("opened %s", url)), nil
}

func (s *Server) handleDiscoverDTDURIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}
	window := time.Duration(intParam(params, "window", 300)) * time.Second

	uris, err := s.sim.DiscoverServiceURIs(ctx, udid, window)
	if err != nil {
		return errResult(err)
	}
	if len(uris.VMService) == 0 && len(uris.DTD) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf(
			"no Dart tooling URIs found in the last %s of device logs; is a Flutter app running in debug mode?", window)), nil
	}
	return mcp.NewToolResultText(toText(uris)), nil
}
