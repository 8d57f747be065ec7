package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/simctl"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// wdaCapabilities are the session defaults. Quiescence wait is off: the
// agent stalls on apps with continuous animation otherwise.
func wdaCapabilities() wda.Capabilities {
	f := false
	return wda.Capabilities{
		ShouldWaitForQuiesce: &f,
	}
}

func (s *Server) handleStartBridge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}

	device, err := s.sim.FindDevice(ctx, udid)
	if err != nil {
		return errResult(err)
	}
	if device.State != simctl.StateBooted {
		return mcp.NewToolResultError(fmt.Sprintf(
			"device %s (%s) is %s; boot it first", device.Name, udid, device.State)), nil
	}

	b := s.registry.GetOrCreate(udid)
	if err := b.Start(ctx); err != nil {
		return errResult(err)
	}

	logger.Info("bridge active for %s (%s)", device.Name, udid)
	return mcp.NewToolResultText(toText(b.Status())), nil
}

func (s *Server) handleStopBridge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	if err := b.Stop(ctx); err != nil {
		return errResult(err)
	}
	s.registry.Remove(b.UDID())
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("bridge for %s stopped", b.UDID())), nil
}

func (s *Server) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	if err := b.Reset(ctx); err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	logger.Info("session reset for %s", b.UDID())
	return mcp.NewToolResultText(toText(b.Status())), nil
}

func (s *Server) handleBridgeStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	if udid := stringParam(params, "udid", ""); udid != "" {
		b, err := s.registry.Get(udid)
		if err != nil {
			return errResult(err)
		}
		// Single-device queries include a live agent probe; the list form
		// stays snapshot-only.
		status := struct {
			bridge.Status `yaml:",inline"`
			AgentHealthy  bool `yaml:"agent_healthy"`
		}{Status: b.Status(), AgentHealthy: b.Healthy(ctx)}
		return mcp.NewToolResultText(toText(status)), nil
	}
	return mcp.NewToolResultText(toText(s.registry.List())), nil
}
