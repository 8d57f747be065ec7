package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// appAction runs one bundle-scoped client call and invalidates the
// device's snapshot on success.
func (s *Server) appAction(ctx context.Context, request mcp.CallToolRequest, verb string,
	fn func(ctx context.Context, client *wda.Client, sessionID, bundleID string) error,
) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	bundleID := stringParam(params, "bundle_id", "")
	if bundleID == "" {
		return mcp.NewToolResultError("bundle_id parameter is required"), nil
	}
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return fn(ctx, client, sessionID, bundleID)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("%s %s", verb, bundleID)), nil
}

func (s *Server) handleLaunchApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.appAction(ctx, request, "launched",
		func(ctx context.Context, client *wda.Client, sessionID, bundleID string) error {
			return client.LaunchApp(ctx, sessionID, bundleID, nil, nil)
		})
}

func (s *Server) handleTerminateApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.appAction(ctx, request, "terminated",
		func(ctx context.Context, client *wda.Client, sessionID, bundleID string) error {
			return client.TerminateApp(ctx, sessionID, bundleID)
		})
}

func (s *Server) handleActivateApp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.appAction(ctx, request, "activated",
		func(ctx context.Context, client *wda.Client, sessionID, bundleID string) error {
			return client.ActivateApp(ctx, sessionID, bundleID)
		})
}

func (s *Server) handleListApps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var apps []wda.AppInfo
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		apps, err = client.ListApps(ctx, sessionID)
		return err
	})
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(toText(apps)), nil
}
