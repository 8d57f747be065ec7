package server

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/screenshot"
	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

func (s *Server) handleGetScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	udid, err := s.resolveUDID(params)
	if err != nil {
		return errResult(err)
	}

	opts := screenshot.Options{
		Scale:   floatParam(params, "scale", s.cfg.ScreenshotScale),
		Format:  screenshot.Format(stringParam(params, "format", s.cfg.ScreenshotFormat)),
		Quality: intParam(params, "quality", s.cfg.ScreenshotQuality),
	}

	var raw []byte
	orientation := wda.OrientationPortrait
	if b, berr := s.registry.Get(udid); berr == nil {
		err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
			var err error
			if raw, err = client.Screenshot(ctx, sessionID); err != nil {
				return err
			}
			orientation, err = client.GetOrientation(ctx, sessionID)
			return err
		})
	} else {
		// No bridge yet: capture through the lifecycle tool. The simulator
		// framebuffer file is already upright, so orientation stays portrait.
		raw, err = s.sim.Screenshot(ctx, udid)
	}
	if err != nil {
		return errResult(err)
	}

	result, err := screenshot.Process(raw, opts, orientation)
	if err != nil {
		return errResult(err)
	}

	path, err := s.store.SaveScreenshot(result.Data, result.Format)
	if err != nil {
		return errResult(err)
	}
	logger.Debug("screenshot %dx%d %s, %d -> %d bytes", result.Width, result.Height,
		result.Format, result.OriginalBytes, result.Bytes)

	mimeType := "image/png"
	if result.Format == screenshot.FormatJPEG {
		mimeType = "image/jpeg"
	}
	summary := fmt.Sprintf("Screenshot saved: %s (%dx%d %s, %.1f%% smaller than capture)",
		path, result.Width, result.Height, result.Format, result.Reduction)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: summary},
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(result.Data),
				MIMEType: mimeType,
			},
		},
	}, nil
}

// screenInfo is the screen_info tool result.
type screenInfo struct {
	Width       int    `yaml:"width"       json:"width"`
	Height      int    `yaml:"height"      json:"height"`
	Orientation string `yaml:"orientation" json:"orientation"`
	Landscape   bool   `yaml:"landscape"   json:"landscape"`
}

func (s *Server) handleScreenInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	var info screenInfo
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		if info.Width, info.Height, err = client.WindowSize(ctx, sessionID); err != nil {
			return err
		}
		orientation, err := client.GetOrientation(ctx, sessionID)
		if err != nil {
			return err
		}
		info.Orientation = string(orientation)
		info.Landscape = orientation.IsLandscape()
		return nil
	})
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(toText(info)), nil
}

func (s *Server) handleSetOrientation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	var target wda.Orientation
	switch stringParam(params, "orientation", "") {
	case "portrait":
		target = wda.OrientationPortrait
	case "landscape":
		target = wda.OrientationLandscape
	default:
		return mcp.NewToolResultError("orientation must be portrait or landscape"), nil
	}

	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.SetOrientation(ctx, sessionID, target)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("orientation set to %s", target)), nil
}

// fetchSnapshot pulls a fresh indexed snapshot through the bridge and
// caches it as the device's current one.
func (s *Server) fetchSnapshot(ctx context.Context, params map[string]interface{}, format wda.SourceFormat) (string, []tree.IndexedElement, error) {
	b, err := s.activeBridge(params)
	if err != nil {
		return "", nil, err
	}

	var root *tree.Element
	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		var err error
		root, err = client.Source(ctx, sessionID, format)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	elements := tree.Index(root)
	s.cache.put(b.UDID(), elements)
	return b.UDID(), elements, nil
}

func (s *Server) handleGetUITree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	format := wda.SourceJSON
	if stringParam(params, "source", "json") == "xml" {
		format = wda.SourceXML
	}

	_, elements, err := s.fetchSnapshot(ctx, params, format)
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(tree.Render(elements)), nil
}

// predicateFromParams maps tool arguments onto a lookup predicate.
func predicateFromParams(params map[string]interface{}) tree.Predicate {
	p := tree.Predicate{
		Type:          stringParam(params, "type", ""),
		Identifier:    stringParam(params, "identifier", ""),
		Label:         stringParam(params, "label", ""),
		LabelContains: stringParam(params, "label_contains", ""),
		Value:         stringParam(params, "value", ""),
	}
	if v, ok := params["visible"]; ok {
		if b, ok := v.(bool); ok {
			p.Visible = &b
		}
	}
	if _, ok := params["index"]; ok {
		n := intParam(params, "index", 0)
		p.Index = &n
	}
	return p
}

func (s *Server) handleFindElement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	p := predicateFromParams(params)
	if p.IsZero() {
		return mcp.NewToolResultError("at least one predicate field is required (type, identifier, label, label_contains, value, visible)"), nil
	}

	_, elements, err := s.fetchSnapshot(ctx, params, wda.SourceJSON)
	if err != nil {
		return errResult(err)
	}

	found, err := tree.Find(elements, p)
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(toText(found)), nil
}
