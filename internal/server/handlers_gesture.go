package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// tapTarget resolves the tap coordinates from explicit x/y, an element
// index against the device's current snapshot, or a predicate against a
// fresh one.
func (s *Server) tapTarget(ctx context.Context, params map[string]interface{}) (x, y int, desc string, err error) {
	if _, ok := params["element"]; ok {
		index := intParam(params, "element", 0)
		udid, uerr := s.resolveUDID(params)
		if uerr != nil {
			return 0, 0, "", uerr
		}
		elements := s.cache.get(udid)
		if elements == nil {
			return 0, 0, "", fmt.Errorf("no UI snapshot for %s; call get_ui_tree first", udid)
		}
		ie, aerr := tree.At(elements, index)
		if aerr != nil {
			return 0, 0, "", aerr
		}
		return ie.Element.CenterX(), ie.Element.CenterY(),
			fmt.Sprintf("[%d] %s %q", ie.Index, ie.Element.Type, ie.Element.BestLabel()), nil
	}

	identifier := stringParam(params, "identifier", "")
	labelContains := stringParam(params, "label_contains", "")
	if identifier != "" || labelContains != "" {
		p := tree.Predicate{Identifier: identifier, LabelContains: labelContains}
		_, elements, ferr := s.fetchSnapshot(ctx, params, wda.SourceJSON)
		if ferr != nil {
			return 0, 0, "", ferr
		}
		ie, ferr := tree.Find(elements, p)
		if ferr != nil {
			return 0, 0, "", ferr
		}
		return ie.Element.CenterX(), ie.Element.CenterY(),
			fmt.Sprintf("[%d] %s %q", ie.Index, ie.Element.Type, ie.Element.BestLabel()), nil
	}

	if _, ok := params["x"]; !ok {
		return 0, 0, "", fmt.Errorf("tap needs x/y coordinates, an element index, or a predicate (identifier, label_contains)")
	}
	x = intParam(params, "x", 0)
	y = intParam(params, "y", 0)
	return x, y, fmt.Sprintf("(%d, %d)", x, y), nil
}

func (s *Server) handleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	x, y, desc, err := s.tapTarget(ctx, params)
	if err != nil {
		return errResult(err)
	}

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.Tap(ctx, sessionID, x, y)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("tapped %s", desc)), nil
}

func (s *Server) handleDoubleTap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	x := intParam(params, "x", 0)
	y := intParam(params, "y", 0)

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.DoubleTap(ctx, sessionID, x, y)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("double-tapped (%d, %d)", x, y)), nil
}

func (s *Server) handleLongPress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	x := intParam(params, "x", 0)
	y := intParam(params, "y", 0)
	hold := time.Duration(floatParam(params, "duration", 1.0) * float64(time.Second))

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.LongPress(ctx, sessionID, x, y, hold)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("long-pressed (%d, %d) for %s", x, y, hold)), nil
}

func (s *Server) handleSwipe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}
	x1 := intParam(params, "from_x", 0)
	y1 := intParam(params, "from_y", 0)
	x2 := intParam(params, "to_x", 0)
	y2 := intParam(params, "to_y", 0)
	d := time.Duration(floatParam(params, "duration", 0.5) * float64(time.Second))

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.Swipe(ctx, sessionID, x1, y1, x2, y2, d)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("swiped (%d, %d) -> (%d, %d)", x1, y1, x2, y2)), nil
}

func (s *Server) handleTypeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	text := stringParam(params, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.TypeText(ctx, sessionID, text)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("typed %d characters", len([]rune(text)))), nil
}

func (s *Server) handlePressButton(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	name := stringParam(params, "name", "")
	if name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	b, err := s.activeBridge(params)
	if err != nil {
		return errResult(err)
	}

	err = b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
		return client.PressButton(ctx, sessionID, name)
	})
	if err != nil {
		return errResult(err)
	}
	s.cache.invalidate(b.UDID())
	return mcp.NewToolResultText(fmt.Sprintf("pressed %s", name)), nil
}
