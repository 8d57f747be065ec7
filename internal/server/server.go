// Package server exposes simulator automation as MCP tools over stdio or
// streamable HTTP.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/config"
	"github.com/bidouilles/ios-simulator-mcp/internal/screenshot"
	"github.com/bidouilles/ios-simulator-mcp/internal/simctl"
	"github.com/bidouilles/ios-simulator-mcp/internal/version"
)

// Server wires the MCP surface to the bridge registry, the simulator
// lifecycle tool, and the artifact store. All cross-device state lives
// here: nothing in this package is a process-wide singleton.
type Server struct {
	cfg      *config.Config
	registry *bridge.Registry
	sim      *simctl.CLI
	store    *screenshot.Store
	cache    *snapshotCache
	mcp      *mcpserver.MCPServer
}

// Config holds transport configuration for Serve.
type Config struct {
	Transport string
	Port      int
}

// New creates and configures an MCP server with all simulator tools.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:      cfg,
		registry: bridge.NewRegistry(cfg.AgentURL, cfg.Timeout(), wdaCapabilities()),
		sim:      simctl.NewCLI(),
		store:    screenshot.NewStore(cfg.ArtifactDir),
		cache:    newSnapshotCache(),
	}

	s.mcp = mcpserver.NewMCPServer(
		"ios-simulator-mcp",
		version.Version,
	)

	s.registerTools()
	s.registerResources()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// resolveUDID picks the target device: explicit udid parameter first, then
// the configured default.
func (s *Server) resolveUDID(params map[string]interface{}) (string, error) {
	udid := stringParam(params, "udid", "")
	if udid == "" {
		udid = s.cfg.DefaultDevice
	}
	if udid == "" {
		return "", fmt.Errorf("no device specified: pass udid or set a default device")
	}
	return udid, nil
}

// activeBridge returns the started bridge for the target device.
func (s *Server) activeBridge(params map[string]interface{}) (*bridge.Bridge, error) {
	udid, err := s.resolveUDID(params)
	if err != nil {
		return nil, err
	}
	return s.registry.Get(udid)
}

// toText serializes v to YAML for an MCP text response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// errResult renders an error as a tool-level failure. Protocol errors stay
// nil so the client sees a normal tool result with isError set.
func errResult(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// Parameter extraction helpers for tool argument maps

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that JSON may parse as int/float
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func floatParam(params map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
