package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing simulator automation tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes simulator
automation as tools. AI agents can drive devices directly without shell
overhead.

Supported transports:
  stdio             Standard I/O (default, for Claude Code / MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  ios-simulator-mcp serve
  ios-simulator-mcp serve --transport streamable-http --port 8080
  ios-simulator-mcp serve --wda-url http://localhost:8100`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("starting MCP server (transport=%s, agent=%s)", transport, cfg.AgentURL)
	srv := server.New(cfg)
	return srv.Serve(server.Config{Transport: transport, Port: port})
}
