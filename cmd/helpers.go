package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/config"
	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

// resolveUDID picks the device for a one-shot CLI command.
func resolveUDID(cfg *config.Config) (string, error) {
	if cfg.DefaultDevice == "" {
		return "", fmt.Errorf("no device specified: pass --udid or set defaultDevice in config")
	}
	return cfg.DefaultDevice, nil
}

// withSession starts a short-lived bridge for one command, runs fn, and
// tears the session down again.
func withSession(ctx context.Context, cmd *cobra.Command, fn func(ctx context.Context, b *bridge.Bridge) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	udid, err := resolveUDID(cfg)
	if err != nil {
		return err
	}

	registry := bridge.NewRegistry(cfg.AgentURL, cfg.Timeout(), wda.Capabilities{})
	b := registry.GetOrCreate(udid)
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := b.Stop(ctx); err != nil {
			logger.Warn("stopping bridge: %v", err)
		}
	}()

	return fn(ctx, b)
}
