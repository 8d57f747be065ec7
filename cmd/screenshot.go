package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/screenshot"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the device screen",
	Long:  "Capture the device screen through the automation agent, scaled and orientation-corrected, and save it as an artifact.",
	RunE:  runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().Float64("scale", 0.5, "Scale factor 0.1-1.0")
	screenshotCmd.Flags().String("image-format", "png", "Image format: png, jpeg")
	screenshotCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	scale, _ := cmd.Flags().GetFloat64("scale")
	imageFormat, _ := cmd.Flags().GetString("image-format")
	quality, _ := cmd.Flags().GetInt("quality")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store := screenshot.NewStore(cfg.ArtifactDir)

	return withSession(cmd.Context(), cmd, func(ctx context.Context, b *bridge.Bridge) error {
		var raw []byte
		var orientation wda.Orientation
		err := b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
			var err error
			if raw, err = client.Screenshot(ctx, sessionID); err != nil {
				return err
			}
			orientation, err = client.GetOrientation(ctx, sessionID)
			return err
		})
		if err != nil {
			return err
		}

		result, err := screenshot.Process(raw, screenshot.Options{
			Scale:   scale,
			Format:  screenshot.Format(imageFormat),
			Quality: quality,
		}, orientation)
		if err != nil {
			return err
		}

		path, err := store.SaveScreenshot(result.Data, result.Format)
		if err != nil {
			return err
		}
		fmt.Printf("Screenshot saved: %s (%dx%d %s)\n", path, result.Width, result.Height, result.Format)
		return nil
	})
}
