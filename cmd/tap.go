package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

var tapCmd = &cobra.Command{
	Use:   "tap",
	Short: "Tap the device screen",
	Long: `Tap at coordinates or on an element matched by label or identifier.

Examples:
  ios-simulator-mcp tap --x 100 --y 200
  ios-simulator-mcp tap --label-contains "Sign In"
  ios-simulator-mcp tap --identifier loginButton`,
	RunE: runTap,
}

func init() {
	rootCmd.AddCommand(tapCmd)
	tapCmd.Flags().Int("x", -1, "X coordinate in points")
	tapCmd.Flags().Int("y", -1, "Y coordinate in points")
	tapCmd.Flags().String("label-contains", "", "Tap the element whose label contains this text")
	tapCmd.Flags().String("identifier", "", "Tap the element with this accessibility identifier")
	tapCmd.Flags().Int("index", -1, "Pick the nth predicate match (0-based)")
}

func runTap(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	labelContains, _ := cmd.Flags().GetString("label-contains")
	identifier, _ := cmd.Flags().GetString("identifier")
	nth, _ := cmd.Flags().GetInt("index")

	byPredicate := labelContains != "" || identifier != ""
	if !byPredicate && (x < 0 || y < 0) {
		return fmt.Errorf("tap needs --x/--y or a predicate (--label-contains, --identifier)")
	}

	return withSession(cmd.Context(), cmd, func(ctx context.Context, b *bridge.Bridge) error {
		if byPredicate {
			p := tree.Predicate{Identifier: identifier, LabelContains: labelContains}
			if nth >= 0 {
				p.Index = &nth
			}

			var root *tree.Element
			err := b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
				var err error
				root, err = client.Source(ctx, sessionID, wda.SourceJSON)
				return err
			})
			if err != nil {
				return err
			}

			found, err := tree.Find(tree.Index(root), p)
			if err != nil {
				return err
			}
			x, y = found.Element.CenterX(), found.Element.CenterY()
			fmt.Printf("tapping [%d] %s %q at (%d, %d)\n",
				found.Index, found.Element.Type, found.Element.BestLabel(), x, y)
		}

		return b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
			return client.Tap(ctx, sessionID, x, y)
		})
	})
}
