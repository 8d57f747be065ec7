package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/bridge"
	"github.com/bidouilles/ios-simulator-mcp/internal/output"
	"github.com/bidouilles/ios-simulator-mcp/internal/tree"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Dump the device UI tree",
	Long: `Fetch the accessibility tree and print it as an indexed outline.
Each element shows its traversal index, type, and best identifying label.
Indices address elements until the next UI change.`,
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().String("source", "json", "Source format: json (accessibility), xml (page source)")
	describeCmd.Flags().Bool("tree", true, "Render as indented outline (false for structured output)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	sourceFlag, _ := cmd.Flags().GetString("source")
	asTree, _ := cmd.Flags().GetBool("tree")

	format := wda.SourceJSON
	if sourceFlag == "xml" {
		format = wda.SourceXML
	}

	return withSession(cmd.Context(), cmd, func(ctx context.Context, b *bridge.Bridge) error {
		var root *tree.Element
		err := b.Do(ctx, func(ctx context.Context, client *wda.Client, sessionID string) error {
			var err error
			root, err = client.Source(ctx, sessionID, format)
			return err
		})
		if err != nil {
			return err
		}

		elements := tree.Index(root)
		if asTree {
			fmt.Print(tree.Render(elements))
			return nil
		}
		return output.Print(output.TreeResult{
			UDID:     b.UDID(),
			TS:       time.Now().Unix(),
			Elements: elements,
		})
	})
}
