package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/output"
	"github.com/bidouilles/ios-simulator-mcp/internal/wda"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the automation agent",
	Long:  "Query the WebDriverAgent status endpoint and report reachability and build details.",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// agentStatus is the YAML output of the `status` command.
type agentStatus struct {
	AgentURL  string         `yaml:"agent_url"`
	Reachable bool           `yaml:"reachable"`
	Status    map[string]any `yaml:"status,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	client := wda.NewClientURL(cfg.AgentURL, cfg.Timeout())
	result := agentStatus{AgentURL: cfg.AgentURL}

	status, err := client.Status(cmd.Context())
	if err == nil {
		result.Reachable = true
		result.Status = status
	}
	return output.Print(result)
}
