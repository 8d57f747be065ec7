package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/config"
	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
	"github.com/bidouilles/ios-simulator-mcp/internal/output"
	"github.com/bidouilles/ios-simulator-mcp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ios-simulator-mcp",
	Short: "Automate iOS simulators from AI agents",
	Long:  "Drives iOS simulators through WebDriverAgent and simctl, exposed as an MCP server or direct CLI commands.",
}

func Execute() {
	defer logger.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: config.yaml in the working directory)")
	rootCmd.PersistentFlags().String("wda-url", "", "WebDriverAgent base URL (default http://localhost:8100)")
	rootCmd.PersistentFlags().String("udid", "", "Target simulator UDID")
	rootCmd.PersistentFlags().String("artifact-dir", "", "Directory for screenshots and recordings")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Append logs to a file instead of stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logger.SetVerbose(verbose)
		if logFile, _ := rootCmd.PersistentFlags().GetString("log-file"); logFile != "" {
			if err := logger.SetFile(logFile); err != nil {
				return err
			}
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
		output.PrettyOutput = pretty
		return nil
	}
}

// loadConfig builds the effective configuration: file, environment, then
// command-line flags winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if v, _ := rootCmd.PersistentFlags().GetString("wda-url"); v != "" {
		cfg.AgentURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("udid"); v != "" {
		cfg.DefaultDevice = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("artifact-dir"); v != "" {
		cfg.ArtifactDir = v
	}
	return cfg, nil
}
