package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/simctl"
)

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot a simulator",
	Long:  "Boot the target simulator and wait until it reports Booted.",
	RunE:  runBoot,
}

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "Shut down a simulator",
	RunE:  runShutdown,
}

func init() {
	rootCmd.AddCommand(bootCmd)
	rootCmd.AddCommand(shutdownCmd)
	bootCmd.Flags().Int("timeout", 60, "Seconds to wait for the boot to finish")
	shutdownCmd.Flags().Int("timeout", 60, "Seconds to wait for the shutdown to finish")
}

func runBoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	udid, err := resolveUDID(cfg)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetInt("timeout")

	sim := simctl.NewCLI()
	if err := sim.Boot(cmd.Context(), udid, time.Duration(timeout)*time.Second); err != nil {
		return err
	}
	fmt.Printf("device %s booted\n", udid)
	return nil
}

func runShutdown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	udid, err := resolveUDID(cfg)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetInt("timeout")

	sim := simctl.NewCLI()
	if err := sim.Shutdown(cmd.Context(), udid, time.Duration(timeout)*time.Second); err != nil {
		return err
	}
	fmt.Printf("device %s shut down\n", udid)
	return nil
}
