package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bidouilles/ios-simulator-mcp/internal/output"
	"github.com/bidouilles/ios-simulator-mcp/internal/simctl"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available iOS simulators",
	Long:  "List available simulators with their UDID, name, iOS version, and boot state.",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().Bool("booted", false, "Only show booted simulators")
}

func runDevices(cmd *cobra.Command, args []string) error {
	booted, _ := cmd.Flags().GetBool("booted")

	sim := simctl.NewCLI()
	devices, err := sim.ListDevices(cmd.Context())
	if err != nil {
		return err
	}

	if booted {
		var filtered []simctl.Device
		for _, d := range devices {
			if d.State == simctl.StateBooted {
				filtered = append(filtered, d)
			}
		}
		devices = filtered
	}
	if devices == nil {
		devices = []simctl.Device{}
	}
	return output.Print(output.DevicesResult{Devices: devices})
}
