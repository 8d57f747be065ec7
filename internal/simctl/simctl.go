// Package simctl wraps the external device-lifecycle CLI (xcrun simctl)
// as a subprocess. The exit code and stdout/stderr are the only failure
// signals; failures surface as DeviceError, distinct from the automation
// error taxonomy.
package simctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
)

// DeviceState is the simulator runtime state.
type DeviceState string

const (
	StateShutdown DeviceState = "Shutdown"
	StateBooted   DeviceState = "Booted"
	StateBooting  DeviceState = "Booting"
	StateUnknown  DeviceState = "Unknown"
)

// Device is one simulator as reported by the device CLI. The core only
// reads device identifiers; lifecycle mutation happens through this
// package's subprocess calls, never by editing these records.
type Device struct {
	UDID      string      `yaml:"udid"       json:"udid"`
	Name      string      `yaml:"name"       json:"name"`
	OSVersion string      `yaml:"os_version" json:"os_version"`
	State     DeviceState `yaml:"state"      json:"state"`
}

// DeviceError is a device-management failure: the lifecycle CLI exited
// non-zero or produced unusable output.
type DeviceError struct {
	Op     string
	Detail string
	Err    error
}

func (e *DeviceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("device %s failed: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("device %s failed: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// CLI invokes the simulator-lifecycle tool. The zero value is not usable;
// use NewCLI.
type CLI struct {
	// run is swappable for tests.
	run func(ctx context.Context, args ...string) ([]byte, error)
}

// NewCLI creates a CLI wrapper around xcrun simctl.
func NewCLI() *CLI {
	return &CLI{run: runSimctl}
}

func runSimctl(ctx context.Context, args ...string) ([]byte, error) {
	if _, err := exec.LookPath("xcrun"); err != nil {
		return nil, &DeviceError{Op: args[0], Detail: "xcrun not found; install Xcode Command Line Tools"}
	}

	cmd := exec.CommandContext(ctx, "xcrun", append([]string{"simctl"}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		return stdout.Bytes(), &DeviceError{Op: args[0], Detail: detail, Err: err}
	}
	return stdout.Bytes(), nil
}

// listOutput mirrors `simctl list devices -j`.
type listOutput struct {
	Devices map[string][]listDevice `json:"devices"`
}

type listDevice struct {
	Name        string `json:"name"`
	UDID        string `json:"udid"`
	State       string `json:"state"`
	IsAvailable bool   `json:"isAvailable"`
}

// ListDevices returns all available simulators.
func (c *CLI) ListDevices(ctx context.Context) ([]Device, error) {
	out, err := c.run(ctx, "list", "devices", "available", "-j")
	if err != nil {
		return nil, err
	}

	var data listOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, &DeviceError{Op: "list", Detail: "unparseable device listing", Err: err}
	}

	var devices []Device
	for runtime, devs := range data.Devices {
		osVersion := extractOSVersion(runtime)
		for _, d := range devs {
			if !d.IsAvailable {
				continue
			}
			devices = append(devices, Device{
				UDID:      d.UDID,
				Name:      d.Name,
				OSVersion: osVersion,
				State:     parseState(d.State),
			})
		}
	}
	logger.Debug("found %d available simulators", len(devices))
	return devices, nil
}

// FindDevice returns the device with the given UDID.
func (c *CLI) FindDevice(ctx context.Context, udid string) (*Device, error) {
	devices, err := c.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].UDID == udid {
			return &devices[i], nil
		}
	}
	return nil, &DeviceError{Op: "find", Detail: fmt.Sprintf("simulator not found: %s", udid)}
}

// Boot boots a simulator and waits until it reports Booted.
func (c *CLI) Boot(ctx context.Context, udid string, timeout time.Duration) error {
	logger.Info("booting simulator %s", udid)
	if _, err := c.run(ctx, "boot", udid); err != nil {
		var de *DeviceError
		if errors.As(err, &de) && strings.Contains(de.Detail, "current state: Booted") {
			logger.Info("simulator already booted: %s", udid)
			return nil
		}
		return err
	}
	return c.waitForState(ctx, udid, StateBooted, timeout)
}

// Shutdown shuts a simulator down and waits for confirmation.
func (c *CLI) Shutdown(ctx context.Context, udid string, timeout time.Duration) error {
	logger.Info("shutting down simulator %s", udid)
	if _, err := c.run(ctx, "shutdown", udid); err != nil {
		var de *DeviceError
		if errors.As(err, &de) && strings.Contains(de.Detail, "current state: Shutdown") {
			logger.Info("simulator already shut down: %s", udid)
			return nil
		}
		return err
	}
	return c.waitForState(ctx, udid, StateShutdown, timeout)
}

// waitForState polls the device listing until the device reaches the
// wanted state or the timeout elapses.
func (c *CLI) waitForState(ctx context.Context, udid string, want DeviceState, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		dev, err := c.FindDevice(ctx, udid)
		if err == nil && dev.State == want {
			logger.Info("simulator %s is %s", udid, want)
			return nil
		}
		select {
		case <-ctx.Done():
			return &DeviceError{Op: "wait", Detail: fmt.Sprintf("cancelled waiting for %s", want), Err: ctx.Err()}
		case <-ticker.C:
		}
	}
	return &DeviceError{Op: "wait", Detail: fmt.Sprintf("simulator did not reach %s within %v", want, timeout)}
}

// Screenshot captures the device screen through the lifecycle CLI and
// returns raw PNG bytes. Used when no agent session is available.
func (c *CLI) Screenshot(ctx context.Context, udid string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "sim-screenshot-*.png")
	if err != nil {
		return nil, &DeviceError{Op: "screenshot", Err: err}
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if _, err := c.run(ctx, "io", udid, "screenshot", tmpPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, &DeviceError{Op: "screenshot", Err: err}
	}
	return data, nil
}

// InstallApp installs an .app bundle onto the simulator.
func (c *CLI) InstallApp(ctx context.Context, udid, appPath string) error {
	abs, err := filepath.Abs(appPath)
	if err != nil {
		return &DeviceError{Op: "install", Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		return &DeviceError{Op: "install", Detail: fmt.Sprintf("app bundle not found: %s", abs)}
	}
	logger.Info("installing %s on %s", abs, udid)
	_, err = c.run(ctx, "install", udid, abs)
	return err
}

// OpenURL opens a URL on the simulator through the lifecycle CLI.
func (c *CLI) OpenURL(ctx context.Context, udid, url string) error {
	_, err := c.run(ctx, "openurl", udid, url)
	return err
}

func parseState(s string) DeviceState {
	switch s {
	case "Shutdown":
		return StateShutdown
	case "Booted":
		return StateBooted
	case "Booting":
		return StateBooting
	default:
		return StateUnknown
	}
}

// extractOSVersion pulls the version out of a runtime identifier, e.g.
// "com.apple.CoreSimulator.SimRuntime.iOS-17-2" -> "17.2".
func extractOSVersion(runtime string) string {
	for _, prefix := range []string{"iOS-", "watchOS-", "tvOS-", "xrOS-"} {
		if idx := strings.LastIndex(runtime, prefix); idx != -1 {
			return strings.ReplaceAll(runtime[idx+len(prefix):], "-", ".")
		}
	}
	return ""
}
