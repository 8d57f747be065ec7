package simctl

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bidouilles/ios-simulator-mcp/internal/logger"
)

// ServiceURIs are the Dart tooling endpoints a running app has advertised
// in the device log: the VM service (DevTools, hot reload) and the Dart
// Tooling Daemon.
type ServiceURIs struct {
	VMService []string `yaml:"vm_service_uris" json:"vm_service_uris"`
	DTD       []string `yaml:"dtd_uris"        json:"dtd_uris"`
}

// Flutter prints these on startup, e.g.
//   The Dart VM service is listening on http://127.0.0.1:50505/abc123XYZ=/
//   The Dart Tooling Daemon is available at: ws://127.0.0.1:50506/def456
var (
	vmServicePattern = regexp.MustCompile(`Dart VM [Ss]ervice.*?(https?://[0-9.]+:[0-9]+/[A-Za-z0-9_=-]*/?)`)
	dtdPattern       = regexp.MustCompile(`(?:Dart Tooling Daemon|DTD).*?(ws://[0-9.]+:[0-9]+/[A-Za-z0-9_=-]*)`)
)

// DiscoverServiceURIs scans the device log for Dart VM service and Dart
// Tooling Daemon announcements within the given window. A window of zero
// defaults to five minutes.
func (c *CLI) DiscoverServiceURIs(ctx context.Context, udid string, window time.Duration) (*ServiceURIs, error) {
	if window <= 0 {
		window = 5 * time.Minute
	}
	out, err := c.run(ctx, "spawn", udid, "log", "show",
		"--style", "compact",
		"--last", fmt.Sprintf("%ds", int(window.Seconds())),
		"--predicate", `eventMessage CONTAINS "Dart"`)
	if err != nil {
		return nil, err
	}

	uris := parseServiceURIs(string(out))
	logger.Debug("device %s: %d VM service URI(s), %d DTD URI(s) in last %s",
		udid, len(uris.VMService), len(uris.DTD), window)
	return uris, nil
}

// parseServiceURIs extracts announcement URIs line by line, deduplicated
// in first-seen order.
func parseServiceURIs(logText string) *ServiceURIs {
	uris := &ServiceURIs{
		VMService: []string{},
		DTD:       []string{},
	}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(logText))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := vmServicePattern.FindStringSubmatch(line); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			uris.VMService = append(uris.VMService, m[1])
		}
		if m := dtdPattern.FindStringSubmatch(line); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			uris.DTD = append(uris.DTD, m[1])
		}
	}
	return uris
}
