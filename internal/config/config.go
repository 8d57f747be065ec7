// Package config handles configuration for the simulator server.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the server configuration (config.yaml).
type Config struct {
	// Agent settings
	AgentURL       string `yaml:"agentUrl"`       // WebDriverAgent base URL
	RequestTimeout int    `yaml:"requestTimeout"` // Per-request timeout in seconds

	// Device settings
	DefaultDevice string `yaml:"defaultDevice"` // UDID used when a tool omits one

	// Artifact settings
	ArtifactDir string `yaml:"artifactDir"` // Screenshots and recordings

	// Capture defaults
	ScreenshotScale   float64 `yaml:"screenshotScale"`
	ScreenshotFormat  string  `yaml:"screenshotFormat"`
	ScreenshotQuality int     `yaml:"screenshotQuality"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		AgentURL:          "http://localhost:8100",
		RequestTimeout:    60,
		ArtifactDir:       filepath.Join(os.TempDir(), "ios-simulator-mcp"),
		ScreenshotScale:   0.5,
		ScreenshotFormat:  "png",
		ScreenshotQuality: 80,
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	return cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, use defaults
	cfg := Defaults()
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays IOS_SIM_MCP_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("IOS_SIM_MCP_AGENT_URL"); v != "" {
		c.AgentURL = v
	}
	if v := os.Getenv("IOS_SIM_MCP_DEVICE"); v != "" {
		c.DefaultDevice = v
	}
	if v := os.Getenv("IOS_SIM_MCP_ARTIFACT_DIR"); v != "" {
		c.ArtifactDir = v
	}
	if v := os.Getenv("IOS_SIM_MCP_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RequestTimeout = n
		}
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}
