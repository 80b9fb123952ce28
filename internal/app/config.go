package app

import (
	"io"
	"os"

	"svcctl/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Explicit configuration file; empty means layered lookup
	ConfigPath string

	// Service graph to install
	ManifestPath string

	// Overrides the configured log level when set
	LogLevel string

	// Build version, announced by the MCP server unless configured
	Version string

	// Destination of command output (default: stdout)
	Output io.Writer

	// Loaded settings, filled in by NewApplication
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(configPath, manifestPath, logLevel string) *Config {
	return &Config{
		ConfigPath:   configPath,
		ManifestPath: manifestPath,
		LogLevel:     logLevel,
		Output:       os.Stdout,
	}
}
