package config

// Config is the top-level configuration structure for svcctl.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	MCP      MCPConfig      `yaml:"mcp"`
}

// RegistryConfig controls how the service registry is built.
type RegistryConfig struct {
	Capacity     int    `yaml:"capacity,omitempty"`     // Number of slots (default: 256)
	HandlePolicy string `yaml:"handlePolicy,omitempty"` // "counted" or "uncounted" (default: counted)
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// MetricsConfig controls the Prometheus endpoint of the mcp command.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // Serve /metrics (default: false)
	Address string `yaml:"address,omitempty"` // Listen address (default: :9090)
}

// IsEnabled reports whether the metrics endpoint should be served.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// MCPConfig names the MCP server announced to clients.
type MCPConfig struct {
	Name    string `yaml:"name,omitempty"`    // Server name (default: svcctl)
	Version string `yaml:"version,omitempty"` // Server version (default: build version)
}
