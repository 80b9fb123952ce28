package config

import (
	"fmt"

	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

const (
	DefaultCapacity       = 256
	DefaultMetricsAddress = ":9090"
	DefaultMCPName        = "svcctl"
)

// GetDefaultConfig returns the built-in configuration every layer starts from.
func GetDefaultConfig() Config {
	return Config{
		Registry: RegistryConfig{
			Capacity:     DefaultCapacity,
			HandlePolicy: services.HandleCounted.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Metrics: MetricsConfig{
			Address: DefaultMetricsAddress,
		},
		MCP: MCPConfig{
			Name: DefaultMCPName,
		},
	}
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if c.Registry.Capacity <= 0 {
		return fmt.Errorf("registry.capacity must be positive, got %d", c.Registry.Capacity)
	}
	if _, err := services.ParseHandlePolicy(c.Registry.HandlePolicy); err != nil {
		return fmt.Errorf("registry.handlePolicy: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Logging.Format)
	}
	if c.Metrics.IsEnabled() && c.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	return nil
}
