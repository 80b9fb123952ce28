package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/svcctl"
	projectConfigDir = ".svcctl"
	configFileName   = "config.yaml"
)

// LoadConfig loads the svcctl configuration by layering default, user, and project settings.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		config, err = overlayFile(config, userConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		// Project config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		config, err = overlayFile(config, projectConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
	}

	return config, config.Validate()
}

// Load layers a single explicit file over the defaults. Unlike the user and
// project layers the file must exist.
func Load(path string) (Config, error) {
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	config := mergeConfigs(GetDefaultConfig(), overlay)
	return config, config.Validate()
}

func overlayFile(base Config, path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return Config{}, err
	}
	return mergeConfigs(base, overlay), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config. Zero values in
// the overlay leave the base untouched.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Registry.Capacity != 0 {
		merged.Registry.Capacity = overlay.Registry.Capacity
	}
	if overlay.Registry.HandlePolicy != "" {
		merged.Registry.HandlePolicy = overlay.Registry.HandlePolicy
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Format != "" {
		merged.Logging.Format = overlay.Logging.Format
	}

	// Enabled only overrides when explicitly set in overlay
	if overlay.Metrics.Enabled != nil {
		enabled := *overlay.Metrics.Enabled
		merged.Metrics.Enabled = &enabled
	}
	if overlay.Metrics.Address != "" {
		merged.Metrics.Address = overlay.Metrics.Address
	}

	if overlay.MCP.Name != "" {
		merged.MCP.Name = overlay.MCP.Name
	}
	if overlay.MCP.Version != "" {
		merged.MCP.Version = overlay.MCP.Version
	}

	return merged
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
