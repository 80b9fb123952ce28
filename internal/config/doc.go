// Package config provides configuration management for svcctl.
//
// Configuration is loaded from multiple YAML sources and merged in order,
// with later sources overriding earlier ones.
//
// # Configuration Layers
//
//  1. Default Configuration (embedded in binary)
//     - Provides working defaults for all settings
//
//  2. User Configuration (~/.config/svcctl/config.yaml)
//     - User-specific settings that apply everywhere
//
//  3. Project Configuration (./.svcctl/config.yaml)
//     - Settings for the current directory, shareable via version control
//
// An explicit file given with --config replaces layers 2 and 3.
//
// # Configuration Structure
//
//	registry:
//	  capacity: 256          # number of service slots
//	  handlePolicy: counted  # or "uncounted"
//
//	logging:
//	  level: info            # debug, info, warn, error
//	  format: text           # or "json"
//
//	metrics:
//	  enabled: true
//	  address: ":9090"
//
//	mcp:
//	  name: svcctl
//	  version: ""
//
// Fields left out of a layer keep the value of the layer below.
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//	    return err
//	}
//	policy, _ := services.ParseHandlePolicy(cfg.Registry.HandlePolicy)
//	reg := registry.New(
//	    registry.WithCapacity(cfg.Registry.Capacity),
//	    registry.WithHandlePolicy(policy),
//	)
package config
