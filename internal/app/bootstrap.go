package app

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"svcctl/internal/config"
	"svcctl/internal/manifest"
	"svcctl/pkg/logging"
)

// Application bootstraps a registry from configuration and a manifest and
// runs one of the command modes against it.
type Application struct {
	config   *Config
	services *Services

	// Set once teardown of the registry has started
	tearingDown atomic.Bool
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	settings, err := loadSettings(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Settings = &settings

	// Logs go to stderr so command output stays parseable
	level, _ := logging.ParseLevel(settings.Logging.Level)
	logging.InitForCLI(level, settings.Logging.Format, os.Stderr)

	m, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load manifest %s", cfg.ManifestPath)
		return nil, err
	}
	logging.Info("Bootstrap", "Loaded %d services from %s", len(m.Services), cfg.ManifestPath)

	services, err := InitializeServices(settings, m)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

func loadSettings(cfg *Config) (config.Config, error) {
	var (
		settings config.Config
		err      error
	)
	if cfg.ConfigPath != "" {
		settings, err = config.Load(cfg.ConfigPath)
	} else {
		settings, err = config.LoadConfig()
	}
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load svcctl configuration: %w", err)
	}

	if cfg.LogLevel != "" {
		settings.Logging.Level = cfg.LogLevel
		if err := settings.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	return settings, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Ready reports whether the registry is installed and not being torn down.
func (a *Application) Ready() bool {
	return a.services != nil && !a.tearingDown.Load()
}

// teardown destroys every live service. The application is not ready from
// then on.
func (a *Application) teardown(ctx context.Context) error {
	a.tearingDown.Store(true)
	return a.services.Registry.DestroyAll(ctx)
}
