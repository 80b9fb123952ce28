package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"svcctl/internal/config"
	"svcctl/internal/manifest"
	"svcctl/internal/registry"
	"svcctl/internal/services"
)

// Services holds the registry and everything attached to it
type Services struct {
	Registry   *registry.Registry
	Manifest   *manifest.Manifest
	Trace      *manifest.Trace
	Metrics    *registry.Metrics
	Prometheus *prometheus.Registry
}

// InitializeServices builds a registry from settings and installs m into it
func InitializeServices(settings config.Config, m *manifest.Manifest) (*Services, error) {
	policy, err := services.ParseHandlePolicy(settings.Registry.HandlePolicy)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	metrics := registry.NewMetrics(promRegistry)

	reg := registry.New(
		registry.WithCapacity(settings.Registry.Capacity),
		registry.WithHandlePolicy(policy),
		registry.WithMetrics(metrics),
	)

	trace := manifest.NewTrace()
	if err := manifest.Install(context.Background(), reg, m, trace); err != nil {
		return nil, fmt.Errorf("failed to install manifest: %w", err)
	}

	return &Services{
		Registry:   reg,
		Manifest:   m,
		Trace:      trace,
		Metrics:    metrics,
		Prometheus: promRegistry,
	}, nil
}
