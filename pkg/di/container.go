// Package di provides dependency injection container
package di

import (
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ssargent/garage/pkg/codec"
	"github.com/ssargent/garage/pkg/config"
	"github.com/ssargent/garage/pkg/garage"
	"github.com/ssargent/garage/pkg/logging"
	"github.com/ssargent/garage/pkg/metrics"
)

// Container holds all the dependencies for the application
type Container struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// NewContainer creates a new dependency injection container with the
// default configuration and a discarding logger
func NewContainer() *Container {
	registry := prometheus.NewRegistry()

	return &Container{
		config:   config.DefaultConfig(),
		logger:   logging.Discard,
		registry: registry,
		metrics:  metrics.NewMetrics(registry),
	}
}

// Configure applies cfg and builds the logger writing to logOut
func (c *Container) Configure(cfg *config.Config, logOut io.Writer) error {
	logger, err := logging.New(cfg.Logging, logOut)
	if err != nil {
		return err
	}

	c.config = cfg
	c.logger = logger
	return nil
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// GetMetrics returns the garage metrics
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// GetGatherer returns the registry holding the garage metrics
func (c *Container) GetGatherer() prometheus.Gatherer {
	return c.registry
}

// GetCodec returns a record codec bounded by the configured record size
func (c *Container) GetCodec() *codec.RecordCodec {
	return codec.NewRecordCodec(codec.WithMaxRecordSize(c.config.Garage.MaxRecordSize))
}

// GarageOptions returns the options every garage built by the application uses
func (c *Container) GarageOptions() []garage.Option {
	return []garage.Option{
		garage.WithCodec(c.GetCodec()),
		garage.WithMaxVehicles(c.config.Garage.MaxVehicles),
		garage.WithLogger(c.logger),
		garage.WithMetrics(c.metrics),
	}
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}
