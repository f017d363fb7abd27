package bootstrap

import (
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/config"
	"github.com/Ajasmt08/Asset-Bundler-Pro/common/logger"
)

// Option configures bootstrap behavior
type Option func(*options)

type options struct {
	customConfig  *config.Config
	customLogger  *logger.Logger
	skipDB        bool
	skipTelemetry bool
}

func defaultOptions() *options {
	return &options{}
}

// WithConfig supplies a pre-built configuration instead of loading from
// the environment
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

// WithLogger supplies a pre-built logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithSkipDB skips database initialization, for services or tools that
// don't persist manifests
func WithSkipDB() Option {
	return func(o *options) {
		o.skipDB = true
	}
}

// WithSkipTelemetry skips telemetry initialization
func WithSkipTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}
