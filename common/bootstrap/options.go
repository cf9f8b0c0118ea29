package bootstrap

import (
	"github.com/juicelabs/juice-content/common/bucket"
	"github.com/juicelabs/juice-content/common/config"
	"github.com/juicelabs/juice-content/common/logger"
)

// Option configures the bootstrap process
type Option func(*options)

type options struct {
	skipBucket    bool
	skipTelemetry bool
	customBucket  bucket.Bucket
	customLogger  *logger.Logger
	customConfig  *config.Config
}

// WithoutBucket skips bucket initialization (tests that wire their own)
func WithoutBucket() Option {
	return func(o *options) {
		o.skipBucket = true
	}
}

// WithoutTelemetry skips telemetry initialization
func WithoutTelemetry() Option {
	return func(o *options) {
		o.skipTelemetry = true
	}
}

// WithBucket uses a pre-built bucket instead of constructing one from config
func WithBucket(b bucket.Bucket) Option {
	return func(o *options) {
		o.customBucket = b
	}
}

// WithCustomLogger uses a custom logger instead of creating one
func WithCustomLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.customLogger = log
	}
}

// WithCustomConfig uses a custom config instead of loading from env
func WithCustomConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.customConfig = cfg
	}
}

func defaultOptions() *options {
	return &options{}
}
