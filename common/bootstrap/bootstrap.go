package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/juicelabs/juice-content/common/bucket"
	"github.com/juicelabs/juice-content/common/config"
	"github.com/juicelabs/juice-content/common/db"
	"github.com/juicelabs/juice-content/common/logger"
	rediscommon "github.com/juicelabs/juice-content/common/redis"
	"github.com/juicelabs/juice-content/common/ringlog"
	"github.com/juicelabs/juice-content/common/telemetry"
)

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	// Apply options
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 2. Initialize logger, teeing every record into the debug ring buffer
	components.RingLog = ringlog.New(components.Config.Content.RingLogSize)
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		handler := logger.BuildHandler(
			components.Config.Service.LogLevel,
			components.Config.Service.LogFormat,
		)
		components.Logger = logger.FromHandler(ringlog.Wrap(handler, components.RingLog))
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", components.Config.Service.Environment,
	)

	// 3. Initialize the blob bucket backend
	if options.customBucket != nil {
		components.Bucket = options.customBucket
	} else if !options.skipBucket {
		if err := setupBucket(ctx, components); err != nil {
			components.Shutdown(ctx)
			return nil, err
		}
	}

	// 4. Initialize telemetry (if not skipped)
	if !options.skipTelemetry && components.Config.Telemetry.EnablePprof {
		components.Logger.Info("initializing telemetry")
		components.Telemetry = telemetry.New(
			components.Config.Telemetry.PprofPort,
			components.Logger,
		)

		if err := components.Telemetry.Start(ctx); err != nil {
			components.Logger.Warn("failed to start telemetry", "error", err)
			// Don't fail startup if telemetry fails
		}
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"bucket_backend", components.Config.Bucket.Backend,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// setupBucket constructs the configured bucket backend and registers its
// cleanup.
func setupBucket(ctx context.Context, components *Components) error {
	cfg := components.Config
	log := components.Logger

	switch cfg.Bucket.Backend {
	case "http":
		log.Info("using http bucket backend", "base_url", cfg.Bucket.BaseURL)
		components.Bucket = bucket.NewHTTPBucket(
			cfg.Bucket.BaseURL,
			cfg.Bucket.Token,
			cfg.Bucket.RequestTimeout,
			log,
		)

	case "postgres":
		log.Info("using postgres bucket backend")
		database, err := db.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		components.DB = database
		components.addCleanup(func() error {
			database.Close()
			return nil
		})

		pg := bucket.NewPostgresBucket(database, log)
		if err := pg.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to init bucket schema: %w", err)
		}
		components.Bucket = pg

	case "redis":
		log.Info("using redis bucket backend", "addr", cfg.RedisAddr())
		raw := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := rediscommon.NewClient(raw, log)
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		components.Redis = client
		components.addCleanup(func() error {
			log.Info("closing redis connection")
			return client.Close()
		})
		components.Bucket = bucket.NewRedisBucket(client)

	case "memory":
		log.Info("using in-memory bucket backend")
		components.Bucket = bucket.NewMemoryBucket()

	default:
		return fmt.Errorf("unknown bucket backend: %s", cfg.Bucket.Backend)
	}

	return nil
}

// MustSetup is like Setup but panics on error
// Useful for services that can't recover from initialization failure
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
