// Package config loads server configuration from the environment and builds
// the engine's service graph from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	memoryrepo "github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
	postgresrepo "github.com/tendant/simple-blog/pkg/simpleblog/repo/postgres"
	fsstorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/fs"
	memorystorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/memory"
	s3storage "github.com/tendant/simple-blog/pkg/simpleblog/storage/s3"
)

// ServerConfig is the environment-driven configuration for cmd/server.
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// DatabaseURL empty or "memory" selects the in-memory store; a
	// postgres:// URL selects the PostgreSQL store.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	Migrate     bool   `env:"DB_MIGRATE" env-default:"true"`

	// StorageBackend is one of "memory", "fs", "s3".
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"memory"`
	FSBaseDir      string `env:"FS_BASE_DIR" env-default:"./data/storage"`
	FSURLPrefix    string `env:"FS_URL_PREFIX" env-default:"/files"`

	S3Region          string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `env:"S3_BUCKET" env-default:""`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" env-default:""`
	S3Endpoint        string `env:"S3_ENDPOINT" env-default:""`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" env-default:"false"`
	S3CreateBucket    bool   `env:"S3_CREATE_BUCKET" env-default:"false"`

	// Notifier is one of "noop", "log".
	Notifier string `env:"NOTIFIER" env-default:"noop"`

	ProfileCacheTTL time.Duration `env:"PROFILE_CACHE_TTL" env-default:"2h"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseURL != "" && c.DatabaseURL != "memory" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("unsupported DATABASE_URL format (use 'memory' or 'postgres://...')")
	}
	switch c.StorageBackend {
	case "memory", "fs":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
	switch c.Notifier {
	case "noop", "log":
	default:
		return fmt.Errorf("unsupported notifier: %s", c.Notifier)
	}
	return nil
}

// BuildStore creates the persistence store. The returned cleanup closes the
// connection pool and is a no-op for the memory store.
func (c *ServerConfig) BuildStore(ctx context.Context) (simpleblog.Store, func(), error) {
	if c.DatabaseURL == "" || c.DatabaseURL == "memory" {
		return memoryrepo.NewStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, c.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("database ping failed: %w", err)
	}
	if c.Migrate {
		if err := postgresrepo.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return postgresrepo.NewStore(pool), pool.Close, nil
}

// BuildBlobStore creates the asset storage backend.
func (c *ServerConfig) BuildBlobStore() (simpleblog.BlobStore, error) {
	switch c.StorageBackend {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.FSURLPrefix,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3Region,
			Bucket:                 c.S3Bucket,
			AccessKeyID:            c.S3AccessKeyID,
			SecretAccessKey:        c.S3SecretAccessKey,
			Endpoint:               c.S3Endpoint,
			UsePathStyle:           c.S3UsePathStyle,
			CreateBucketIfNotExist: c.S3CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", c.StorageBackend)
	}
}

// BuildService wires the store, notifier and cache into a Service. The
// returned cleanup releases the store's resources.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (simpleblog.Service, func(), error) {
	store, cleanup, err := c.BuildStore(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("build store: %w", err)
	}

	var notifier simpleblog.Notifier
	switch c.Notifier {
	case "log":
		notifier = simpleblog.NewLoggingNotifier(logger)
	default:
		notifier = simpleblog.NewNoopNotifier()
	}

	svc, err := simpleblog.New(
		simpleblog.WithStore(store),
		simpleblog.WithNotifier(notifier),
		simpleblog.WithLogger(logger),
		simpleblog.WithProfileCacheTTL(c.ProfileCacheTTL),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build service: %w", err)
	}
	return svc, cleanup, nil
}
