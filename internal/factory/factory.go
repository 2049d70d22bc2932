package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/CuteLittleSky/LimboAuth/internal/config"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/bedrock"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/clock"
	"github.com/CuteLittleSky/LimboAuth/internal/dependencies/scheduler"
	"github.com/CuteLittleSky/LimboAuth/internal/services/prelogin"
	"github.com/CuteLittleSky/LimboAuth/internal/services/reconcile"
	"github.com/CuteLittleSky/LimboAuth/internal/services/session"
	"github.com/CuteLittleSky/LimboAuth/internal/storage"
	"github.com/CuteLittleSky/LimboAuth/internal/storage/memory"
	redisstorage "github.com/CuteLittleSky/LimboAuth/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Scheduler scheduler.Scheduler
	Bedrock   bedrock.Oracle

	// Services
	PreLoginService  *prelogin.Service
	ReconcileService *reconcile.Service
	Registry         *session.Registry
	Listener         *session.Listener
}

// Config holds configuration for the application factory
type Config struct {
	// Settings holds the plugin settings (zero value uses defaults)
	Settings config.Settings
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	settings := cfg.Settings
	if settings.BcryptCost == 0 {
		settings = config.DefaultSettings()
	}

	clk := clock.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		memCfg := memory.DefaultConfig()
		memCfg.FailureTTL = settings.FailureCacheTTL
		store = memory.New(clk, memCfg)
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisCfg := *cfg.RedisConfig
		redisCfg.FailureTTL = settings.FailureCacheTTL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clk, scheduler.New(), bedrock.New(), settings, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, sched scheduler.Scheduler, oracle bedrock.Oracle, settings config.Settings, logger *slog.Logger) *App {
	preLoginService := prelogin.New(store, store, sched, settings, logger)
	reconcileService := reconcile.New(store, settings, logger)
	registry := session.NewRegistry()
	listener := session.NewListener(preLoginService, reconcileService, registry, oracle, sched, settings, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Scheduler:        sched,
		Bedrock:          oracle,
		PreLoginService:  preLoginService,
		ReconcileService: reconcileService,
		Registry:         registry,
		Listener:         listener,
	}
}
