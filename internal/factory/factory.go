package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mkarpov/giftcircle/internal/broadcast"
	"github.com/mkarpov/giftcircle/internal/dependencies/clock"
	"github.com/mkarpov/giftcircle/internal/dependencies/random"
	"github.com/mkarpov/giftcircle/internal/services/admin"
	"github.com/mkarpov/giftcircle/internal/services/chat"
	"github.com/mkarpov/giftcircle/internal/services/referral"
	"github.com/mkarpov/giftcircle/internal/services/session"
	"github.com/mkarpov/giftcircle/internal/services/table"
	"github.com/mkarpov/giftcircle/internal/storage"
	"github.com/mkarpov/giftcircle/internal/storage/memory"
	redisstorage "github.com/mkarpov/giftcircle/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Default operator credentials, for local development only.
const (
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "admin"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Fan-out
	Hub         *broadcast.Hub
	Broadcaster *broadcast.Broadcaster

	// Services
	TableRegistry    *table.Registry
	ReferralRegistry *referral.Registry
	ChatService      *chat.Service
	Orchestrator     *session.Orchestrator
	AdminService     *admin.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// AdminLogin is the operator login name (optional, defaults to "admin")
	AdminLogin string
	// AdminPassword is the operator password (optional, defaults to "admin")
	AdminPassword string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	adminLogin := cfg.AdminLogin
	if adminLogin == "" {
		adminLogin = DefaultAdminLogin
	}
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}

	return newWithDependencies(store, clock.New(), random.New(), adminLogin, adminPassword, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, adminLogin, adminPassword string, logger *slog.Logger) (*App, error) {
	hub := broadcast.NewHub(logger)
	broadcaster := broadcast.NewBroadcaster(hub, logger)

	tableRegistry := table.NewRegistry(store, clk, logger)
	referralRegistry := referral.NewRegistry(store, clk, rnd, logger)
	chatService := chat.NewService(store, clk, logger)
	orchestrator := session.NewOrchestrator(tableRegistry, referralRegistry, chatService, store, broadcaster, clk, rnd, logger)

	adminService, err := admin.NewService(adminLogin, adminPassword, orchestrator, broadcaster, rnd, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Hub:              hub,
		Broadcaster:      broadcaster,
		TableRegistry:    tableRegistry,
		ReferralRegistry: referralRegistry,
		ChatService:      chatService,
		Orchestrator:     orchestrator,
		AdminService:     adminService,
	}, nil
}
