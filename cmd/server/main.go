package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mkarpov/giftcircle/internal/api"
	"github.com/mkarpov/giftcircle/internal/factory"
	redisstorage "github.com/mkarpov/giftcircle/internal/storage/redis"
)

type config struct {
	bind          string
	port          int
	storage       string
	redisURL      string
	adminLogin    string
	adminPassword string
	verbose       bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.storage != factory.StorageTypeMemory && c.storage != factory.StorageTypeRedis {
		return fmt.Errorf("invalid storage type %q (must be %q or %q)", c.storage, factory.StorageTypeMemory, factory.StorageTypeRedis)
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GIFTCIRCLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "giftcircle-server",
		Short:         "Session server for the gift circle table game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GIFTCIRCLE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: GIFTCIRCLE_PORT)")
	fs.StringVar(&cfg.storage, "storage", factory.StorageTypeMemory, "storage backend, memory or redis (env: GIFTCIRCLE_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "redis://localhost:6379", "redis connection URL (env: GIFTCIRCLE_REDIS_URL)")
	fs.StringVar(&cfg.adminLogin, "admin-login", factory.DefaultAdminLogin, "operator login (env: GIFTCIRCLE_ADMIN_LOGIN)")
	fs.StringVar(&cfg.adminPassword, "admin-password", factory.DefaultAdminPassword, "operator password (env: GIFTCIRCLE_ADMIN_PASSWORD)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: GIFTCIRCLE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:        logger,
		StorageType:   cfg.storage,
		AdminLogin:    cfg.adminLogin,
		AdminPassword: cfg.adminPassword,
	}
	if cfg.storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Orchestrator: app.Orchestrator,
		AdminService: app.AdminService,
		Hub:          app.Hub,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.bind
	serverConfig.Port = cfg.port
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
			logger.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	cfg := &config{}
	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
