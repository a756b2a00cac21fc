package main

//	@title			WispGate API
//	@version		0.1.0
//	@description	Dual-protocol gateway and fleet directory for RouterOS devices.
//	@BasePath		/api/v1

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/HerbHall/wispgate/api/swagger"
	"github.com/HerbHall/wispgate/internal/billing"
	"github.com/HerbHall/wispgate/internal/config"
	"github.com/HerbHall/wispgate/internal/directory"
	"github.com/HerbHall/wispgate/internal/event"
	"github.com/HerbHall/wispgate/internal/gateway"
	"github.com/HerbHall/wispgate/internal/mqtt"
	"github.com/HerbHall/wispgate/internal/registry"
	"github.com/HerbHall/wispgate/internal/server"
	"github.com/HerbHall/wispgate/internal/store"
	"github.com/HerbHall/wispgate/internal/version"
	"github.com/HerbHall/wispgate/internal/webhook"
	"github.com/HerbHall/wispgate/internal/ws"
	"github.com/HerbHall/wispgate/pkg/plugin"
	"go.uber.org/zap"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(version.Info())
		return
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.New(viperCfg)

	// Initialize logger from configuration.
	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("WispGate server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	// Open database
	dbPath := viperCfg.GetString("database.path")
	if dbPath == "" {
		dbPath = "wispgate.db"
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("failed to create data directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refuse to open a database written by a newer binary.
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		logger.Fatal("database version check failed", zap.Error(err))
	}

	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	// Create shared services
	bus := event.NewBus(logger.Named("event"))
	logger.Info("event bus created", zap.String("component", "event"))

	// Create plugin registry
	reg := registry.New(logger.Named("registry"))
	logger.Info("plugin registry created", zap.String("component", "registry"))

	// Register all plugins (compile-time composition). Directory first: it
	// fills the router_directory role the gateway and billing resolve at Start.
	modules := []plugin.Plugin{
		directory.New(),
		gateway.New(),
		billing.New(),
		mqtt.New(),
		webhook.New(),
		ws.New(),
	}
	for _, m := range modules {
		if err := reg.Register(m); err != nil {
			logger.Fatal("failed to register plugin", zap.Error(err))
		}
	}

	// Validate dependency graph and API versions
	if err := reg.Validate(); err != nil {
		logger.Fatal("plugin validation failed", zap.Error(err))
	}

	// Initialize all plugins with dependencies
	if err := reg.InitAll(ctx, func(name string) plugin.Dependencies {
		pluginCfg := cfg.Sub("plugins." + name)
		return plugin.Dependencies{
			Config:  pluginCfg,
			Logger:  logger.Named(name),
			Store:   db,
			Bus:     bus,
			Plugins: reg,
		}
	}); err != nil {
		logger.Fatal("failed to initialize plugins", zap.Error(err))
	}

	// Start plugins
	if err := reg.StartAll(ctx); err != nil {
		logger.Fatal("failed to start plugins", zap.Error(err))
	}

	// Create and start HTTP server
	addr := viperCfg.GetString("server.host") + ":" + viperCfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	logger.Info("HTTP server configured",
		zap.String("component", "server"),
		zap.String("addr", addr),
	)
	devMode := viperCfg.GetBool("server.dev_mode")
	demoMode := viperCfg.GetBool("server.demo_mode")
	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	})
	srv := server.New(addr, reg, logger, readyCheck, devMode, demoMode)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("WispGate server ready", zap.String("addr", addr))

	// Print human-readable banner for users watching docker logs.
	port := viperCfg.GetString("server.port")
	if port == "" {
		port = "8080"
	}
	fmt.Fprintf(os.Stderr, "\n  WispGate %s is ready!\n  API base URL: http://localhost:%s/api/v1\n\n", version.Short(), port)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	reg.StopAll(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("WispGate server stopped")
}
