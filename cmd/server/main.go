package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/openfuid/fuid-registry/pkg/api"
	"github.com/openfuid/fuid-registry/pkg/catalog"
	"github.com/openfuid/fuid-registry/pkg/chassis"
	"github.com/openfuid/fuid-registry/pkg/importer"
)

type config struct {
	Addr          string `yaml:"addr"`
	DataFile      string `yaml:"data_file"`
	CertFile      string `yaml:"cert_file"`
	KeyFile       string `yaml:"key_file"`
	MCP           bool   `yaml:"mcp"`
	SourcesDB     string `yaml:"sources_db"`
	CheckInterval string `yaml:"check_interval"` // e.g. "1h"; empty disables source checks
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "register":
		cmdRegister(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: fuid-registry <command>

Commands:
  serve     Start the registry server (HTTP + MCP)
  import    Import marketplace exports into the catalog
  register  Register a single company/product/version triple
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)

	store, err := catalog.Open(cfg.DataFile, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "fuids", store.Snapshot().Len())

	var mcpSrv *server.MCPServer
	if cfg.MCP {
		mcpSrv = server.NewMCPServer("fuid-registry", "1.0.0")
		api.RegisterMCPTools(mcpSrv, store)
	}

	srv, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.CertFile,
		KeyFile:   cfg.KeyFile,
		Handler:   api.NewRouter(store),
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("chassis init failed", "error", err)
		os.Exit(1)
	}

	// SIGHUP: hot reload the catalog from disk.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading catalog")
			if err := store.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("catalog reloaded", "fuids", store.Snapshot().Len())
			}
		}
	}()

	// Periodic availability checks on import sources, when configured.
	if cfg.SourcesDB != "" && cfg.CheckInterval != "" {
		interval, err := time.ParseDuration(cfg.CheckInterval)
		if err != nil {
			logger.Error("invalid check_interval", "value", cfg.CheckInterval, "error", err)
			os.Exit(1)
		}
		sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
		if err != nil {
			logger.Error("open sources db failed", "error", err)
			os.Exit(1)
		}
		defer sdb.Close()
		if err := sdb.Seed(importer.All()); err != nil {
			logger.Error("seed sources failed", "error", err)
			os.Exit(1)
		}
		go importer.NewChecker(sdb, logger, interval).Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fuid-registry listening", "addr", cfg.Addr, "mcp", cfg.MCP)
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:     ":8420",
		DataFile: "fuid_data.json",
		MCP:      true,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
