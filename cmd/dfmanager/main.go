package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/dfmanager/internal/cli"
	"github.com/JonMunkholm/dfmanager/internal/config"
	"github.com/JonMunkholm/dfmanager/internal/core"
	"github.com/JonMunkholm/dfmanager/internal/format"
	"github.com/JonMunkholm/dfmanager/internal/logging"
	"github.com/JonMunkholm/dfmanager/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envLoaded := godotenv.Overload() == nil

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	closeLogs := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	defer closeLogs()

	slog.Debug("configuration loaded", "env_file", envLoaded, "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tables, err := store.Open(ctx, store.OpenConfig{
		Backend:     cfg.Storage.Backend,
		DataPath:    cfg.Storage.DataPath,
		DatabaseURL: cfg.Storage.DatabaseURL,
		MaxConns:    cfg.Storage.MaxConns,
	})
	if err != nil {
		slog.Error("failed to open table store", "backend", cfg.Storage.Backend, "error", err)
		return 1
	}
	defer tables.Close()

	svc := core.NewService(core.OpenRegistry(cfg.Storage.GroupsPath), tables, core.Options{
		Read:        format.Options{MaxFileSize: cfg.Ingest.MaxFileSize},
		PreviewRows: cfg.Ingest.PreviewRows,
		NullPolicy:  core.ParseNullPolicy(cfg.Ingest.NullPolicy),
	})

	if err := cli.Execute(ctx, cli.NewApp(svc), os.Args[1:]); err != nil {
		return 1
	}
	return 0
}
