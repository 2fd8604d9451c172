package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"blogsmith/internal/ai"
	"blogsmith/internal/api"
	"blogsmith/internal/config"
	"blogsmith/internal/research"
	"blogsmith/internal/service"
	"blogsmith/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	dataDir := flag.String("data-dir", "./data", "path to data directory")
	flag.Parse()

	// Load configuration (auto-creates default if missing). Load fails when
	// either provider API key is absent, so a misconfigured process never
	// starts serving.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Ensure data directory exists.
	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	// Open database with WAL mode and pragmas.
	db, err := storage.OpenDatabase(filepath.Join(*dataDir, "app.db"))
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run schema migrations.
	if err := storage.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store := storage.NewStore(db)

	// Construct provider clients. Both constructors fail fast on a missing
	// credential.
	generator, err := ai.NewGroqClient(cfg.AI.APIKey, cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	if err != nil {
		slog.Error("failed to create generation client", "error", err)
		os.Exit(1)
	}

	searcher, err := research.NewTavilyClient(cfg.Research.APIKey, cfg.Research.MaxResults,
		time.Duration(cfg.Research.TimeoutSeconds)*time.Second)
	if err != nil {
		slog.Error("failed to create research client", "error", err)
		os.Exit(1)
	}

	generation := service.NewGenerationService(searcher, generator)

	router := api.NewRouter(store, generation)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting server", "addr", addr, "model", cfg.AI.Model)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
