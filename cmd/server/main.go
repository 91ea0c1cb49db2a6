// Command server runs the community job board API.
//
// main stays minimal: build the logger, load config, ensure the data
// directory, hand everything to internal/server. All real wiring lives in
// the server package so tests can construct the same graph.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bdec/jobboard/internal/config"
	"github.com/bdec/jobboard/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := config.Load()

	// The SQLite file's directory must exist before sql.Open touches it.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
