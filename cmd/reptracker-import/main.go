package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/multierr"

	"github.com/claude/reptracker/internal/config"
	"github.com/claude/reptracker/internal/export"
	"github.com/claude/reptracker/internal/ledger"
	"github.com/claude/reptracker/internal/mcp"
	"github.com/claude/reptracker/internal/storage"
	"github.com/claude/reptracker/internal/tracker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to a JSON backup (required)")
	dryRun := flag.Bool("dry-run", false, "validate the backup without restoring it")
	remote := flag.String("remote", "", "base URL of a running reptracker server to restore into; "+
		"without it the store is opened directly and the server must be stopped")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: reptracker-import -config config.yaml -file backup.json [-remote URL] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read backup", "path", *filePath, "error", err)
		os.Exit(1)
	}

	if *dryRun {
		log.Info("dry run: validating backup only")
		state, err := export.ParseJSON(data)
		if err != nil {
			printRestoreError(err)
			os.Exit(1)
		}
		log.Info("backup is valid", "types", len(state.Types), "logs", len(state.Logs))
		return
	}

	ctx := context.Background()

	if *remote != "" {
		state, err := mcp.NewHTTPClient(*remote).Restore(ctx, data)
		if err != nil {
			printRestoreError(err)
			os.Exit(1)
		}
		log.Info("import complete", "remote", *remote, "types", len(state.Types), "logs", len(state.Logs))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// A running server keeps the ledger in memory and would overwrite this
	// restore on its next change.
	log.Warn("restoring directly into the store; make sure the server is stopped", "driver", cfg.Storage.Driver)

	repo, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	store := ledger.New(repo, log)
	store.Load(ctx)
	svc := tracker.NewService(store, repo, log)

	state, err := svc.Restore(ctx, "cli", data)
	if err != nil {
		printRestoreError(err)
		repo.Close()
		os.Exit(1)
	}
	log.Info("import complete", "types", len(state.Types), "logs", len(state.Logs))
}

// printRestoreError writes invalid-data errors one per line, anything else as is.
func printRestoreError(err error) {
	var invalid *export.InvalidDataError
	if !errors.As(err, &invalid) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stderr, "Invalid data:")
	for _, e := range multierr.Errors(errors.Unwrap(invalid)) {
		fmt.Fprintln(os.Stderr, "  -", e)
	}
}
