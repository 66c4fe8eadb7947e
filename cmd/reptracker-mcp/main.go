package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/reptracker/internal/config"
	"github.com/claude/reptracker/internal/ledger"
	"github.com/claude/reptracker/internal/mcp"
	"github.com/claude/reptracker/internal/storage"
	"github.com/claude/reptracker/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	remote := flag.String("remote", "", "base URL of a running reptracker server; "+
		"without it the store is opened directly and the server must be stopped")
	flag.Parse()

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *remote != "" {
		ds = mcp.NewHTTPClient(*remote)
		log.Info("mcp using remote server", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		// A running server would overwrite changes made here on its next write.
		log.Warn("opening the store directly; make sure the server is stopped", "driver", cfg.Storage.Driver)

		ctx := context.Background()
		repo, err := storage.Open(ctx, cfg.Storage, log)
		if err != nil {
			log.Error("failed to open storage", "error", err)
			os.Exit(1)
		}
		defer repo.Close()

		store := ledger.New(repo, log)
		store.Load(ctx)
		ds = tracker.NewService(store, repo, log)
	}

	if err := mcpserver.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
