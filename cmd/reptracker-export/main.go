package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/reptracker/internal/config"
	"github.com/claude/reptracker/internal/export"
	"github.com/claude/reptracker/internal/ledger"
	"github.com/claude/reptracker/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	formatFlag := flag.String("format", "csv", "export format: csv, xlsx or json")
	outPath := flag.String("out", "", "output file (defaults to the standard export filename)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Usage: reptracker-export -config config.yaml -format csv|xlsx|json [-out path]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	state := ledger.New(repo, log).Load(ctx)

	path := *outPath
	if path == "" {
		path = format.Filename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		log.Error("failed to create output file", "path", path, "error", err)
		os.Exit(1)
	}
	if err := export.Write(f, format, state, time.Local); err != nil {
		f.Close()
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		log.Error("failed to write output file", "path", path, "error", err)
		os.Exit(1)
	}

	log.Info("export complete", "format", format, "path", path, "logs", len(state.Logs))
}
