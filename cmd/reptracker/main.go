package main

import (
	"context"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/reptracker/internal/config"
	"github.com/claude/reptracker/internal/datekey"
	"github.com/claude/reptracker/internal/ledger"
	"github.com/claude/reptracker/internal/logging"
	"github.com/claude/reptracker/internal/mcp"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/server"
	"github.com/claude/reptracker/internal/storage"
	"github.com/claude/reptracker/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ephemeral := flag.Bool("ephemeral", false, "keep the ledger in memory only")
	flag.Parse()

	boot := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *ephemeral {
		cfg.Storage.Driver = config.DriverMemory
	}

	log, logCloser, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		boot.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log.Info("reptracker starting", "version", Version, "storage", cfg.Storage.Driver)

	ctx := context.Background()
	repo, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	store := ledger.New(repo, log)
	state := store.Load(ctx)
	log.Info("ledger loaded", "types", len(state.Types), "logs", len(state.Logs))

	svc := tracker.NewService(store, repo, log)

	reg := server.SetupRegistry()
	metrics := server.NewMetrics(reg)
	metrics.RegisterLedger(reg, store.State, datekey.Today)
	metrics.GaugeLastChange.SetToCurrentTime()
	unsubscribe := store.Subscribe(func(models.AppState) {
		metrics.GaugeLastChange.SetToCurrentTime()
	})
	defer unsubscribe()

	srv := server.New(svc, reg, metrics, log)
	if cfg.MCP.Enabled {
		srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(svc, Version, log)))
		log.Info("mcp endpoint enabled", "path", "/mcp")
	}

	// Listen on the tailnet when enabled, otherwise on the configured address.
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := cfg.Server.Addr()
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
