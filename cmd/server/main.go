package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kubeshield/audit-service/internal/api"
	"github.com/kubeshield/audit-service/internal/config"
	"github.com/kubeshield/audit-service/internal/sim"
	"github.com/kubeshield/audit-service/internal/store"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	cfgPath := flag.String("config", "configs/audit.yaml", "Path to YAML config")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Event store ───────────────────────────────────────────────────────────
	st := store.New(cfg.Storage.MaxEvents, store.WithMaxBuckets(cfg.Storage.MaxBuckets))
	slog.Info("event store ready", "max_events", cfg.Storage.MaxEvents, "max_buckets", cfg.Storage.MaxBuckets)

	// ── Simulation ────────────────────────────────────────────────────────────
	gen := sim.New(st.Add, time.Duration(cfg.Simulation.IntervalSeconds)*time.Second, *cfg.Simulation.Enabled)
	gen.Start()

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		gen.Reconfigure(time.Duration(newCfg.Simulation.IntervalSeconds)*time.Second, *newCfg.Simulation.Enabled)
		slog.Info("simulation settings reloaded",
			"enabled", *newCfg.Simulation.Enabled,
			"interval_seconds", newCfg.Simulation.IntervalSeconds)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}
	handler := api.New(st, gen, loader)
	srv := &http.Server{
		Addr:         listen,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	gen.Stop()
	slog.Info("goodbye")
}
