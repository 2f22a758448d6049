package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/config"
	"github.com/dukerupert/choretracker/internal/database"
	"github.com/dukerupert/choretracker/internal/logging"
	"github.com/dukerupert/choretracker/internal/scheduler"
	"github.com/dukerupert/choretracker/internal/seed"
	"github.com/dukerupert/choretracker/internal/server"
	"github.com/dukerupert/choretracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	clk := clock.System{Location: cfg.Location}

	srv := server.New(db, clk, logger)
	if err := srv.Load(); err != nil {
		slog.Error("failed to load chores", "error", err)
		os.Exit(1)
	}

	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			slog.Error("failed to read seed file", "error", err)
			os.Exit(1)
		}
		seeder := seed.NewSeeder(store.NewChoreStore(db), store.NewMemberStore(db), srv.Tracker(), clk, logger.With("component", "seed"))
		res, err := seeder.Apply(f)
		if err != nil {
			slog.Error("failed to apply seed file", "error", err)
			os.Exit(1)
		}
		slog.Info("seed applied",
			"members_created", res.MembersCreated,
			"chores_created", res.ChoresCreated,
			"chores_skipped", res.ChoresSkipped,
		)
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	rollover := scheduler.New(clk, srv.Tracker(), srv.Hub(), cfg.RolloverInterval, logger.With("component", "scheduler"))
	rollover.Start(bgCtx)

	go srv.RateLimiter().RunCleanup(bgCtx, time.Hour)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("chore tracker starting", "addr", ":"+cfg.Port, "timezone", cfg.Location.String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	rollover.Stop()
	bgCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
