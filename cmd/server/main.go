package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/apihunt/internal/config"
	"github.com/playperu/apihunt/internal/database"
	"github.com/playperu/apihunt/internal/handler/health"
	"github.com/playperu/apihunt/internal/hunt"
	"github.com/playperu/apihunt/internal/migrations"
	"github.com/playperu/apihunt/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Catalog ---
	catalog := hunt.Default()
	if cfg.CatalogPath != "" {
		catalog, err = hunt.LoadFile(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("loading catalog %s: %w", cfg.CatalogPath, err)
		}
	}
	logger.Info("clue catalog loaded",
		"clues", catalog.Clues.Len(),
		"start", catalog.Clues.Start(),
		"terminal", catalog.Clues.Terminal(),
	)

	engine := hunt.NewEngine(
		hunt.WithCatalog(catalog),
		hunt.WithLatency(cfg.SimulatedLatency),
	)

	// --- Sessions (libSQL) ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	version, err := migrations.Run(db, logger)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath, "schema_version", version)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine: engine,
		Store:  server.NewDocStore(db),
		Checks: map[string]health.Checker{
			"sessions": health.CheckerFunc(db.PingContext),
		},
		RequestTimeout: cfg.RequestTimeout,
		SPADir:         cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "latency", cfg.SimulatedLatency)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
