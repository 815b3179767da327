package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"commissions/internal/cli"
	"commissions/internal/core"
	apphttp "commissions/internal/http"
	applog "commissions/internal/log"
	"commissions/internal/sales/memory"
	"commissions/internal/services"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cli.SetupLogger(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	store, err := memory.NewFromDataset()
	if err != nil {
		cli.Fatal(logger, "Failed to load embedded sales dataset", err)
	}
	svc := services.NewReportService(store, cli.NewPublisher(cfg, logger), logger)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		CurrencySymbol:     cfg.CurrencySymbol,
		DefaultSort:        core.SortKey(cfg.DefaultSort),
		DefaultDirection:   core.Direction(cfg.DefaultDirection),
		CacheSize:          cfg.CacheSize,
		CacheTTL:           cfg.CacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, logger)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize HTTP server", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting commissions server", "port", cfg.Port, applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		report, err := svc.Generate(gctx)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
		srv.SetReport(report)
		return nil
	})

	g.Go(func() error {
		return srv.RunMaintenance(gctx, cfg.CacheTTL)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	runErr := g.Wait()
	if err := svc.Close(); err != nil {
		logger.Error("Failed to close report service", applog.FieldError, err)
	}
	if runErr != nil {
		cli.Fatal(logger, "Server error", runErr)
	}
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
