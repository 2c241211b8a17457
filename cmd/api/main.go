package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovn-tools/egresswatch/internal/api/handlers"
	"github.com/ovn-tools/egresswatch/internal/api/router"
	"github.com/ovn-tools/egresswatch/internal/config"
	"github.com/ovn-tools/egresswatch/internal/pkg/logger"
	"github.com/ovn-tools/egresswatch/internal/repository/sqlite"
	"github.com/ovn-tools/egresswatch/internal/runner"
	"github.com/ovn-tools/egresswatch/internal/services"
	"github.com/ovn-tools/egresswatch/internal/source"
	"github.com/ovn-tools/egresswatch/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	db, err := sqlite.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open metric store: %w", err)
	}
	defer db.Close()
	if err := sqlite.InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	execRunner := source.ExecRunner{}
	rules := source.NewDebugNodeSource(cfg.OVN, execRunner, log)
	desired := source.NewKubeDesiredStateSource(cfg.OVN, execRunner)
	cluster := source.NewKubeClusterSource(cfg.OVN, execRunner)

	var prom source.MetricsSource
	if p, err := source.NewPrometheusSource(cfg.Prometheus); err == nil {
		prom = p
	} else {
		log.ErrorWithErr(err, "prometheus source unavailable, network metrics disabled")
	}

	store := sqlite.NewMetricRepository(db)
	trendStore := sqlite.NewTrendRepository(db)

	analysisService := services.NewAnalysisService(rules, desired, store, cfg.OVN.Router, log)
	monitorService := services.NewMonitorService(rules, log)
	collectorService := services.NewCollectorService(desired, cluster, prom, store, log)
	trendService := services.NewTrendService(trendStore, log)
	runnerService := services.NewRunnerService(runner.NewGoTestRunner(log), store, log)

	handler := router.New(log, &router.Handlers{
		Health:   handlers.NewHealthHandler(db.DB),
		Analysis: handlers.NewAnalysisHandler(analysisService, log),
		Monitor:  handlers.NewMonitorHandler(monitorService, cfg.Monitor.Duration, cfg.Monitor.Interval, log),
		Trend:    handlers.NewTrendHandler(trendService, log),
		Summary:  handlers.NewSummaryHandler(store, log),
		PerfTest: handlers.NewPerfTestHandler(runnerService, log),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers
	if len(cfg.Collector.Nodes) > 0 {
		scanner := worker.NewRuleScanner(analysisService, cfg.Collector.Nodes, cfg.Collector.ScanInterval, log)
		go scanner.Start(ctx)
	}
	collector := worker.NewCollector(
		collectorService, trendService,
		cfg.Collector.Nodes,
		cfg.Collector.MetricsSchedule, cfg.Collector.TrendSchedule,
		cfg.Collector.TrendWindowDays,
		log,
	)
	go func() {
		if err := collector.Start(ctx); err != nil {
			log.ErrorWithErr(err, "collector worker failed")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API serving on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
