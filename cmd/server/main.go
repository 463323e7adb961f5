package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/ruimartins/fundsight-backend/internal/adapter/http"
	"github.com/ruimartins/fundsight-backend/internal/adapter/repository/postgres"
	"github.com/ruimartins/fundsight-backend/internal/config"
	"github.com/ruimartins/fundsight-backend/internal/scheduler"
	"github.com/ruimartins/fundsight-backend/internal/usecase/confidence"
	"github.com/ruimartins/fundsight-backend/internal/usecase/projection"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// 2. Setup database
	db, err := postgres.NewDB(cfg.ConnString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. Initialize repositories
	walletRepo := postgres.NewWalletRepository(db)
	incomeSourceRepo := postgres.NewIncomeSourceRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	plannedExpenseRepo := postgres.NewPlannedExpenseRepository(db)

	// 4. Initialize the confidence engine
	extrapolator := projection.NewExtrapolator(transactionRepo, nil)
	confidenceService := confidence.NewService(
		walletRepo,
		incomeSourceRepo,
		plannedExpenseRepo,
		extrapolator,
		nil,
		logger,
	)

	// 5. Debounced refresh queue and nightly recompute
	refreshQueue := confidence.NewRefreshQueue(confidenceService, cfg.Confidence.RefreshDebounce, logger)
	refreshQueue.Start()
	defer refreshQueue.Stop()

	sched := scheduler.NewScheduler(confidenceService, plannedExpenseRepo, logger)
	if err := sched.Register(cfg.Confidence.NightlyCron); err != nil {
		logger.Error("failed to register scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	// 6. Start HTTP server
	apiServer := httpadapter.NewServer(confidenceService, refreshQueue, logger)
	httpServer := &nethttp.Server{
		Addr:    cfg.HTTP.ListenAddr,
		Handler: apiServer.Router(cfg.HTTP.APIToken),
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(httpServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server
func waitForShutdown(httpServer *nethttp.Server, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	logger.Info("http server stopped")
}
