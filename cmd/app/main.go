package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opennergame/boxgame-server/internal/catalog"
	"github.com/opennergame/boxgame-server/internal/concurrency"
	"github.com/opennergame/boxgame-server/internal/config"
	"github.com/opennergame/boxgame-server/internal/database"
	"github.com/opennergame/boxgame-server/internal/database/postgres"
	"github.com/opennergame/boxgame-server/internal/economy"
	"github.com/opennergame/boxgame-server/internal/market"
	"github.com/opennergame/boxgame-server/internal/opening"
	"github.com/opennergame/boxgame-server/internal/ranking"
	"github.com/opennergame/boxgame-server/internal/server"
	"github.com/opennergame/boxgame-server/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)
	log := slog.Default()

	ctx := context.Background()

	connString := cfg.GetDBConnString()
	if err := database.Migrate(ctx, connString); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(connString,
		database.DefaultMaxConnections,
		database.DefaultMaxConnIdleTime,
		database.DefaultMaxConnLifetime)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	log.Info("Catalog loaded", "path", cfg.CatalogPath, "weapons", len(cat.Weapons()), "boxes", len(cat.Boxes()))

	ledgerStore := postgres.NewStore(dbPool)
	marketStore := postgres.NewMarketStore(dbPool)
	locks := concurrency.NewLockManager()

	openingService := opening.NewService(cat, ledgerStore, locks)
	economyService := economy.NewService(cat, ledgerStore, locks)
	marketService := market.NewService(marketStore, locks)

	rankingService, err := ranking.NewService(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Error("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	defer rankingService.Close()
	if !rankingService.Enabled() {
		log.Info("Rankings disabled, REDIS_ADDR not set")
	}

	pool := worker.NewPool(worker.DefaultWorkers, worker.DefaultQueueSize)
	pool.Start()
	incomeWorker := worker.NewIncomeWorker(economyService, pool, cfg.IncomeTickInterval)
	incomeWorker.Start()

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		dbPool,
		cat,
		openingService,
		economyService,
		marketService,
		rankingService,
		ledgerStore,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		log.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}

	incomeWorker.Stop()
	pool.Stop()

	log.Info("Shutdown complete")
}
