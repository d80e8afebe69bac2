package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	account "auction-site/internal/accountService"
	"auction-site/internal/alarm"
	bidding "auction-site/internal/biddingService"
	"auction-site/internal/config"
	"auction-site/internal/events"
	"auction-site/internal/repository"
	"auction-site/internal/server"
	session "auction-site/internal/sessionService"
	"auction-site/services/auction/handler"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("failed to load configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.Log.Level); err != nil {
		utils.Fatal("invalid log level", map[string]any{"error": err.Error()})
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		utils.Fatal("failed to open store", map[string]any{
			"driver": cfg.Store.Driver,
			"error":  err.Error(),
		})
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg.Events)
	if err != nil {
		utils.Fatal("failed to connect to event bus", map[string]any{"error": err.Error()})
	}
	defer closePublisher()

	clock := alarm.NewSystem()
	sessions := session.NewSessionService(store, clock)
	registry := account.NewRegistry(store, clock, sessions, account.Options{
		SweepInterval: cfg.Alarm.SweepInterval,
		BcryptCost:    cfg.Auth.BcryptCost,
		Publisher:     publisher,
	})
	defer registry.Close()

	services := handler.Services{
		Registry:       registry,
		SessionService: sessions,
		BiddingService: bidding.NewBiddingService(store, clock, publisher),
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: server.SetupRouter(services),
	}

	go func() {
		utils.Info("starting auction server", map[string]any{
			"addr":   srv.Addr,
			"driver": cfg.Store.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("server stopped unexpectedly", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down auction server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}

// openStore builds the configured backend behind the retrying decorator
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := repository.Migrate(ctx, cfg.DSN); err != nil {
			return nil, nil, err
		}
		repo, err := repository.OpenPostgres(ctx, cfg.DSN, cfg.Timeout)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := repo.Close(); err != nil {
				utils.Warn("failed to close store", map[string]any{"error": err.Error()})
			}
		}
		return repository.WithRetry(repo, cfg.MaxRetries), closeFn, nil
	default:
		return repository.WithRetry(repository.NewMemoryRepo(), cfg.MaxRetries), func() {}, nil
	}
}

// openPublisher connects to NATS when a URL is configured
func openPublisher(cfg config.EventsConfig) (events.Publisher, func(), error) {
	if cfg.NATSURL == "" {
		return events.Nop{}, func() {}, nil
	}
	pub, err := events.NewNATS(cfg.NATSURL)
	if err != nil {
		return nil, nil, err
	}
	return pub, pub.Close, nil
}
