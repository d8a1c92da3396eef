// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snapppay-gateway/internal/config"
	payAdapters "snapppay-gateway/internal/infra/adapters/payment"
	"snapppay-gateway/internal/infra/api"
	pg "snapppay-gateway/internal/infra/db/postgres"
	"snapppay-gateway/internal/infra/logging"
	"snapppay-gateway/internal/infra/metrics"
	red "snapppay-gateway/internal/infra/redis"
	"snapppay-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Gateway (authenticates at construction) ----
	gw, err := payAdapters.NewSnappPayGateway(ctx, cfg.Payment.SnappPay, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("snapppay gateway")
	}
	logger.Info().
		Str("base_url", cfg.Payment.SnappPay.BaseURL).
		Str("client_id", logging.Redact(cfg.Payment.SnappPay.ClientID, cfg.Runtime.Dev)).
		Msg("gateway authenticated")

	// ---- Repositories / use cases ----
	payRepo := pg.NewPaymentRepo(pool)
	payUC := usecase.NewPaymentUseCase(payRepo, gw, locker, cfg.Payment.SnappPay.Currency, cfg.Payment.SnappPay.CallbackURL, logger)

	// ---- HTTP callback server ----
	mux := http.NewServeMux()
	api.NewServer(payUC, cfg.API.CallbackPath, "", logger).Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: mux,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("callback", cfg.API.CallbackPath).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
