package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"maximus/auth/internal/config"
	"maximus/auth/internal/httpserver"
	"maximus/auth/internal/infrastructure/token"
	"maximus/auth/internal/logging"
	authusecase "maximus/auth/internal/usecase/auth"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	codec, err := token.NewJWTCodec(cfg.Secret())
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	authService := authusecase.NewService(codec, cfg.TokenTTL, logger.Named("auth"))

	server := httpserver.NewServer(cfg, authService, logger.Named("http"))
	logger.Info("HTTP server listening", zap.String("addr", server.Addr()), zap.Duration("token_ttl", authService.TTL()))

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				logger.Info("HTTP server closed", zap.Error(err))
				return
			}
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("graceful shutdown completed")
	}
}
