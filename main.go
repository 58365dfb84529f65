package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"clothstore/internal/app"
	"clothstore/internal/config"
	"clothstore/internal/database"
	"clothstore/internal/locker"
	"clothstore/internal/logger"
	"clothstore/internal/services"
	"clothstore/internal/storage"
	"clothstore/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.IsProduction())
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	// --- RabbitMQ ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log.Named("rabbitmq"))
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient

		auditor := services.NewOrderEventAuditor(log.Named("audit"))
		if err := mqClient.ConsumeOrderEvents(auditor.Handle); err != nil {
			log.Error("failed to start order events consumer", zap.Error(err))
		}
	} else {
		log.Warn("RABBITMQ_URL not set, order events are disabled")
	}

	// --- Cart locker ---
	var cartLocker locker.Locker = locker.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		client, err := locker.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer client.Close()
		cartLocker = locker.NewRedisLocker(client, cfg.Redis.LockTTL, log.Named("locker"))
	} else {
		log.Warn("REDIS_ADDR not set, cart locks are local to this process")
	}

	// --- Image storage ---
	var images storage.ImageStorage = storage.NewStubStorage()
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage, log.Named("storage"))
		if err != nil {
			log.Fatal("failed to initialize image storage", zap.Error(err))
		}
		images = s3Storage
	}

	application := app.New(cfg, app.Deps{
		DB:        db,
		Logger:    log,
		Publisher: publisher,
		Locker:    cartLocker,
		Storage:   images,
	})

	// --- Start HTTP Server ---
	go func() {
		log.Info("starting server", zap.String("addr", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := application.Listen(cfg.App.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	if err := application.Shutdown(10 * time.Second); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}
