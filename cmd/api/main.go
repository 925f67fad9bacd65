package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/go-fund-backend/config"
	httpapi "github.com/GoSim-25-26J-441/go-fund-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/auth"
	authmw "github.com/GoSim-25-26J-441/go-fund-backend/internal/auth/middleware"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/db"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/logger"
	cronjob "github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/cron"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/events"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/service"
)

const serviceName = "go-fund-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)
	ctx := context.Background()

	var (
		pool        *pgxpool.Pool
		redisClient *redis.Client
		store       repository.Store
	)

	if cfg.App.StoreBackend == "redis" || cfg.App.EventsBackend == "redis" {
		redisClient, err = db.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	switch cfg.App.StoreBackend {
	case "postgres":
		pool, err = db.OpenPostgres(ctx, cfg.Database, db.Options{})
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		pg := repository.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure schema", zap.Error(err))
		}
		store = pg
	case "redis":
		store = repository.NewRedisStore(redisClient)
	}
	log.Info("Project store ready", zap.String("backend", cfg.App.StoreBackend))

	var publisher events.Publisher = events.Nop{}
	switch cfg.App.EventsBackend {
	case "redis":
		publisher = events.NewRedisPublisher(redisClient)
	case "amqp":
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		publisher = amqpPub
	}
	defer publisher.Close()

	svc := service.NewProjectService(store, service.Options{
		CostPeriodDays: cfg.Funding.CostPeriodDays,
		Publisher:      publisher,
		Logger:         log,
	})

	authMiddleware, err := buildAuth(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize auth", zap.Error(err))
	}

	deps := bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Auth:           authMiddleware,
		Projects:       svc,
		Logger:         log,
	}
	if pool != nil {
		deps.DB = pool
	}
	if redisClient != nil {
		deps.Redis = httpapi.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}
	router := bootstrap.BuildRouter(deps)

	scheduler := cronjob.NewScheduler(svc, cfg.Funding.OrphanSweepCron, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start cron scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	log.Info("Shutdown complete")
}

func buildAuth(ctx context.Context, cfg *config.Config, log *zap.Logger) (gin.HandlerFunc, error) {
	if cfg.Firebase.AuthMode == "header" {
		log.Warn("AUTH_MODE=header trusts X-User-* headers; do not use in production")
		return authmw.HeaderAuth(), nil
	}
	verifier, err := auth.NewTokenVerifier(ctx, cfg.Firebase)
	if err != nil {
		return nil, err
	}
	return authmw.FirebaseAuthMiddleware(verifier), nil
}
