package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/library-seat-api/api/swagger"
	"github.com/noah-isme/library-seat-api/internal/handler"
	"github.com/noah-isme/library-seat-api/internal/middleware"
	"github.com/noah-isme/library-seat-api/internal/realtime"
	"github.com/noah-isme/library-seat-api/internal/repository"
	"github.com/noah-isme/library-seat-api/internal/router"
	"github.com/noah-isme/library-seat-api/internal/service"
	"github.com/noah-isme/library-seat-api/pkg/cache"
	"github.com/noah-isme/library-seat-api/pkg/config"
	"github.com/noah-isme/library-seat-api/pkg/database"
	"github.com/noah-isme/library-seat-api/pkg/events"
	"github.com/noah-isme/library-seat-api/pkg/jobs"
	"github.com/noah-isme/library-seat-api/pkg/logger"
	"github.com/noah-isme/library-seat-api/pkg/middleware/cors"
)

// @title Library Seat API
// @version 1.0.0
// @description Real-time seat reservations for the library study room
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, logr); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if cfg.Database.SeedDefaults {
		if err := database.Seed(ctx, db, logr); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, cache and rate limit disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, redisClient != nil)

	students := repository.NewStudentRepository(db)
	shifts := repository.NewShiftRepository(db)
	query := service.NewQueryService(db, repository.NewProjectionRepository(db), shifts, students, cacheSvc,
		service.QueryConfig{Location: cfg.Location(), CacheTTL: cfg.Cache.TTL}, logr)

	hub := realtime.NewHub(query, realtime.Config{Buffer: cfg.Broadcast.Buffer}, logr, metrics)
	defer hub.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQP.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logr)
		if err != nil {
			logr.Warn("amqp unavailable, events will not be mirrored", zap.Error(err))
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close() //nolint:errcheck

	broadcast := service.NewBroadcastService(hub, publisher, logr)
	dispatcher := jobs.NewQueue("broadcast", broadcast.Handle, jobs.QueueConfig{
		Workers:    cfg.Broadcast.Workers,
		MaxRetries: 2,
		RetryDelay: 200 * time.Millisecond,
		Logger:     logr,
	})
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()
	broadcast.AttachQueue(dispatcher)

	validate := service.NewValidator()
	booking := service.NewBookingService(db, service.BookingRepositories{
		Students: students,
		Shifts:   shifts,
		Seats:    repository.NewSeatRepository(db),
		Bookings: repository.NewBookingRepository(db),
	}, query, broadcast, metrics, validate, service.BookingConfig{Location: cfg.Location()}, logr)

	auth := service.NewAuthService(validate, logr, service.AuthConfig{
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})
	exports := service.NewExportService(query, cfg.Location(), logr)

	policy := cors.NewPolicy(cfg.CORS.AllowedOrigins)
	deps := router.Dependencies{
		Config:      cfg,
		Logger:      logr,
		Metrics:     metrics,
		CORS:        policy,
		Projections: handler.NewProjectionHandler(query),
		Bookings:    handler.NewBookingHandler(booking),
		Export:      handler.NewExportHandler(exports),
		Auth:        handler.NewAuthHandler(auth),
		Probes:      handler.NewMetricsHandler(metrics, db),
		Realtime: realtime.NewWebsocketHandler(hub, realtime.WebsocketConfig{
			WriteTimeout: cfg.Broadcast.WriteTimeout,
			AllowOrigin:  policy.Allowed,
		}),
		Tokens: auth,
	}
	if redisClient != nil {
		deps.Limiter = middleware.NewTokenBucket(redisClient, cfg.RateLimit)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
