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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/limo-transfers/service-quote/internal/application"
	"github.com/limo-transfers/service-quote/internal/cache"
	"github.com/limo-transfers/service-quote/internal/config"
	"github.com/limo-transfers/service-quote/internal/distance"
	"github.com/limo-transfers/service-quote/internal/domain/quote"
	"github.com/limo-transfers/service-quote/internal/events"
	"github.com/limo-transfers/service-quote/internal/handler"
	"github.com/limo-transfers/service-quote/internal/platform/database"
	"github.com/limo-transfers/service-quote/internal/platform/kafka"
	"github.com/limo-transfers/service-quote/internal/platform/logger"
	"github.com/limo-transfers/service-quote/internal/platform/middleware"
	"github.com/limo-transfers/service-quote/internal/ratelimit"
)

const serviceName = "service-quote"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend),
		zap.Bool("maps_enabled", cfg.Maps.APIKey != ""),
	)
	if cfg.APIKey == "" {
		log.Warn("QUOTE_API_KEY is empty, API key check disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis when a tier needs it
	var redisClient *redis.Client
	if cfg.Cache.Backend == config.BackendRedis || cfg.RateLimit.Backend == config.BackendRedis {
		redisClient, err = connectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to redis")
	}

	// Connect to the database for the postgres cache tier
	var db *gorm.DB
	if cfg.Cache.Backend == config.BackendPostgres {
		db, err = database.Connect(cfg.DBConfig, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() { _ = database.Close(db) }()
	}

	// Initialize Kafka producer
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = kafkaProducer.Close() }()
		publisher = events.NewKafkaPublisher(kafkaProducer, cfg.KafkaConfig.Topic, log)
	} else {
		log.Info("no kafka brokers configured, events disabled")
	}

	// Initialize distance cache
	distanceCache, err := newDistanceCache(ctx, cfg, redisClient, db, log)
	if err != nil {
		log.Fatal("failed to initialize distance cache", zap.Error(err))
	}

	// Initialize distance provider
	var provider quote.DistanceProvider
	if cfg.Maps.APIKey != "" {
		google, err := distance.NewGoogleMatrixProvider(cfg.Maps.APIKey, cfg.Maps.BaseURL, nil)
		if err != nil {
			log.Fatal("failed to initialize distance provider", zap.Error(err))
		}
		provider = google
	} else {
		log.Warn("QUOTE_MAPS_API_KEY is empty, quotes use rough distance estimates")
	}

	// Initialize pricing strategy
	tariff, err := cfg.Tariff()
	if err != nil {
		log.Fatal("failed to build tariff", zap.Error(err))
	}
	fallback, err := cfg.FallbackEstimator()
	if err != nil {
		log.Fatal("failed to build fallback estimator", zap.Error(err))
	}
	pricingStrategy := quote.NewStandardPricingStrategy(tariff)

	// Initialize application services
	resolver := application.NewQuoteResolver(
		provider,
		distanceCache,
		pricingStrategy,
		fallback,
		publisher,
		log,
		cfg.Maps.Timeout,
		tariff.Currency,
	)
	bookingService := application.NewBookingService(resolver, publisher, log)

	// Initialize HTTP handlers
	pingHandler := handler.NewPingHandler(serviceName, resolver, cfg.Cache.Backend)
	quoteHandler := handler.NewQuoteHandler(resolver)
	bookingHandler := handler.NewBookingHandler(bookingService)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register routes
	protected := middleware.ProtectedChain(cfg.APIKey, newLimiter(ctx, cfg, redisClient), log)
	pingHandler.RegisterRoutes(&router.RouterGroup)
	quoteHandler.RegisterRoutes(&router.RouterGroup, protected...)
	bookingHandler.RegisterRoutes(&router.RouterGroup, protected...)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Stop background sweepers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// newDistanceCache returns the configured cache tier, or nil for "none".
func newDistanceCache(ctx context.Context, cfg *config.ServiceConfig, redisClient *redis.Client, db *gorm.DB, log *zap.Logger) (quote.DistanceCache, error) {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(redisClient, cfg.Cache.TTL), nil

	case config.BackendPostgres:
		gormCache := cache.NewGormCache(db, cfg.Cache.TTL, nil)
		if err := gormCache.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate distance cache: %w", err)
		}
		go sweep(ctx, time.Hour, func() {
			n, err := gormCache.DeleteExpired(ctx)
			if err != nil {
				log.Warn("distance cache cleanup failed", zap.Error(err))
				return
			}
			log.Debug("distance cache cleanup", zap.Int64("deleted", n))
		})
		return gormCache, nil

	case config.BackendNone:
		return nil, nil

	default:
		memCache := cache.NewMemoryCache(cfg.Cache.TTL, nil)
		go memCache.RunJanitor(ctx, 10*time.Minute)
		return memCache, nil
	}
}

// newLimiter returns the configured rate limiter, or nil when limiting is off.
func newLimiter(ctx context.Context, cfg *config.ServiceConfig, redisClient *redis.Client) ratelimit.Limiter {
	switch cfg.RateLimit.Backend {
	case config.BackendNone:
		return nil
	case config.BackendRedis:
		return ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.Max, cfg.RateLimit.Window)
	default:
		limiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window, nil)
		go sweep(ctx, cfg.RateLimit.Window, func() { limiter.Sweep() })
		return limiter
	}
}

func sweep(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
