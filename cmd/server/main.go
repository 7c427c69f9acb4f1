package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/config"
	"github.com/arch-i-tect/api/internal/database"
	"github.com/arch-i-tect/api/internal/eventbus"
	"github.com/arch-i-tect/api/internal/generator"
	"github.com/arch-i-tect/api/internal/handlers"
	"github.com/arch-i-tect/api/internal/llm"
	"github.com/arch-i-tect/api/internal/metrics"
	"github.com/arch-i-tect/api/internal/middleware"
	"github.com/arch-i-tect/api/internal/store"
	"github.com/arch-i-tect/api/internal/telemetry"

	_ "github.com/arch-i-tect/api/docs" // Swagger docs
)

// @title Arch-I-Tect API
// @version 0.1.0
// @description Converts cloud architecture diagrams into Infrastructure as Code using vision language models.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	ctx := context.Background()

	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Arch-I-Tect API starting...",
		zap.String("version", "0.1.0"),
		zap.String("environment", os.Getenv("GO_ENV")),
	)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	// Telemetry is best effort; the collector may be down.
	shutdownTelemetry, err := telemetry.InitTracer(ctx, "arch-i-tect-api")
	if err != nil {
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	// NATS is optional: a nil bus drops events.
	var bus *eventbus.Bus
	if cfg.NATSURL != "" {
		bus, err = eventbus.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS, events disabled", zap.Error(err))
			bus = nil
		} else {
			defer bus.Close()
			logger.Info("connected to NATS")
			if err := bus.EnableJetStream(); err != nil {
				logger.Error("failed to init JetStream event stream", zap.Error(err))
			}
		}
	}

	// Postgres is optional: without it uploads are served from disk only
	// and the audit log is skipped.
	var db *database.Postgres
	if cfg.DatabaseURL != "" {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
		}
		db, err = database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database, audit log disabled", zap.Error(err))
			db = nil
		} else {
			defer db.Close()
			logger.Info("connected to database")
		}
	}

	// Redis is optional metadata cache.
	var rdb *database.Redis
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis, metadata cache disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Info("connected to redis")
		}
	}

	st, err := store.New(cfg.UploadDir, cfg.RetentionTTL, logger)
	if err != nil {
		logger.Fatal("failed to initialize upload store", zap.Error(err))
	}

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize model provider", zap.Error(err))
	}
	logger.Info("model provider configured", zap.String("provider", provider.Name()))
	if !provider.IsAvailable(ctx) {
		// Availability is rechecked per request; a cold Ollama instance
		// should not block startup.
		logger.Warn("model provider not reachable at startup", zap.String("provider", provider.Name()))
	}

	gen := generator.New(provider, logger)

	// Expired uploads are swept every hour.
	sweeper := cron.New()
	if cfg.RetentionTTL > 0 {
		if _, err := sweeper.AddFunc("@hourly", func() { st.Sweep(time.Now()) }); err != nil {
			logger.Error("failed to schedule retention sweep", zap.Error(err))
		}
		sweeper.Start()
		defer sweeper.Stop()
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", metrics.Handler())

	healthHandler := handlers.NewHealthHandler(db, rdb, provider, logger)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/deep", healthHandler.DeepHealth)

	uploadHandler := handlers.NewUploadHandler(st, db, rdb, bus, cfg, logger)
	generateHandler := handlers.NewGenerateHandler(st, db, bus, gen, logger)
	previewHandler := handlers.NewPreviewHandler(st, logger)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimiter))
	{
		upload := v1.Group("")
		upload.Use(middleware.RateLimitMiddleware(middleware.UploadRateLimiter))
		upload.POST("/upload", uploadHandler.Upload)

		generate := v1.Group("")
		generate.Use(middleware.RateLimitMiddleware(middleware.GenerateRateLimiter))
		generate.Use(middleware.CircuitBreakerMiddleware(middleware.ProviderCircuitBreaker))
		generate.POST("/generate", generateHandler.Generate)

		v1.GET("/preview/:image_id", previewHandler.Preview)
		v1.GET("/status/:image_id", previewHandler.Status)
	}

	// Write timeout must outlast a full vision inference round trip.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ProviderTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
