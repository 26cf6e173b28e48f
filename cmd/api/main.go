package main

// @title Road Damage Report API
// @version 1.0.0
// @description Бэкенд мобильного приложения для жалоб граждан на повреждения дорог. Ведёт пошаговый визард подачи отчёта (режим, фото, локация, AI-классификация, подтверждение), назначает отчётам административную зону по ближайшему центроиду, загружает фото в облачное хранилище и считает Road Health Index по зонам.

// @contact.name API Support
// @contact.email support@report-microservice.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/report-microservice/docs"
	"github.com/report-microservice/internal/config"
	httpDelivery "github.com/report-microservice/internal/delivery/http"
	"github.com/report-microservice/internal/delivery/http/handler"
	"github.com/report-microservice/internal/infrastructure/classifier"
	"github.com/report-microservice/internal/infrastructure/connectivity"
	"github.com/report-microservice/internal/infrastructure/nominatim"
	"github.com/report-microservice/internal/infrastructure/supabase"
	"github.com/report-microservice/internal/pkg/logger"
	"github.com/report-microservice/internal/repository/cache"
	"github.com/report-microservice/internal/repository/postgres"
	redisRepo "github.com/report-microservice/internal/repository/redis"
	"github.com/report-microservice/internal/usecase"
	"github.com/report-microservice/internal/zone"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Road Damage Report Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Load zone configuration
	zones, err := zone.LoadZones(cfg.Zones.File)
	if err != nil {
		log.Fatal("Failed to load zones", zap.Error(err))
	}
	locator := zone.NewLocator(zones, cfg.Zones.DefaultZone)
	log.Info("Zones loaded",
		zap.Int("count", len(zones)),
		zap.String("default_zone", cfg.Zones.DefaultZone))

	// 4. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 5. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 6. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 7. Initialize repositories and collaborator clients
	reportRepo := postgres.NewReportRepository(db)
	statsRepo := postgres.NewStatsRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	classifierClient := classifier.NewClient(&cfg.Classifier, log)
	geocoderClient := nominatim.NewClient(&cfg.Geocoder, log)
	storageClient := supabase.NewStorageClient(&cfg.Storage, log)
	sessionClient := supabase.NewSessionClient(&cfg.Session, log)
	connectivityChecker := connectivity.NewChecker(&cfg.Connectivity, log)

	log.Info("Repositories initialized")

	// 8. Initialize use cases
	flowStore := usecase.NewFlowStore(cfg.Flow.TTL, log)
	defer flowStore.Close()

	flowUC := usecase.NewReportFlowUseCase(
		flowStore,
		locator,
		classifierClient,
		geocoderClient,
		storageClient,
		connectivityChecker,
		reportRepo,
		streamRepo,
		log,
	)

	reportUC := usecase.NewReportUseCase(reportRepo, locator, log)

	statsUC := usecase.NewStatsUseCase(
		statsRepo,
		cacheRepo,
		locator,
		log,
		cfg.Cache.StatsCacheTTL,
	)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP handlers
	flowHandler := handler.NewReportFlowHandler(flowUC, log)
	reportHandler := handler.NewReportHandler(reportUC, log)
	zoneHandler := handler.NewZoneHandler(locator, log)
	statsHandler := handler.NewStatsHandler(statsUC, log)

	log.Info("HTTP handlers initialized")

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		sessionClient,
		flowHandler,
		reportHandler,
		zoneHandler,
		statsHandler,
	)

	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
