package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/report-microservice/internal/config"
	"github.com/report-microservice/internal/delivery/http/handler"
	"github.com/report-microservice/internal/delivery/http/middleware"
	"github.com/report-microservice/internal/domain/repository"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	sessionRepo repository.SessionRepository

	// Handlers
	flowHandler   *handler.ReportFlowHandler
	reportHandler *handler.ReportHandler
	zoneHandler   *handler.ZoneHandler
	statsHandler  *handler.StatsHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	sessionRepo repository.SessionRepository,
	flowHandler *handler.ReportFlowHandler,
	reportHandler *handler.ReportHandler,
	zoneHandler *handler.ZoneHandler,
	statsHandler *handler.StatsHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Road Damage Report Microservice",
		BodyLimit:    12 << 20, // фото до 10 MB плюс накладные multipart
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		sessionRepo:   sessionRepo,
		flowHandler:   flowHandler,
		reportHandler: reportHandler,
		zoneHandler:   zoneHandler,
		statsHandler:  statsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Zone routes - публичные: каталог нужен приложению до логина
	api.Get("/zones", s.zoneHandler.ListZones)
	api.Get("/zones/detect", s.zoneHandler.DetectZone)

	auth := middleware.Auth(s.sessionRepo)

	// Report flow routes - визард подачи отчёта
	flows := api.Group("/report-flows", auth)
	flows.Post("/", s.flowHandler.StartFlow)
	flows.Get("/:id", s.flowHandler.GetFlow)
	flows.Delete("/:id", s.flowHandler.CancelFlow)
	flows.Post("/:id/mode", s.flowHandler.SelectMode)
	flows.Post("/:id/photo", s.flowHandler.AttachPhoto)
	flows.Post("/:id/location/refresh", s.flowHandler.RefreshLocation)
	flows.Post("/:id/location/confirm", s.flowHandler.ConfirmLocation)
	flows.Post("/:id/decision", s.flowHandler.ResolveDecision)
	flows.Post("/:id/submit", s.flowHandler.Submit)

	// Report routes
	api.Get("/reports/my", auth, s.reportHandler.ListMyReports)
	api.Get("/reports/:id", auth, s.reportHandler.GetReport)
	api.Patch("/reports/:id/status", auth, s.reportHandler.UpdateStatus)
	api.Get("/zones/:zone/reports", auth, s.reportHandler.ListZoneReports)

	// Analytics routes
	api.Get("/analytics/zones/:zone", auth, s.statsHandler.ZoneAnalytics)
	api.Get("/analytics/city", auth, s.statsHandler.CityAnalytics)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
