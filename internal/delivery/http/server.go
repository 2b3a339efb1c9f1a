package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/digital-profile/internal/config"
	"github.com/digital-profile/internal/delivery/http/handler"
	"github.com/digital-profile/internal/delivery/http/middleware"
	"github.com/digital-profile/internal/pkg/errors"
	"github.com/digital-profile/internal/pkg/metrics"
	"github.com/digital-profile/internal/pkg/utils"
)

// HealthChecker - dependency probed by the health endpoint
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server - HTTP server on top of Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	checks  map[string]HealthChecker

	entityHandler       *handler.EntityHandler
	demographicsHandler *handler.DemographicsHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	checks map[string]HealthChecker,
	entityHandler *handler.EntityHandler,
	demographicsHandler *handler.DemographicsHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Digital Profile",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		metrics:             m,
		checks:              checks,
		entityHandler:       entityHandler,
		demographicsHandler: demographicsHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App exposes the router for in-process tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(middleware.Metrics(s.metrics))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api/v1")
	api.Get("/health", s.health)

	writeGuard := middleware.RequireRole(middleware.AuthConfig{
		Secret:  s.config.Auth.JWTSecret,
		Issuer:  s.config.Auth.TokenIssuer,
		Leeway:  s.config.Auth.AllowedSkew,
		Allowed: s.config.Auth.WriteRoles,
	}, s.logger)

	entities := api.Group("/entities")
	entities.Get("/:kind", s.entityHandler.List)
	entities.Post("/:kind/search", s.entityHandler.Search)
	entities.Get("/:kind/slug/:slug", s.entityHandler.GetBySlug)
	entities.Get("/:kind/:id", s.entityHandler.GetByID)
	entities.Post("/:kind", writeGuard, s.entityHandler.Create)
	entities.Patch("/:kind/:id", writeGuard, s.entityHandler.Update)
	entities.Delete("/:kind/:id", writeGuard, s.entityHandler.Delete)

	demographics := api.Group("/demographics")
	demographics.Get("/wards", s.demographicsHandler.ListWards)
	demographics.Get("/summary", s.demographicsHandler.GetSummary)
}

// health godoc
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := fiber.StatusOK
	deps := make(fiber.Map, len(s.checks))
	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
		"time":         time.Now(),
	})
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown, in-flight requests finish within ctx
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - errors escaping handlers (routing misses, body limits,
// panics turned into errors) leave in the same shape as handler errors
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			appErr := errors.New(httpCode(fe.Code), fe.Message, fe.Code)
			if fe.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", fe.Code), zap.Error(err))
			}
			return utils.SendError(c, appErr)
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}

func httpCode(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return errors.CodeNotFound
	case status == fiber.StatusUnauthorized:
		return errors.CodeUnauthorized
	case status >= fiber.StatusInternalServerError:
		return errors.CodeInternalServer
	default:
		return errors.CodeBadRequest
	}
}
