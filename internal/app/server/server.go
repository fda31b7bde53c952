package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdeck/linkdeck/internal/app/service"
	"github.com/linkdeck/linkdeck/internal/http/handler"
	"github.com/linkdeck/linkdeck/internal/http/middleware"
	"github.com/linkdeck/linkdeck/internal/http/util"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server needs: infrastructure
// handles plus the domain services the handlers delegate to.
type Dependencies struct {
	Logger    *zap.Logger
	Postgres  *pgxpool.Pool
	Redis     *redis.Client
	NATS      *nats.Conn
	JetStream nats.JetStreamContext

	Resolver  service.ResolverService
	Links     service.LinkService
	Pages     service.PageService
	Presets   service.PresetService
	Analytics service.AnalyticsService

	Signer    *util.TokenSigner
	RateLimit middleware.RateLimitConfig
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with all routes registered.
func New(deps Dependencies) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.CORS())
	if s.deps.Redis != nil {
		s.app.Use(middleware.RateLimit(s.deps.Redis, s.deps.RateLimit, s.deps.Logger))
	}
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api", middleware.Auth(s.deps.Signer))

	handler.NewLinkHandler(handler.LinkDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.Links,
	}).Register(api)

	handler.NewPageHandler(handler.PageDeps{
		Logger:      s.deps.Logger,
		PageService: s.deps.Pages,
	}).Register(api)

	handler.NewPresetHandler(handler.PresetDeps{
		Logger:        s.deps.Logger,
		PresetService: s.deps.Presets,
	}).Register(api)

	handler.NewAnalyticsHandler(handler.AnalyticsDeps{
		Logger:           s.deps.Logger,
		AnalyticsService: s.deps.Analytics,
	}).Register(api)

	// The catch-all goes last so /api and the health endpoints keep their paths.
	handler.NewResolveHandler(handler.ResolveDeps{
		Logger:   s.deps.Logger,
		Resolver: s.deps.Resolver,
		Signer:   s.deps.Signer,
	}).Register(s.app)
}
