// Package web builds the fiber application of the JSON API.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClubAdmin/ClubAdmin/internal/access"
	"github.com/ClubAdmin/ClubAdmin/internal/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/config"
	fiberlog "github.com/ClubAdmin/ClubAdmin/internal/logger/adapter/fiber"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler"
	authhandler "github.com/ClubAdmin/ClubAdmin/internal/web/handler/auth"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/budget"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/clubs"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/documents"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/evenements"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/galas"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/mandats"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/membres"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/paiements"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/reunions"
	"github.com/ClubAdmin/ClubAdmin/internal/web/handler/users"
	authmiddleware "github.com/ClubAdmin/ClubAdmin/internal/web/middleware/auth"
)

const (
	// HealthPath answers 503 while the service drains.
	HealthPath = handler.RootPath + "health"
	// MetricsPath exposes the prometheus registry.
	MetricsPath = handler.RootPath + "metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	deps         *handler.Deps
}

// Start starts the web service on the given address.
// It returns once the server was shut down.
func (s *Service) Start(addr string) error {
	s.alive.Store(true)

	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so /health returns 503.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// SetAlive is used by tests and Start.
func (s *Service) SetAlive(alive bool) {
	s.alive.Store(alive)
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "shutting down"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, deps *handler.Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if deps == nil || deps.Auth == nil || deps.Gate == nil {
		panic("handler dependencies cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      bodyLimit(cfg),
			ErrorHandler:   ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New())
	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
		CallerKey:     access.LocalsCaller,
	}))

	if cfg.Webserver.URL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.Webserver.URL,
			AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
			ExposeHeaders: "X-Total-Count, X-Page, X-Page-Size, X-Total-Pages",
		}))
	}

	service := &Service{
		cfg:  cfg,
		App:  app,
		db:   db,
		deps: deps,
	}

	app.Get(HealthPath, service.health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// every /api path needs a bearer token, except login
	app.Use(authmiddleware.New(authmiddleware.Config{
		Prefix: handler.APIPath,
		Public: []string{authhandler.LoginPath},
		Bearer: auth.Bearer(deps.Auth.Tokens(), deps.Auth.Revocations()),
	}))

	// init handlers (they register their own routes with access checks)
	authhandler.Handler.Init(app, cfg, db, deps)
	users.Handler.Init(app, cfg, db, deps)
	clubs.Handler.Init(app, cfg, db, deps)
	membres.Handler.Init(app, cfg, db, deps)
	mandats.Handler.Init(app, cfg, db, deps)
	budget.Handler.Init(app, cfg, db, deps)
	evenements.Handler.Init(app, cfg, db, deps)
	galas.Handler.Init(app, cfg, db, deps)
	reunions.Handler.Init(app, cfg, db, deps)
	documents.Handler.Init(app, cfg, db, deps)
	paiements.Handler.Init(app, cfg, db, deps)

	return service
}

func bodyLimit(cfg *config.Config) int {
	if cfg.Webserver.BodyLimit > 0 {
		return cfg.Webserver.BodyLimit
	}

	// uploads are bounded by the blob store, leave room for the multipart envelope
	if cfg.Blob.MaxSize > 0 {
		return int(cfg.Blob.MaxSize) + 1<<20
	}

	return fiber.DefaultBodyLimit
}
