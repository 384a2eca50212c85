// Package web builds the fiber application and runs the http server.
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
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db"
	fiberlog "github.com/apitemplate/apitemplate/internal/logger/adapter/fiber"
	"github.com/apitemplate/apitemplate/internal/web/handler"
	"github.com/apitemplate/apitemplate/internal/web/handler/item"
)

const (
	// HealthPath is the liveness endpoint used by load balancers.
	HealthPath = "/health"

	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("fiber listen error")
			doneFiber <- err

			return
		}

		doneFiber <- nil
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown marks the service unhealthy, waits the configured shutdown time
// for load balancers to drain it and stops fiber.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
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

// Alive reports whether the service answers health checks with 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration. The gorm
// handle is the one every request session is derived from.
func New(cfg *config.Config, gdb *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if gdb == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: cfg.Webserver.ReadBufferSize,
			AppName:        cfg.App.Name,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   errorHandler,
		},
	)

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
		Metrics:       true,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(db.Session(gdb))

	service := &Service{
		cfg: cfg,
		App: app,
		db:  gdb,
		// in dev mode nobody sits in front of the server
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	app.Get(HealthPath, service.health)
	app.Get(handler.RootPath, service.root)

	routers := []handler.Service{
		&item.Handler,
	}

	for _, h := range routers {
		if err := h.Init(app, cfg, gdb); err != nil {
			log.Fatal().Err(err).Msg(handler.ErrNilACDFatalLogMsg)
		}
	}

	return service
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "shutting down"})
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.cfg.App.Version,
		"debug":   s.cfg.DevMode,
	})
}

func (s *Service) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to " + s.cfg.App.Name,
		"health":  HealthPath,
		"items":   item.Path,
	})
}

// errorHandler renders errors returned by handlers as {"detail": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"detail": msg})
}
