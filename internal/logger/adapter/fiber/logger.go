// Package fiber implements a zerolog based access log and request metrics middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/apitemplate/apitemplate/internal/logger"
)

// HeaderResponseTime carries the handling time in seconds.
const HeaderResponseTime = "X-Response-Time"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CacheControlError max-age caching on chain errors.
	CacheControlError string

	// CheckAliveURI for disabling logging of health check calls.
	CheckAliveURI string

	// Output replaces stdout as console destination.
	//
	// Optional. Default: os.Stdout
	Output io.Writer

	// Metrics records request counts and durations per route.
	Metrics bool
}

// ConfigDefault is the default config for fiber.
var ConfigDefault = Config{
	Next:              nil,
	CacheControlError: "max-age=0",
	CheckAliveURI:     "/health",
	Output:            os.Stdout,
}

func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.CacheControlError == "" {
		cfg.CacheControlError = ConfigDefault.CacheControlError
	}

	if cfg.CheckAliveURI == "" {
		cfg.CheckAliveURI = ConfigDefault.CheckAliveURI
	}

	if cfg.Output == nil {
		cfg.Output = ConfigDefault.Output
	}

	return cfg
}

// New creates a new fiber access logging middleware using zerolog.
// Errors returned by the chain are handed to the app's error handler so the
// logged status is the one the client receives.
func New(config ...Config) fiber.Handler {
	var (
		cfg          = configDefault(config...)
		accessLogger = newAccessLogger(&cfg)
		once         sync.Once
		errHandler   fiber.ErrorHandler
		record       func(method, route string, status int, elapsed float64)
	)

	if cfg.Metrics {
		record = registerMetrics().observe
	}

	return func(ctx *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(ctx) {
			return ctx.Next()
		}

		once.Do(func() {
			errHandler = ctx.App().ErrorHandler
		})

		start := time.Now()

		chainErr := ctx.Next()
		if chainErr != nil {
			if errH := errHandler(ctx, chainErr); errH != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError) //nolint:errcheck // ok here
				ctx.Response().Header.Set(fiber.HeaderCacheControl, cfg.CacheControlError)
			}
		}

		elapsed := time.Since(start).Seconds()
		status := ctx.Response().StatusCode()
		route := ctx.Route().Path

		ctx.Set(HeaderResponseTime, strconv.FormatFloat(elapsed, 'f', 6, 64))

		if record != nil {
			record(ctx.Method(), route, status, elapsed)
		}

		if cfg.Config.DisableCheckAlive && ctx.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes the parsed path (//a -> /a), OriginalURL keeps
		// the request line as sent.
		event := accessLogger.Log().
			Str("IP", ctx.IP()).
			Int("status", status).
			Float64("duration", elapsed).
			Str("URI", ctx.OriginalURL()).
			Str("route", route).
			Str("method", ctx.Method()).
			Bytes("host", ctx.Request().Host()).
			Str(fiber.HeaderXForwardedFor, ctx.Get(fiber.HeaderXForwardedFor)).
			Str(fiber.HeaderUserAgent, ctx.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, ctx.Get(fiber.HeaderReferer))

		if chainErr != nil {
			event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}

// newAccessLogger writes to the rolling access file and, when both switches
// are on, to the console.
func newAccessLogger(cfg *Config) zerolog.Logger {
	var writers []io.Writer

	if cfg.Config.File.Enabled {
		w, err := newRollingAccessFile(&cfg.Config)
		if err != nil {
			log.Error().Err(err).Msg("access log file disabled")
		} else {
			writers = append(writers, w)
		}
	}

	if cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          cfg.Output,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, cfg.Output)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)
}

// newRollingAccessFile uses lumberjack to create file based access log.
func newRollingAccessFile(cfg *logger.Log) (io.Writer, error) {
	if cfg.File.Path != "" {
		if err := os.MkdirAll(cfg.File.Path, 0o750); err != nil {
			return nil, err
		}
	}

	return cfg.File.Access.Writer(cfg.File.Path), nil
}
