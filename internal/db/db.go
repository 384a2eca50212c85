// Package db opens the gorm engine and hands out request scoped sessions.
package db

import (
	"context"
	"errors"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db/dsn"
	gormlog "github.com/apitemplate/apitemplate/internal/logger/adapter/gorm"
)

const (
	// LocalsKey is the fiber.Ctx locals key of the request session.
	LocalsKey = "db"

	pingTimeout = 10 * time.Second
)

var (
	// ErrNoSession is returned when a handler runs without the session middleware.
	ErrNoSession = errors.New("no database session in request context")

	// ErrUnknownEngine is returned for an engine name gorm has no dialector for.
	ErrUnknownEngine = errors.New("unknown gorm engine")
)

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	engine, err := dsn.Engine(cfg)
	if err != nil {
		return nil, err
	}

	source, err := dsn.Create(cfg)
	if err != nil {
		return nil, err
	}

	switch engine {
	case config.EngineMySQL:
		return mysql.Open(source), nil
	case config.EnginePostgres:
		return postgres.Open(source), nil
	case config.EngineSQLite:
		return sqlite.Open(source), nil
	default:
		return nil, pkgerrors.Wrapf(ErrUnknownEngine, "%q", engine)
	}
}

// Open connects to the configured database and sizes its connection pool.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, config.ErrNil
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlog.New(cfg.Log.SQL),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to get sql.DB")
	}

	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)

	if cfg.DB.PrePing {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err = sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()

			return nil, pkgerrors.Wrap(err, "failed to ping database")
		}
	}

	log.Info().Str("engine", gdb.Dialector.Name()).Msg("connected to the database")

	return gdb, nil
}

// Close closes the pool behind gdb.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to get sql.DB")
	}

	log.Info().Msg("closing database connection pool")

	return sqlDB.Close() //nolint:wrapcheck
}

// Session returns a middleware giving every request its own gorm session
// bound to the request context. The session is released when the chain returns.
func Session(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalsKey, gdb.WithContext(c.UserContext()))

		defer c.Locals(LocalsKey, nil)

		return c.Next()
	}
}

// FromCtx returns the request's session.
func FromCtx(c *fiber.Ctx) (*gorm.DB, error) {
	session, ok := c.Locals(LocalsKey).(*gorm.DB)
	if !ok || session == nil {
		return nil, ErrNoSession
	}

	return session, nil
}
