// Package daemon wires logging, database and web service into the running application.
package daemon

import (
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db"
	"github.com/apitemplate/apitemplate/internal/db/migrate"
	"github.com/apitemplate/apitemplate/internal/logger"
	"github.com/apitemplate/apitemplate/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// New initializes the logger, opens the database, applies the schema when
// DB.AutoMigrate is set and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNil
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to init logger")
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err = migrate.Up(gdb); err != nil {
			_ = db.Close(gdb)

			return nil, err
		}
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		webService: web.New(cfg, gdb),
	}, nil
}

// Addr returns the listen address of the web service.
func (d *Daemon) Addr() string {
	return ":" + strconv.Itoa(d.cfg.Webserver.Port)
}

// Start serves http until SIGINT or SIGTERM and closes the database afterwards.
func (d *Daemon) Start() error {
	defer func() {
		if err := d.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	go d.webService.WaitShutdown()

	log.Info().Str("addr", d.Addr()).Str("app", d.cfg.App.Name).Msg("starting web service")

	return d.webService.Start(d.Addr())
}

// Close releases the database pool.
func (d *Daemon) Close() error {
	return db.Close(d.db)
}
