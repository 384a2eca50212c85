// Package gorm routes gorm's query logging through the global zerolog logger.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	applog "github.com/apitemplate/apitemplate/internal/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New creates a gorm logger. Statements are only logged when cfg.Enabled is
// set, errors and slow queries always.
func New(cfg applog.SQL) *Logger {
	level := gormlogger.Warn
	if cfg.Enabled {
		level = gormlogger.Info
	}

	return &Logger{
		level:         level,
		slowThreshold: cfg.SlowThreshold,
	}
}

// LogMode returns a copy of the logger using level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	nl := *l
	nl.level = level

	return &nl
}

// Info logs an informational gorm message.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs a gorm warning.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs a gorm error.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs a finished statement. Record not found is not an error here,
// the callers translate it.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).
			Str("component", "gorm").
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().
			Str("component", "gorm").
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Debug().
			Str("component", "gorm").
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("query")
	}
}
