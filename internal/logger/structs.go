package logger

import (
	"path"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Console implements a console based logger.
type Console struct {
	Enabled          bool
	UseConsoleWriter bool
}

// Rotation describes one rolling log file.
type Rotation struct {
	Name       string // file name inside LogFile.Path
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
}

// Writer returns the lumberjack logger writing r inside dir.
func (r Rotation) Writer(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

// LogFile implements a file based logger with one rolling file per stream.
type LogFile struct {
	Enabled bool
	Path    string

	Access Rotation // access log of the webserver
	Error  Rotation // error, fatal and panic
	Info   Rotation // info and debug
	Trace  Rotation
	Warn   Rotation
}

// SQL implements the gorm query logger settings.
type SQL struct {
	// Enabled turns on statement logging at debug level.
	// Errors and slow queries are logged regardless.
	Enabled bool

	// SlowThreshold marks queries running longer as slow. Zero disables it.
	SlowThreshold time.Duration
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole if true the webservice starts to log requests to console.
	// Does not overrule flag Console.Enabled!
	// If Console.Enabled is false, still no access log output to the console will be shown.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /health calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File based logging with rotation.
	File LogFile

	// SQL query logging.
	SQL SQL
}
