package config

import (
	"time"

	"github.com/apitemplate/apitemplate/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // debug mode, enables verbose errors and local reload helpers
	App       App
	DB        DB
	JWT       JWT
	Log       logger.Log
	Webserver Webserver
}

// App holds the application identity and secrets.
type App struct {
	Name        string `validate:"required"`
	Version     string
	Description string
	SecretKey   string `validate:"required"` // signing key for access tokens
}

// JWT holds the access token settings.
type JWT struct {
	AccessTokenExpireMinutes int    `validate:"gt=0"`
	Algorithm                string `validate:"oneof=HS256 HS384 HS512"`
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (j JWT) AccessTokenTTL() time.Duration {
	return time.Duration(j.AccessTokenExpireMinutes) * time.Minute
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds to report unhealthy before stopping
	URL            string // base url for the webserver
	ProtectWrites  bool   // require a bearer token on POST, PUT and DELETE
	ReadBufferSize int
}
