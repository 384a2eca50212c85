package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrInvalidField is returned when a struct tag rule fails.
	ErrInvalidField = errors.New("config field is invalid")
)

// ErrNil is returned when a nil config is passed.
var ErrNil = errors.New("config is nil")
