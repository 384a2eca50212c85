// Package main provides the entry point of the apitemplate REST API service.
// It reads the settings from ./etc/main.toml, .env and the environment,
// connects to the configured database through gorm and serves the CRUD
// resources under /api/v1 with fiber. See "apitemplate --help" for the commands.
package main
