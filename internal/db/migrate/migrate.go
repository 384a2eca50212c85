// Package migrate keeps the registry of managed models and applies their schema.
package migrate

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

var (
	mu       sync.RWMutex
	registry []any
)

// Register adds models to the managed schema. Registering the same
// pointer type twice is a no-op.
func Register(models ...any) {
	mu.Lock()
	defer mu.Unlock()

	for _, m := range models {
		if m == nil || registered(m) {
			continue
		}

		registry = append(registry, m)
	}
}

func registered(m any) bool {
	return slices.ContainsFunc(registry, func(r any) bool {
		return reflect.TypeOf(r) == reflect.TypeOf(m)
	})
}

// Models returns the registered models in registration order.
func Models() []any {
	mu.RLock()
	defer mu.RUnlock()

	return slices.Clone(registry)
}

// Up creates or alters the tables of all registered models.
func Up(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		return pkgerrors.Wrap(err, "auto migrate")
	}

	log.Info().Int("models", len(models)).Msg("database schema is up to date")

	return nil
}

// Drop removes the tables of all registered models, last registered first.
func Drop(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	models := Models()
	slices.Reverse(models)

	if err := db.Migrator().DropTable(models...); err != nil {
		return pkgerrors.Wrap(err, "drop tables")
	}

	return nil
}
