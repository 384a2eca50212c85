// Package crud provides a generic CRUD base reusable for any gorm model.
package crud

import (
	"errors"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// DefaultLimit is the page size used when none is given.
	DefaultLimit = 100

	// MaxLimit caps the page size.
	MaxLimit = 1000
)

var (
	// ErrNotFound is returned when no row has the requested primary key.
	ErrNotFound = errors.New("record not found")
	// ErrDBNil is returned when the database session is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrObjectNil is returned when a nil object is passed to Create or Update.
	ErrObjectNil = errors.New("object is nil")
)

// Base implements get, list, create, update and remove for the model M.
// M must be a gorm model struct with a single numeric primary key.
type Base[M any] struct{}

// New returns the CRUD base for M.
func New[M any]() *Base[M] {
	return &Base[M]{}
}

// Page normalizes pagination parameters: negative skip becomes 0, a
// non-positive limit becomes DefaultLimit and limits above MaxLimit are capped.
func Page(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return skip, limit
}

func byPrimaryKey() clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}
}

// Get returns the row with primary key id.
func (b *Base[M]) Get(db *gorm.DB, id uint64) (*M, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var obj M

	result := db.First(&obj, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, result.Error
	}

	return &obj, nil
}

// GetMulti returns one page of rows ordered by primary key.
func (b *Base[M]) GetMulti(db *gorm.DB, skip, limit int) ([]M, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	skip, limit = Page(skip, limit)

	objs := make([]M, 0, limit)

	result := db.Order(byPrimaryKey()).Offset(skip).Limit(limit).Find(&objs)
	if result.Error != nil {
		return nil, result.Error
	}

	return objs, nil
}

// Count returns the number of rows of M.
func (b *Base[M]) Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	result := db.Model(new(M)).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// Create inserts obj and reloads it so database defaults are visible.
func (b *Base[M]) Create(db *gorm.DB, obj *M) (*M, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if obj == nil {
		return nil, ErrObjectNil
	}

	if result := db.Create(obj); result.Error != nil {
		return nil, result.Error
	}

	if result := db.First(obj); result.Error != nil {
		return nil, result.Error
	}

	return obj, nil
}

// Update writes only the given changes to obj's row and reloads obj.
// Keys are struct field or column names, see Changes.
func (b *Base[M]) Update(db *gorm.DB, obj *M, changes map[string]any) (*M, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if obj == nil {
		return nil, ErrObjectNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			if result := tx.Model(obj).Updates(changes); result.Error != nil {
				return result.Error
			}
		}

		return tx.First(obj).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return obj, nil
}

// Remove deletes the row with primary key id and returns it.
func (b *Base[M]) Remove(db *gorm.DB, id uint64) (*M, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var obj M

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&obj, id).Error; err != nil {
			return err
		}

		return tx.Delete(&obj).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &obj, nil
}

// Changes returns the fields set in an update payload, keyed by field name.
// Pointer fields are set when non-nil, other exported fields always are.
// A map[string]any is returned as is.
func Changes(in any) map[string]any {
	if m, ok := in.(map[string]any); ok {
		return m
	}

	changes := map[string]any{}

	v := reflect.ValueOf(in)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return changes
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return changes
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("crud") == "-" {
			continue
		}

		value := v.Field(i)
		if value.Kind() == reflect.Pointer {
			if value.IsNil() {
				continue
			}

			value = value.Elem()
		}

		changes[field.Name] = value.Interface()
	}

	return changes
}
