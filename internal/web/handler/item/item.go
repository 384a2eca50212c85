// Package item serves the example items resource.
package item

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db/crud"
	"github.com/apitemplate/apitemplate/internal/db/models"
	"github.com/apitemplate/apitemplate/internal/web/handler"
	"github.com/apitemplate/apitemplate/internal/web/handler/resource"
)

const (
	// Path is the path of the items router.
	Path = handler.APIPrefix + "/items"

	name = "Item"
)

// Create is the body of POST /items.
type Create struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// Update is the body of PUT /items/:id. Omitted fields keep their value.
type Update struct {
	Name        *string `json:"name"        validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

// Service is the items handler service.
type Service struct {
	handler.Service
	routes *resource.Handler[models.Item, Create, Update]
}

// Handler is the items handler.
var Handler = Service{}

// CRUD is the items CRUD base.
var CRUD = crud.New[models.Item]()

func fromCreate(in *Create) *models.Item {
	return &models.Item{
		Name:        in.Name,
		Description: in.Description,
	}
}

// Init initializes the items handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	routes, err := resource.New[models.Item, Create, Update](name, CRUD, fromCreate)
	if err != nil {
		return err
	}

	s.routes = routes

	app.Route(Path, func(router fiber.Router) {
		s.routes.Register(router, cfg)
	})

	return nil
}
