// Package resource registers the list, create, read, update and delete
// routes of one model on a fiber router.
package resource

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/apitemplate/apitemplate/internal/config"
	"github.com/apitemplate/apitemplate/internal/db"
	"github.com/apitemplate/apitemplate/internal/db/crud"
	"github.com/apitemplate/apitemplate/internal/security"
)

const (
	// bodyField names the request body itself in validation errors.
	bodyField = "body"

	// IDPath is the route of a single object.
	IDPath = "/:id"

	// HeaderTotalCount carries the total number of rows on list responses.
	HeaderTotalCount = "X-Total-Count"

	paramID    = "id"
	querySkip  = "skip"
	queryLimit = "limit"
)

// ErrNilHandler is returned when a Handler is built without CRUD base or mapping.
var ErrNilHandler = errors.New("crud base or create mapping is nil")

// identifier is implemented by models exposing their primary key.
type identifier interface {
	GetID() uint64
}

// Handler serves the REST routes of model M, created from payload C and
// partially updated from payload U. Pointer fields of U that are nil are
// left untouched on update.
type Handler[M, C, U any] struct {
	name       string
	base       *crud.Base[M]
	fromCreate func(*C) *M
	validator  *validator.Validate
}

// New returns the handler for the resource called name.
func New[M, C, U any](name string, base *crud.Base[M], fromCreate func(*C) *M) (*Handler[M, C, U], error) {
	if base == nil || fromCreate == nil {
		return nil, ErrNilHandler
	}

	return &Handler[M, C, U]{
		name:       name,
		base:       base,
		fromCreate: fromCreate,
		validator:  newValidator(),
	}, nil
}

// Register mounts the routes on router. Writes require a bearer token
// when the webserver protects them.
func (h *Handler[M, C, U]) Register(router fiber.Router, cfg *config.Config) {
	write := []fiber.Handler{}
	if cfg != nil && cfg.Webserver.ProtectWrites {
		write = append(write, security.RequireBearer(cfg))
	}

	router.Get("/", h.List)
	router.Post("/", append(write, h.Create)...)
	router.Get(IDPath, h.Get)
	router.Put(IDPath, append(write, h.Update)...)
	router.Delete(IDPath, append(write, h.Delete)...)
}

// List returns one page of objects.
func (h *Handler[M, C, U]) List(c *fiber.Ctx) error {
	skip, err := queryInt(c, querySkip, 0)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "skip must be an integer")
	}

	limit, err := queryInt(c, queryLimit, crud.DefaultLimit)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "limit must be an integer")
	}

	session, err := db.FromCtx(c)
	if err != nil {
		return h.internal(c, err)
	}

	objs, err := h.base.GetMulti(session, skip, limit)
	if err != nil {
		return h.internal(c, err)
	}

	total, err := h.base.Count(session)
	if err != nil {
		return h.internal(c, err)
	}

	c.Set(HeaderTotalCount, strconv.FormatInt(total, 10))

	return c.JSON(objs)
}

// Create validates the body and inserts a new object.
func (h *Handler[M, C, U]) Create(c *fiber.Ctx) error {
	payload := new(C)
	if done, err := h.parseBody(c, payload); done {
		return err
	}

	session, err := db.FromCtx(c)
	if err != nil {
		return h.internal(c, err)
	}

	obj, err := h.base.Create(session, h.fromCreate(payload))
	if err != nil {
		return h.internal(c, err)
	}

	if m, ok := any(obj).(identifier); ok {
		c.Location(strings.TrimSuffix(c.Path(), "/") + "/" + strconv.FormatUint(m.GetID(), 10))
	}

	return c.Status(fiber.StatusCreated).JSON(obj)
}

// Get returns the object with the id path parameter.
func (h *Handler[M, C, U]) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id must be a positive integer")
	}

	session, err := db.FromCtx(c)
	if err != nil {
		return h.internal(c, err)
	}

	obj, err := h.base.Get(session, id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(obj)
}

// Update applies the fields set in the body to the object.
func (h *Handler[M, C, U]) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id must be a positive integer")
	}

	payload := new(U)
	if done, err := h.parseBody(c, payload); done {
		return err
	}

	session, err := db.FromCtx(c)
	if err != nil {
		return h.internal(c, err)
	}

	obj, err := h.base.Get(session, id)
	if err != nil {
		return h.fail(c, err)
	}

	obj, err = h.base.Update(session, obj, crud.Changes(payload))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(obj)
}

// Delete removes the object.
func (h *Handler[M, C, U]) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return detail(c, fiber.StatusBadRequest, "id must be a positive integer")
	}

	session, err := db.FromCtx(c)
	if err != nil {
		return h.internal(c, err)
	}

	if _, err = h.base.Remove(session, id); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseBody decodes and validates the JSON body into payload. done is
// true when the response has already been written.
func (h *Handler[M, C, U]) parseBody(c *fiber.Ctx, payload any) (bool, error) {
	if len(bytes.TrimSpace(c.Body())) == 0 {
		return true, detail(c, fiber.StatusUnprocessableEntity, []FieldError{{Field: bodyField, Tag: "required"}})
	}

	if err := c.App().Config().JSONDecoder(c.Body(), payload); err != nil {
		return true, detail(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	fieldErrors, err := validate(h.validator, payload)
	if err != nil {
		return true, h.internal(c, err)
	}

	if len(fieldErrors) > 0 {
		return true, detail(c, fiber.StatusUnprocessableEntity, fieldErrors)
	}

	return false, nil
}

func (h *Handler[M, C, U]) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return detail(c, fiber.StatusNotFound, h.name+" not found")
	}

	return h.internal(c, err)
}

func (h *Handler[M, C, U]) internal(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("resource", h.name).Str("path", c.Path()).Msg("request failed")

	return detail(c, fiber.StatusInternalServerError, "internal server error")
}

func detail(c *fiber.Ctx, status int, msg any) error {
	return c.Status(status).JSON(fiber.Map{"detail": msg})
}

func pathID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(paramID), 10, 64)
	if err != nil {
		return 0, err
	}

	if id == 0 {
		return 0, strconv.ErrRange
	}

	return id, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}

	return strconv.Atoi(raw)
}
