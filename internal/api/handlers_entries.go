package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/agenda/internal/services"
)

const (
	messageStoreWrite  = "Error guardando en la base de datos."
	messageStoreRead   = "Error leyendo de la base de datos."
	messageStoreDelete = "Error eliminando el registro."
	messageInvalidID   = "Identificador inválido."
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	entries, err := handler.entryService.List(c.UserContext())
	if err != nil {
		return handler.respondEntryError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, services.MessageMissingFields)
	}

	entries, err := handler.entryService.Create(c.UserContext(), input)
	if err != nil {
		return handler.respondEntryError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "classes": entries})
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params("id")), 10, 64)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, messageInvalidID)
	}

	entries, err := handler.entryService.Delete(c.UserContext(), uint(id))
	if err != nil {
		return handler.respondEntryError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "classes": entries})
}

func (handler *Handler) respondEntryError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return apiError(c, fiber.StatusBadRequest, validationErr.Message)
	}

	handler.logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("entry store failure")
	switch {
	case errors.Is(err, services.ErrEntryStoreWrite):
		return apiError(c, fiber.StatusInternalServerError, messageStoreWrite)
	case errors.Is(err, services.ErrEntryStoreDelete):
		return apiError(c, fiber.StatusInternalServerError, messageStoreDelete)
	default:
		return apiError(c, fiber.StatusInternalServerError, messageStoreRead)
	}
}
