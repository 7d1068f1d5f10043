package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/agenda/internal/services"
)

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, handler.authService.DomainErrorMessage())
	}

	email, err := handler.authService.Login(credentials.Email, credentials.Password)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return apiError(c, fiber.StatusBadRequest, validationErr.Message)
		}
		return apiError(c, fiber.StatusBadRequest, handler.authService.DomainErrorMessage())
	}

	if err := handler.setAuthCookie(c, email); err != nil {
		handler.logger.Error().Err(err).Msg("session token signing failed")
		return apiError(c, fiber.StatusInternalServerError, "No se pudo iniciar la sesión.")
	}
	handler.logger.Info().Str("email", email).Msg("login")
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"success": true})
}
