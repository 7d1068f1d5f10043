package api

import "github.com/gofiber/fiber/v2"

const sessionRequiredMessage = "Sesión requerida."

// SessionRequired guards the entry routes when sessions are enforced. With
// enforcement off every request passes through.
func (handler *Handler) SessionRequired(c *fiber.Ctx) error {
	if !handler.requireSession {
		return c.Next()
	}

	email, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, sessionRequiredMessage)
	}
	c.Locals(contextSessionKey, email)
	return c.Next()
}
