package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, handler *Handler, staticDir string) {
	app.Get("/healthz", handler.Health)
	registerAPIRoutes(app, handler)

	if strings.TrimSpace(staticDir) != "" {
		app.Static("/", staticDir, fiber.Static{Index: "index.html"})
	}
	app.Use(handler.NotFound)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	api.Post("/login", handler.Login)
	api.Post("/logout", handler.Logout)

	classes := api.Group("/classes", handler.SessionRequired)
	classes.Get("/", handler.ListEntries)
	classes.Post("/", handler.CreateEntry)
	classes.Delete("/:id", handler.DeleteEntry)
}
