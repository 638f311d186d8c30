package handler

import (
	"sound-byte/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	StudyHistory *StudyHistoryHandler
	Seed         *SeedHandler
	Health       *HealthHandler
}

// RegisterRoutes mounts /health and the /api routes.
func RegisterRoutes(app *fiber.App, h Handlers) {
	vm := middleware.NewValidationMiddleware()

	app.Get("/health", h.Health.Check)

	api := app.Group("/api")
	histories := api.Group("/study-histories")
	histories.Post("/", vm.ValidateStudyHistory(true), h.StudyHistory.SaveOrReplace)
	histories.Put("/", vm.ValidateStudyHistory(true), h.StudyHistory.Replace)
	histories.Patch("/", vm.ValidateStudyHistory(false), h.StudyHistory.Patch)

	api.Get("/seed/status", h.Seed.GetStatus)
}
