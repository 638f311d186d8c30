package handler

import (
	"sound-byte/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SeedHandler struct {
	service service.SeedStatusService
}

func NewSeedHandler(service service.SeedStatusService) *SeedHandler {
	return &SeedHandler{service: service}
}

// GetStatus godoc
// @Summary Seed status
// @Description Reports whether initial data is present, entity counts and the last seed pass
// @Tags seed
// @Produce json
// @Success 200 {object} seed.Status
// @Failure 500 {object} middleware.ErrorResponse
// @Router /seed/status [get]
func (h *SeedHandler) GetStatus(c *fiber.Ctx) error {
	st, err := h.service.GetStatus(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(st)
}
