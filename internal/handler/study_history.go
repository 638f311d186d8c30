package handler

import (
	"sound-byte/internal/dto"
	"sound-byte/internal/middleware"
	"sound-byte/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StudyHistoryHandler handles study-history HTTP requests
type StudyHistoryHandler struct {
	service service.StudyHistoryService
}

// NewStudyHistoryHandler creates a new StudyHistoryHandler instance
func NewStudyHistoryHandler(service service.StudyHistoryService) *StudyHistoryHandler {
	return &StudyHistoryHandler{
		service: service,
	}
}

func validatedRequest(c *fiber.Ctx) *dto.StudyHistoryRequest {
	req, _ := c.Locals(middleware.ValidatedStudyHistoryKey).(*dto.StudyHistoryRequest)
	if req == nil {
		return &dto.StudyHistoryRequest{}
	}
	return req
}

// SaveOrReplace godoc
// @Summary Save a study history
// @Description Creates a study history, or replaces the one with the same userId, exerciseId and startTime
// @Tags study-histories
// @Accept json
// @Produce json
// @Param request body dto.StudyHistoryRequest true "Study history"
// @Success 201 {object} dto.StudyHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /study-histories [post]
func (h *StudyHistoryHandler) SaveOrReplace(c *fiber.Ctx) error {
	resp, err := h.service.SaveOrReplace(c.UserContext(), validatedRequest(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Patch godoc
// @Summary Update part of a study history
// @Description Merges the supplied fields into the study history located by id, or by userId, exerciseId and startTime
// @Tags study-histories
// @Accept json
// @Param request body dto.StudyHistoryRequest true "Fields to change"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /study-histories [patch]
func (h *StudyHistoryHandler) Patch(c *fiber.Ctx) error {
	if err := h.service.Patch(c.UserContext(), validatedRequest(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Replace godoc
// @Summary Replace a study history
// @Description Overwrites the located study history with the request body
// @Tags study-histories
// @Accept json
// @Produce json
// @Param request body dto.StudyHistoryRequest true "Study history"
// @Success 201 {object} dto.StudyHistoryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /study-histories [put]
func (h *StudyHistoryHandler) Replace(c *fiber.Ctx) error {
	resp, err := h.service.Replace(c.UserContext(), validatedRequest(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
