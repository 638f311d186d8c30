package middleware

import (
	"sound-byte/internal/domain"
	"sound-byte/internal/dto"
	"sound-byte/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedStudyHistoryKey is the Locals key holding the parsed
// *dto.StudyHistoryRequest.
const ValidatedStudyHistoryKey = "validated_study_history"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateStudyHistory parses the JSON body and validates it. full selects
// the POST/PUT rules, otherwise the PATCH rules apply.
func (vm *ValidationMiddleware) ValidateStudyHistory(full bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.StudyHistoryRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError("body", err.Error()),
			}
		}

		if errors := vm.validator.ValidateStudyHistory(&req, full); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals(ValidatedStudyHistoryKey, &req)
		return c.Next()
	}
}
