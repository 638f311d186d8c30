package middleware

import (
	"errors"
	"net/http"

	"sound-byte/internal/domain"
	"sound-byte/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every rejected field.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// ErrorHandler turns handler errors into JSON responses. Validation errors
// become 400, domain errors use their code, fiber errors keep their status
// and anything else is a 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			validationErrs domain.ValidationErrors
			domainErr      *domain.DomainError
			fiberErr       *fiber.Error
		)
		switch {
		case errors.As(err, &validationErrs):
			return respondValidation(c, validationErrs)
		case errors.As(err, &domainErr):
			return respondDomain(c, domainErr)
		case errors.As(err, &fiberErr):
			logger.Get().Warn("Fiber error occurred",
				zap.String("path", c.Path()),
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		logger.Get().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

func respondValidation(c *fiber.Ctx, errs domain.ValidationErrors) error {
	logger.Get().Warn("Request validation failed",
		zap.String("path", c.Path()),
		zap.Int("error_count", len(errs)),
	)
	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(domain.CodeValidation),
		Message: "Request validation failed",
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func respondDomain(c *fiber.Ctx, err *domain.DomainError) error {
	status := statusFor(err.Code)

	fields := []zap.Field{
		zap.String("path", c.Path()),
		zap.String("code", string(err.Code)),
		zap.Int("status", status),
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if status >= http.StatusInternalServerError {
		logger.Get().Error(err.Message, fields...)
	} else {
		logger.Get().Info(err.Message, fields...)
	}

	resp := ErrorResponse{
		Code:    string(err.Code),
		Message: err.Message,
		Status:  status,
	}
	if len(err.Context) > 0 {
		resp.Details = err.Context
	}
	return c.Status(status).JSON(resp)
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeExerciseNotFound, domain.CodeStudyHistoryNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInvalidInput, domain.CodeInvalidTask,
		domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidFormat, domain.CodeOutOfRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
