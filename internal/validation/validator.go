package validation

import (
	"strings"

	"sound-byte/internal/domain"
	"sound-byte/internal/dto"
	"sound-byte/internal/util"
)

const maxUserIDLength = 64

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStudyHistory checks a study-history body. Full requests (POST,
// PUT) need the natural key and tasksCount; partial ones (PATCH) need an
// id or the natural key. Present fields are range-checked either way.
func (v *Validator) ValidateStudyHistory(req *dto.StudyHistoryRequest, full bool) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.ID != "" && !util.IsULID(req.ID) {
		errors = append(errors, domain.NewInvalidFormatError("id", req.ID))
	}

	needKey := full || req.ID == ""
	blankUser := req.UserID != nil && strings.TrimSpace(*req.UserID) == ""
	if blankUser || (needKey && req.UserID == nil) {
		errors = append(errors, domain.NewMissingFieldError("userId"))
	}
	if needKey {
		if req.ExerciseID == nil {
			errors = append(errors, domain.NewMissingFieldError("exerciseId"))
		}
		if req.StartTime == nil {
			errors = append(errors, domain.NewMissingFieldError("startTime"))
		}
	}
	if full && req.TasksCount == nil {
		errors = append(errors, domain.NewMissingFieldError("tasksCount"))
	}

	if req.UserID != nil && len(*req.UserID) > maxUserIDLength {
		errors = append(errors, domain.NewOutOfRangeError("userId", len(*req.UserID), 1, maxUserIDLength))
	}
	if req.ExerciseID != nil && *req.ExerciseID <= 0 {
		errors = append(errors, domain.NewOutOfRangeError("exerciseId", *req.ExerciseID, 1, "∞"))
	}
	if req.TasksCount != nil && *req.TasksCount < 0 {
		errors = append(errors, domain.NewOutOfRangeError("tasksCount", *req.TasksCount, 0, "∞"))
	}
	if req.RepetitionIndex != nil && *req.RepetitionIndex < 0 {
		errors = append(errors, domain.NewOutOfRangeError("repetitionIndex", *req.RepetitionIndex, 0, "∞"))
	}
	if req.StartTime != nil && req.EndTime != nil && req.EndTime.Before(*req.StartTime) {
		errors = append(errors, domain.ValidationError{
			Field:   "endTime",
			Code:    domain.CodeOutOfRange,
			Message: "endTime must not be before startTime",
		})
	}

	return errors
}
