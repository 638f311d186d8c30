package service

import (
	"context"
	"errors"

	"sound-byte/internal/domain"
	"sound-byte/internal/dto"
	"sound-byte/internal/logger"

	"go.uber.org/zap"
)

// StudyHistoryService defines the study-history write operations. Requests
// are expected to have passed validation.ValidateStudyHistory.
type StudyHistoryService interface {
	// SaveOrReplace creates a record or replaces the one holding the same
	// (userId, exerciseId, startTime).
	SaveOrReplace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error)
	// Patch merges the supplied fields into an existing record.
	Patch(ctx context.Context, req *dto.StudyHistoryRequest) error
	// Replace overwrites an existing record with the full request.
	Replace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error)
}

type studyHistoryService struct {
	tx        domain.TransactionManager
	exercises domain.ExerciseRepository
	histories domain.StudyHistoryRepository
}

// NewStudyHistoryService creates a new instance of studyHistoryService
func NewStudyHistoryService(
	tx domain.TransactionManager,
	exercises domain.ExerciseRepository,
	histories domain.StudyHistoryRepository,
) StudyHistoryService {
	return &studyHistoryService{
		tx:        tx,
		exercises: exercises,
		histories: histories,
	}
}

func (s *studyHistoryService) SaveOrReplace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
	var saved *domain.StudyHistory
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireExercise(ctx, *req.ExerciseID); err != nil {
			return err
		}
		existing, err := s.histories.FindByKey(ctx, *req.UserID, *req.ExerciseID, *req.StartTime)
		if err != nil {
			return domain.NewInternalError("Failed to look up study history", err)
		}

		h := fromRequest(req)
		if existing != nil {
			h.ID = existing.ID
			err = s.histories.Update(ctx, h)
		} else {
			h.ID = ""
			err = s.histories.Create(ctx, h)
		}
		if err != nil {
			return mapWriteError(err)
		}
		saved = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(saved), nil
}

func (s *studyHistoryService) Patch(ctx context.Context, req *dto.StudyHistoryRequest) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		h, err := s.locate(ctx, req)
		if err != nil {
			return err
		}

		if req.UserID != nil {
			h.UserID = *req.UserID
		}
		if req.ExerciseID != nil && *req.ExerciseID != h.ExerciseID {
			if err := s.requireExercise(ctx, *req.ExerciseID); err != nil {
				return err
			}
			h.ExerciseID = *req.ExerciseID
		}
		if req.StartTime != nil {
			h.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			h.EndTime = req.EndTime
		}
		if req.TasksCount != nil {
			h.TasksCount = *req.TasksCount
		}
		if req.RepetitionIndex != nil {
			h.RepetitionIndex = req.RepetitionIndex
		}
		if h.EndTime != nil && h.EndTime.Before(h.StartTime) {
			return domain.ValidationErrors{{
				Field:   "endTime",
				Code:    domain.CodeOutOfRange,
				Message: "endTime must not be before startTime",
			}}
		}

		if err := s.histories.Update(ctx, h); err != nil {
			return mapWriteError(err)
		}
		return nil
	})
}

func (s *studyHistoryService) Replace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
	var saved *domain.StudyHistory
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.locate(ctx, req)
		if err != nil {
			return err
		}
		if err := s.requireExercise(ctx, *req.ExerciseID); err != nil {
			return err
		}

		h := fromRequest(req)
		h.ID = existing.ID
		if err := s.histories.Update(ctx, h); err != nil {
			return mapWriteError(err)
		}
		saved = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(saved), nil
}

// locate finds the target record by id, falling back to the natural key.
func (s *studyHistoryService) locate(ctx context.Context, req *dto.StudyHistoryRequest) (*domain.StudyHistory, error) {
	var (
		h   *domain.StudyHistory
		err error
	)
	if req.ID != "" {
		h, err = s.histories.FindByID(ctx, req.ID)
	} else if req.HasNaturalKey() {
		h, err = s.histories.FindByKey(ctx, *req.UserID, *req.ExerciseID, *req.StartTime)
	}
	if err != nil {
		return nil, domain.NewInternalError("Failed to look up study history", err)
	}
	if h == nil {
		return nil, domain.NewStudyHistoryNotFoundError()
	}
	return h, nil
}

func (s *studyHistoryService) requireExercise(ctx context.Context, id int64) error {
	e, err := s.exercises.FindByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("Failed to look up exercise", err)
	}
	if e == nil {
		return domain.NewExerciseNotFoundError(id)
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return domain.NewConflictError("A study history with the same user, exercise and start time already exists")
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewStudyHistoryNotFoundError()
	default:
		logger.Get().Error("Failed to save study history", zap.Error(err))
		return domain.NewInternalError("Failed to save study history", err)
	}
}

func fromRequest(req *dto.StudyHistoryRequest) *domain.StudyHistory {
	h := &domain.StudyHistory{
		ID:              req.ID,
		UserID:          *req.UserID,
		ExerciseID:      *req.ExerciseID,
		StartTime:       *req.StartTime,
		EndTime:         req.EndTime,
		RepetitionIndex: req.RepetitionIndex,
	}
	if req.TasksCount != nil {
		h.TasksCount = *req.TasksCount
	}
	return h
}

func toResponse(h *domain.StudyHistory) *dto.StudyHistoryResponse {
	return &dto.StudyHistoryResponse{
		ID:              h.ID,
		UserID:          h.UserID,
		ExerciseID:      h.ExerciseID,
		StartTime:       h.StartTime,
		EndTime:         h.EndTime,
		TasksCount:      h.TasksCount,
		RepetitionIndex: h.RepetitionIndex,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
}
