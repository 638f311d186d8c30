package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/repository/models"
	"sound-byte/internal/util"

	"github.com/jmoiron/sqlx"
)

const studyHistoryColumns = `id, user_id, exercise_id, start_time, end_time, tasks_count, repetition_index, created_at, updated_at`

// StudyHistoryDatabaseAdapter implements domain.StudyHistoryRepository.
// The natural key is backed by a unique constraint, so collisions surface
// as domain.ErrConflict.
type StudyHistoryDatabaseAdapter struct {
	db DBTX
}

func NewStudyHistoryDatabaseAdapter(db *sqlx.DB) domain.StudyHistoryRepository {
	return &StudyHistoryDatabaseAdapter{db: db}
}

func (a *StudyHistoryDatabaseAdapter) get(ctx context.Context, where string, args ...interface{}) (*domain.StudyHistory, error) {
	exec := GetExecutor(ctx, a.db)
	var m models.StudyHistory
	err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT `+studyHistoryColumns+` FROM study_histories WHERE `+where), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get study history: %w", err)
	}
	return toDomainStudyHistory(&m), nil
}

func (a *StudyHistoryDatabaseAdapter) FindByID(ctx context.Context, id string) (*domain.StudyHistory, error) {
	return a.get(ctx, `id = ?`, id)
}

func (a *StudyHistoryDatabaseAdapter) FindByKey(ctx context.Context, userID string, exerciseID int64, startTime time.Time) (*domain.StudyHistory, error) {
	return a.get(ctx, `user_id = ? AND exercise_id = ? AND start_time = ?`, userID, exerciseID, startTime)
}

func (a *StudyHistoryDatabaseAdapter) Create(ctx context.Context, history *domain.StudyHistory) error {
	exec := GetExecutor(ctx, a.db)
	if history.ID == "" {
		history.ID = util.NewULID()
	}
	now := time.Now()
	m := fromDomainStudyHistory(history)
	m.CreatedAt = now
	m.UpdatedAt = now

	_, err := exec.ExecContext(ctx, exec.Rebind(`INSERT INTO study_histories (`+studyHistoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		m.ID, m.UserID, m.ExerciseID, m.StartTime, m.EndTime, m.TasksCount, m.RepetitionIndex, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to insert study history: %w", err)
	}
	history.CreatedAt = now
	history.UpdatedAt = now
	return nil
}

func (a *StudyHistoryDatabaseAdapter) Update(ctx context.Context, history *domain.StudyHistory) error {
	exec := GetExecutor(ctx, a.db)
	m := fromDomainStudyHistory(history)
	m.UpdatedAt = time.Now()

	result, err := exec.ExecContext(ctx, exec.Rebind(`UPDATE study_histories SET
			user_id = ?, exercise_id = ?, start_time = ?, end_time = ?, tasks_count = ?, repetition_index = ?, updated_at = ?
		WHERE id = ?`),
		m.UserID, m.ExerciseID, m.StartTime, m.EndTime, m.TasksCount, m.RepetitionIndex, m.UpdatedAt, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("failed to update study history: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	history.UpdatedAt = m.UpdatedAt
	return nil
}

func fromDomainStudyHistory(h *domain.StudyHistory) *models.StudyHistory {
	m := &models.StudyHistory{
		ID:         h.ID,
		UserID:     h.UserID,
		ExerciseID: h.ExerciseID,
		StartTime:  h.StartTime,
		TasksCount: h.TasksCount,
		CreatedAt:  h.CreatedAt,
		UpdatedAt:  h.UpdatedAt,
		EndTime:    nullTime(h.EndTime),
	}
	if h.RepetitionIndex != nil {
		m.RepetitionIndex = sql.NullFloat64{Float64: *h.RepetitionIndex, Valid: true}
	}
	return m
}

func toDomainStudyHistory(m *models.StudyHistory) *domain.StudyHistory {
	h := &domain.StudyHistory{
		ID:         m.ID,
		UserID:     m.UserID,
		ExerciseID: m.ExerciseID,
		StartTime:  m.StartTime,
		TasksCount: m.TasksCount,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.EndTime.Valid {
		end := m.EndTime.Time
		h.EndTime = &end
	}
	if m.RepetitionIndex.Valid {
		idx := m.RepetitionIndex.Float64
		h.RepetitionIndex = &idx
	}
	return h
}
