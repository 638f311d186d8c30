package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// GroupDatabaseAdapter implements domain.GroupRepository on exercise_groups.
type GroupDatabaseAdapter struct {
	db DBTX
}

func NewGroupDatabaseAdapter(db *sqlx.DB) domain.GroupRepository {
	return &GroupDatabaseAdapter{db: db}
}

func (a *GroupDatabaseAdapter) SaveAll(ctx context.Context, groups []*domain.Group) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO exercise_groups (id, name, description, created_at) VALUES (?, ?, ?, ?)`)
	now := time.Now()
	for _, g := range groups {
		if _, err := exec.ExecContext(ctx, query, g.ID, g.Name, nullString(g.Description), now); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("group %d: %w", g.ID, domain.ErrConflict)
			}
			return fmt.Errorf("failed to insert group %d: %w", g.ID, err)
		}
	}
	return nil
}

func (a *GroupDatabaseAdapter) FindByID(ctx context.Context, id int64) (*domain.Group, error) {
	exec := GetExecutor(ctx, a.db)
	var m models.ExerciseGroup
	err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT id, name, description, created_at FROM exercise_groups WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group %d: %w", id, err)
	}
	return toDomainGroup(&m), nil
}

func (a *GroupDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	return count(ctx, a.db, "exercise_groups")
}

// SeriesDatabaseAdapter implements domain.SeriesRepository.
type SeriesDatabaseAdapter struct {
	db DBTX
}

func NewSeriesDatabaseAdapter(db *sqlx.DB) domain.SeriesRepository {
	return &SeriesDatabaseAdapter{db: db}
}

func (a *SeriesDatabaseAdapter) SaveAll(ctx context.Context, series []*domain.Series) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO series (id, group_id, name, description, created_at) VALUES (?, ?, ?, ?, ?)`)
	now := time.Now()
	for _, s := range series {
		if _, err := exec.ExecContext(ctx, query, s.ID, s.GroupID, s.Name, nullString(s.Description), now); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("series %d: %w", s.ID, domain.ErrConflict)
			}
			return fmt.Errorf("failed to insert series %d: %w", s.ID, err)
		}
	}
	return nil
}

func (a *SeriesDatabaseAdapter) FindByID(ctx context.Context, id int64) (*domain.Series, error) {
	exec := GetExecutor(ctx, a.db)
	var m models.Series
	err := exec.GetContext(ctx, &m, exec.Rebind(`SELECT id, group_id, name, description, created_at FROM series WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get series %d: %w", id, err)
	}
	return toDomainSeries(&m), nil
}

func (a *SeriesDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	return count(ctx, a.db, "series")
}

// ExerciseDatabaseAdapter implements domain.ExerciseRepository. Tasks are
// persisted separately by the task adapter.
type ExerciseDatabaseAdapter struct {
	db DBTX
}

func NewExerciseDatabaseAdapter(db *sqlx.DB) domain.ExerciseRepository {
	return &ExerciseDatabaseAdapter{db: db}
}

func (a *ExerciseDatabaseAdapter) SaveAll(ctx context.Context, exercises []*domain.Exercise) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO exercises (id, series_id, name, description, template, exercise_type, exercise_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	now := time.Now()
	for _, e := range exercises {
		_, err := exec.ExecContext(ctx, query,
			e.ID, e.SeriesID, e.Name, nullString(e.Description), nullString(e.Template), string(e.Type), e.Level, now)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("exercise %d: %w", e.ID, domain.ErrConflict)
			}
			return fmt.Errorf("failed to insert exercise %d: %w", e.ID, err)
		}
	}
	return nil
}

func (a *ExerciseDatabaseAdapter) FindByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	exec := GetExecutor(ctx, a.db)
	var m models.Exercise
	query := exec.Rebind(`SELECT id, series_id, name, description, template, exercise_type, exercise_level, created_at
		FROM exercises WHERE id = ?`)
	if err := exec.GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exercise %d: %w", id, err)
	}
	return toDomainExercise(&m), nil
}

func (a *ExerciseDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	return count(ctx, a.db, "exercises")
}

func toDomainGroup(m *models.ExerciseGroup) *domain.Group {
	return domain.NewGroup(m.ID, m.Name, m.Description.String)
}

func toDomainSeries(m *models.Series) *domain.Series {
	return domain.NewSeries(m.ID, m.GroupID, m.Name, m.Description.String)
}

func toDomainExercise(m *models.Exercise) *domain.Exercise {
	return &domain.Exercise{
		ID:          m.ID,
		SeriesID:    m.SeriesID,
		Name:        m.Name,
		Description: m.Description.String,
		Template:    m.Template.String,
		Type:        domain.ExerciseType(m.ExerciseType),
		Level:       m.ExerciseLevel,
	}
}
