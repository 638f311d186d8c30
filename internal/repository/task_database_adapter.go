package repository

import (
	"context"
	"fmt"

	"sound-byte/internal/domain"

	"github.com/jmoiron/sqlx"
)

// ResourceDatabaseAdapter implements domain.ResourceRepository. Ids come
// from resource_seq.
type ResourceDatabaseAdapter struct {
	db DBTX
}

func NewResourceDatabaseAdapter(db *sqlx.DB) domain.ResourceRepository {
	return &ResourceDatabaseAdapter{db: db}
}

func (a *ResourceDatabaseAdapter) SaveAll(ctx context.Context, resources []*domain.Resource) error {
	exec := GetExecutor(ctx, a.db)
	query := exec.Rebind(`INSERT INTO resources (id, word, word_type, audio_file_url, picture_file_url) VALUES (?, ?, ?, ?, ?)`)
	for _, r := range resources {
		if r.ID != 0 {
			continue
		}
		var id int64
		if err := exec.GetContext(ctx, &id, `SELECT resource_seq.NEXTVAL FROM dual`); err != nil {
			return fmt.Errorf("failed to allocate resource id: %w", err)
		}
		_, err := exec.ExecContext(ctx, query, id, r.Word, nullString(string(r.WordType)), nullString(r.AudioFileURL), nullString(r.PictureFileURL))
		if err != nil {
			return fmt.Errorf("failed to insert resource %q: %w", r.Word, err)
		}
		r.ID = id
	}
	return nil
}

func (a *ResourceDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	return count(ctx, a.db, "resources")
}

// TaskDatabaseAdapter implements domain.TaskRepository over tasks,
// task_answer_options and task_answer_parts.
type TaskDatabaseAdapter struct {
	db DBTX
}

func NewTaskDatabaseAdapter(db *sqlx.DB) domain.TaskRepository {
	return &TaskDatabaseAdapter{db: db}
}

func resourceID(task *domain.Task, r *domain.Resource) (int64, error) {
	if r == nil || r.ID == 0 {
		return 0, fmt.Errorf("task %d of exercise %d references an unsaved resource", task.SerialNumber, task.ExerciseID)
	}
	return r.ID, nil
}

func (a *TaskDatabaseAdapter) SaveAll(ctx context.Context, tasks []*domain.Task) error {
	exec := GetExecutor(ctx, a.db)
	insertTask := exec.Rebind(`INSERT INTO tasks (id, exercise_id, serial_number, correct_answer_id) VALUES (?, ?, ?, ?)`)
	insertOption := exec.Rebind(`INSERT INTO task_answer_options (task_id, resource_id, option_order) VALUES (?, ?, ?)`)
	insertPart := exec.Rebind(`INSERT INTO task_answer_parts (task_id, part_position, resource_id) VALUES (?, ?, ?)`)

	for _, t := range tasks {
		correctID, err := resourceID(t, t.CorrectAnswer())
		if err != nil {
			return err
		}
		var id int64
		if err := exec.GetContext(ctx, &id, `SELECT task_seq.NEXTVAL FROM dual`); err != nil {
			return fmt.Errorf("failed to allocate task id: %w", err)
		}
		if _, err := exec.ExecContext(ctx, insertTask, id, t.ExerciseID, t.SerialNumber, correctID); err != nil {
			return fmt.Errorf("failed to insert task %d of exercise %d: %w", t.SerialNumber, t.ExerciseID, err)
		}
		for i, opt := range t.AnswerOptions() {
			rid, err := resourceID(t, opt)
			if err != nil {
				return err
			}
			if _, err := exec.ExecContext(ctx, insertOption, id, rid, i+1); err != nil {
				return fmt.Errorf("failed to link answer option %d of task %d: %w", rid, id, err)
			}
		}
		parts := t.AnswerParts()
		for _, pos := range t.PartPositions() {
			rid, err := resourceID(t, parts[pos])
			if err != nil {
				return err
			}
			if _, err := exec.ExecContext(ctx, insertPart, id, pos, rid); err != nil {
				return fmt.Errorf("failed to link answer part %d of task %d: %w", pos, id, err)
			}
		}
		t.ID = id
	}
	return nil
}

func (a *TaskDatabaseAdapter) Count(ctx context.Context) (int64, error) {
	return count(ctx, a.db, "tasks")
}

