package models

import (
	"database/sql"
	"time"
)

// ExerciseGroup maps to exercise_groups.
type ExerciseGroup struct {
	ID          int64          `db:"ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
}

type Series struct {
	ID          int64          `db:"ID"`
	GroupID     int64          `db:"GROUP_ID"`
	Name        string         `db:"NAME"`
	Description sql.NullString `db:"DESCRIPTION"`
	CreatedAt   time.Time      `db:"CREATED_AT"`
}

type Exercise struct {
	ID            int64          `db:"ID"`
	SeriesID      int64          `db:"SERIES_ID"`
	Name          string         `db:"NAME"`
	Description   sql.NullString `db:"DESCRIPTION"`
	Template      sql.NullString `db:"TEMPLATE"`
	ExerciseType  string         `db:"EXERCISE_TYPE"`
	ExerciseLevel int            `db:"EXERCISE_LEVEL"`
	CreatedAt     time.Time      `db:"CREATED_AT"`
}
