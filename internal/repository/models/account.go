package models

import (
	"database/sql"
	"time"
)

type Account struct {
	ID           string    `db:"ID"`
	FirstName    string    `db:"FIRST_NAME"`
	LastName     string    `db:"LAST_NAME"`
	Email        string    `db:"EMAIL"`
	PasswordHash string    `db:"PASSWORD_HASH"`
	Active       int       `db:"ACTIVE"` // Oracle has no boolean column type; 1 or 0
	CreatedAt    time.Time `db:"CREATED_AT"`
	UpdatedAt    time.Time `db:"UPDATED_AT"`
}

type AccountAuthority struct {
	AccountID     string `db:"ACCOUNT_ID"`
	AuthorityName string `db:"AUTHORITY_NAME"`
}

type StudyHistory struct {
	ID              string          `db:"ID"`
	UserID          string          `db:"USER_ID"`
	ExerciseID      int64           `db:"EXERCISE_ID"`
	StartTime       time.Time       `db:"START_TIME"`
	EndTime         sql.NullTime    `db:"END_TIME"`
	TasksCount      int             `db:"TASKS_COUNT"`
	RepetitionIndex sql.NullFloat64 `db:"REPETITION_INDEX"`
	CreatedAt       time.Time       `db:"CREATED_AT"`
	UpdatedAt       time.Time       `db:"UPDATED_AT"`
}
