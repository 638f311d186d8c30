package domain

import "time"

// StudyHistory records one pass of a user through an exercise. The tuple
// (UserID, ExerciseID, StartTime) identifies it naturally.
type StudyHistory struct {
	ID              string
	UserID          string
	ExerciseID      int64
	StartTime       time.Time
	EndTime         *time.Time
	TasksCount      int
	RepetitionIndex *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SameKey reports whether both records share the natural key.
func (h *StudyHistory) SameKey(other *StudyHistory) bool {
	return h.UserID == other.UserID &&
		h.ExerciseID == other.ExerciseID &&
		h.StartTime.Equal(other.StartTime)
}
