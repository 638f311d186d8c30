package dto

import "time"

// StudyHistoryRequest is the body of POST, PUT and PATCH /api/study-histories.
// Pointer fields distinguish "absent" from zero values for PATCH.
// @Description Result of one pass through an exercise
type StudyHistoryRequest struct {
	ID              string     `json:"id,omitempty"`
	UserID          *string    `json:"userId"`
	ExerciseID      *int64     `json:"exerciseId"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	TasksCount      *int       `json:"tasksCount"`
	RepetitionIndex *float64   `json:"repetitionIndex,omitempty"`
}

// HasNaturalKey reports whether userId, exerciseId and startTime are all set.
func (r *StudyHistoryRequest) HasNaturalKey() bool {
	return r.UserID != nil && *r.UserID != "" && r.ExerciseID != nil && r.StartTime != nil
}

// StudyHistoryResponse is a stored study history.
// @Description Stored study history
type StudyHistoryResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ExerciseID      int64      `json:"exerciseId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	TasksCount      int        `json:"tasksCount"`
	RepetitionIndex *float64   `json:"repetitionIndex,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
