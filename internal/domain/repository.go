package domain

import (
	"context"
	"time"
)

// Find* methods return (nil, nil) when nothing matches.

type GroupRepository interface {
	SaveAll(ctx context.Context, groups []*Group) error
	FindByID(ctx context.Context, id int64) (*Group, error)
	Count(ctx context.Context) (int64, error)
}

type SeriesRepository interface {
	SaveAll(ctx context.Context, series []*Series) error
	FindByID(ctx context.Context, id int64) (*Series, error)
	Count(ctx context.Context) (int64, error)
}

type ExerciseRepository interface {
	SaveAll(ctx context.Context, exercises []*Exercise) error
	FindByID(ctx context.Context, id int64) (*Exercise, error)
	Count(ctx context.Context) (int64, error)
}

// ResourceRepository assigns ids to resources whose ID is zero.
type ResourceRepository interface {
	SaveAll(ctx context.Context, resources []*Resource) error
	Count(ctx context.Context) (int64, error)
}

// TaskRepository persists tasks with their answer links. Every referenced
// resource must already carry an id.
type TaskRepository interface {
	SaveAll(ctx context.Context, tasks []*Task) error
	Count(ctx context.Context) (int64, error)
}

// AuthorityRepository upserts by name.
type AuthorityRepository interface {
	Upsert(ctx context.Context, authority *Authority) error
}

// AccountRepository upserts by email and replaces the authority set.
type AccountRepository interface {
	Upsert(ctx context.Context, account *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

type StudyHistoryRepository interface {
	FindByID(ctx context.Context, id string) (*StudyHistory, error)
	FindByKey(ctx context.Context, userID string, exerciseID int64, startTime time.Time) (*StudyHistory, error)
	Create(ctx context.Context, history *StudyHistory) error
	Update(ctx context.Context, history *StudyHistory) error
}

// TransactionManager runs fn inside a transaction. Repositories called with
// the ctx passed to fn take part in it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SeedLock guards the seed pass across processes. Acquire returns
// acquired=false when another holder owns the lock.
type SeedLock interface {
	Acquire(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}
