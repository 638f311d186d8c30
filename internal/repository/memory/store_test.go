package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sound-byte/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Groups().SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "g", "")}))
		// nested call joins the outer transaction
		return s.WithTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, s.Series().SaveAll(ctx, []*domain.Series{domain.NewSeries(1, 1, "s", "")}))
			return boom
		})
	})

	assert.ErrorIs(t, err, boom)
	n, _ := s.Groups().Count(ctx)
	assert.Zero(t, n)
	n, _ = s.Series().Count(ctx)
	assert.Zero(t, n)
}

func TestStore_TransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	assert.Panics(t, func() {
		_ = s.WithTransaction(ctx, func(ctx context.Context) error {
			_ = s.Groups().SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "g", "")})
			panic("boom")
		})
	})

	n, _ := s.Groups().Count(ctx)
	assert.Zero(t, n)
}

func TestStore_RollbackKeepsWritesOutsideTheTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Groups().SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "kept", "")}))

	outside := &domain.StudyHistory{UserID: "u1", ExerciseID: 1, StartTime: start}
	concurrent := &domain.StudyHistory{UserID: "u2", ExerciseID: 1, StartTime: start}

	err := s.WithTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, s.Groups().SaveAll(txCtx, []*domain.Group{domain.NewGroup(2, "rolled back", "")}))

		// committed without the transaction's context
		require.NoError(t, s.StudyHistories().Create(ctx, outside))

		// committed by a concurrent transaction of its own
		done := make(chan error, 1)
		go func() {
			done <- s.WithTransaction(ctx, func(ctx context.Context) error {
				return s.StudyHistories().Create(ctx, concurrent)
			})
		}()
		require.NoError(t, <-done)

		return boom
	})
	require.ErrorIs(t, err, boom)

	for _, id := range []string{outside.ID, concurrent.ID} {
		h, err := s.StudyHistories().FindByID(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, h, "history %s", id)
	}

	g, err := s.Groups().FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, g)
	g, err = s.Groups().FindByID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestStore_RollbackRestoresOverwrittenRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := s.StudyHistories()

	h := &domain.StudyHistory{UserID: "u1", ExerciseID: 1, StartTime: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), TasksCount: 3}
	require.NoError(t, repo.Create(ctx, h))

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		changed := *h
		changed.TasksCount = 9
		require.NoError(t, repo.Update(ctx, &changed))
		return errors.New("boom")
	})
	require.Error(t, err)

	reloaded, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, 3, reloaded.TasksCount)
}

func TestStore_EnforcesReferences(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	assert.Error(t, s.Series().SaveAll(ctx, []*domain.Series{domain.NewSeries(1, 9, "s", "")}))

	require.NoError(t, s.Groups().SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "g", "")}))
	assert.ErrorIs(t, s.Groups().SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "again", "")}), domain.ErrConflict)

	require.NoError(t, s.Series().SaveAll(ctx, []*domain.Series{domain.NewSeries(1, 1, "s", "")}))
	require.NoError(t, s.Exercises().SaveAll(ctx, []*domain.Exercise{{ID: 1, SeriesID: 1, Name: "e", Level: 1, Type: domain.ExerciseTypeSingleWords}}))

	b := domain.NewTaskBuilder(1)
	word := b.AddOption(domain.NewResource("бал", domain.WordTypeObject, "a.mp3", "a.jpg"))
	b.SetCorrectAnswer(word)
	task, err := b.Build()
	require.NoError(t, err)
	task.ExerciseID = 1

	assert.ErrorContains(t, s.Tasks().SaveAll(ctx, []*domain.Task{task}), "unsaved resource")

	require.NoError(t, s.Resources().SaveAll(ctx, task.AnswerOptions()))
	require.NoError(t, s.Tasks().SaveAll(ctx, []*domain.Task{task}))
	assert.NotZero(t, task.ID)
	n, err := s.Tasks().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotZero(t, word.ID)
}

func TestStudyHistoryRepo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := s.StudyHistories()
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	h := &domain.StudyHistory{UserID: "u1", ExerciseID: 1, StartTime: start, TasksCount: 3}
	require.NoError(t, repo.Create(ctx, h))
	assert.NotEmpty(t, h.ID)
	assert.False(t, h.CreatedAt.IsZero())

	dup := &domain.StudyHistory{UserID: "u1", ExerciseID: 1, StartTime: start}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	found, err := repo.FindByKey(ctx, "u1", 1, start)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, h.ID, found.ID)

	missing, err := repo.FindByKey(ctx, "u2", 1, start)
	require.NoError(t, err)
	assert.Nil(t, missing)

	other := &domain.StudyHistory{UserID: "u1", ExerciseID: 2, StartTime: start}
	require.NoError(t, repo.Create(ctx, other))
	other.ExerciseID = 1
	assert.ErrorIs(t, repo.Update(ctx, other), domain.ErrConflict)

	assert.ErrorIs(t, repo.Update(ctx, &domain.StudyHistory{ID: "nope"}), domain.ErrNotFound)

	h.TasksCount = 7
	require.NoError(t, repo.Update(ctx, h))
	reloaded, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.TasksCount)
}
