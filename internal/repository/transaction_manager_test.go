package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"sound-byte/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransactionManager_CommitsAndJoinsNestedCalls(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)
	groups := NewGroupDatabaseAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO exercise_groups`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(ctx context.Context) error {
			return groups.SaveAll(ctx, []*domain.Group{domain.NewGroup(1, "g", "")})
		})
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
