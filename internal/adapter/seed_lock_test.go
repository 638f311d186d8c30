package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"sound-byte/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lockKey = "soundbyte:seed:lock:initial-data"

func newTestLock(t *testing.T, db redis.Cmdable) domain.SeedLock {
	t.Helper()
	lock := NewRedisSeedLock(db, lockKey, time.Minute, zap.NewNop())
	lock.(*RedisSeedLock).newToken = func() string { return "01J0000000000000000000TOKEN" }
	return lock
}

func TestRedisSeedLock_AcquireAndRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectSetNX(lockKey, "01J0000000000000000000TOKEN", time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{lockKey}, "01J0000000000000000000TOKEN").SetVal(int64(1))

	lock := newTestLock(t, db)
	release, acquired, err := lock.Acquire(context.Background())

	require.NoError(t, err)
	require.True(t, acquired)
	assert.NoError(t, release(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeedLock_HeldElsewhere(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectSetNX(lockKey, "01J0000000000000000000TOKEN", time.Minute).SetVal(false)

	lock := newTestLock(t, db)
	release, acquired, err := lock.Acquire(context.Background())

	assert.NoError(t, err)
	assert.False(t, acquired)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSeedLock_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectSetNX(lockKey, "01J0000000000000000000TOKEN", time.Minute).SetErr(errors.New("connection refused"))

	lock := newTestLock(t, db)
	_, acquired, err := lock.Acquire(context.Background())

	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, acquired)
}

func TestLocalSeedLock(t *testing.T) {
	lock := NewLocalSeedLock()
	ctx := context.Background()

	release, acquired, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	_, again, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, release(ctx))
	_, acquired, err = lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
}
