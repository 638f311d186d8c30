package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sound-byte/internal/cache"
	"sound-byte/internal/domain"
	"sound-byte/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testInstance = "node-a"

func TestSeedStatus_WithoutCache(t *testing.T) {
	ctx := context.Background()
	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(&seed.Status{State: seed.StateDone, Seeded: true, Groups: 2}, nil)

	st, err := NewSeedStatusService(provider, nil, testInstance, time.Minute).GetStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.Seeded)
	assert.Equal(t, int64(2), st.Groups)
}

func TestSeedStatus_CachesSettledStatus(t *testing.T) {
	ctx := context.Background()
	key := cache.SeedStatusKey(testInstance)

	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(&seed.Status{State: seed.StateDone, Seeded: true, Groups: 2}, nil).Once()

	c := new(MockCache)
	c.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
	c.On("Set", ctx, key, mock.AnythingOfType("string"), 30*time.Second).Return(nil).Once()

	st, err := NewSeedStatusService(provider, c, testInstance, 30*time.Second).GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.StateDone, st.State)
	c.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestSeedStatus_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	key := cache.SeedStatusKey(testInstance)

	raw, err := json.Marshal(&seed.Status{State: seed.StateSkipped, Seeded: true, Groups: 4})
	require.NoError(t, err)

	provider := new(MockSeedStatusProvider)
	c := new(MockCache)
	c.On("Get", ctx, key).Return(string(raw), nil)

	st, err := NewSeedStatusService(provider, c, testInstance, time.Minute).GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.StateSkipped, st.State)
	assert.Equal(t, int64(4), st.Groups)
	provider.AssertNotCalled(t, "Status", mock.Anything)
}

func TestSeedStatus_DoesNotCacheRunningPass(t *testing.T) {
	ctx := context.Background()
	key := cache.SeedStatusKey(testInstance)

	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(&seed.Status{State: seed.StateSeeding}, nil)

	c := new(MockCache)
	c.On("Get", ctx, key).Return("", errors.New("connection refused"))

	st, err := NewSeedStatusService(provider, c, testInstance, time.Minute).GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.StateSeeding, st.State)
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSeedStatus_ProviderError(t *testing.T) {
	ctx := context.Background()
	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(nil, errors.New("db down"))

	_, err := NewSeedStatusService(provider, nil, testInstance, time.Minute).GetStatus(ctx)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.CodeInternal, de.Code)
}

func TestSeedStatus_KeyedPerInstance(t *testing.T) {
	ctx := context.Background()

	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(&seed.Status{State: seed.StateDone, Seeded: true}, nil)

	c := new(MockCache)
	for _, id := range []string{"node-a", "node-b"} {
		key := cache.SeedStatusKey(id)
		c.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
		c.On("Set", ctx, key, mock.AnythingOfType("string"), time.Minute).Return(nil).Once()

		_, err := NewSeedStatusService(provider, c, id, time.Minute).GetStatus(ctx)
		require.NoError(t, err)
	}
	c.AssertExpectations(t)
}

func TestSeedStatus_DropsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	key := cache.SeedStatusKey(testInstance)

	provider := new(MockSeedStatusProvider)
	provider.On("Status", ctx).Return(&seed.Status{State: seed.StateSeeding}, nil)

	c := new(MockCache)
	c.On("Get", ctx, key).Return("{not json", nil)
	c.On("Delete", ctx, key).Return(nil).Once()

	st, err := NewSeedStatusService(provider, c, testInstance, time.Minute).GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.StateSeeding, st.State)
	c.AssertExpectations(t)
}
