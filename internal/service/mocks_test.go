package service

import (
	"context"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/seed"

	"github.com/stretchr/testify/mock"
)

// --- MockTransactionManager ---
// Runs fn inline; a real rollback is covered by the repository tests.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

// --- MockExerciseRepository ---
type MockExerciseRepository struct {
	mock.Mock
}

func (m *MockExerciseRepository) SaveAll(ctx context.Context, exercises []*domain.Exercise) error {
	args := m.Called(ctx, exercises)
	return args.Error(0)
}

func (m *MockExerciseRepository) FindByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exercise), args.Error(1)
}

func (m *MockExerciseRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- MockStudyHistoryRepository ---
type MockStudyHistoryRepository struct {
	mock.Mock
}

func (m *MockStudyHistoryRepository) FindByID(ctx context.Context, id string) (*domain.StudyHistory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudyHistory), args.Error(1)
}

func (m *MockStudyHistoryRepository) FindByKey(ctx context.Context, userID string, exerciseID int64, startTime time.Time) (*domain.StudyHistory, error) {
	args := m.Called(ctx, userID, exerciseID, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudyHistory), args.Error(1)
}

func (m *MockStudyHistoryRepository) Create(ctx context.Context, history *domain.StudyHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockStudyHistoryRepository) Update(ctx context.Context, history *domain.StudyHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

// --- MockSeedStatusProvider ---
type MockSeedStatusProvider struct {
	mock.Mock
}

func (m *MockSeedStatusProvider) Status(ctx context.Context) (*seed.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seed.Status), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
