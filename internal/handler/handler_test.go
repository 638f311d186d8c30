package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sound-byte/internal/domain"
	"sound-byte/internal/dto"
	"sound-byte/internal/handler"
	"sound-byte/internal/middleware"
	"sound-byte/internal/seed"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockStudyHistoryService struct {
	SaveOrReplaceFunc func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error)
	PatchFunc         func(ctx context.Context, req *dto.StudyHistoryRequest) error
	ReplaceFunc       func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error)
}

func (m *MockStudyHistoryService) SaveOrReplace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
	if m.SaveOrReplaceFunc != nil {
		return m.SaveOrReplaceFunc(ctx, req)
	}
	panic("MockStudyHistoryService.SaveOrReplaceFunc not implemented")
}
func (m *MockStudyHistoryService) Patch(ctx context.Context, req *dto.StudyHistoryRequest) error {
	if m.PatchFunc != nil {
		return m.PatchFunc(ctx, req)
	}
	panic("MockStudyHistoryService.PatchFunc not implemented")
}
func (m *MockStudyHistoryService) Replace(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, req)
	}
	panic("MockStudyHistoryService.ReplaceFunc not implemented")
}

type MockSeedStatusService struct {
	GetStatusFunc func(ctx context.Context) (*seed.Status, error)
}

func (m *MockSeedStatusService) GetStatus(ctx context.Context) (*seed.Status, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx)
	}
	panic("MockSeedStatusService.GetStatusFunc not implemented")
}

type MockCache struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	panic("MockCache.Get not implemented")
}
func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	panic("MockCache.Set not implemented")
}
func (m *MockCache) Delete(ctx context.Context, key string) error {
	panic("MockCache.Delete not implemented")
}
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	panic("MockCache.PingFunc not implemented")
}

// --- Helpers ---

type testDeps struct {
	histories *MockStudyHistoryService
	seed      *MockSeedStatusService
	ping      handler.PingFunc
	cache     domain.Cache
}

func setupApp(deps testDeps) *fiber.App {
	if deps.histories == nil {
		deps.histories = &MockStudyHistoryService{}
	}
	if deps.seed == nil {
		deps.seed = &MockSeedStatusService{}
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		StudyHistory: handler.NewStudyHistoryHandler(deps.histories),
		Seed:         handler.NewSeedHandler(deps.seed),
		Health:       handler.NewHealthHandler("memory", deps.ping, deps.cache),
	})
	return app
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

var start = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func validBody() map[string]any {
	return map[string]any{
		"userId":     "user-1",
		"exerciseId": 3,
		"startTime":  start.Format(time.RFC3339),
		"endTime":    start.Add(time.Minute).Format(time.RFC3339),
		"tasksCount": 10,
	}
}

// --- Tests ---

func TestSaveOrReplace_Created(t *testing.T) {
	svc := &MockStudyHistoryService{
		SaveOrReplaceFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
			assert.Equal(t, "user-1", *req.UserID)
			assert.Equal(t, int64(3), *req.ExerciseID)
			assert.True(t, start.Equal(*req.StartTime))
			return &dto.StudyHistoryResponse{ID: "01HGZ8VNRYXS8QKNJV5GRWPWDQ", UserID: "user-1", ExerciseID: 3, StartTime: start, TasksCount: 10}, nil
		},
	}
	app := setupApp(testDeps{histories: svc})

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/study-histories", validBody()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var body dto.StudyHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "01HGZ8VNRYXS8QKNJV5GRWPWDQ", body.ID)
	assert.Equal(t, 10, body.TasksCount)
}

func TestSaveOrReplace_ValidationFailureSkipsService(t *testing.T) {
	app := setupApp(testDeps{})
	body := validBody()
	body["tasksCount"] = -1
	delete(body, "userId")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/study-histories", body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody middleware.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	require.Len(t, errBody.Errors, 2)
	assert.Equal(t, "userId", errBody.Errors[0].Field)
	assert.Equal(t, "tasksCount", errBody.Errors[1].Field)
}

func TestSaveOrReplace_UnknownExercise(t *testing.T) {
	svc := &MockStudyHistoryService{
		SaveOrReplaceFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
			return nil, domain.NewExerciseNotFoundError(*req.ExerciseID)
		},
	}
	resp, err := setupApp(testDeps{histories: svc}).Test(jsonRequest(t, http.MethodPost, "/api/study-histories", validBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatch_NoContent(t *testing.T) {
	var got *dto.StudyHistoryRequest
	svc := &MockStudyHistoryService{
		PatchFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) error {
			got = req
			return nil
		},
	}
	body := map[string]any{"id": "01HGZ8VNRYXS8QKNJV5GRWPWDQ", "repetitionIndex": 1.5}

	resp, err := setupApp(testDeps{histories: svc}).Test(jsonRequest(t, http.MethodPatch, "/api/study-histories", body))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NotNil(t, got)
	assert.Nil(t, got.TasksCount)
	assert.Equal(t, 1.5, *got.RepetitionIndex)
}

func TestPatch_NotFound(t *testing.T) {
	svc := &MockStudyHistoryService{
		PatchFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) error {
			return domain.NewStudyHistoryNotFoundError()
		},
	}
	resp, err := setupApp(testDeps{histories: svc}).Test(jsonRequest(t, http.MethodPatch, "/api/study-histories", validBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReplace_Conflict(t *testing.T) {
	svc := &MockStudyHistoryService{
		ReplaceFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
			return nil, domain.NewConflictError("taken")
		},
	}
	body := validBody()
	body["id"] = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"

	resp, err := setupApp(testDeps{histories: svc}).Test(jsonRequest(t, http.MethodPut, "/api/study-histories", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReplace_Created(t *testing.T) {
	svc := &MockStudyHistoryService{
		ReplaceFunc: func(ctx context.Context, req *dto.StudyHistoryRequest) (*dto.StudyHistoryResponse, error) {
			return &dto.StudyHistoryResponse{ID: req.ID, TasksCount: *req.TasksCount}, nil
		},
	}
	body := validBody()
	body["id"] = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"

	resp, err := setupApp(testDeps{histories: svc}).Test(jsonRequest(t, http.MethodPut, "/api/study-histories", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSeedStatus(t *testing.T) {
	svc := &MockSeedStatusService{
		GetStatusFunc: func(ctx context.Context) (*seed.Status, error) {
			return &seed.Status{State: seed.StateDone, Seeded: true, Groups: 2, Exercises: 5}, nil
		},
	}
	resp, err := setupApp(testDeps{seed: svc}).Test(httptest.NewRequest(http.MethodGet, "/api/seed/status", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body seed.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Seeded)
	assert.Equal(t, int64(2), body.Groups)
	assert.Equal(t, seed.StateDone, body.State)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		ping       handler.PingFunc
		cache      domain.Cache
		wantStatus int
		want       dto.HealthResponse
	}{
		{
			name:       "no probes",
			wantStatus: http.StatusOK,
			want:       dto.HealthResponse{Status: "ok", Storage: "memory"},
		},
		{
			name:       "cache down",
			ping:       func(ctx context.Context) error { return nil },
			cache:      &MockCache{PingFunc: func(ctx context.Context) error { return errors.New("refused") }},
			wantStatus: http.StatusOK,
			want:       dto.HealthResponse{Status: "degraded", Storage: "memory", Cache: "down"},
		},
		{
			name:       "storage down",
			ping:       func(ctx context.Context) error { return errors.New("ORA-12541") },
			cache:      &MockCache{PingFunc: func(ctx context.Context) error { return nil }},
			wantStatus: http.StatusServiceUnavailable,
			want:       dto.HealthResponse{Status: "down", Storage: "memory", Cache: "up"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(testDeps{ping: tt.ping, cache: tt.cache})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body)
		})
	}
}
