package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/cache"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/utils"
	"github.com/stretchr/testify/mock"
)

func utilsLogger() utils.Logger {
	return utils.NewSlogLogger(testLogger())
}

// ===== MOCK REPOSITORIES =====

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentProfile), args.Error(1)
}

func (m *MockStudentRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockStudentRepository) Deactivate(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

func (m *MockStudentRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	args := m.Called(ctx, studentID)
	return args.Bool(0), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Append(ctx context.Context, event *models.ProgressEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockProgressRepository) Query(ctx context.Context, studentID string, filters repositories.ProgressFilters) ([]models.ProgressEvent, error) {
	args := m.Called(ctx, studentID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressEvent), args.Error(1)
}

func (m *MockProgressRepository) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockRepository aggregates the entity mocks behind the Repository interface.
type mockRepository struct {
	student  *MockStudentRepository
	progress *MockProgressRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		student:  new(MockStudentRepository),
		progress: new(MockProgressRepository),
	}
}

func (m *mockRepository) Student() repositories.StudentRepository   { return m.student }
func (m *mockRepository) Progress() repositories.ProgressRepository { return m.progress }
func (m *mockRepository) Ping(ctx context.Context) error            { return nil }
func (m *mockRepository) Close() error                              { return nil }

// fakeCache is an in-memory stand-in for the redis-backed cache.
type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}
