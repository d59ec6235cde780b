package services

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/events"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func activeProfile() *models.StudentProfile {
	return &models.StudentProfile{
		StudentID:    "student-1",
		Grade:        8,
		Subjects:     []string{"math"},
		LearningPace: models.PaceMedium,
		KnowledgeLevels: datatypes.NewJSONType(models.KnowledgeMap{
			"math": {Level: 50, LastUpdated: time.Now().Add(-time.Hour)},
		}),
		Active: true,
	}
}

func TestProgressServiceRecord(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewProgressService(repo, publisher, testLogger(), validator.New())

	repo.student.On("GetByID", mock.Anything, "student-1").Return(activeProfile(), nil)
	repo.student.On("Update", mock.Anything, mock.AnythingOfType("*models.StudentProfile")).Return(nil)

	var appended *models.ProgressEvent
	repo.progress.On("Append", mock.Anything, mock.AnythingOfType("*models.ProgressEvent")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*models.ProgressEvent)
		}).
		Return(nil)

	event, err := service.Record(context.Background(), &RecordProgressRequest{
		StudentID:   "student-1",
		Subject:     "math",
		Type:        models.EventAssessment,
		Performance: &models.Performance{Score: 85},
	})

	require.NoError(t, err)
	require.NotNil(t, appended)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.EventAssessment, event.Type)
	assert.Equal(t, event.Timestamp.Add(models.RetentionPeriod), event.ExpiresAt)

	// Performance score 85 shifts the knowledge level by +3.
	repo.student.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(p *models.StudentProfile) bool {
		return p.KnowledgeLevels.Data()["math"].Level == 53
	}))

	types := make([]events.EventType, 0)
	for _, e := range publisher.GetPublishedEvents() {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, events.EventProgressRecorded)
	assert.Contains(t, types, events.EventKnowledgeUpdated)
}

func TestProgressServiceRecordWithoutPerformance(t *testing.T) {
	repo := newMockRepository()
	service := NewProgressService(repo, nil, testLogger(), validator.New())

	repo.student.On("GetByID", mock.Anything, "student-1").Return(activeProfile(), nil)
	repo.progress.On("Append", mock.Anything, mock.AnythingOfType("*models.ProgressEvent")).Return(nil)

	_, err := service.Record(context.Background(), &RecordProgressRequest{
		StudentID: "student-1",
		Subject:   "math",
		Type:      models.EventChatInteraction,
	})

	require.NoError(t, err)
	// No score, no knowledge-level write.
	repo.student.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProgressServiceRecordInactiveStudent(t *testing.T) {
	repo := newMockRepository()
	service := NewProgressService(repo, nil, testLogger(), validator.New())

	profile := activeProfile()
	profile.Active = false
	repo.student.On("GetByID", mock.Anything, "student-1").Return(profile, nil)

	_, err := service.Record(context.Background(), &RecordProgressRequest{
		StudentID: "student-1",
		Subject:   "math",
		Type:      models.EventAssessment,
	})
	assert.ErrorIs(t, err, ErrStudentInactive)
}

func TestProgressServiceRecordValidation(t *testing.T) {
	repo := newMockRepository()
	service := NewProgressService(repo, nil, testLogger(), validator.New())

	tests := []struct {
		name string
		req  *RecordProgressRequest
	}{
		{"missing student id", &RecordProgressRequest{Subject: "math", Type: models.EventAssessment}},
		{"missing subject", &RecordProgressRequest{StudentID: "student-1", Type: models.EventAssessment}},
		{"invalid event type", &RecordProgressRequest{StudentID: "student-1", Subject: "math", Type: "telepathy"}},
		{"score above range", &RecordProgressRequest{
			StudentID: "student-1", Subject: "math", Type: models.EventAssessment,
			Performance: &models.Performance{Score: 101},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Record(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	repo.progress.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestProgressServiceQueryUnknownStudent(t *testing.T) {
	repo := newMockRepository()
	service := NewProgressService(repo, nil, testLogger(), validator.New())

	repo.student.On("Exists", mock.Anything, "ghost").Return(false, nil)

	_, err := service.Query(context.Background(), "ghost", repositories.ProgressFilters{})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestProgressServicePurgeExpired(t *testing.T) {
	repo := newMockRepository()
	service := NewProgressService(repo, nil, testLogger(), validator.New())

	repo.progress.On("PurgeExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(12), nil)

	purged, err := service.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), purged)
}
