package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/brightpath-ed/tutoring-service/internal/events"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func registerRequest() *RegisterStudentRequest {
	return &RegisterStudentRequest{
		StudentID: "student-1",
		FullName:  "Asha Rao",
		Grade:     8,
		Board:     "CBSE",
		Country:   "India",
		Subjects:  []string{"math", "science"},
	}
}

func TestStudentServiceRegister(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewStudentService(repo, publisher, testLogger(), validator.New())

	repo.student.On("Exists", mock.Anything, "student-1").Return(false, nil)
	repo.student.On("Create", mock.Anything, mock.AnythingOfType("*models.StudentProfile")).Return(nil)

	profile, err := service.Register(context.Background(), registerRequest())

	require.NoError(t, err)
	assert.Equal(t, "student-1", profile.StudentID)
	assert.Equal(t, models.PaceMedium, profile.LearningPace)
	assert.True(t, profile.Active)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventStudentRegistered, published[0].Type)
	repo.student.AssertExpectations(t)
}

func TestStudentServiceRegisterDuplicate(t *testing.T) {
	repo := newMockRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New())

	repo.student.On("Exists", mock.Anything, "student-1").Return(true, nil)

	_, err := service.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrStudentExists)
}

func TestStudentServiceRegisterValidation(t *testing.T) {
	repo := newMockRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New())

	tests := []struct {
		name   string
		mutate func(*RegisterStudentRequest)
	}{
		{"missing student id", func(r *RegisterStudentRequest) { r.StudentID = "" }},
		{"grade out of range", func(r *RegisterStudentRequest) { r.Grade = 13 }},
		{"no subjects", func(r *RegisterStudentRequest) { r.Subjects = nil }},
		{"invalid pace", func(r *RegisterStudentRequest) { r.LearningPace = "frantic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest()
			tt.mutate(req)

			_, err := service.Register(context.Background(), req)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}

	repo.student.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New())

	repo.student.On("GetByID", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestStudentServiceUpdateMergesFields(t *testing.T) {
	repo := newMockRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New())

	existing := &models.StudentProfile{
		StudentID:    "student-1",
		FullName:     "Asha Rao",
		Grade:        8,
		Board:        "CBSE",
		Subjects:     []string{"math"},
		LearningPace: models.PaceMedium,
		Active:       true,
	}
	repo.student.On("GetByID", mock.Anything, "student-1").Return(existing, nil)
	repo.student.On("Update", mock.Anything, mock.AnythingOfType("*models.StudentProfile")).Return(nil)

	newGrade := 9
	updated, err := service.Update(context.Background(), "student-1", &UpdateStudentRequest{
		Grade:        &newGrade,
		LearningPace: models.PaceFast,
	})

	require.NoError(t, err)
	assert.Equal(t, 9, updated.Grade)
	assert.Equal(t, models.PaceFast, updated.LearningPace)
	// Untouched fields survive the merge.
	assert.Equal(t, "Asha Rao", updated.FullName)
	assert.Equal(t, "CBSE", updated.Board)
}

func TestStudentServiceDeactivate(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewStudentService(repo, publisher, testLogger(), validator.New())

	repo.student.On("Deactivate", mock.Anything, "student-1").Return(nil)

	require.NoError(t, service.Deactivate(context.Background(), "student-1"))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventStudentDeactivated, published[0].Type)
}

func TestStudentServiceDeactivateNotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewStudentService(repo, nil, testLogger(), validator.New())

	repo.student.On("Deactivate", mock.Anything, "ghost").Return(gorm.ErrRecordNotFound)

	err := service.Deactivate(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
