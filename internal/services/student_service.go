package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/events"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
)

// StudentService manages student profiles
type StudentService interface {
	Register(ctx context.Context, req *RegisterStudentRequest) (*models.StudentProfile, error)
	Get(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Update(ctx context.Context, studentID string, req *UpdateStudentRequest) (*models.StudentProfile, error)
	Deactivate(ctx context.Context, studentID string) error
}

// ===== REQUEST/RESPONSE STRUCTS =====

type RegisterStudentRequest struct {
	StudentID    string              `json:"student_id" validate:"required,max=255"`
	FullName     string              `json:"full_name" validate:"max=100"`
	Grade        int                 `json:"grade" validate:"required,min=1,max=12"`
	Board        string              `json:"board" validate:"max=50"`
	Country      string              `json:"country" validate:"max=50"`
	Subjects     []string            `json:"subjects" validate:"required,min=1,dive,required"`
	LearningPace models.LearningPace `json:"learning_pace" validate:"omitempty,learning_pace"`
}

type UpdateStudentRequest struct {
	FullName     *string             `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Grade        *int                `json:"grade,omitempty" validate:"omitempty,min=1,max=12"`
	Board        *string             `json:"board,omitempty" validate:"omitempty,max=50"`
	Country      *string             `json:"country,omitempty" validate:"omitempty,max=50"`
	Subjects     []string            `json:"subjects,omitempty" validate:"omitempty,min=1,dive,required"`
	LearningPace models.LearningPace `json:"learning_pace,omitempty" validate:"omitempty,learning_pace"`
}

type studentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *studentService) Register(ctx context.Context, req *RegisterStudentRequest) (*models.StudentProfile, error) {
	s.logger.Info("Registering student", "student_id", req.StudentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Student().Exists(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if exists {
		return nil, ErrStudentExists
	}

	pace := req.LearningPace
	if pace == "" {
		pace = models.PaceMedium
	}

	profile := &models.StudentProfile{
		StudentID:    req.StudentID,
		FullName:     req.FullName,
		Grade:        req.Grade,
		Board:        req.Board,
		Country:      req.Country,
		Subjects:     req.Subjects,
		LearningPace: pace,
		Active:       true,
	}

	if err := s.repo.Student().Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create student profile: %w", err)
	}

	s.publishEvent(ctx, events.NewLearningEvent(events.EventStudentRegistered, events.StudentRegisteredEvent{
		StudentID: profile.StudentID,
		Grade:     profile.Grade,
		Board:     profile.Board,
		Country:   profile.Country,
	}))

	s.logger.Info("Student registered successfully", "student_id", profile.StudentID)
	return profile, nil
}

func (s *studentService) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return profile, nil
}

func (s *studentService) Update(ctx context.Context, studentID string, req *UpdateStudentRequest) (*models.StudentProfile, error) {
	s.logger.Info("Updating student", "student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Grade != nil {
		profile.Grade = *req.Grade
	}
	if req.Board != nil {
		profile.Board = *req.Board
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if len(req.Subjects) > 0 {
		profile.Subjects = req.Subjects
	}
	if req.LearningPace != "" {
		profile.LearningPace = req.LearningPace
	}

	if err := s.repo.Student().Update(ctx, profile); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to update student profile: %w", err)
	}
	return profile, nil
}

func (s *studentService) Deactivate(ctx context.Context, studentID string) error {
	s.logger.Info("Deactivating student", "student_id", studentID)

	if err := s.repo.Student().Deactivate(ctx, studentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to deactivate student profile: %w", err)
	}

	s.publishEvent(ctx, events.NewLearningEvent(events.EventStudentDeactivated, events.StudentDeactivatedEvent{
		StudentID:     studentID,
		DeactivatedAt: time.Now().UTC(),
	}))
	return nil
}

// publishEvent publishes best-effort; a broker outage never fails the
// operation that triggered the event.
func (s *studentService) publishEvent(ctx context.Context, event *events.LearningEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish learning event",
			"event_type", event.Type,
			"error", err)
	}
}
