package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/adaptive"
	"github.com/brightpath-ed/tutoring-service/internal/events"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
	"github.com/google/uuid"
)

// ProgressService records and queries learning activity
type ProgressService interface {
	Record(ctx context.Context, req *RecordProgressRequest) (*models.ProgressEvent, error)
	Query(ctx context.Context, studentID string, filters repositories.ProgressFilters) ([]models.ProgressEvent, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// ===== REQUEST/RESPONSE STRUCTS =====

type RecordProgressRequest struct {
	StudentID string           `json:"student_id" validate:"required"`
	SessionID string           `json:"session_id,omitempty"`
	Subject   string           `json:"subject" validate:"required"`
	Type      models.EventType `json:"type" validate:"required,event_type"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`

	Performance *models.Performance `json:"performance,omitempty"`
	Engagement  *models.Engagement  `json:"engagement,omitempty"`
	TimeSpent   *int                `json:"time_spent,omitempty" validate:"omitempty,min=0"`
	Completed   *bool               `json:"completed,omitempty"`
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Record validates and appends one progress event. When the event carries a
// performance score, the student's knowledge level for the subject is updated
// in the same call.
func (s *progressService) Record(ctx context.Context, req *RecordProgressRequest) (*models.ProgressEvent, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Performance != nil && (req.Performance.Score < 0 || req.Performance.Score > 100) {
		return nil, ValidationErrors{{Field: "performance.score", Message: "must be between 0 and 100", Rule: "score_range"}}
	}

	profile, err := s.repo.Student().GetByID(ctx, req.StudentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	if !profile.Active {
		return nil, ErrStudentInactive
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	event := &models.ProgressEvent{
		ID:          uuid.New().String(),
		StudentID:   req.StudentID,
		Timestamp:   timestamp,
		SessionID:   req.SessionID,
		Subject:     req.Subject,
		Type:        req.Type,
		Performance: req.Performance,
		Engagement:  req.Engagement,
		TimeSpent:   req.TimeSpent,
		Completed:   req.Completed,
		ExpiresAt:   timestamp.Add(models.RetentionPeriod),
	}

	if err := s.repo.Progress().Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append progress event: %w", err)
	}

	if req.Performance != nil {
		s.updateKnowledge(ctx, profile, req.Subject, req.Performance.Score)
	}

	var score *float64
	if req.Performance != nil {
		score = &req.Performance.Score
	}
	s.publishEvent(ctx, events.NewLearningEvent(events.EventProgressRecorded, events.ProgressRecordedEvent{
		EventID:   event.ID,
		StudentID: event.StudentID,
		Subject:   event.Subject,
		EventType: string(event.Type),
		Timestamp: event.Timestamp,
		Score:     score,
	}))

	s.logger.Info("Progress event recorded",
		"event_id", event.ID,
		"student_id", event.StudentID,
		"type", event.Type)
	return event, nil
}

func (s *progressService) Query(ctx context.Context, studentID string, filters repositories.ProgressFilters) ([]models.ProgressEvent, error) {
	exists, err := s.repo.Student().Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}
	return s.repo.Progress().Query(ctx, studentID, filters)
}

// PurgeExpired removes events past the retention window.
func (s *progressService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.repo.Progress().PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Purged expired progress events", "count", purged)
	}
	return purged, nil
}

// updateKnowledge is best-effort; a failed profile write loses one mastery
// adjustment but never the recorded event.
func (s *progressService) updateKnowledge(ctx context.Context, profile *models.StudentProfile, subject string, score float64) {
	oldLevel := profile.KnowledgeLevels.Data().LevelFor(subject)
	newLevel := adaptive.UpdateKnowledgeLevel(profile, subject, score, time.Now().UTC())

	if err := s.repo.Student().Update(ctx, profile); err != nil {
		s.logger.Warn("Failed to persist knowledge level update",
			"student_id", profile.StudentID,
			"subject", subject,
			"error", err)
		return
	}

	if newLevel != oldLevel {
		s.publishEvent(ctx, events.NewLearningEvent(events.EventKnowledgeUpdated, events.KnowledgeUpdatedEvent{
			StudentID: profile.StudentID,
			Subject:   subject,
			OldLevel:  oldLevel,
			NewLevel:  newLevel,
		}))
	}
}

func (s *progressService) publishEvent(ctx context.Context, event *events.LearningEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish learning event",
			"event_type", event.Type,
			"error", err)
	}
}
