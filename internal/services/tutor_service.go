package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/adaptive"
	"github.com/brightpath-ed/tutoring-service/internal/events"
	"github.com/brightpath-ed/tutoring-service/internal/generation"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"github.com/brightpath-ed/tutoring-service/internal/sessions"
	"github.com/brightpath-ed/tutoring-service/internal/validator"
	"github.com/google/uuid"
)

// TutorService drives interactive tutoring sessions
type TutorService interface {
	StartSession(ctx context.Context, req *StartSessionRequest) (*StartSessionResponse, error)
	SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error)
	EndSession(ctx context.Context, sessionID, studentID string) (*EndSessionResponse, error)
}

// ===== REQUEST/RESPONSE STRUCTS =====

type StartSessionRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Topic     string `json:"topic" validate:"required"`

	// Difficulty pins the opening difficulty instead of deriving it from
	// history. Later turns re-derive from history as usual.
	Difficulty adaptive.DifficultyTier `json:"difficulty,omitempty" validate:"omitempty,difficulty_tier"`
}

type StartSessionResponse struct {
	SessionID  string                  `json:"session_id"`
	Greeting   string                  `json:"greeting"`
	Difficulty adaptive.DifficultyTier `json:"difficulty"`
	Tier       generation.Tier         `json:"tier"`
	Phase      models.SessionPhase     `json:"phase"`
	StartedAt  time.Time               `json:"started_at"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	Message   string `json:"message" validate:"required,max=4000"`
}

type SendMessageResponse struct {
	SessionID  string                  `json:"session_id"`
	Reply      string                  `json:"reply"`
	Difficulty adaptive.DifficultyTier `json:"difficulty"`
	Tier       generation.Tier         `json:"tier"`
	Intent     generation.Intent       `json:"intent,omitempty"`
	Phase      models.SessionPhase     `json:"phase"`
}

type EndSessionResponse struct {
	SessionID      string `json:"session_id"`
	DurationSec    int    `json:"duration_sec"`
	StudentTurns   int    `json:"student_turns"`
	QuestionsAsked int    `json:"questions_asked"`
}

// historyLimit bounds how much progress history feeds difficulty and prompts.
const historyLimit = 20

type tutorService struct {
	repo      repositories.Repository
	store     sessions.Store
	generator *generation.Generator
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	now       func() time.Time
}

func NewTutorService(
	repo repositories.Repository,
	store sessions.Store,
	generator *generation.Generator,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) TutorService {
	return &tutorService{
		repo:      repo,
		store:     store,
		generator: generator,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

func (s *tutorService) StartSession(ctx context.Context, req *StartSessionRequest) (*StartSessionResponse, error) {
	s.logger.Info("Starting tutoring session",
		"student_id", req.StudentID,
		"subject", req.Subject,
		"topic", req.Topic)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.activeProfile(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = s.difficultyFor(ctx, req.StudentID, req.Subject)
	}
	now := s.now().UTC()

	session := &models.TutorSession{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		Subject:   req.Subject,
		Topic:     req.Topic,
		State: models.LearningState{
			CurrentPhase:       models.PhaseIntroduction,
			TopicSections:      topicSections(req.Topic),
			UnderstandingLevel: 5,
		},
		StartedAt: now,
	}

	greeting := s.generator.Generate(ctx, &generation.Request{
		Kind:       generation.KindLesson,
		Profile:    profile,
		SessionID:  session.ID,
		Subject:    req.Subject,
		Topic:      req.Topic,
		Difficulty: difficulty,
		Phase:      session.State.CurrentPhase,
	})

	session.Turns = append(session.Turns, models.SessionTurn{
		Role:      models.TurnRoleTutor,
		Content:   greeting.Text,
		Timestamp: now,
	})

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.recordProgress(ctx, &models.ProgressEvent{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		Timestamp: now,
		SessionID: session.ID,
		Subject:   req.Subject,
		Type:      models.EventSessionStart,
		ExpiresAt: now.Add(models.RetentionPeriod),
	})

	s.publishEvent(ctx, events.NewLearningEvent(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID: session.ID,
		StudentID: session.StudentID,
		Subject:   session.Subject,
		Topic:     session.Topic,
		StartedAt: session.StartedAt,
	}))

	return &StartSessionResponse{
		SessionID:  session.ID,
		Greeting:   greeting.Text,
		Difficulty: difficulty,
		Tier:       greeting.Tier,
		Phase:      session.State.CurrentPhase,
		StartedAt:  session.StartedAt,
	}, nil
}

func (s *tutorService) SendMessage(ctx context.Context, req *SendMessageRequest) (*SendMessageResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, err := s.loadSession(ctx, req.SessionID, req.StudentID)
	if err != nil {
		return nil, err
	}

	profile, err := s.activeProfile(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	difficulty := s.difficultyFor(ctx, req.StudentID, session.Subject)
	now := s.now().UTC()

	session.Turns = append(session.Turns, models.SessionTurn{
		Role:      models.TurnRoleStudent,
		Content:   req.Message,
		Timestamp: now,
	})

	result := s.generator.Generate(ctx, &generation.Request{
		Kind:          generation.KindChat,
		Profile:       profile,
		SessionID:     session.ID,
		Subject:       session.Subject,
		Topic:         session.Topic,
		Difficulty:    difficulty,
		Phase:         session.State.CurrentPhase,
		LatestMessage: req.Message,
		History:       session.Turns[:len(session.Turns)-1],
	})

	session.Turns = append(session.Turns, models.SessionTurn{
		Role:      models.TurnRoleTutor,
		Content:   result.Text,
		Timestamp: now,
	})

	intent := generation.ClassifyIntent(req.Message)
	s.updateState(session, intent)

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.recordProgress(ctx, &models.ProgressEvent{
		ID:        uuid.New().String(),
		StudentID: req.StudentID,
		Timestamp: now,
		SessionID: session.ID,
		Subject:   session.Subject,
		Type:      models.EventChatInteraction,
		ExpiresAt: now.Add(models.RetentionPeriod),
	})

	s.publishEvent(ctx, events.NewLearningEvent(events.EventTurnExchanged, events.TurnExchangedEvent{
		SessionID:  session.ID,
		StudentID:  session.StudentID,
		Subject:    session.Subject,
		Difficulty: string(difficulty),
		Tier:       string(result.Tier),
		Intent:     string(intent),
	}))

	return &SendMessageResponse{
		SessionID:  session.ID,
		Reply:      result.Text,
		Difficulty: difficulty,
		Tier:       result.Tier,
		Intent:     intent,
		Phase:      session.State.CurrentPhase,
	}, nil
}

func (s *tutorService) EndSession(ctx context.Context, sessionID, studentID string) (*EndSessionResponse, error) {
	session, err := s.loadSession(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	duration := int(now.Sub(session.StartedAt).Seconds())
	timeSpentMin := duration / 60
	completed := true

	// Project the conversation into the durable record before the session
	// state is discarded.
	s.recordProgress(ctx, &models.ProgressEvent{
		ID:        uuid.New().String(),
		StudentID: studentID,
		Timestamp: now,
		SessionID: session.ID,
		Subject:   session.Subject,
		Type:      models.EventLearningSession,
		Engagement: &models.Engagement{
			Participation: participationScore(session),
			Interaction:   float64(session.StudentTurns()),
			Score:         participationScore(session),
		},
		TimeSpent: &timeSpentMin,
		Completed: &completed,
		ExpiresAt: now.Add(models.RetentionPeriod),
	})

	s.publishEvent(ctx, events.NewLearningEvent(events.EventSessionEnded, events.SessionEndedEvent{
		SessionID:      session.ID,
		StudentID:      session.StudentID,
		Subject:        session.Subject,
		Topic:          session.Topic,
		EndedAt:        now,
		DurationSec:    duration,
		StudentTurns:   session.StudentTurns(),
		QuestionsAsked: session.State.QuestionsAsked,
		CorrectAnswers: session.State.CorrectAnswers,
	}))

	if err := s.store.Delete(ctx, session.ID); err != nil {
		s.logger.Warn("Failed to delete ended session", "session_id", session.ID, "error", err)
	}

	s.logger.Info("Tutoring session ended",
		"session_id", session.ID,
		"student_id", studentID,
		"duration_sec", duration)

	return &EndSessionResponse{
		SessionID:      session.ID,
		DurationSec:    duration,
		StudentTurns:   session.StudentTurns(),
		QuestionsAsked: session.State.QuestionsAsked,
	}, nil
}

// ===== HELPERS =====

func (s *tutorService) loadSession(ctx context.Context, sessionID, studentID string) (*models.TutorSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.StudentID != studentID {
		return nil, ErrSessionMismatch
	}
	return session, nil
}

func (s *tutorService) activeProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	if !profile.Active {
		return nil, ErrStudentInactive
	}
	return profile, nil
}

// difficultyFor recomputes the tier from recent history. A failed history
// read degrades to moderate instead of failing the turn.
func (s *tutorService) difficultyFor(ctx context.Context, studentID, subject string) adaptive.DifficultyTier {
	history, err := s.repo.Progress().Query(ctx, studentID, repositories.ProgressFilters{
		Subject: subject,
		Limit:   historyLimit,
	})
	if err != nil {
		s.logger.Warn("Failed to load progress history for difficulty",
			"student_id", studentID,
			"subject", subject,
			"error", err)
		return adaptive.TierModerate
	}
	return adaptive.CalculateDifficulty(history)
}

// updateState advances the session phase and counters after an exchange.
// Phases only move forward: intent signals pull the session into practice or
// assessment early, otherwise turn counts push it along.
func (s *tutorService) updateState(session *models.TutorSession, intent generation.Intent) {
	state := &session.State
	turns := session.StudentTurns()

	// A reply to an outstanding practice question settles it: anything that
	// is not a help request counts as answered correctly. Asking for another
	// question leaves the previous one pending.
	if state.PendingQuestion && intent != generation.IntentPractice {
		if intent != generation.IntentHelp {
			state.CorrectAnswers++
		}
		state.PendingQuestion = false
	}

	if intent == generation.IntentPractice {
		state.QuestionsAsked++
		state.PendingQuestion = true
	}
	if intent == generation.IntentHelp && state.UnderstandingLevel > 0 {
		state.UnderstandingLevel--
	}
	if intent == generation.IntentContinuation {
		if state.UnderstandingLevel < 10 {
			state.UnderstandingLevel++
		}
		if state.CurrentSectionIndex < len(state.TopicSections)-1 {
			state.CurrentSectionIndex++
		}
	}

	switch state.CurrentPhase {
	case models.PhaseIntroduction:
		if turns >= 2 || intent == generation.IntentPractice {
			state.CurrentPhase = models.PhaseLearning
		}
	case models.PhaseLearning:
		if turns >= 6 || intent == generation.IntentPractice {
			state.CurrentPhase = models.PhasePractice
		}
	case models.PhasePractice:
		if turns >= 10 {
			state.CurrentPhase = models.PhaseAssessment
		}
	}
}

// topicSections lays out the default path through a topic. Continuation
// intents advance CurrentSectionIndex along this list.
func topicSections(topic string) []string {
	return []string{
		"introduction to " + topic,
		topic + ": core concepts",
		topic + ": worked examples",
		topic + ": practice",
		topic + ": review",
	}
}

// participationScore is a 0-100 engagement heuristic from turn activity.
func participationScore(session *models.TutorSession) float64 {
	score := float64(session.StudentTurns()) * 10
	if score > 100 {
		return 100
	}
	return score
}

func (s *tutorService) recordProgress(ctx context.Context, event *models.ProgressEvent) {
	if err := s.repo.Progress().Append(ctx, event); err != nil {
		s.logger.Warn("Failed to record progress event",
			"event_id", event.ID,
			"type", event.Type,
			"error", err)
	}
}

func (s *tutorService) publishEvent(ctx context.Context, event *events.LearningEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLearningEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish learning event",
			"event_type", event.Type,
			"error", err)
	}
}
