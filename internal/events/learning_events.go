package events

import (
	"time"

	"github.com/google/uuid"
)

// EventSource identifies this service in published events
const EventSource = "tutoring-service"

// EventVersion is the schema version stamped on every event
const EventVersion = "1.0"

// GenerateEventID returns a unique identifier for a new event
func GenerateEventID() string {
	return uuid.New().String()
}

// NewLearningEvent builds a base event envelope around a payload
func NewLearningEvent(eventType EventType, data interface{}) *LearningEvent {
	return &LearningEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}

// EventType represents different types of learning events
type EventType string

const (
	// Session events
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"
	EventTurnExchanged  EventType = "session.turn_exchanged"

	// Progress events
	EventProgressRecorded EventType = "progress.recorded"
	EventKnowledgeUpdated EventType = "progress.knowledge_updated"

	// Profile events
	EventStudentRegistered  EventType = "student.registered"
	EventStudentDeactivated EventType = "student.deactivated"
)

// LearningEvent is the base event structure published to the learning topic
type LearningEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic"`
	StartedAt time.Time `json:"started_at"`
}

type SessionEndedEvent struct {
	SessionID      string    `json:"session_id"`
	StudentID      string    `json:"student_id"`
	Subject        string    `json:"subject"`
	Topic          string    `json:"topic"`
	EndedAt        time.Time `json:"ended_at"`
	DurationSec    int       `json:"duration_sec"`
	StudentTurns   int       `json:"student_turns"`
	QuestionsAsked int       `json:"questions_asked"`
	CorrectAnswers int       `json:"correct_answers"`
}

type TurnExchangedEvent struct {
	SessionID  string `json:"session_id"`
	StudentID  string `json:"student_id"`
	Subject    string `json:"subject"`
	Difficulty string `json:"difficulty"`
	Tier       string `json:"tier"`
	Intent     string `json:"intent,omitempty"`
}

// Progress event payloads

type ProgressRecordedEvent struct {
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Score     *float64  `json:"score,omitempty"`
}

type KnowledgeUpdatedEvent struct {
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
}

// Profile event payloads

type StudentRegisteredEvent struct {
	StudentID string `json:"student_id"`
	Grade     int    `json:"grade"`
	Board     string `json:"board"`
	Country   string `json:"country"`
}

type StudentDeactivatedEvent struct {
	StudentID     string    `json:"student_id"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}
