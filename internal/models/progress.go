package models

import "time"

type EventType string

const (
	EventLearningSession  EventType = "learning_session"
	EventSessionStart     EventType = "session_start"
	EventContentGenerated EventType = "content_generated"
	EventChatInteraction  EventType = "chat_interaction"
	EventAssessment       EventType = "assessment"
	EventProgressUpdate   EventType = "progress_update"
)

// RetentionPeriod is how long a progress event is kept before expiry.
const RetentionPeriod = 365 * 24 * time.Hour

type Performance struct {
	Score float64 `json:"score" validate:"min=0,max=100"`
}

type Engagement struct {
	Participation float64 `json:"participation"`
	Interaction   float64 `json:"interaction"`
	Score         float64 `json:"score"`
}

// ProgressEvent is an immutable, timestamped fact about a learning
// interaction. Events are append-only; ordering is established by Timestamp,
// not by any global sequence.
type ProgressEvent struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	StudentID string    `json:"student_id" gorm:"not null;size:255;index:idx_progress_student_ts,priority:1" validate:"required"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index:idx_progress_student_ts,priority:2,sort:desc"`
	SessionID string    `json:"session_id" gorm:"size:36;index"`
	Subject   string    `json:"subject" gorm:"not null;size:100;index" validate:"required"`
	Type      EventType `json:"type" gorm:"not null;size:30" validate:"required,event_type"`

	Performance *Performance `json:"performance,omitempty" gorm:"serializer:json"`
	Engagement  *Engagement  `json:"engagement,omitempty" gorm:"serializer:json"`
	TimeSpent   *int         `json:"time_spent,omitempty"` // minutes
	Completed   *bool        `json:"completed,omitempty"`

	// ExpiresAt implements the fixed retention window; queries exclude
	// expired rows.
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

func (ProgressEvent) TableName() string {
	return "progress_events"
}

// Date returns the event's calendar day in UTC, used for streak counting.
func (e *ProgressEvent) Date() time.Time {
	y, m, d := e.Timestamp.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
