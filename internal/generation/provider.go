// Package generation produces lesson and conversational content through a
// three-tier strategy chain: remote AI service, local templates, static
// placeholder. A tier failure selects the next tier; the chain as a whole
// never fails.
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/adaptive"
	"github.com/brightpath-ed/tutoring-service/internal/models"
)

// RemoteGenerator is the external text-generation service boundary. It fails
// with a *GenerationError on timeout, transport error or malformed payload;
// callers must treat failure as expected and fall back.
type RemoteGenerator interface {
	Generate(ctx context.Context, prompt, systemContext string) (string, error)
}

// GenerationError wraps any remote generation failure.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Tier identifies which fallback strategy produced the content.
type Tier string

const (
	TierRemote   Tier = "remote"
	TierTemplate Tier = "template"
	TierStatic   Tier = "static"
)

// Kind selects between a full lesson and a conversational reply.
type Kind string

const (
	KindLesson Kind = "lesson"
	KindChat   Kind = "chat"
)

// Request carries everything a strategy needs to produce content.
type Request struct {
	Kind       Kind
	Profile    *models.StudentProfile
	SessionID  string
	Subject    string
	Topic      string
	Difficulty adaptive.DifficultyTier
	Phase      models.SessionPhase

	// LatestMessage is the student's most recent input; drives intent
	// classification in the template tier.
	LatestMessage string

	// History is a short window of recent turns for continuity.
	History []models.SessionTurn
}

// Result is the produced content plus structured metadata about how it was
// produced.
type Result struct {
	Text        string    `json:"text"`
	Tier        Tier      `json:"tier"`
	Intent      Intent    `json:"intent,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
