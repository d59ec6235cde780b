package models

import (
	"time"

	"gorm.io/datatypes"
)

type LearningPace string

const (
	PaceSlow   LearningPace = "slow"
	PaceMedium LearningPace = "medium"
	PaceFast   LearningPace = "fast"
)

// KnowledgeLevel is a 0-100 mastery estimate for one subject.
type KnowledgeLevel struct {
	Level       int       `json:"level"`
	LastUpdated time.Time `json:"last_updated"`
}

// KnowledgeMap maps subject name to the student's current mastery estimate.
type KnowledgeMap map[string]KnowledgeLevel

// DefaultKnowledgeLevel is the starting mastery for a subject that has no
// recorded observations yet.
const DefaultKnowledgeLevel = 50

// LevelFor returns the mastery level for subject, falling back to the
// default when the subject has never been observed.
func (m KnowledgeMap) LevelFor(subject string) int {
	if kl, ok := m[subject]; ok {
		return kl.Level
	}
	return DefaultKnowledgeLevel
}

type StudentProfile struct {
	StudentID string `json:"student_id" gorm:"primaryKey;size:255" validate:"required"`
	FullName  string `json:"full_name" gorm:"size:100"`

	// Curriculum metadata used to personalize generated content
	Grade   int    `json:"grade" gorm:"not null" validate:"required,min=1,max=12"`
	Board   string `json:"board" gorm:"size:50"`
	Country string `json:"country" gorm:"size:50"`

	Subjects     datatypes.JSONSlice[string] `json:"subjects" validate:"required,min=1"`
	LearningPace LearningPace                `json:"learning_pace" gorm:"default:medium;size:10" validate:"omitempty,learning_pace"`

	// Per-subject mastery. Mutated only through the knowledge-level updater;
	// each level is clamped to [0,100].
	KnowledgeLevels datatypes.JSONType[KnowledgeMap] `json:"knowledge_levels"`

	// Soft delete: profiles are never hard-deleted while progress events
	// reference them.
	Active bool `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
