package adaptive

import (
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"gorm.io/datatypes"
)

// levelAdjustment maps a performance score to a knowledge-level delta.
func levelAdjustment(score float64) int {
	switch {
	case score >= 90:
		return 5
	case score >= 80:
		return 3
	case score >= 70:
		return 1
	case score >= 60:
		return 0
	default:
		return -2
	}
}

// UpdateKnowledgeLevel shifts the student's mastery estimate for subject
// from a single performance observation and stamps the update time. The
// resulting level is clamped to [0,100]. This is the only mutator of the
// knowledge map; repeated identical observations keep shifting the level
// until a clamp bound is hit.
func UpdateKnowledgeLevel(profile *models.StudentProfile, subject string, score float64, now time.Time) int {
	levels := profile.KnowledgeLevels.Data()
	if levels == nil {
		levels = make(models.KnowledgeMap)
	}

	newLevel := clamp(levels.LevelFor(subject)+levelAdjustment(score), 0, 100)
	levels[subject] = models.KnowledgeLevel{
		Level:       newLevel,
		LastUpdated: now,
	}
	profile.KnowledgeLevels = datatypes.NewJSONType(levels)
	return newLevel
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
