// Package adaptive derives the difficulty tier and knowledge-level updates
// from observed performance.
package adaptive

import (
	"github.com/brightpath-ed/tutoring-service/internal/models"
)

type DifficultyTier string

const (
	TierBasic       DifficultyTier = "basic"
	TierModerate    DifficultyTier = "moderate"
	TierChallenging DifficultyTier = "challenging"
)

// recentWindow caps how much history feeds the difficulty signal.
const recentWindow = 10

// CalculateDifficulty maps recent performance history to a difficulty tier.
// It considers at most the 10 most-recent events with a recorded outcome
// (history is expected newest-first). With no usable history the student is
// assumed to be at moderate difficulty.
func CalculateDifficulty(history []models.ProgressEvent) DifficultyTier {
	successes, outcomes := 0, 0
	for i := range history {
		if outcomes == recentWindow {
			break
		}
		ok, counted := outcome(&history[i])
		if !counted {
			continue
		}
		outcomes++
		if ok {
			successes++
		}
	}

	if outcomes == 0 {
		return TierModerate
	}

	successRate := float64(successes) / float64(outcomes)
	switch {
	case successRate > 0.8:
		return TierChallenging
	case successRate > 0.6:
		return TierModerate
	default:
		return TierBasic
	}
}

// outcome reports whether the event counts toward the success rate and, if
// so, whether it was successful. A performance score of 70 or better counts
// as success; without a score, a completed event does.
func outcome(e *models.ProgressEvent) (success, counted bool) {
	if e.Performance != nil {
		return e.Performance.Score >= 70, true
	}
	if e.Completed != nil {
		return *e.Completed, true
	}
	return false, false
}
