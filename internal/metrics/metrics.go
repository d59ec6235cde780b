// Package metrics turns a student's progress events into summary statistics.
// Every function is pure and total: absent or empty inputs degrade to neutral
// defaults (0, empty slice, TrendInsufficientData) instead of returning
// errors, so callers can always render a report.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
)

type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// SubjectScore pairs a subject with its average performance score.
type SubjectScore struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// CompletionRate is completed events over events that carry a completed
// flag, as a percentage. 0 when no event carries the flag.
func CompletionRate(events []models.ProgressEvent) float64 {
	total, completed := 0, 0
	for _, e := range events {
		if e.Completed == nil {
			continue
		}
		total++
		if *e.Completed {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// AverageTimeSpent is the mean of TimeSpent (minutes) over events carrying
// the field.
func AverageTimeSpent(events []models.ProgressEvent) float64 {
	sum, n := 0.0, 0
	for _, e := range events {
		if e.TimeSpent != nil {
			sum += float64(*e.TimeSpent)
			n++
		}
	}
	return mean(sum, n)
}

// AveragePerformance is the mean performance score over events carrying one.
func AveragePerformance(events []models.ProgressEvent) float64 {
	sum, n := 0.0, 0
	for _, e := range events {
		if e.Performance != nil {
			sum += e.Performance.Score
			n++
		}
	}
	return mean(sum, n)
}

// AverageEngagement is the mean engagement score over events carrying one.
func AverageEngagement(events []models.ProgressEvent) float64 {
	sum, n := 0.0, 0
	for _, e := range events {
		if e.Engagement != nil {
			sum += e.Engagement.Score
			n++
		}
	}
	return mean(sum, n)
}

// AverageParticipation is the mean engagement participation over events
// carrying engagement data.
func AverageParticipation(events []models.ProgressEvent) float64 {
	sum, n := 0.0, 0
	for _, e := range events {
		if e.Engagement != nil {
			sum += e.Engagement.Participation
			n++
		}
	}
	return mean(sum, n)
}

// EngagementCount reports how many events carry engagement data.
func EngagementCount(events []models.ProgressEvent) int {
	n := 0
	for _, e := range events {
		if e.Engagement != nil {
			n++
		}
	}
	return n
}

// LearningStreak counts consecutive calendar days with at least one event,
// walking backward from today. The count stops at the first missing day, so
// a day without activity resets the streak to 0.
func LearningStreak(events []models.ProgressEvent, today time.Time) int {
	if len(events) == 0 {
		return 0
	}

	days := make(map[time.Time]bool, len(events))
	for i := range events {
		days[events[i].Date()] = true
	}

	y, m, d := today.UTC().Date()
	expected := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	streak := 0
	for days[expected] {
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// ImprovementTrend compares the newest five scores against the five before
// them. Scores must be ordered newest-first. Fewer than two scores, or an
// empty older window, yields TrendInsufficientData.
func ImprovementTrend(scores []float64) Trend {
	if len(scores) < 2 {
		return TrendInsufficientData
	}

	recent := scores[:minInt(5, len(scores))]
	older := scores[minInt(5, len(scores)):minInt(10, len(scores))]
	if len(older) == 0 {
		return TrendInsufficientData
	}

	diff := meanOf(recent) - meanOf(older)
	switch {
	case diff > 5:
		return TrendImproving
	case diff < -5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ConsistencyScore is 100 minus the standard deviation of the scores,
// floored at 0. Fewer than three scores is not enough signal and yields 0.
func ConsistencyScore(scores []float64) float64 {
	if len(scores) < 3 {
		return 0
	}
	return math.Max(0, 100-stdDev(scores))
}

// LetterGrade maps a 0-100 score to a letter grade.
func LetterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// OverallScore blends performance, engagement and streak into one number:
// 0.5*performance + 0.3*engagement + 0.2*(streakDays*10).
func OverallScore(performanceScore, engagementScore float64, streakDays int) float64 {
	return 0.5*performanceScore + 0.3*engagementScore + 0.2*float64(streakDays*10)
}

// OverallGrade letter-grades the blended overall score.
func OverallGrade(performanceScore, engagementScore float64, streakDays int) string {
	return LetterGrade(OverallScore(performanceScore, engagementScore, streakDays))
}

// EducationalEffectiveness has no defined formula yet and reports a neutral
// constant. Kept as a named function so report fields stay stable once a
// formula is agreed.
func EducationalEffectiveness(events []models.ProgressEvent) float64 {
	return 0
}

// SubjectAverages groups performance scores by subject and averages each
// group.
func SubjectAverages(events []models.ProgressEvent) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range events {
		if e.Performance == nil || e.Subject == "" {
			continue
		}
		sums[e.Subject] += e.Performance.Score
		counts[e.Subject]++
	}

	averages := make(map[string]float64, len(sums))
	for subject, sum := range sums {
		averages[subject] = sum / float64(counts[subject])
	}
	return averages
}

// StrongSubjects are subjects averaging >= 80, best first, capped at three.
func StrongSubjects(events []models.ProgressEvent) []SubjectScore {
	return filterSubjects(events, func(s float64) bool { return s >= 80 }, true)
}

// WeakSubjects are subjects averaging < 70, worst first, capped at three.
func WeakSubjects(events []models.ProgressEvent) []SubjectScore {
	return filterSubjects(events, func(s float64) bool { return s < 70 }, false)
}

func filterSubjects(events []models.ProgressEvent, keep func(float64) bool, descending bool) []SubjectScore {
	picked := make([]SubjectScore, 0)
	for subject, avg := range SubjectAverages(events) {
		if keep(avg) {
			picked = append(picked, SubjectScore{Subject: subject, Score: avg})
		}
	}

	sort.Slice(picked, func(i, j int) bool {
		if picked[i].Score == picked[j].Score {
			return picked[i].Subject < picked[j].Subject
		}
		if descending {
			return picked[i].Score > picked[j].Score
		}
		return picked[i].Score < picked[j].Score
	})

	if len(picked) > 3 {
		picked = picked[:3]
	}
	return picked
}

// PerformanceScores extracts performance scores from events, preserving
// order (newest-first input stays newest-first).
func PerformanceScores(events []models.ProgressEvent) []float64 {
	scores := make([]float64, 0, len(events))
	for _, e := range events {
		if e.Performance != nil {
			scores = append(scores, e.Performance.Score)
		}
	}
	return scores
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return mean(sum, len(values))
}

func stdDev(values []float64) float64 {
	m := meanOf(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
