package metrics

import (
	"testing"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func perf(s float64) *models.Performance {
	return &models.Performance{Score: s}
}

func eventOn(day string, opts ...func(*models.ProgressEvent)) models.ProgressEvent {
	ts, _ := time.Parse("2006-01-02", day)
	e := models.ProgressEvent{
		StudentID: "student-1",
		Subject:   "math",
		Type:      models.EventLearningSession,
		Timestamp: ts,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name     string
		events   []models.ProgressEvent
		expected float64
	}{
		{
			name:     "no events",
			events:   nil,
			expected: 0,
		},
		{
			name: "no completed flags",
			events: []models.ProgressEvent{
				eventOn("2024-01-01"),
			},
			expected: 0,
		},
		{
			name: "half completed",
			events: []models.ProgressEvent{
				eventOn("2024-01-01", func(e *models.ProgressEvent) { e.Completed = boolPtr(true) }),
				eventOn("2024-01-02", func(e *models.ProgressEvent) { e.Completed = boolPtr(false) }),
				eventOn("2024-01-03"),
			},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompletionRate(tt.events))
		})
	}
}

func TestAverages(t *testing.T) {
	events := []models.ProgressEvent{
		eventOn("2024-01-01", func(e *models.ProgressEvent) {
			e.Performance = perf(80)
			e.TimeSpent = intPtr(30)
			e.Engagement = &models.Engagement{Participation: 70, Score: 60}
		}),
		eventOn("2024-01-02", func(e *models.ProgressEvent) {
			e.Performance = perf(90)
		}),
		eventOn("2024-01-03"),
	}

	assert.Equal(t, 85.0, AveragePerformance(events))
	assert.Equal(t, 30.0, AverageTimeSpent(events))
	assert.Equal(t, 60.0, AverageEngagement(events))
	assert.Equal(t, 70.0, AverageParticipation(events))
	assert.Equal(t, 1, EngagementCount(events))

	assert.Equal(t, 0.0, AveragePerformance(nil))
	assert.Equal(t, 0.0, AverageTimeSpent(nil))
}

func TestLearningStreak(t *testing.T) {
	today, _ := time.Parse("2006-01-02", "2024-01-03")

	t.Run("three consecutive days", func(t *testing.T) {
		events := []models.ProgressEvent{
			eventOn("2024-01-03"),
			eventOn("2024-01-02"),
			eventOn("2024-01-01"),
		}
		assert.Equal(t, 3, LearningStreak(events, today))
	})

	t.Run("gap breaks the streak", func(t *testing.T) {
		events := []models.ProgressEvent{
			eventOn("2024-01-03"),
			eventOn("2024-01-01"),
		}
		assert.Equal(t, 1, LearningStreak(events, today))
	})

	t.Run("no event today", func(t *testing.T) {
		events := []models.ProgressEvent{
			eventOn("2024-01-02"),
			eventOn("2024-01-01"),
		}
		assert.Equal(t, 0, LearningStreak(events, today))
	})

	t.Run("multiple events same day count once", func(t *testing.T) {
		events := []models.ProgressEvent{
			eventOn("2024-01-03"),
			eventOn("2024-01-03"),
		}
		assert.Equal(t, 1, LearningStreak(events, today))
	})

	t.Run("no events", func(t *testing.T) {
		assert.Equal(t, 0, LearningStreak(nil, today))
	})
}

func TestImprovementTrend(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64 // newest first
		expected Trend
	}{
		{"empty", nil, TrendInsufficientData},
		{"single score", []float64{90}, TrendInsufficientData},
		{"no older window", []float64{90, 80, 85, 82, 88}, TrendInsufficientData},
		{
			"improving",
			[]float64{90, 92, 88, 91, 89, 70, 72, 68, 71, 69},
			TrendImproving,
		},
		{
			"declining",
			[]float64{60, 62, 58, 61, 59, 85, 82, 88, 84, 86},
			TrendDeclining,
		},
		{
			"stable",
			[]float64{80, 81, 79, 80, 80, 78, 82, 80, 79, 81},
			TrendStable,
		},
		{
			"short older window",
			[]float64{90, 90, 90, 90, 90, 70},
			TrendImproving,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ImprovementTrend(tt.scores))
		})
	}
}

func TestConsistencyScore(t *testing.T) {
	assert.Equal(t, 0.0, ConsistencyScore(nil))
	assert.Equal(t, 0.0, ConsistencyScore([]float64{80, 90}))

	// Identical scores: zero deviation, perfect consistency.
	assert.Equal(t, 100.0, ConsistencyScore([]float64{75, 75, 75}))

	// Extreme variance must clamp at 0, never go negative.
	wild := []float64{0, 100, 0, 100, 0, 100}
	score := ConsistencyScore(wild)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{95, "A"}, {90, "A"},
		{89.9, "B"}, {80, "B"},
		{79.9, "C"}, {70, "C"},
		{69.9, "D"}, {60, "D"},
		{59.9, "F"}, {0, "F"}, {-10, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LetterGrade(tt.score), "score %v", tt.score)
	}
}

func TestOverallGrade(t *testing.T) {
	// 0.5*92 + 0.3*85 + 0.2*70 = 46 + 25.5 + 14 = 85.5 -> B
	assert.InDelta(t, 85.5, OverallScore(92, 85, 7), 0.0001)
	assert.Equal(t, "B", OverallGrade(92, 85, 7))

	// A long streak can lift the blend into an A.
	assert.Equal(t, "A", OverallGrade(95, 90, 10))
	assert.Equal(t, "F", OverallGrade(0, 0, 0))
}

func TestStrongAndWeakSubjects(t *testing.T) {
	events := []models.ProgressEvent{
		eventOn("2024-01-01", func(e *models.ProgressEvent) { e.Subject = "math"; e.Performance = perf(95) }),
		eventOn("2024-01-02", func(e *models.ProgressEvent) { e.Subject = "math"; e.Performance = perf(85) }),
		eventOn("2024-01-03", func(e *models.ProgressEvent) { e.Subject = "science"; e.Performance = perf(88) }),
		eventOn("2024-01-04", func(e *models.ProgressEvent) { e.Subject = "history"; e.Performance = perf(65) }),
		eventOn("2024-01-05", func(e *models.ProgressEvent) { e.Subject = "art"; e.Performance = perf(50) }),
		eventOn("2024-01-06", func(e *models.ProgressEvent) { e.Subject = "music"; e.Performance = perf(75) }),
	}

	strong := StrongSubjects(events)
	assert.Equal(t, []SubjectScore{
		{Subject: "math", Score: 90},
		{Subject: "science", Score: 88},
	}, strong)

	weak := WeakSubjects(events)
	assert.Equal(t, []SubjectScore{
		{Subject: "art", Score: 50},
		{Subject: "history", Score: 65},
	}, weak)
}

func TestSubjectListsCappedAtThree(t *testing.T) {
	subjects := []string{"a", "b", "c", "d", "e"}
	events := make([]models.ProgressEvent, 0, len(subjects))
	for i, s := range subjects {
		subject := s
		events = append(events, eventOn("2024-01-01", func(e *models.ProgressEvent) {
			e.Subject = subject
			e.Performance = perf(90 + float64(i))
		}))
	}

	assert.Len(t, StrongSubjects(events), 3)
}
