package services

import (
	"context"
	"testing"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/metrics"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixedAnalyticsService(repo *mockRepository, now time.Time) *analyticsService {
	return &analyticsService{
		repo:   repo,
		logger: testLogger(),
		now:    func() time.Time { return now },
	}
}

func scoredEvent(subject string, score float64, ts time.Time) models.ProgressEvent {
	return models.ProgressEvent{
		StudentID:   "student-1",
		Subject:     subject,
		Type:        models.EventAssessment,
		Timestamp:   ts,
		Performance: &models.Performance{Score: score},
	}
}

func TestAnalyticsReportLowPerformanceRecommendation(t *testing.T) {
	repo := newMockRepository()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	service := fixedAnalyticsService(repo, now)

	// Average of 65 with no engagement data, no time tracking and a single
	// subject: only the performance rule may fire.
	events := []models.ProgressEvent{
		scoredEvent("math", 65, now.Add(-time.Hour)),
		scoredEvent("math", 65, now.Add(-2*time.Hour)),
	}
	repo.student.On("GetByID", mock.Anything, "student-1").Return(activeProfile(), nil)
	repo.progress.On("Query", mock.Anything, "student-1", mock.Anything).Return(events, nil)
	repo.progress.On("CountByStudent", mock.Anything, "student-1").Return(int64(2), nil)

	report, err := service.GetReport(context.Background(), "student-1", TimeRange{})

	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Overview.LifetimeEvents)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, RecommendationPerformance, report.Recommendations[0].Type)
	assert.Equal(t, PriorityHigh, report.Recommendations[0].Priority)
}

func TestAnalyticsReportRecommendationMatrix(t *testing.T) {
	repo := newMockRepository()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	service := fixedAnalyticsService(repo, now)

	// Overall average 65 trips the performance rule while science at 75
	// keeps math isolated as the weak subject.
	short := 5
	events := []models.ProgressEvent{
		scoredEvent("math", 55, now.Add(-time.Hour)),
		scoredEvent("science", 75, now.Add(-2*time.Hour)),
		{
			StudentID:  "student-1",
			Subject:    "math",
			Type:       models.EventLearningSession,
			Timestamp:  now.Add(-3 * time.Hour),
			Engagement: &models.Engagement{Participation: 30, Interaction: 2, Score: 30},
			TimeSpent:  &short,
		},
	}
	repo.student.On("GetByID", mock.Anything, "student-1").Return(activeProfile(), nil)
	repo.progress.On("Query", mock.Anything, "student-1", mock.Anything).Return(events, nil)
	repo.progress.On("CountByStudent", mock.Anything, "student-1").Return(int64(3), nil)

	report, err := service.GetReport(context.Background(), "student-1", TimeRange{})
	require.NoError(t, err)

	types := make([]RecommendationType, 0, len(report.Recommendations))
	for _, rec := range report.Recommendations {
		types = append(types, rec.Type)
	}
	assert.ElementsMatch(t, []RecommendationType{
		RecommendationPerformance,
		RecommendationEngagement,
		RecommendationSubjectFocus,
		RecommendationPacing,
	}, types)
}

func TestAnalyticsScorecardWeightedGrade(t *testing.T) {
	repo := newMockRepository()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	service := fixedAnalyticsService(repo, now)

	// Performance 92, participation 85, one event per day for the last 7
	// days: overall = 0.5*92 + 0.3*85 + 0.2*70 = 85.5, grade B.
	events := make([]models.ProgressEvent, 0, 14)
	for day := 0; day < 7; day++ {
		ts := now.AddDate(0, 0, -day)
		events = append(events, scoredEvent("math", 92, ts))
		events = append(events, models.ProgressEvent{
			StudentID:  "student-1",
			Subject:    "math",
			Type:       models.EventLearningSession,
			Timestamp:  ts,
			Engagement: &models.Engagement{Participation: 85, Interaction: 5, Score: 85},
		})
	}
	repo.student.On("Exists", mock.Anything, "student-1").Return(true, nil)
	repo.progress.On("Query", mock.Anything, "student-1", mock.Anything).Return(events, nil)

	card, err := service.GetScorecard(context.Background(), "student-1")

	require.NoError(t, err)
	assert.Equal(t, 7, card.StreakDays)
	assert.InDelta(t, 85.5, card.Overall, 0.001)
	assert.Equal(t, "B", card.Grade)

	categories := make(map[string]CategoryScore, len(card.Categories))
	for _, cat := range card.Categories {
		categories[cat.Category] = cat
	}
	assert.Equal(t, "A", categories["performance"].Grade)
	assert.Equal(t, "B", categories["engagement"].Grade)
	assert.Equal(t, metrics.TrendStable, categories["engagement"].Trend)
}

func TestAnalyticsReportEmptyHistory(t *testing.T) {
	repo := newMockRepository()
	service := fixedAnalyticsService(repo, time.Now().UTC())

	repo.student.On("GetByID", mock.Anything, "student-1").Return(activeProfile(), nil)
	repo.progress.On("Query", mock.Anything, "student-1", mock.Anything).Return([]models.ProgressEvent{}, nil)
	repo.progress.On("CountByStudent", mock.Anything, "student-1").Return(int64(0), nil)

	report, err := service.GetReport(context.Background(), "student-1", TimeRange{})

	require.NoError(t, err)
	assert.Zero(t, report.Overview.TotalEvents)
	assert.Zero(t, report.Overview.LifetimeEvents)
	assert.Zero(t, report.Performance.AverageScore)
	assert.Equal(t, metrics.TrendInsufficientData, report.Performance.Trend)
	assert.Empty(t, report.Recommendations)
	assert.Equal(t, "F", report.Scorecard.Grade)
}

func TestAnalyticsScorecardServedFromCache(t *testing.T) {
	repo := newMockRepository()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	service := fixedAnalyticsService(repo, now)
	service.cache = newFakeCache()

	repo.student.On("Exists", mock.Anything, "student-1").Return(true, nil).Once()
	repo.progress.On("Query", mock.Anything, "student-1", mock.Anything).
		Return([]models.ProgressEvent{scoredEvent("math", 80, now.Add(-time.Hour))}, nil).Once()

	first, err := service.GetScorecard(context.Background(), "student-1")
	require.NoError(t, err)

	// Second call hits the cache only; the mocks above allow one call each.
	second, err := service.GetScorecard(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, first.Grade, second.Grade)
	repo.student.AssertExpectations(t)
	repo.progress.AssertExpectations(t)
}

func TestAnalyticsReportUnknownStudent(t *testing.T) {
	repo := newMockRepository()
	service := fixedAnalyticsService(repo, time.Now().UTC())

	repo.student.On("GetByID", mock.Anything, "ghost").Return(nil, ErrStudentNotFound)

	_, err := service.GetReport(context.Background(), "ghost", TimeRange{})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAnalyticsScorecardUnknownStudent(t *testing.T) {
	repo := newMockRepository()
	service := fixedAnalyticsService(repo, time.Now().UTC())

	repo.student.On("Exists", mock.Anything, "ghost").Return(false, nil)

	_, err := service.GetScorecard(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
