package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/cache"
	"github.com/brightpath-ed/tutoring-service/internal/metrics"
	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
)

// AnalyticsService aggregates progress history into reports and scorecards
type AnalyticsService interface {
	GetReport(ctx context.Context, studentID string, window TimeRange) (*AnalyticsReport, error)
	GetScorecard(ctx context.Context, studentID string) (*Scorecard, error)
}

// ===== DATA STRUCTURES =====

type TimeRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

type AnalyticsReport struct {
	StudentID       string               `json:"student_id"`
	GeneratedAt     time.Time            `json:"generated_at"`
	Overview        Overview             `json:"overview"`
	Performance     PerformanceBreakdown `json:"performance"`
	Engagement      EngagementBreakdown  `json:"engagement"`
	Subjects        []SubjectBreakdown   `json:"subjects"`
	Recommendations []Recommendation     `json:"recommendations"`
	Scorecard       Scorecard            `json:"scorecard"`
}

type Overview struct {
	TotalEvents int `json:"total_events"`

	// LifetimeEvents counts all of the student's events regardless of the
	// requested window, so a narrow report still shows overall activity.
	LifetimeEvents int64 `json:"lifetime_events"`

	TotalSessions    int     `json:"total_sessions"`
	CompletionRate   float64 `json:"completion_rate"`
	StreakDays       int     `json:"streak_days"`
	TotalTimeMinutes int     `json:"total_time_minutes"`
	ActiveSubjects   int     `json:"active_subjects"`
	// Effectiveness has no agreed formula yet; see metrics.EducationalEffectiveness.
	Effectiveness float64 `json:"effectiveness"`
}

type PerformanceBreakdown struct {
	AverageScore float64       `json:"average_score"`
	Trend        metrics.Trend `json:"trend"`
	Consistency  float64       `json:"consistency"`
	Grade        string        `json:"grade"`
}

type EngagementBreakdown struct {
	AverageScore         float64       `json:"average_score"`
	AverageParticipation float64       `json:"average_participation"`
	EngagedEvents        int           `json:"engaged_events"`
	Trend                metrics.Trend `json:"trend"`
}

type SubjectBreakdown struct {
	Subject        string  `json:"subject"`
	AverageScore   float64 `json:"average_score"`
	Events         int     `json:"events"`
	KnowledgeLevel int     `json:"knowledge_level"`
}

type RecommendationType string

const (
	RecommendationPerformance  RecommendationType = "performance"
	RecommendationEngagement   RecommendationType = "engagement"
	RecommendationSubjectFocus RecommendationType = "subject_focus"
	RecommendationPacing       RecommendationType = "pacing"
)

type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

type Recommendation struct {
	Type     RecommendationType     `json:"type"`
	Priority RecommendationPriority `json:"priority"`
	Message  string                 `json:"message"`
}

type Scorecard struct {
	StudentID   string          `json:"student_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Categories  []CategoryScore `json:"categories"`
	Overall     float64         `json:"overall"`
	Grade       string          `json:"grade"`
	StreakDays  int             `json:"streak_days"`
}

type CategoryScore struct {
	Category string        `json:"category"`
	Score    float64       `json:"score"`
	Grade    string        `json:"grade"`
	Trend    metrics.Trend `json:"trend"`
}

// ===== THRESHOLDS =====

const (
	lowPerformanceThreshold   = 70.0
	lowParticipationThreshold = 50.0
	shortSessionMinutes       = 15.0
)

// Engagement trend has no defined formula yet; reported as a constant until
// one is specified.
const engagementTrendPlaceholder = metrics.TrendStable

// scorecardCacheTTL keeps cached scorecards fresh enough that newly recorded
// progress shows up within a couple of minutes.
const scorecardCacheTTL = 2 * time.Minute

type analyticsService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	logger *slog.Logger
	now    func() time.Time
}

func NewAnalyticsService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		now:    time.Now,
	}
}

func (s *analyticsService) GetReport(ctx context.Context, studentID string, window TimeRange) (*AnalyticsReport, error) {
	profile, err := s.repo.Student().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	events, err := s.repo.Progress().Query(ctx, studentID, repositories.ProgressFilters{
		DateFrom: window.From,
		DateTo:   window.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query progress events: %w", err)
	}

	lifetime, err := s.repo.Progress().CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress events: %w", err)
	}

	now := s.now().UTC()
	scores := metrics.PerformanceScores(events)
	subjectAverages := metrics.SubjectAverages(events)
	averagePerformance := metrics.AveragePerformance(events)

	report := &AnalyticsReport{
		StudentID:   studentID,
		GeneratedAt: now,
		Overview:    s.overview(events, lifetime, now, subjectAverages),
		Performance: PerformanceBreakdown{
			AverageScore: averagePerformance,
			Trend:        metrics.ImprovementTrend(scores),
			Consistency:  metrics.ConsistencyScore(scores),
			Grade:        metrics.LetterGrade(averagePerformance),
		},
		Engagement: EngagementBreakdown{
			AverageScore:         metrics.AverageEngagement(events),
			AverageParticipation: metrics.AverageParticipation(events),
			EngagedEvents:        metrics.EngagementCount(events),
			Trend:                engagementTrendPlaceholder,
		},
		Subjects: s.subjectBreakdown(events, profile, subjectAverages),
	}
	report.Recommendations = s.recommendations(events, report, subjectAverages)
	report.Scorecard = s.scorecard(studentID, events, now)

	return report, nil
}

func (s *analyticsService) GetScorecard(ctx context.Context, studentID string) (*Scorecard, error) {
	cacheKey := "analytics:scorecard:" + studentID
	if s.cache != nil {
		var cached Scorecard
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	exists, err := s.repo.Student().Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student existence: %w", err)
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	events, err := s.repo.Progress().Query(ctx, studentID, repositories.ProgressFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to query progress events: %w", err)
	}

	card := s.scorecard(studentID, events, s.now().UTC())

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, card, scorecardCacheTTL); err != nil {
			s.logger.Warn("Failed to cache scorecard", "student_id", studentID, "error", err)
		}
	}

	return &card, nil
}

// ===== AGGREGATION =====

func (s *analyticsService) overview(events []models.ProgressEvent, lifetime int64, now time.Time, subjectAverages map[string]float64) Overview {
	sessionCount := 0
	totalMinutes := 0
	for i := range events {
		if events[i].Type == models.EventLearningSession {
			sessionCount++
		}
		if events[i].TimeSpent != nil {
			totalMinutes += *events[i].TimeSpent
		}
	}

	return Overview{
		TotalEvents:      len(events),
		LifetimeEvents:   lifetime,
		TotalSessions:    sessionCount,
		CompletionRate:   metrics.CompletionRate(events),
		StreakDays:       metrics.LearningStreak(events, now),
		TotalTimeMinutes: totalMinutes,
		ActiveSubjects:   len(subjectAverages),
		Effectiveness:    metrics.EducationalEffectiveness(events),
	}
}

func (s *analyticsService) subjectBreakdown(events []models.ProgressEvent, profile *models.StudentProfile, subjectAverages map[string]float64) []SubjectBreakdown {
	counts := make(map[string]int)
	for i := range events {
		counts[events[i].Subject]++
	}

	levels := profile.KnowledgeLevels.Data()
	breakdown := make([]SubjectBreakdown, 0, len(subjectAverages))
	for subject, avg := range subjectAverages {
		breakdown = append(breakdown, SubjectBreakdown{
			Subject:        subject,
			AverageScore:   avg,
			Events:         counts[subject],
			KnowledgeLevel: levels.LevelFor(subject),
		})
	}
	return breakdown
}

// recommendations applies the rule set in a fixed order. Each rule fires
// only when its backing data exists, so a student with nothing but a low
// performance average gets exactly one recommendation.
func (s *analyticsService) recommendations(events []models.ProgressEvent, report *AnalyticsReport, subjectAverages map[string]float64) []Recommendation {
	recs := make([]Recommendation, 0, 4)

	hasScores := len(metrics.PerformanceScores(events)) > 0
	if hasScores && report.Performance.AverageScore < lowPerformanceThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationPerformance,
			Priority: PriorityHigh,
			Message:  "Average scores are below 70. Schedule focused review sessions on recently covered material.",
		})
	}

	if metrics.EngagementCount(events) > 0 && report.Engagement.AverageParticipation < lowParticipationThreshold {
		recs = append(recs, Recommendation{
			Type:     RecommendationEngagement,
			Priority: PriorityMedium,
			Message:  "Participation has been low. Shorter, more interactive sessions can help rebuild momentum.",
		})
	}

	// Subject focus only means something when there is more than one subject
	// to compare against.
	if len(subjectAverages) >= 2 {
		if weak := metrics.WeakSubjects(events); len(weak) > 0 {
			recs = append(recs, Recommendation{
				Type:     RecommendationSubjectFocus,
				Priority: PriorityMedium,
				Message:  fmt.Sprintf("Results in %s are lagging behind other subjects. Prioritize it in upcoming sessions.", weak[0].Subject),
			})
		}
	}

	if avg := metrics.AverageTimeSpent(events); avg > 0 && avg < shortSessionMinutes {
		recs = append(recs, Recommendation{
			Type:     RecommendationPacing,
			Priority: PriorityLow,
			Message:  "Sessions are ending quickly. Aim for at least 15 minutes per session to cover a topic in depth.",
		})
	}

	return recs
}

func (s *analyticsService) scorecard(studentID string, events []models.ProgressEvent, now time.Time) Scorecard {
	scores := metrics.PerformanceScores(events)
	performance := metrics.AveragePerformance(events)
	participation := metrics.AverageParticipation(events)
	consistency := metrics.ConsistencyScore(scores)
	streak := metrics.LearningStreak(events, now)

	return Scorecard{
		StudentID:   studentID,
		GeneratedAt: now,
		Categories: []CategoryScore{
			{
				Category: "performance",
				Score:    performance,
				Grade:    metrics.LetterGrade(performance),
				Trend:    metrics.ImprovementTrend(scores),
			},
			{
				Category: "engagement",
				Score:    participation,
				Grade:    metrics.LetterGrade(participation),
				Trend:    engagementTrendPlaceholder,
			},
			{
				Category: "consistency",
				Score:    consistency,
				Grade:    metrics.LetterGrade(consistency),
				Trend:    metrics.TrendStable,
			},
		},
		Overall:    metrics.OverallScore(performance, participation, streak),
		Grade:      metrics.OverallGrade(performance, participation, streak),
		StreakDays: streak,
	}
}
