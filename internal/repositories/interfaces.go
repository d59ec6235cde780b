package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type ProgressFilters struct {
	Subject  string             `json:"subject"`
	Types    []models.EventType `json:"types"`
	DateFrom *time.Time         `json:"date_from"`
	DateTo   *time.Time         `json:"date_to"`
	Limit    int                `json:"limit"`
}

// ===== REPOSITORY INTERFACES =====

// StudentRepository persists student profiles.
type StudentRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Update(ctx context.Context, profile *models.StudentProfile) error
	Deactivate(ctx context.Context, studentID string) error
	Exists(ctx context.Context, studentID string) (bool, error)
}

// ProgressRepository is the append-only store of learning activity. Query
// always returns events newest-first and never returns expired events.
type ProgressRepository interface {
	Append(ctx context.Context, event *models.ProgressEvent) error
	Query(ctx context.Context, studentID string, filters ProgressFilters) ([]models.ProgressEvent, error)
	CountByStudent(ctx context.Context, studentID string) (int64, error)

	// PurgeExpired hard-deletes events past their retention window and
	// reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repository aggregates the per-entity repositories behind one handle.
type Repository interface {
	Student() StudentRepository
	Progress() ProgressRepository

	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err represents a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
