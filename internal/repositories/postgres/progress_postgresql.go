package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

// Append inserts one event. Events are immutable once written; there is no
// update path.
func (p *ProgressPostgreSQL) Append(ctx context.Context, event *models.ProgressEvent) error {
	if err := p.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append progress event: %w", err)
	}
	return nil
}

func (p *ProgressPostgreSQL) Query(ctx context.Context, studentID string, filters repositories.ProgressFilters) ([]models.ProgressEvent, error) {
	query := p.db.WithContext(ctx).
		Model(&models.ProgressEvent{}).
		Where("student_id = ?", studentID).
		Where("expires_at > ?", time.Now().UTC())

	if filters.Subject != "" {
		query = query.Where("subject = ?", filters.Subject)
	}
	if len(filters.Types) > 0 {
		query = query.Where("type IN ?", filters.Types)
	}
	if filters.DateFrom != nil {
		query = query.Where("timestamp >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("timestamp <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	var events []models.ProgressEvent
	if err := query.Order("timestamp DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query progress events: %w", err)
	}
	return events, nil
}

func (p *ProgressPostgreSQL) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.ProgressEvent{}).
		Where("student_id = ?", studentID).
		Where("expires_at > ?", time.Now().UTC()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count progress events: %w", err)
	}
	return count, nil
}

func (p *ProgressPostgreSQL) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := p.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.ProgressEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired progress events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
