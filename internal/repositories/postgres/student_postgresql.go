package postgres

import (
	"context"
	"fmt"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"gorm.io/gorm"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, profile *models.StudentProfile) error {
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *StudentPostgreSQL) Update(ctx context.Context, profile *models.StudentProfile) error {
	result := s.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("student_id = ?", profile.StudentID).
		Select("FullName", "Grade", "Board", "Country", "Subjects", "LearningPace", "KnowledgeLevels", "Active").
		Updates(profile)
	if result.Error != nil {
		return fmt.Errorf("failed to update student profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Deactivate soft-deletes the profile. Progress events referencing the
// student are kept until retention expiry.
func (s *StudentPostgreSQL) Deactivate(ctx context.Context, studentID string) error {
	result := s.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("student_id = ? AND active = ?", studentID, true).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate student profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *StudentPostgreSQL) Exists(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return count > 0, nil
}
