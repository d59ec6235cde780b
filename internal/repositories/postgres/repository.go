package postgres

import (
	"context"
	"fmt"

	"github.com/brightpath-ed/tutoring-service/internal/models"
	"github.com/brightpath-ed/tutoring-service/internal/repositories"
	"gorm.io/gorm"
)

type postgresRepository struct {
	db       *gorm.DB
	student  repositories.StudentRepository
	progress repositories.ProgressRepository
}

// NewRepository wires the per-entity repositories over one gorm handle and
// migrates the schema.
func NewRepository(db *gorm.DB) (repositories.Repository, error) {
	if err := db.AutoMigrate(&models.StudentProfile{}, &models.ProgressEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &postgresRepository{
		db:       db,
		student:  NewStudentPostgreSQL(db),
		progress: NewProgressPostgreSQL(db),
	}, nil
}

func (r *postgresRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *postgresRepository) Progress() repositories.ProgressRepository {
	return r.progress
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *postgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
