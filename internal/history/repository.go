// Package history keeps a Postgres record of finished batches.
package history

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/reel-remix/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxRecent = 100

// Repository stores and lists batch runs.
type Repository interface {
	Record(ctx context.Context, result *models.BatchResult) error
	Recent(ctx context.Context, limit int) ([]BatchRun, error)
}

type implRepository struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the batch_runs table.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.AutoMigrate(&BatchRun{}); err != nil {
		return nil, fmt.Errorf("migrate batch_runs: %w", err)
	}
	return db, nil
}

// New creates a Repository on db.
func New(db *gorm.DB) Repository {
	return &implRepository{db: db}
}

func (r *implRepository) Record(ctx context.Context, result *models.BatchResult) error {
	run := newBatchRun(result)
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("insert batch run %s: %w", run.ID, err)
	}
	return nil
}

// Recent lists the newest runs first. limit is capped at 100.
func (r *implRepository) Recent(ctx context.Context, limit int) ([]BatchRun, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	var runs []BatchRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list batch runs: %w", err)
	}
	return runs, nil
}
