// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for review
// progress reporting and conditional responses in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// ReviewEvaluationStats returns aggregate metadata for a review's task
// evaluations: the total number of rows and the greatest LastModifiedAt among
// them. When the review has no evaluations yet, count is 0 and
// maxModifiedAt is nil.
func ReviewEvaluationStats(ctx context.Context, db *gorm.DB, reviewID string) (count int64, maxModifiedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.TaskEvaluation{}).Where("review_id = ?", reviewID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest last_modified_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		LastModifiedAt time.Time
	}
	if err = q.Select("last_modified_at").Order("last_modified_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.LastModifiedAt, nil
}

// CountTasks returns the total number of tasks in the taxonomy. Used as the
// denominator of review progress.
func CountTasks(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Task{}).Count(&total).Error
	return total, err
}
