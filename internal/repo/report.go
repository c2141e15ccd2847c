// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Report
// model. Reports are 1:1 with reviews and upserted in place: generation
// never creates a second report for the same review.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// GetReportByReview fetches a review's report, or ErrNotFound when no report
// has been generated yet.
func GetReportByReview(ctx context.Context, db *gorm.DB, reviewID string) (*domain.Report, error) {
	var r domain.Report
	if err := db.WithContext(ctx).Where("review_id = ?", reviewID).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertReport writes the review's single report row: the first generation
// creates it, later generations overwrite the computed columns while keeping
// the row id and CreatedAt stable.
func UpsertReport(ctx context.Context, db *gorm.DB, reviewID string, overallScore float64, categoryBreakdown, taskBreakdown, topIssues, summary string) (*domain.Report, error) {
	var out domain.Report
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var existing domain.Report
		err := tx.Where("review_id = ?", reviewID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = domain.Report{
				ID:                uuid.NewString(),
				ReviewID:          reviewID,
				OverallScore:      overallScore,
				CategoryBreakdown: categoryBreakdown,
				TaskBreakdown:     taskBreakdown,
				TopIssues:         topIssues,
				Summary:           summary,
				CreatedAt:         now,
				LastModifiedAt:    now,
			}
			return tx.Create(&out).Error
		case err != nil:
			return err
		}

		if err := tx.Model(&domain.Report{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"overall_score":      overallScore,
			"category_breakdown": categoryBreakdown,
			"task_breakdown":     taskBreakdown,
			"top_issues":         topIssues,
			"summary":            summary,
			"last_modified_at":   now,
		}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", existing.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
