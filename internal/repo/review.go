// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review
// model, including audit-stamped status and publish updates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// CreateReview inserts a review bound to the given taxonomy version. The
// binding is set once here and never updated afterwards.
func CreateReview(ctx context.Context, db *gorm.DB, carID, reviewerID, versionID, createdBy string, startDate *time.Time) (*domain.Review, error) {
	now := time.Now().UTC()
	r := &domain.Review{
		ID:                   uuid.NewString(),
		CarID:                carID,
		ReviewerID:           reviewerID,
		Status:               domain.StatusNotStarted,
		IsPublished:          false,
		StartDate:            startDate,
		CujDatabaseVersionID: versionID,
		CreatedBy:            createdBy,
		CreatedAt:            now,
		LastModifiedBy:       createdBy,
		LastModifiedAt:       now,
	}
	return r, db.WithContext(ctx).Create(r).Error
}

// GetReview fetches a review by ID, or ErrNotFound.
func GetReview(ctx context.Context, db *gorm.DB, id string) (*domain.Review, error) {
	var r domain.Review
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReviewsByCar returns the number of reviews for a car (pagination).
func CountReviewsByCar(ctx context.Context, db *gorm.DB, carID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Review{}).Where("car_id = ?", carID).Count(&total).Error
	return total, err
}

// ListReviewsByCarPage returns a page of a car's reviews, newest first.
func ListReviewsByCarPage(ctx context.Context, db *gorm.DB, carID string, offset, limit int) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListReviewsByReviewer returns a reviewer's reviews, newest first.
func ListReviewsByReviewer(ctx context.Context, db *gorm.DB, reviewerID string) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdateReviewStatus sets the review status and stamps the audit columns.
// Returns ErrNotFound when the review does not exist.
func UpdateReviewStatus(ctx context.Context, db *gorm.DB, id, status, modifiedBy string, endDate *time.Time) error {
	fields := map[string]any{
		"status":           status,
		"last_modified_by": modifiedBy,
		"last_modified_at": time.Now().UTC(),
	}
	if endDate != nil {
		fields["end_date"] = *endDate
	}
	res := db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateReviewPublished flips the publish flag and stamps the audit columns.
// Returns ErrNotFound when the review does not exist.
func UpdateReviewPublished(ctx context.Context, db *gorm.DB, id string, published bool, modifiedBy string) error {
	res := db.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", id).Updates(map[string]any{
		"is_published":     published,
		"last_modified_by": modifiedBy,
		"last_modified_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReviewInProgress transitions a not_started review to in_progress,
// stamping the audit columns. The WHERE guard makes the call a no-op for
// reviews already past not_started, so concurrent first writes are safe.
func MarkReviewInProgress(ctx context.Context, db *gorm.DB, id, modifiedBy string) error {
	return db.WithContext(ctx).Model(&domain.Review{}).
		Where("id = ? AND status = ?", id, domain.StatusNotStarted).
		Updates(map[string]any{
			"status":           domain.StatusInProgress,
			"last_modified_by": modifiedBy,
			"last_modified_at": time.Now().UTC(),
		}).Error
}

// DeleteReview soft-deletes a review. Owned evaluations and the report are
// removed by the FK cascade on hard deletion; soft deletion simply hides the
// aggregate. Returns ErrNotFound when no row matched.
func DeleteReview(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
