// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ReviewerAssignment model. The (car_id, category_id) unique index is the
// ground truth for assignment exclusivity; duplicate inserts surface as
// ErrDuplicate for the service layer to translate.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// ErrDuplicate indicates a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation detects unique-constraint failures across the error
// shapes GORM and glebarez/sqlite produce.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}

// CreateAssignment inserts a reviewer assignment. Returns ErrDuplicate when
// the (car, category) pair is already taken, regardless of reviewer.
func CreateAssignment(ctx context.Context, db *gorm.DB, reviewerID, carID, categoryID string) (*domain.ReviewerAssignment, error) {
	a := &domain.ReviewerAssignment{
		ID:         uuid.NewString(),
		ReviewerID: reviewerID,
		CarID:      carID,
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return a, nil
}

// GetAssignment fetches an assignment by ID, or ErrNotFound.
func GetAssignment(ctx context.Context, db *gorm.DB, id string) (*domain.ReviewerAssignment, error) {
	var a domain.ReviewerAssignment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssignmentForCarCategory returns the single assignment holding the
// (car, category) lock, or ErrNotFound.
func GetAssignmentForCarCategory(ctx context.Context, db *gorm.DB, carID, categoryID string) (*domain.ReviewerAssignment, error) {
	var a domain.ReviewerAssignment
	err := db.WithContext(ctx).
		Where("car_id = ? AND category_id = ?", carID, categoryID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssignmentsByReviewer returns a reviewer's assignments ordered (created_at, id).
func ListAssignmentsByReviewer(ctx context.Context, db *gorm.DB, reviewerID string) ([]domain.ReviewerAssignment, error) {
	var out []domain.ReviewerAssignment
	err := db.WithContext(ctx).
		Where("reviewer_id = ?", reviewerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAssignmentsByCar returns a car's assignments ordered (created_at, id).
func ListAssignmentsByCar(ctx context.Context, db *gorm.DB, carID string) ([]domain.ReviewerAssignment, error) {
	var out []domain.ReviewerAssignment
	err := db.WithContext(ctx).
		Where("car_id = ?", carID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAssignmentsByCategory returns a category's assignments across all cars.
func ListAssignmentsByCategory(ctx context.Context, db *gorm.DB, categoryID string) ([]domain.ReviewerAssignment, error) {
	var out []domain.ReviewerAssignment
	err := db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DeleteAssignment removes an assignment, releasing the (car, category) lock.
// Returns ErrNotFound when the id is unknown.
func DeleteAssignment(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ReviewerAssignment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
