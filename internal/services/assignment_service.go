// Package services – AssignmentService
//
// This file implements the AssignmentService, which manages the exclusivity
// lock between a car's category and its reviewer. At most one reviewer holds
// a (car, category) pair at a time; the lock is on the pair, not on the
// reviewer, so a second assignment attempt conflicts regardless of which
// reviewer makes it.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// AssignmentService manages reviewer assignments.
type AssignmentService struct {
	// DB is the database handle used for all assignment operations.
	DB *gorm.DB
}

// Assign gives the reviewer the (car, category) lock. The car and category
// must exist; a held lock yields ErrAssignmentExists. The uniqueness is
// ultimately enforced by the composite unique index, so two concurrent
// assigns cannot both succeed.
func (s *AssignmentService) Assign(ctx context.Context, reviewerID, carID, categoryID string) (*domain.ReviewerAssignment, error) {
	if _, err := repo.GetCar(ctx, s.DB, carID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	if _, err := repo.GetCategory(ctx, s.DB, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	a, err := repo.CreateAssignment(ctx, s.DB, reviewerID, carID, categoryID)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrAssignmentExists
	}
	return a, err
}

// Unassign releases the assignment with the given id, or returns
// ErrAssignmentNotFound when the id is unknown.
func (s *AssignmentService) Unassign(ctx context.Context, id string) error {
	err := repo.DeleteAssignment(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAssignmentNotFound
	}
	return err
}

// ByReviewer lists the assignments held by one reviewer.
func (s *AssignmentService) ByReviewer(ctx context.Context, reviewerID string) ([]domain.ReviewerAssignment, error) {
	return repo.ListAssignmentsByReviewer(ctx, s.DB, reviewerID)
}

// ByCar lists the assignments on one car.
func (s *AssignmentService) ByCar(ctx context.Context, carID string) ([]domain.ReviewerAssignment, error) {
	return repo.ListAssignmentsByCar(ctx, s.DB, carID)
}

// ByCategory lists the assignments of one category across all cars.
func (s *AssignmentService) ByCategory(ctx context.Context, categoryID string) ([]domain.ReviewerAssignment, error) {
	return repo.ListAssignmentsByCategory(ctx, s.DB, categoryID)
}
