// Package services – ReviewService
//
// This file implements the ReviewService, which owns the review lifecycle
// (not_started → in_progress → completed), the independent publish flag, and
// the audit stamps on every mutation. A review is bound at creation to the
// taxonomy version active at that moment and keeps that binding forever, so
// historical reviews stay scored against the taxonomy they were started
// under.
//
// Deliberate looseness, preserved from the product's current behavior: a
// completed review still accepts evaluation writes without any explicit
// re-open transition.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// ReviewService manages reviews and their lifecycle.
type ReviewService struct {
	// DB is the database handle used for all review operations.
	DB *gorm.DB
}

// ReviewPage is one page of reviews plus the total row count.
type ReviewPage struct {
	Reviews []domain.Review `json:"reviews"`
	Total   int64           `json:"total"`
}

// Create starts a review of a car by a reviewer. The car must exist and a
// taxonomy version must be active; the active version id is captured into
// the review. createdBy is the acting user from the identity headers.
func (s *ReviewService) Create(ctx context.Context, carID, reviewerID, createdBy string, startDate *time.Time) (*domain.Review, error) {
	if _, err := repo.GetCar(ctx, s.DB, carID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	active, err := repo.GetActiveVersion(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoActiveVersion
		}
		return nil, err
	}
	return repo.CreateReview(ctx, s.DB, carID, reviewerID, active.ID, createdBy, startDate)
}

// Get returns a review or ErrReviewNotFound.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	r, err := repo.GetReview(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return r, err
}

// ListByCar returns one page of a car's reviews with the total count.
func (s *ReviewService) ListByCar(ctx context.Context, carID string, offset, limit int) (*ReviewPage, error) {
	total, err := repo.CountReviewsByCar(ctx, s.DB, carID)
	if err != nil {
		return nil, err
	}
	rows, err := repo.ListReviewsByCarPage(ctx, s.DB, carID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Reviews: rows, Total: total}, nil
}

// ListByReviewer returns all reviews by one reviewer.
func (s *ReviewService) ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Review, error) {
	return repo.ListReviewsByReviewer(ctx, s.DB, reviewerID)
}

// UpdateStatus sets the review status and stamps the audit fields.
//
// Rules:
//   - status must be one of the three lifecycle values; anything else is
//     ErrInvalidStatus.
//   - not_started is a creation-only state: moving back to it is
//     ErrInvalidStatus no matter the current state.
//   - completed also stamps EndDate when it is not already set.
//
// The transition check and the write run in one transaction so concurrent
// updates serialize per review.
func (s *ReviewService) UpdateStatus(ctx context.Context, id, status, modifiedBy string) (*domain.Review, error) {
	switch status {
	case domain.StatusInProgress, domain.StatusCompleted:
	case domain.StatusNotStarted:
		return nil, ErrInvalidStatus
	default:
		return nil, ErrInvalidStatus
	}

	var out *domain.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.GetReview(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		var endDate *time.Time
		if status == domain.StatusCompleted && r.EndDate == nil {
			now := time.Now().UTC()
			endDate = &now
		}
		if err := repo.UpdateReviewStatus(ctx, tx, id, status, modifiedBy, endDate); err != nil {
			return err
		}
		out, err = repo.GetReview(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetPublished flips the publish flag, independent of status, and stamps the
// audit fields. Publishing gates report visibility for non-internal roles;
// the check itself lives in ReportService.
func (s *ReviewService) SetPublished(ctx context.Context, id string, published bool, modifiedBy string) (*domain.Review, error) {
	err := repo.UpdateReviewPublished(ctx, s.DB, id, published, modifiedBy)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return repo.GetReview(ctx, s.DB, id)
}
