// Package services – EvaluationService
//
// This file implements the EvaluationService, the write path for reviewer
// ratings. Evaluations are drafts from the first write: a reviewer may
// submit only `doable` and add the usability score later, and each write
// merges into the stored row without losing earlier fields. The first
// evaluation write of a review also moves it from not_started to
// in_progress.
//
// Media references are opaque ids plus metadata from the media service; the
// only rule enforced here is the 120-second duration cap, rejected as
// ErrMediaTooLong before the reference is stored.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// MaxMediaDurationSeconds is the cap on attached clip length.
const MaxMediaDurationSeconds = 120

// EvaluationService manages task and category evaluation drafts.
type EvaluationService struct {
	// DB is the database handle used for all evaluation operations.
	DB *gorm.DB
}

// ReviewProgress summarizes how far a review has come: which tasks satisfy
// the completeness rule, how many drafts exist in any state, and when the
// reviewer last touched one.
type ReviewProgress struct {
	ReviewID         string     `json:"review_id"`
	CompletedTaskIDs []string   `json:"completed_task_ids"`
	CompletedTasks   int        `json:"completed_tasks"`
	DraftedTasks     int64      `json:"drafted_tasks"`
	TotalTasks       int64      `json:"total_tasks"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
}

// checkReview resolves the review or maps the miss to ErrReviewNotFound.
func (s *EvaluationService) checkReview(ctx context.Context, db *gorm.DB, reviewID string) (*domain.Review, error) {
	r, err := repo.GetReview(ctx, db, reviewID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return r, err
}

// UpsertTask writes a task evaluation draft for (reviewID, taskID). The task
// must exist in the taxonomy. A first write creates the row with CreatedAt;
// later writes merge only the supplied fields and bump LastModifiedAt. A
// not_started review becomes in_progress as a side effect of the write,
// stamped with the acting user.
func (s *EvaluationService) UpsertTask(ctx context.Context, reviewID, taskID, actor string, patch repo.TaskEvaluationPatch) (*domain.TaskEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	if _, err := repo.GetTask(ctx, s.DB, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	ev, err := repo.UpsertTaskEvaluation(ctx, s.DB, reviewID, taskID, patch)
	if err != nil {
		return nil, err
	}
	if err := repo.MarkReviewInProgress(ctx, s.DB, reviewID, actor); err != nil {
		return nil, err
	}
	return ev, nil
}

// UpsertCategory writes a category evaluation draft for (reviewID,
// categoryID) under the same contract as UpsertTask.
func (s *EvaluationService) UpsertCategory(ctx context.Context, reviewID, categoryID, actor string, patch repo.CategoryEvaluationPatch) (*domain.CategoryEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	if _, err := repo.GetCategory(ctx, s.DB, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	ev, err := repo.UpsertCategoryEvaluation(ctx, s.DB, reviewID, categoryID, patch)
	if err != nil {
		return nil, err
	}
	if err := repo.MarkReviewInProgress(ctx, s.DB, reviewID, actor); err != nil {
		return nil, err
	}
	return ev, nil
}

// GetTask returns the evaluation for (reviewID, taskID). Absence is not an
// error: a nil evaluation with a nil error means "no draft yet".
func (s *EvaluationService) GetTask(ctx context.Context, reviewID, taskID string) (*domain.TaskEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	return repo.GetTaskEvaluation(ctx, s.DB, reviewID, taskID)
}

// GetCategory returns the evaluation for (reviewID, categoryID), nil when no
// draft exists yet.
func (s *EvaluationService) GetCategory(ctx context.Context, reviewID, categoryID string) (*domain.CategoryEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	return repo.GetCategoryEvaluation(ctx, s.DB, reviewID, categoryID)
}

// ListTask returns a review's task evaluations joined with their tasks.
func (s *EvaluationService) ListTask(ctx context.Context, reviewID string) ([]domain.TaskEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	return repo.ListTaskEvaluations(ctx, s.DB, reviewID)
}

// ListCategory returns a review's category evaluations joined with their
// categories.
func (s *EvaluationService) ListCategory(ctx context.Context, reviewID string) ([]domain.CategoryEvaluation, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	return repo.ListCategoryEvaluations(ctx, s.DB, reviewID)
}

// AttachTaskMedia links a media reference to an existing task evaluation.
// References longer than MaxMediaDurationSeconds are rejected with
// ErrMediaTooLong; a missing draft is ErrEvaluationNotFound.
func (s *EvaluationService) AttachTaskMedia(ctx context.Context, reviewID, taskID string, ref domain.MediaReference) (*domain.MediaReference, error) {
	if ref.DurationSeconds > MaxMediaDurationSeconds {
		return nil, ErrMediaTooLong
	}
	ev, err := s.GetTask(ctx, reviewID, taskID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEvaluationNotFound
	}
	ref.TaskEvaluationID = &ev.ID
	ref.CategoryEvaluationID = nil
	return repo.AttachMedia(ctx, s.DB, ref)
}

// AttachCategoryMedia links a media reference to an existing category
// evaluation under the same rules as AttachTaskMedia.
func (s *EvaluationService) AttachCategoryMedia(ctx context.Context, reviewID, categoryID string, ref domain.MediaReference) (*domain.MediaReference, error) {
	if ref.DurationSeconds > MaxMediaDurationSeconds {
		return nil, ErrMediaTooLong
	}
	ev, err := s.GetCategory(ctx, reviewID, categoryID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, ErrEvaluationNotFound
	}
	ref.CategoryEvaluationID = &ev.ID
	ref.TaskEvaluationID = nil
	return repo.AttachMedia(ctx, s.DB, ref)
}

// Progress reports the review's completed task ids against the taxonomy's
// task count.
func (s *EvaluationService) Progress(ctx context.Context, reviewID string) (*ReviewProgress, error) {
	if _, err := s.checkReview(ctx, s.DB, reviewID); err != nil {
		return nil, err
	}
	ids, err := repo.CompletedTaskIDs(ctx, s.DB, reviewID)
	if err != nil {
		return nil, err
	}
	total, err := repo.CountTasks(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	drafted, lastTouched, err := repo.ReviewEvaluationStats(ctx, s.DB, reviewID)
	if err != nil {
		return nil, err
	}
	return &ReviewProgress{
		ReviewID:         reviewID,
		CompletedTaskIDs: ids,
		CompletedTasks:   len(ids),
		DraftedTasks:     drafted,
		TotalTasks:       total,
		LastActivityAt:   lastTouched,
	}, nil
}
