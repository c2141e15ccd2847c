// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the composite-keyed evaluation store:
// task evaluations keyed by (review_id, task_id) and category evaluations
// keyed by (review_id, category_id), both with partial-merge upsert
// semantics so drafts can be saved incrementally.
//
// Upsert contract:
//   - No existing row: create one with CreatedAt = now.
//   - Existing row: apply only the supplied fields, bump LastModifiedAt,
//     leave CreatedAt untouched.
//
// Reads of absent evaluations return (nil, nil) rather than an error, since
// draft evaluations legitimately do not exist yet.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// TaskEvaluationPatch carries the fields of a task evaluation write. Nil
// pointers mean "leave the stored value alone", which is what makes partial
// draft saves possible.
type TaskEvaluationPatch struct {
	Doable            *bool
	UndoableReason    *string
	UsabilityScore    *float64
	UsabilityFeedback *string
	VisualsScore      *float64
	VisualsFeedback   *string
}

// columns returns the non-nil patch fields as an update map.
func (p TaskEvaluationPatch) columns() map[string]any {
	m := map[string]any{}
	if p.Doable != nil {
		m["doable"] = *p.Doable
	}
	if p.UndoableReason != nil {
		m["undoable_reason"] = *p.UndoableReason
	}
	if p.UsabilityScore != nil {
		m["usability_score"] = *p.UsabilityScore
	}
	if p.UsabilityFeedback != nil {
		m["usability_feedback"] = *p.UsabilityFeedback
	}
	if p.VisualsScore != nil {
		m["visuals_score"] = *p.VisualsScore
	}
	if p.VisualsFeedback != nil {
		m["visuals_feedback"] = *p.VisualsFeedback
	}
	return m
}

// CategoryEvaluationPatch carries the fields of a category evaluation write,
// with the same nil-means-keep semantics as TaskEvaluationPatch.
type CategoryEvaluationPatch struct {
	ResponsivenessScore    *float64
	ResponsivenessFeedback *string
	WritingScore           *float64
	WritingFeedback        *string
	EmotionalScore         *float64
	EmotionalFeedback      *string
}

func (p CategoryEvaluationPatch) columns() map[string]any {
	m := map[string]any{}
	if p.ResponsivenessScore != nil {
		m["responsiveness_score"] = *p.ResponsivenessScore
	}
	if p.ResponsivenessFeedback != nil {
		m["responsiveness_feedback"] = *p.ResponsivenessFeedback
	}
	if p.WritingScore != nil {
		m["writing_score"] = *p.WritingScore
	}
	if p.WritingFeedback != nil {
		m["writing_feedback"] = *p.WritingFeedback
	}
	if p.EmotionalScore != nil {
		m["emotional_score"] = *p.EmotionalScore
	}
	if p.EmotionalFeedback != nil {
		m["emotional_feedback"] = *p.EmotionalFeedback
	}
	return m
}

// UpsertTaskEvaluation writes a task evaluation draft for (reviewID, taskID).
// The read-merge-write runs inside a transaction so concurrent writers to the
// same key serialize on last-write-wins per field group, never on an
// interleaved merge.
func UpsertTaskEvaluation(ctx context.Context, db *gorm.DB, reviewID, taskID string, patch TaskEvaluationPatch) (*domain.TaskEvaluation, error) {
	var out domain.TaskEvaluation
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var existing domain.TaskEvaluation
		err := tx.Where("review_id = ? AND task_id = ?", reviewID, taskID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = domain.TaskEvaluation{
				ID:                uuid.NewString(),
				ReviewID:          reviewID,
				TaskID:            taskID,
				Doable:            patch.Doable,
				UndoableReason:    patch.UndoableReason,
				UsabilityScore:    patch.UsabilityScore,
				UsabilityFeedback: patch.UsabilityFeedback,
				VisualsScore:      patch.VisualsScore,
				VisualsFeedback:   patch.VisualsFeedback,
				CreatedAt:         now,
				LastModifiedAt:    now,
			}
			return tx.Create(&out).Error
		case err != nil:
			return err
		}

		cols := patch.columns()
		cols["last_modified_at"] = now
		if err := tx.Model(&domain.TaskEvaluation{}).Where("id = ?", existing.ID).Updates(cols).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", existing.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertCategoryEvaluation writes a category evaluation draft for
// (reviewID, categoryID) under the same merge contract as task evaluations.
func UpsertCategoryEvaluation(ctx context.Context, db *gorm.DB, reviewID, categoryID string, patch CategoryEvaluationPatch) (*domain.CategoryEvaluation, error) {
	var out domain.CategoryEvaluation
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		var existing domain.CategoryEvaluation
		err := tx.Where("review_id = ? AND category_id = ?", reviewID, categoryID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = domain.CategoryEvaluation{
				ID:                     uuid.NewString(),
				ReviewID:               reviewID,
				CategoryID:             categoryID,
				ResponsivenessScore:    patch.ResponsivenessScore,
				ResponsivenessFeedback: patch.ResponsivenessFeedback,
				WritingScore:           patch.WritingScore,
				WritingFeedback:        patch.WritingFeedback,
				EmotionalScore:         patch.EmotionalScore,
				EmotionalFeedback:      patch.EmotionalFeedback,
				CreatedAt:              now,
				LastModifiedAt:         now,
			}
			return tx.Create(&out).Error
		case err != nil:
			return err
		}

		cols := patch.columns()
		cols["last_modified_at"] = now
		if err := tx.Model(&domain.CategoryEvaluation{}).Where("id = ?", existing.ID).Updates(cols).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", existing.ID).First(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTaskEvaluation returns the evaluation for (reviewID, taskID), or
// (nil, nil) when none has been written yet.
func GetTaskEvaluation(ctx context.Context, db *gorm.DB, reviewID, taskID string) (*domain.TaskEvaluation, error) {
	var e domain.TaskEvaluation
	err := db.WithContext(ctx).
		Preload("Media").
		Where("review_id = ? AND task_id = ?", reviewID, taskID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetCategoryEvaluation returns the evaluation for (reviewID, categoryID), or
// (nil, nil) when none has been written yet.
func GetCategoryEvaluation(ctx context.Context, db *gorm.DB, reviewID, categoryID string) (*domain.CategoryEvaluation, error) {
	var e domain.CategoryEvaluation
	err := db.WithContext(ctx).
		Preload("Media").
		Where("review_id = ? AND category_id = ?", reviewID, categoryID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListTaskEvaluations returns all task evaluations of a review with their
// referenced tasks preloaded, ordered by task id for determinism.
func ListTaskEvaluations(ctx context.Context, db *gorm.DB, reviewID string) ([]domain.TaskEvaluation, error) {
	var out []domain.TaskEvaluation
	err := db.WithContext(ctx).
		Preload("Task").
		Preload("Media").
		Where("review_id = ?", reviewID).
		Order("task_id ASC").
		Find(&out).Error
	return out, err
}

// ListCategoryEvaluations returns all category evaluations of a review with
// their referenced categories preloaded, ordered by category id.
func ListCategoryEvaluations(ctx context.Context, db *gorm.DB, reviewID string) ([]domain.CategoryEvaluation, error) {
	var out []domain.CategoryEvaluation
	err := db.WithContext(ctx).
		Preload("Category").
		Preload("Media").
		Where("review_id = ?", reviewID).
		Order("category_id ASC").
		Find(&out).Error
	return out, err
}

// AttachMedia links an already-validated media reference to a task or
// category evaluation. Exactly one of the owner ids should be set.
func AttachMedia(ctx context.Context, db *gorm.DB, ref domain.MediaReference) (*domain.MediaReference, error) {
	ref.ID = uuid.NewString()
	ref.CreatedAt = time.Now().UTC()
	return &ref, db.WithContext(ctx).Create(&ref).Error
}

// CompletedTaskIDs returns the ids of tasks whose evaluation satisfies the
// completeness rule: doable is set, and when doable is true both the
// usability and visuals scores are present. An undoable task is complete as
// soon as doable=false is recorded.
func CompletedTaskIDs(ctx context.Context, db *gorm.DB, reviewID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.TaskEvaluation{}).
		Where("review_id = ? AND doable IS NOT NULL AND (doable = ? OR (usability_score IS NOT NULL AND visuals_score IS NOT NULL))",
			reviewID, false).
		Order("task_id ASC").
		Pluck("task_id", &ids).Error
	return ids, err
}
