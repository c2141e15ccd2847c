// Package services – ScoringConfigService
//
// This file implements the ScoringConfigService, which manages the single
// process-wide weight record. The task-weight group and the category-weight
// group are updated independently, each as a partial merge: only the fields
// supplied in the patch change. Negative weights are rejected with
// ErrNegativeWeight; weight sums are intentionally not validated (a group
// summing past 100 produces out-of-range scores, preserved behavior).
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
	"github.com/thetangstr/meridian-replit-sub001/internal/scoring"
)

// ScoringConfigService reads and partially updates the scoring weights.
type ScoringConfigService struct {
	// DB is the database handle used for all config operations.
	DB *gorm.DB
}

// TaskWeightsPatch is a partial update of the task-level weight group.
type TaskWeightsPatch struct {
	Doable      *float64
	Usability   *float64
	Interaction *float64
	Visuals     *float64
}

// CategoryWeightsPatch is a partial update of the category-level weight group.
type CategoryWeightsPatch struct {
	TaskAverage    *float64
	Responsiveness *float64
	Writing        *float64
	Emotional      *float64
}

// Get returns the current scoring configuration, materializing the documented
// defaults on first access.
func (s *ScoringConfigService) Get(ctx context.Context) (*domain.ScoringConfig, error) {
	return repo.GetScoringConfig(ctx, s.DB)
}

// UpdateTaskWeights merges the supplied task-level weights into the config.
// Unset fields keep their stored values. Any negative value fails the whole
// update with ErrNegativeWeight before anything is written.
func (s *ScoringConfigService) UpdateTaskWeights(ctx context.Context, p TaskWeightsPatch) (*domain.ScoringConfig, error) {
	fields := map[string]any{}
	for col, v := range map[string]*float64{
		"doable_weight":      p.Doable,
		"usability_weight":   p.Usability,
		"interaction_weight": p.Interaction,
		"visuals_weight":     p.Visuals,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, ErrNegativeWeight
		}
		fields[col] = *v
	}
	if len(fields) == 0 {
		return repo.GetScoringConfig(ctx, s.DB)
	}
	return repo.UpdateScoringConfig(ctx, s.DB, fields)
}

// UpdateCategoryWeights merges the supplied category-level weights into the
// config under the same partial-merge and non-negativity rules.
func (s *ScoringConfigService) UpdateCategoryWeights(ctx context.Context, p CategoryWeightsPatch) (*domain.ScoringConfig, error) {
	fields := map[string]any{}
	for col, v := range map[string]*float64{
		"task_average_weight":   p.TaskAverage,
		"responsiveness_weight": p.Responsiveness,
		"writing_weight":        p.Writing,
		"emotional_weight":      p.Emotional,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, ErrNegativeWeight
		}
		fields[col] = *v
	}
	if len(fields) == 0 {
		return repo.GetScoringConfig(ctx, s.DB)
	}
	return repo.UpdateScoringConfig(ctx, s.DB, fields)
}

// TaskWeights converts the stored record into the scoring engine's task
// weight set.
func TaskWeights(cfg *domain.ScoringConfig) scoring.TaskWeights {
	return scoring.TaskWeights{
		Doable:      cfg.DoableWeight,
		Usability:   cfg.UsabilityWeight,
		Interaction: cfg.InteractionWeight,
		Visuals:     cfg.VisualsWeight,
	}
}

// CategoryWeights converts the stored record into the scoring engine's
// category weight set.
func CategoryWeights(cfg *domain.ScoringConfig) scoring.CategoryWeights {
	return scoring.CategoryWeights{
		TaskAverage:    cfg.TaskAverageWeight,
		Responsiveness: cfg.ResponsivenessWeight,
		Writing:        cfg.WritingWeight,
		Emotional:      cfg.EmotionalWeight,
	}
}
