// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file manages the single scoring configuration row.
// The row uses a fixed primary key so "get" can lazily create the defaults
// and both partial updates target the same record.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/scoring"
)

// scoringConfigID is the fixed primary key of the singleton row.
const scoringConfigID = "default"

// defaultScoringConfig materializes the documented default weights.
func defaultScoringConfig() *domain.ScoringConfig {
	tw := scoring.DefaultTaskWeights()
	cw := scoring.DefaultCategoryWeights()
	return &domain.ScoringConfig{
		ID:                   scoringConfigID,
		DoableWeight:         tw.Doable,
		UsabilityWeight:      tw.Usability,
		InteractionWeight:    tw.Interaction,
		VisualsWeight:        tw.Visuals,
		TaskAverageWeight:    cw.TaskAverage,
		ResponsivenessWeight: cw.Responsiveness,
		WritingWeight:        cw.Writing,
		EmotionalWeight:      cw.Emotional,
		UpdatedAt:            time.Now().UTC(),
	}
}

// GetScoringConfig returns the singleton config row, creating it with the
// documented defaults on first access.
func GetScoringConfig(ctx context.Context, db *gorm.DB) (*domain.ScoringConfig, error) {
	var cfg domain.ScoringConfig
	err := db.WithContext(ctx).Where("id = ?", scoringConfigID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := defaultScoringConfig()
		if err := db.WithContext(ctx).Create(def).Error; err != nil {
			return nil, err
		}
		return def, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateScoringConfig applies the supplied column values to the singleton
// row, creating the defaults first if the row does not exist yet. Only the
// given columns change; the rest of the record is untouched.
func UpdateScoringConfig(ctx context.Context, db *gorm.DB, fields map[string]any) (*domain.ScoringConfig, error) {
	var cfg domain.ScoringConfig
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", scoringConfigID).First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := tx.Create(defaultScoringConfig()).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		fields["updated_at"] = time.Now().UTC()
		if err := tx.Model(&domain.ScoringConfig{}).Where("id = ?", scoringConfigID).Updates(fields).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", scoringConfigID).First(&cfg).Error
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
