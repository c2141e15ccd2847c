package services

import (
	"context"
	"errors"
	"testing"
)

func TestScoringConfigService_Get_MaterializesDefaults(t *testing.T) {
	svc := &ScoringConfigService{DB: newServiceDB(t)}

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.DoableWeight != 43.75 || cfg.UsabilityWeight != 18.75 ||
		cfg.InteractionWeight != 18.75 || cfg.VisualsWeight != 18.75 {
		t.Fatalf("unexpected task defaults: %+v", cfg)
	}
	if cfg.TaskAverageWeight != 60 || cfg.EmotionalWeight != 10 {
		t.Fatalf("unexpected category defaults: %+v", cfg)
	}
}

func TestScoringConfigService_UpdateTaskWeights_PartialMerge(t *testing.T) {
	svc := &ScoringConfigService{DB: newServiceDB(t)}
	ctx := context.Background()

	cfg, err := svc.UpdateTaskWeights(ctx, TaskWeightsPatch{Doable: floatPtr(50)})
	if err != nil {
		t.Fatalf("UpdateTaskWeights: %v", err)
	}
	if cfg.DoableWeight != 50 {
		t.Fatalf("update not applied: %+v", cfg)
	}
	if cfg.UsabilityWeight != 18.75 || cfg.VisualsWeight != 18.75 {
		t.Fatalf("untouched weights changed: %+v", cfg)
	}
}

func TestScoringConfigService_UpdateTaskWeights_RejectsNegative(t *testing.T) {
	svc := &ScoringConfigService{DB: newServiceDB(t)}
	ctx := context.Background()

	_, err := svc.UpdateTaskWeights(ctx, TaskWeightsPatch{
		Doable:    floatPtr(50),
		Usability: floatPtr(-1),
	})
	if !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got %v", err)
	}

	// The whole update must be rejected: nothing was written.
	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.DoableWeight != 43.75 {
		t.Fatalf("rejected update leaked a write: %+v", cfg)
	}
}

func TestScoringConfigService_UpdateCategoryWeights(t *testing.T) {
	svc := &ScoringConfigService{DB: newServiceDB(t)}
	ctx := context.Background()

	cfg, err := svc.UpdateCategoryWeights(ctx, CategoryWeightsPatch{
		Responsiveness: floatPtr(20),
		Emotional:      floatPtr(5),
	})
	if err != nil {
		t.Fatalf("UpdateCategoryWeights: %v", err)
	}
	if cfg.ResponsivenessWeight != 20 || cfg.EmotionalWeight != 5 {
		t.Fatalf("update not applied: %+v", cfg)
	}
	if cfg.TaskAverageWeight != 60 || cfg.WritingWeight != 15 {
		t.Fatalf("untouched weights changed: %+v", cfg)
	}

	if _, err := svc.UpdateCategoryWeights(ctx, CategoryWeightsPatch{TaskAverage: floatPtr(-0.5)}); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got %v", err)
	}
}

func TestScoringConfigService_EmptyPatchIsARead(t *testing.T) {
	svc := &ScoringConfigService{DB: newServiceDB(t)}
	ctx := context.Background()

	if _, err := svc.UpdateTaskWeights(ctx, TaskWeightsPatch{Interaction: floatPtr(25)}); err != nil {
		t.Fatalf("seed update: %v", err)
	}
	cfg, err := svc.UpdateTaskWeights(ctx, TaskWeightsPatch{})
	if err != nil {
		t.Fatalf("empty patch: %v", err)
	}
	if cfg.InteractionWeight != 25 {
		t.Fatalf("empty patch must not reset weights: %+v", cfg)
	}
}
