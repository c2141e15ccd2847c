package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// seedScoredReview builds a review with one fully rated task and one rated
// category, the smallest input that exercises every rollup level.
func seedScoredReview(t *testing.T, db *gorm.DB) (*domain.Review, *domain.CujCategory, *domain.Task) {
	t.Helper()
	cat, task, _ := seedTaxonomy(t, db)
	r := seedReview(t, db)

	evals := &EvaluationService{DB: db}
	ctx := context.Background()
	if _, err := evals.UpsertTask(ctx, r.ID, task.ID, "alice", repo.TaskEvaluationPatch{
		Doable:         boolPtr(true),
		UsabilityScore: floatPtr(70),
		VisualsScore:   floatPtr(85),
	}); err != nil {
		t.Fatalf("seed task evaluation: %v", err)
	}
	if _, err := evals.UpsertCategory(ctx, r.ID, cat.ID, "alice", repo.CategoryEvaluationPatch{
		ResponsivenessScore: floatPtr(80),
		WritingScore:        floatPtr(90),
		EmotionalScore:      floatPtr(70),
	}); err != nil {
		t.Fatalf("seed category evaluation: %v", err)
	}
	return r, cat, task
}

func TestReportService_Generate_ComputesRollup(t *testing.T) {
	db := newServiceDB(t)
	r, cat, task := seedScoredReview(t, db)

	svc := &ReportService{DB: db, LowScoreThreshold: 60}
	report, err := svc.Generate(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// doable 43.75 + 0.70*18.75 + 0.85*18.75 = 72.8125 per task;
	// category = 0.728125*60 + 0.80*15 + 0.90*15 + 0.70*10 = 76.1875.
	if math.Abs(report.OverallScore-76.1875) > 1e-9 {
		t.Fatalf("overall = %v, want 76.1875", report.OverallScore)
	}

	view, err := svc.Get(context.Background(), r.ID, "internal")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Categories) != 1 || view.Categories[0].CategoryID != cat.ID {
		t.Fatalf("unexpected category breakdown: %+v", view.Categories)
	}
	if math.Abs(view.Categories[0].TaskAverage-72.8125) > 1e-9 {
		t.Fatalf("task average = %v, want 72.8125", view.Categories[0].TaskAverage)
	}
	if len(view.Tasks) != 1 || view.Tasks[0].TaskID != task.ID {
		t.Fatalf("unexpected task breakdown: %+v", view.Tasks)
	}
	// Nothing scored below the 60 threshold.
	if len(view.TopIssues) != 0 {
		t.Fatalf("expected no issues, got %+v", view.TopIssues)
	}
	if !strings.Contains(view.Report.Summary, "2026 Polestar 4") {
		t.Fatalf("summary missing car label: %q", view.Report.Summary)
	}
}

func TestReportService_Generate_IsDeterministic(t *testing.T) {
	db := newServiceDB(t)
	r, _, _ := seedScoredReview(t, db)

	svc := &ReportService{DB: db, LowScoreThreshold: 60}
	ctx := context.Background()

	first, err := svc.Generate(ctx, r.ID)
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	second, err := svc.Generate(ctx, r.ID)
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("regeneration must reuse the report row")
	}
	if second.CategoryBreakdown != first.CategoryBreakdown ||
		second.TaskBreakdown != first.TaskBreakdown ||
		second.TopIssues != first.TopIssues ||
		second.Summary != first.Summary {
		t.Fatalf("identical inputs must produce identical report contents")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("CreatedAt must survive regeneration")
	}
}

func TestReportService_Generate_SurfacesLowScores(t *testing.T) {
	db := newServiceDB(t)
	r, cat, task := seedScoredReview(t, db)

	// Threshold above both scores: the task (72.8125) and the category
	// (76.1875) are both issues, worst first.
	svc := &ReportService{DB: db, LowScoreThreshold: 80}
	if _, err := svc.Generate(context.Background(), r.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	view, err := svc.Get(context.Background(), r.ID, "internal")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.TopIssues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", view.TopIssues)
	}
	if view.TopIssues[0].Kind != "task" || view.TopIssues[0].ID != task.ID {
		t.Fatalf("worst issue should be the task: %+v", view.TopIssues[0])
	}
	if view.TopIssues[1].Kind != "category" || view.TopIssues[1].ID != cat.ID {
		t.Fatalf("second issue should be the category: %+v", view.TopIssues[1])
	}
	if !strings.Contains(view.Report.Summary, "2 items fell below 80") {
		t.Fatalf("summary does not mention the issues: %q", view.Report.Summary)
	}
}

func TestReportService_Generate_UnknownReview(t *testing.T) {
	svc := &ReportService{DB: newServiceDB(t), LowScoreThreshold: 60}
	if _, err := svc.Generate(context.Background(), "missing"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReportService_Get_PublishGating(t *testing.T) {
	db := newServiceDB(t)
	r, _, _ := seedScoredReview(t, db)

	svc := &ReportService{DB: db, LowScoreThreshold: 60}
	ctx := context.Background()
	if _, err := svc.Generate(ctx, r.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	// Unpublished: internal roles see the report, everyone else does not.
	if _, err := svc.Get(ctx, r.ID, "reviewer"); !errors.Is(err, ErrReportNotVisible) {
		t.Fatalf("expected ErrReportNotVisible, got %v", err)
	}
	if _, err := svc.Get(ctx, r.ID, "admin"); err != nil {
		t.Fatalf("admin must see unpublished report: %v", err)
	}

	reviews := &ReviewService{DB: db}
	if _, err := reviews.SetPublished(ctx, r.ID, true, "lead"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Get(ctx, r.ID, "reviewer"); err != nil {
		t.Fatalf("published report must be visible to reviewers: %v", err)
	}
}

func TestReportService_Get_NotGeneratedYet(t *testing.T) {
	db := newServiceDB(t)
	seedTaxonomy(t, db)
	r := seedReview(t, db)

	svc := &ReportService{DB: db, LowScoreThreshold: 60}
	if _, err := svc.Get(context.Background(), r.ID, "internal"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestReportService_Get_UnknownReview(t *testing.T) {
	svc := &ReportService{DB: newServiceDB(t), LowScoreThreshold: 60}
	if _, err := svc.Get(context.Background(), "missing", "internal"); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestIsInternalRole(t *testing.T) {
	for role, want := range map[string]bool{
		"internal": true,
		"admin":    true,
		"reviewer": false,
		"":         false,
	} {
		if got := IsInternalRole(role); got != want {
			t.Fatalf("IsInternalRole(%q) = %v, want %v", role, got, want)
		}
	}
}
