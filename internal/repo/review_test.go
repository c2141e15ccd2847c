package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

func TestCreateReview_BindsVersionAndDefaults(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	r, err := CreateReview(ctx, db, "car-1", "alice", "ver-1", "alice", &start)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if r.Status != domain.StatusNotStarted || r.IsPublished {
		t.Fatalf("unexpected initial state: %+v", r)
	}
	if r.CujDatabaseVersionID != "ver-1" || r.CreatedBy != "alice" || r.LastModifiedBy != "alice" {
		t.Fatalf("unexpected review fields: %+v", r)
	}
	if r.StartDate == nil || !r.StartDate.Equal(start) {
		t.Fatalf("start date not stored: %+v", r.StartDate)
	}
}

func TestUpdateReviewStatus_StampsAuditAndEndDate(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	r, err := CreateReview(ctx, db, "car-1", "alice", "ver-1", "alice", nil)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	end := time.Date(2026, 2, 10, 18, 0, 0, 0, time.UTC)
	if err := UpdateReviewStatus(ctx, db, r.ID, domain.StatusCompleted, "bob", &end); err != nil {
		t.Fatalf("UpdateReviewStatus: %v", err)
	}

	got, err := GetReview(ctx, db, r.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.LastModifiedBy != "bob" {
		t.Fatalf("status update not applied: %+v", got)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Fatalf("end date not stamped: %+v", got.EndDate)
	}
}

func TestUpdateReviewStatus_UnknownID(t *testing.T) {
	db := newRepoDB(t)
	err := UpdateReviewStatus(context.Background(), db, "missing", domain.StatusInProgress, "x", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkReviewInProgress_OnlyFromNotStarted(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	r, err := CreateReview(ctx, db, "car-1", "alice", "ver-1", "alice", nil)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}

	if err := MarkReviewInProgress(ctx, db, r.ID, "alice"); err != nil {
		t.Fatalf("MarkReviewInProgress: %v", err)
	}
	got, _ := GetReview(ctx, db, r.ID)
	if got.Status != domain.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", got.Status)
	}

	// Already completed reviews must not be dragged back to in_progress.
	if err := UpdateReviewStatus(ctx, db, r.ID, domain.StatusCompleted, "alice", nil); err != nil {
		t.Fatalf("complete review: %v", err)
	}
	if err := MarkReviewInProgress(ctx, db, r.ID, "alice"); err != nil {
		t.Fatalf("MarkReviewInProgress on completed: %v", err)
	}
	got, _ = GetReview(ctx, db, r.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("completed review was demoted to %s", got.Status)
	}
}

func TestUpdateReviewPublished_Flips(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	r, err := CreateReview(ctx, db, "car-1", "alice", "ver-1", "alice", nil)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if err := UpdateReviewPublished(ctx, db, r.ID, true, "lead"); err != nil {
		t.Fatalf("UpdateReviewPublished: %v", err)
	}
	got, _ := GetReview(ctx, db, r.ID)
	if !got.IsPublished || got.LastModifiedBy != "lead" {
		t.Fatalf("publish not applied: %+v", got)
	}
}

func TestListReviewsByCarPage_NewestFirstWithTotal(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := CreateReview(ctx, db, "car-1", "alice", "ver-1", "alice", nil)
		if err != nil {
			t.Fatalf("seed review %d: %v", i, err)
		}
		// Distinct created_at values keep the DESC ordering deterministic.
		at := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		if err := db.Model(&domain.Review{}).Where("id = ?", r.ID).Update("created_at", at).Error; err != nil {
			t.Fatalf("backdate review %d: %v", i, err)
		}
		ids = append(ids, r.ID)
	}
	if _, err := CreateReview(ctx, db, "car-other", "alice", "ver-1", "alice", nil); err != nil {
		t.Fatalf("seed other car: %v", err)
	}

	total, err := CountReviewsByCar(ctx, db, "car-1")
	if err != nil || total != 3 {
		t.Fatalf("CountReviewsByCar: total=%d err=%v", total, err)
	}

	page, err := ListReviewsByCarPage(ctx, db, "car-1", 0, 2)
	if err != nil {
		t.Fatalf("ListReviewsByCarPage: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("unexpected first page: %+v", page)
	}

	rest, err := ListReviewsByCarPage(ctx, db, "car-1", 2, 2)
	if err != nil || len(rest) != 1 || rest[0].ID != ids[0] {
		t.Fatalf("unexpected second page: %+v err=%v", rest, err)
	}
}
