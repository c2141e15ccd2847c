package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

// seedCar inserts a car build for tests that need one.
func seedCar(t *testing.T, db *gorm.DB) *domain.Car {
	t.Helper()
	car, err := repo.CreateCar(context.Background(), db, domain.Car{
		Make:  "polestar",
		Model: "4",
		Year:  2026,
	})
	if err != nil {
		t.Fatalf("seed car: %v", err)
	}
	return car
}

// seedTaxonomy inserts one category -> CUJ -> task chain plus an activated
// taxonomy version, the minimum needed to create reviews and evaluations.
func seedTaxonomy(t *testing.T, db *gorm.DB) (*domain.CujCategory, *domain.Task, *domain.CujDatabaseVersion) {
	t.Helper()
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, db, "Navigation", "", "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	cuj, err := repo.CreateCuj(ctx, db, "Navigate home", "", cat.ID)
	if err != nil {
		t.Fatalf("seed cuj: %v", err)
	}
	task, err := repo.CreateTask(ctx, db, "Start guidance", cuj.ID, "", "route is shown")
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	ver, err := repo.CreateVersion(ctx, db, "v1", "seed")
	if err != nil {
		t.Fatalf("seed version: %v", err)
	}
	if _, err := repo.ActivateVersion(ctx, db, ver.ID); err != nil {
		t.Fatalf("activate version: %v", err)
	}
	return cat, task, ver
}

// seedReview creates a review over a fresh car against the active taxonomy
// version.
func seedReview(t *testing.T, db *gorm.DB) *domain.Review {
	t.Helper()
	car := seedCar(t, db)
	svc := &ReviewService{DB: db}
	r, err := svc.Create(context.Background(), car.ID, "alice", "alice", nil)
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}
	return r
}
