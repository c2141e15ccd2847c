// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the taxonomy:
// categories, CUJs, tasks, and taxonomy versions.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a row is not found, functions return ErrNotFound.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// ErrNotFound is the repository-level "row does not exist" sentinel. It wraps
// gorm.ErrRecordNotFound so callers can match either.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCategory inserts a new CUJ category row.
func CreateCategory(ctx context.Context, db *gorm.DB, name, description, icon string) (*domain.CujCategory, error) {
	c := &domain.CujCategory{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Icon:        icon,
		CreatedAt:   time.Now().UTC(),
	}
	return c, db.WithContext(ctx).Create(c).Error
}

// GetCategory fetches a category by ID, or ErrNotFound.
func GetCategory(ctx context.Context, db *gorm.DB, id string) (*domain.CujCategory, error) {
	var c domain.CujCategory
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered deterministically (Name ASC, ID ASC).
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.CujCategory, error) {
	var out []domain.CujCategory
	err := db.WithContext(ctx).Order("name ASC, id ASC").Find(&out).Error
	return out, err
}

// CreateCuj inserts a new CUJ row under an existing category. The parent
// check belongs to the service layer; this function only persists.
func CreateCuj(ctx context.Context, db *gorm.DB, name, description, categoryID string) (*domain.Cuj, error) {
	c := &domain.Cuj{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		CreatedAt:   time.Now().UTC(),
	}
	return c, db.WithContext(ctx).Create(c).Error
}

// GetCuj fetches a CUJ by ID, or ErrNotFound.
func GetCuj(ctx context.Context, db *gorm.DB, id string) (*domain.Cuj, error) {
	var c domain.Cuj
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCujsByCategory returns a category's CUJs ordered (Name ASC, ID ASC).
func ListCujsByCategory(ctx context.Context, db *gorm.DB, categoryID string) ([]domain.Cuj, error) {
	var out []domain.Cuj
	err := db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CreateTask inserts a new task row under an existing CUJ.
func CreateTask(ctx context.Context, db *gorm.DB, name, cujID, prerequisites, expectedOutcome string) (*domain.Task, error) {
	t := &domain.Task{
		ID:              uuid.NewString(),
		Name:            name,
		CujID:           cujID,
		Prerequisites:   prerequisites,
		ExpectedOutcome: expectedOutcome,
		CreatedAt:       time.Now().UTC(),
	}
	return t, db.WithContext(ctx).Create(t).Error
}

// GetTask fetches a task by ID, or ErrNotFound.
func GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasksByCuj returns a CUJ's tasks ordered (Name ASC, ID ASC).
func ListTasksByCuj(ctx context.Context, db *gorm.DB, cujID string) ([]domain.Task, error) {
	var out []domain.Task
	err := db.WithContext(ctx).
		Where("cuj_id = ?", cujID).
		Order("name ASC, id ASC").
		Find(&out).Error
	return out, err
}

// ListAllTasks returns every task in the taxonomy ordered (ID ASC). Used by
// report generation and progress computation.
func ListAllTasks(ctx context.Context, db *gorm.DB) ([]domain.Task, error) {
	var out []domain.Task
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// CreateVersion inserts a new, inactive taxonomy version row.
func CreateVersion(ctx context.Context, db *gorm.DB, label, createdBy string) (*domain.CujDatabaseVersion, error) {
	v := &domain.CujDatabaseVersion{
		ID:        uuid.NewString(),
		Label:     label,
		IsActive:  false,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	return v, db.WithContext(ctx).Create(v).Error
}

// GetVersion fetches a taxonomy version by ID, or ErrNotFound.
func GetVersion(ctx context.Context, db *gorm.DB, id string) (*domain.CujDatabaseVersion, error) {
	var v domain.CujDatabaseVersion
	if err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVersions returns all taxonomy versions, newest first.
func ListVersions(ctx context.Context, db *gorm.DB) ([]domain.CujDatabaseVersion, error) {
	var out []domain.CujDatabaseVersion
	err := db.WithContext(ctx).Order("created_at DESC, id ASC").Find(&out).Error
	return out, err
}

// GetActiveVersion returns the single active taxonomy version, or ErrNotFound
// when no version has been activated yet.
func GetActiveVersion(ctx context.Context, db *gorm.DB) (*domain.CujDatabaseVersion, error) {
	var v domain.CujDatabaseVersion
	if err := db.WithContext(ctx).Where("is_active = ?", true).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ActivateVersion sets IsActive on the target version and clears it on every
// other version inside a single transaction, so readers never observe zero or
// two active versions. Returns ErrNotFound if the version does not exist.
func ActivateVersion(ctx context.Context, db *gorm.DB, id string) (*domain.CujDatabaseVersion, error) {
	var v domain.CujDatabaseVersion
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&domain.CujDatabaseVersion{}).
			Where("id <> ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.CujDatabaseVersion{}).
			Where("id = ?", id).
			Update("is_active", true).Error; err != nil {
			return err
		}
		v.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}
