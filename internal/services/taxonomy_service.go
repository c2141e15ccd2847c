// Package services – TaxonomyService
//
// This file implements the TaxonomyService, which owns the versioned CUJ
// taxonomy: categories, CUJs, tasks, and taxonomy versions. It enforces
// parent-reference checks on creation and the single-active-version
// invariant on activation. Service-level errors (ErrCategoryNotFound,
// ErrCujNotFound, ErrVersionNotFound) are returned for predictable cases so
// handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// TaxonomyService provides taxonomy CRUD and version activation.
type TaxonomyService struct {
	// DB is the database handle used for all taxonomy operations.
	DB *gorm.DB
}

// CreateCategory creates a new CUJ category.
func (s *TaxonomyService) CreateCategory(ctx context.Context, name, description, icon string) (*domain.CujCategory, error) {
	return repo.CreateCategory(ctx, s.DB, name, description, icon)
}

// ListCategories returns all categories.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]domain.CujCategory, error) {
	return repo.ListCategories(ctx, s.DB)
}

// GetCategory returns one category or ErrCategoryNotFound.
func (s *TaxonomyService) GetCategory(ctx context.Context, id string) (*domain.CujCategory, error) {
	c, err := repo.GetCategory(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

// CreateCuj creates a CUJ under an existing category. The parent check and
// the insert run in one transaction so the reference cannot break mid-write.
func (s *TaxonomyService) CreateCuj(ctx context.Context, name, description, categoryID string) (*domain.Cuj, error) {
	var out *domain.Cuj
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCategory(ctx, tx, categoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		var err error
		out, err = repo.CreateCuj(ctx, tx, name, description, categoryID)
		return err
	})
	return out, err
}

// ListCujs returns the CUJs of a category.
func (s *TaxonomyService) ListCujs(ctx context.Context, categoryID string) ([]domain.Cuj, error) {
	return repo.ListCujsByCategory(ctx, s.DB, categoryID)
}

// CreateTask creates a task under an existing CUJ.
func (s *TaxonomyService) CreateTask(ctx context.Context, name, cujID, prerequisites, expectedOutcome string) (*domain.Task, error) {
	var out *domain.Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetCuj(ctx, tx, cujID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCujNotFound
			}
			return err
		}
		var err error
		out, err = repo.CreateTask(ctx, tx, name, cujID, prerequisites, expectedOutcome)
		return err
	})
	return out, err
}

// ListTasks returns the tasks of a CUJ.
func (s *TaxonomyService) ListTasks(ctx context.Context, cujID string) ([]domain.Task, error) {
	return repo.ListTasksByCuj(ctx, s.DB, cujID)
}

// CreateVersion records a new, inactive taxonomy version snapshot marker.
func (s *TaxonomyService) CreateVersion(ctx context.Context, label, createdBy string) (*domain.CujDatabaseVersion, error) {
	return repo.CreateVersion(ctx, s.DB, label, createdBy)
}

// ListVersions returns all taxonomy versions, newest first.
func (s *TaxonomyService) ListVersions(ctx context.Context) ([]domain.CujDatabaseVersion, error) {
	return repo.ListVersions(ctx, s.DB)
}

// ActivateVersion makes the given version the single active one. The
// deactivate-all-then-activate-one update is atomic: at no observable point
// are zero or two versions active. Unknown ids yield ErrVersionNotFound.
func (s *TaxonomyService) ActivateVersion(ctx context.Context, id string) (*domain.CujDatabaseVersion, error) {
	v, err := repo.ActivateVersion(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVersionNotFound
	}
	return v, err
}

// ActiveVersion returns the currently active version, or ErrNoActiveVersion.
func (s *TaxonomyService) ActiveVersion(ctx context.Context) (*domain.CujDatabaseVersion, error) {
	v, err := repo.GetActiveVersion(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoActiveVersion
	}
	return v, err
}
