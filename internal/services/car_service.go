// Package services – CarService
//
// This file implements the CarService, the catalog of vehicle infotainment
// builds under evaluation. Cars are plain CRUD; the interesting rules
// (assignment exclusivity, review binding) live in the services that
// reference them.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
	"github.com/thetangstr/meridian-replit-sub001/internal/repo"
)

// CarService manages the car catalog.
type CarService struct {
	// DB is the database handle used for all car operations.
	DB *gorm.DB
}

// CarPatch is a partial update of a car's descriptive fields. Nil pointers
// leave the stored value alone.
type CarPatch struct {
	Make             *string
	Model            *string
	Year             *int
	AndroidVersion   *string
	BuildFingerprint *string
	Location         *string
	ImageURL         *string
}

func (p CarPatch) columns() map[string]any {
	m := map[string]any{}
	if p.Make != nil {
		m["make"] = *p.Make
	}
	if p.Model != nil {
		m["model"] = *p.Model
	}
	if p.Year != nil {
		m["year"] = *p.Year
	}
	if p.AndroidVersion != nil {
		m["android_version"] = *p.AndroidVersion
	}
	if p.BuildFingerprint != nil {
		m["build_fingerprint"] = *p.BuildFingerprint
	}
	if p.Location != nil {
		m["location"] = *p.Location
	}
	if p.ImageURL != nil {
		m["image_url"] = *p.ImageURL
	}
	return m
}

// Create registers a new car build.
func (s *CarService) Create(ctx context.Context, car domain.Car) (*domain.Car, error) {
	return repo.CreateCar(ctx, s.DB, car)
}

// Get returns a car or ErrCarNotFound.
func (s *CarService) Get(ctx context.Context, id string) (*domain.Car, error) {
	c, err := repo.GetCar(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCarNotFound
	}
	return c, err
}

// List returns all cars in deterministic order.
func (s *CarService) List(ctx context.Context) ([]domain.Car, error) {
	return repo.ListCars(ctx, s.DB)
}

// Update merges the supplied fields into an existing car. An empty patch is a
// plain read.
func (s *CarService) Update(ctx context.Context, id string, p CarPatch) (*domain.Car, error) {
	fields := p.columns()
	if len(fields) > 0 {
		if err := repo.UpdateCar(ctx, s.DB, id, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCarNotFound
			}
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a car, or returns ErrCarNotFound.
func (s *CarService) Delete(ctx context.Context, id string) error {
	err := repo.DeleteCar(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCarNotFound
	}
	return err
}
