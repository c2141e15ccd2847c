// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Car model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thetangstr/meridian-replit-sub001/internal/domain"
)

// CreateCar inserts a new car row.
func CreateCar(ctx context.Context, db *gorm.DB, car domain.Car) (*domain.Car, error) {
	car.ID = uuid.NewString()
	car.CreatedAt = time.Now().UTC()
	return &car, db.WithContext(ctx).Create(&car).Error
}

// GetCar fetches a car by ID, or ErrNotFound.
func GetCar(ctx context.Context, db *gorm.DB, id string) (*domain.Car, error) {
	var c domain.Car
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCars returns all cars ordered deterministically (make, model, year, id).
func ListCars(ctx context.Context, db *gorm.DB) ([]domain.Car, error) {
	var out []domain.Car
	err := db.WithContext(ctx).
		Order("make ASC, model ASC, year ASC, id ASC").
		Find(&out).Error
	return out, err
}

// UpdateCar applies the supplied column values to an existing car. Returns
// ErrNotFound when no row matched.
func UpdateCar(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).Model(&domain.Car{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCar soft-deletes a car. Returns ErrNotFound when no row matched.
func DeleteCar(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Car{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
