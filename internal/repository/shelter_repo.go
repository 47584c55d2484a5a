package repository

import (
	"context"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// ShelterRepository 庇护所数据访问接口
type ShelterRepository interface {
	GetByID(ctx context.Context, id string) (*model.Shelter, error)
	List(ctx context.Context) ([]model.Shelter, error)
}

type shelterRepo struct {
	db *gorm.DB
}

func NewShelterRepo(db *gorm.DB) ShelterRepository {
	return &shelterRepo{db: db}
}

func (r *shelterRepo) GetByID(ctx context.Context, id string) (*model.Shelter, error) {
	var shelter model.Shelter
	err := r.db.WithContext(ctx).
		Where("shelter_id = ?", id).
		First(&shelter).Error
	if err != nil {
		return nil, err
	}
	return &shelter, nil
}

func (r *shelterRepo) List(ctx context.Context) ([]model.Shelter, error) {
	var shelters []model.Shelter
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&shelters).Error
	return shelters, err
}
