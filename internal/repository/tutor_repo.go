package repository

import (
	"context"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// TutorRepository 导师数据访问接口
type TutorRepository interface {
	GetByID(ctx context.Context, id string) (*model.Tutor, error)
}

type tutorRepo struct {
	db *gorm.DB
}

func NewTutorRepo(db *gorm.DB) TutorRepository {
	return &tutorRepo{db: db}
}

func (r *tutorRepo) GetByID(ctx context.Context, id string) (*model.Tutor, error) {
	var tutor model.Tutor
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", id).
		First(&tutor).Error
	if err != nil {
		return nil, err
	}
	return &tutor, nil
}
