package repository

import (
	"context"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// AnakRepository 儿童数据访问接口
type AnakRepository interface {
	GetByID(ctx context.Context, id string) (*model.Anak, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Anak, error)
}

type anakRepo struct {
	db *gorm.DB
}

func NewAnakRepo(db *gorm.DB) AnakRepository {
	return &anakRepo{db: db}
}

func (r *anakRepo) GetByID(ctx context.Context, id string) (*model.Anak, error) {
	var anak model.Anak
	err := r.db.WithContext(ctx).
		Where("anak_id = ?", id).
		First(&anak).Error
	if err != nil {
		return nil, err
	}
	return &anak, nil
}

func (r *anakRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Anak, error) {
	var list []model.Anak
	err := r.db.WithContext(ctx).
		Where("anak_id IN ?", ids).
		Find(&list).Error
	return list, err
}
