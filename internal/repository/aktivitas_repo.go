package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// AktivitasFilter 活动列表过滤条件
type AktivitasFilter struct {
	ShelterID string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// AktivitasRepository 活动数据访问接口
type AktivitasRepository interface {
	Create(ctx context.Context, a *model.Aktivitas) error
	GetByID(ctx context.Context, id string) (*model.Aktivitas, error)
	List(ctx context.Context, f AktivitasFilter, offset, limit int) ([]model.Aktivitas, int64, error)
	Update(ctx context.Context, a *model.Aktivitas) error
	Delete(ctx context.Context, id string) error
}

type aktivitasRepo struct {
	db *gorm.DB
}

func NewAktivitasRepo(db *gorm.DB) AktivitasRepository {
	return &aktivitasRepo{db: db}
}

func (r *aktivitasRepo) Create(ctx context.Context, a *model.Aktivitas) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *aktivitasRepo) GetByID(ctx context.Context, id string) (*model.Aktivitas, error) {
	var a model.Aktivitas
	err := r.db.WithContext(ctx).
		Preload("Shelter").
		Where("aktivitas_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *aktivitasRepo) List(ctx context.Context, f AktivitasFilter, offset, limit int) ([]model.Aktivitas, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Aktivitas{})
	if f.ShelterID != "" {
		q = q.Where("shelter_id = ?", f.ShelterID)
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", f.DateTo.Format("2006-01-02"))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Aktivitas
	err := q.
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *aktivitasRepo) Update(ctx context.Context, a *model.Aktivitas) error {
	return r.db.WithContext(ctx).
		Model(a).
		Where("aktivitas_id = ?", a.AktivitasID).
		Updates(map[string]interface{}{
			"name":                   a.Name,
			"kind":                   a.Kind,
			"date":                   a.Date,
			"start_time":             a.StartTime,
			"end_time":               a.EndTime,
			"late_threshold":         a.LateThreshold,
			"late_minutes_threshold": a.LateMinutesThreshold,
		}).Error
}

// Delete 删除活动；其出勤记录由外键级联一并删除
func (r *aktivitasRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("aktivitas_id = ?", id).
		Delete(&model.Aktivitas{}).Error
}
