package repository

import (
	"context"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// AbsenUserRepository 出勤主体身份数据访问接口
type AbsenUserRepository interface {
	GetBySubject(ctx context.Context, subject model.Subject) (*model.AbsenUser, error)
	GetByID(ctx context.Context, id string) (*model.AbsenUser, error)
}

type absenUserRepo struct {
	db *gorm.DB
}

func NewAbsenUserRepo(db *gorm.DB) AbsenUserRepository {
	return &absenUserRepo{db: db}
}

func (r *absenUserRepo) GetBySubject(ctx context.Context, subject model.Subject) (*model.AbsenUser, error) {
	var au model.AbsenUser
	err := subjectScope(r.db.WithContext(ctx), subject).
		Preload("Anak").
		Preload("Tutor").
		First(&au).Error
	if err != nil {
		return nil, err
	}
	return &au, nil
}

func (r *absenUserRepo) GetByID(ctx context.Context, id string) (*model.AbsenUser, error) {
	var au model.AbsenUser
	err := r.db.WithContext(ctx).
		Preload("Anak").
		Preload("Tutor").
		Where("absen_user_id = ?", id).
		First(&au).Error
	if err != nil {
		return nil, err
	}
	return &au, nil
}

// subjectScope 按标签化主体落到对应外键列
func subjectScope(db *gorm.DB, subject model.Subject) *gorm.DB {
	if subject.Type == model.SubjectTutor {
		return db.Where("tutor_id = ?", subject.ID)
	}
	return db.Where("anak_id = ?", subject.ID)
}
