package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// QrTokenRepository QR 令牌数据访问接口
type QrTokenRepository interface {
	Create(ctx context.Context, token *model.QrToken) error
	// CreateBatch 批量写入，整批落在一个事务内（全成全败）
	CreateBatch(ctx context.Context, tokens []model.QrToken) error
	GetByToken(ctx context.Context, tokenString string) (*model.QrToken, error)
	// GetActiveBySubject 取主体当前"展示用"活动令牌：未吊销且未过期中最新创建的一个
	GetActiveBySubject(ctx context.Context, subject model.Subject, now time.Time) (*model.QrToken, error)
	// Deactivate 吊销指定令牌串对应的活动令牌（token 唯一）；返回是否有行受影响
	Deactivate(ctx context.Context, tokenString string) (bool, error)
}

type qrTokenRepo struct {
	db *gorm.DB
}

func NewQrTokenRepo(db *gorm.DB) QrTokenRepository {
	return &qrTokenRepo{db: db}
}

func (r *qrTokenRepo) Create(ctx context.Context, token *model.QrToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *qrTokenRepo) CreateBatch(ctx context.Context, tokens []model.QrToken) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&tokens).Error
	})
}

func (r *qrTokenRepo) GetByToken(ctx context.Context, tokenString string) (*model.QrToken, error) {
	var token model.QrToken
	err := r.db.WithContext(ctx).
		Preload("Anak").
		Preload("Tutor").
		Where("token = ?", tokenString).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) GetActiveBySubject(ctx context.Context, subject model.Subject, now time.Time) (*model.QrToken, error) {
	var token model.QrToken
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("valid_until IS NULL OR valid_until > ?", now)
	if subject.Type == model.SubjectTutor {
		q = q.Where("tutor_id = ?", subject.ID)
	} else {
		q = q.Where("anak_id = ?", subject.ID)
	}
	err := q.
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *qrTokenRepo) Deactivate(ctx context.Context, tokenString string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.QrToken{}).
		Where("token = ? AND is_active = ?", tokenString, true).
		Update("is_active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
