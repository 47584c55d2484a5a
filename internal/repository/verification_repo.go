package repository

import (
	"context"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
)

// VerificationRepository 出勤复核审计数据访问接口
// 审计轨迹仅追加：没有 Update/Delete
type VerificationRepository interface {
	// ApplyOutcome 在一个事务内更新出勤记录的复核状态并追加审计行
	ApplyOutcome(ctx context.Context, absenID string, isVerified bool, verificationStatus string, v *model.AttendanceVerification) error
	ListByAbsen(ctx context.Context, absenID string) ([]model.AttendanceVerification, error)
}

type verificationRepo struct {
	db *gorm.DB
}

func NewVerificationRepo(db *gorm.DB) VerificationRepository {
	return &verificationRepo{db: db}
}

func (r *verificationRepo) ApplyOutcome(ctx context.Context, absenID string, isVerified bool, verificationStatus string, v *model.AttendanceVerification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Absen{}).
			Where("absen_id = ?", absenID).
			Updates(map[string]interface{}{
				"is_verified":         isVerified,
				"verification_status": verificationStatus,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(v).Error
	})
}

func (r *verificationRepo) ListByAbsen(ctx context.Context, absenID string) ([]model.AttendanceVerification, error) {
	var list []model.AttendanceVerification
	err := r.db.WithContext(ctx).
		Where("absen_id = ?", absenID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
