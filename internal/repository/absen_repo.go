package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
	pkgerrors "bp-expo/backend/pkg/errors"
)

// AbsenFilter 出勤记录查询过滤条件
// 日期范围按关联活动的日期过滤
type AbsenFilter struct {
	IsVerified         *bool
	VerificationStatus string
	Status             string
	DateFrom           *time.Time
	DateTo             *time.Time
}

// AbsenRepository 出勤记录数据访问接口
type AbsenRepository interface {
	// Record 在单个事务内完成：解析/惰性创建出勤主体身份 → 查重 → 写入记录。
	// 重复时返回既有记录与 pkgerrors.ErrDuplicateAttendance；
	// 并发竞态由 (absen_user_id, aktivitas_id) 唯一约束兜底，同样归一为该错误。
	Record(ctx context.Context, subject model.Subject, absen *model.Absen) (*model.Absen, error)
	GetByID(ctx context.Context, id string) (*model.Absen, error)
	GetBySubjectActivity(ctx context.Context, subject model.Subject, aktivitasID string) (*model.Absen, error)
	ListByAktivitas(ctx context.Context, aktivitasID string, f AbsenFilter) ([]model.Absen, error)
	ListByAnak(ctx context.Context, anakID string, f AbsenFilter) ([]model.Absen, error)
}

type absenRepo struct {
	db *gorm.DB
}

func NewAbsenRepo(db *gorm.DB) AbsenRepository {
	return &absenRepo{db: db}
}

// errSubjectRace 出勤主体身份行被并发创建，整个事务需重试一次
var errSubjectRace = errors.New("absen_user 并发创建竞态")

func (r *absenRepo) Record(ctx context.Context, subject model.Subject, absen *model.Absen) (*model.Absen, error) {
	for attempt := 0; ; attempt++ {
		rec, err := r.recordOnce(ctx, subject, absen)
		if errors.Is(err, errSubjectRace) && attempt == 0 {
			continue // 身份行已由并发请求建好，重跑一次事务即可命中
		}
		if errors.Is(err, pkgerrors.ErrDuplicateAttendance) && rec == nil {
			// 唯一约束竞态：插入语句失败导致事务中止，已回滚；在事务外读取既有记录
			existing, ferr := r.GetBySubjectActivity(ctx, subject, absen.AktivitasID)
			if ferr != nil {
				return nil, ferr
			}
			return existing, pkgerrors.ErrDuplicateAttendance
		}
		return rec, err
	}
}

func (r *absenRepo) recordOnce(ctx context.Context, subject model.Subject, absen *model.Absen) (*model.Absen, error) {
	var result *model.Absen

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 解析出勤主体身份，不存在则惰性创建
		var au model.AbsenUser
		err := subjectScope(tx, subject).First(&au).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := model.NewAbsenUser(subject)
			if cerr := tx.Create(created).Error; cerr != nil {
				if errors.Is(cerr, gorm.ErrDuplicatedKey) {
					return errSubjectRace
				}
				return cerr
			}
			au = *created
		case err != nil:
			return err
		}

		absen.AbsenUserID = au.AbsenUserID

		// 2. 事务内查重（同一主体同一活动至多一条）
		var existing model.Absen
		err = tx.Where("absen_user_id = ? AND aktivitas_id = ?", au.AbsenUserID, absen.AktivitasID).
			First(&existing).Error
		if err == nil {
			result = &existing
			return pkgerrors.ErrDuplicateAttendance
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 3. 写入；两个并发插入中落败的一方由唯一约束拦下
		if err := tx.Create(absen).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.ErrDuplicateAttendance
			}
			return err
		}

		result = absen
		return nil
	})

	if err != nil {
		return result, err
	}
	return result, nil
}

func (r *absenRepo) GetByID(ctx context.Context, id string) (*model.Absen, error) {
	var absen model.Absen
	err := r.db.WithContext(ctx).
		Preload("AbsenUser").Preload("AbsenUser.Anak").Preload("AbsenUser.Tutor").
		Preload("Aktivitas").
		Where("absen_id = ?", id).
		First(&absen).Error
	if err != nil {
		return nil, err
	}
	return &absen, nil
}

func (r *absenRepo) GetBySubjectActivity(ctx context.Context, subject model.Subject, aktivitasID string) (*model.Absen, error) {
	var absen model.Absen
	q := r.db.WithContext(ctx).
		Joins("JOIN absen_users ON absen_users.absen_user_id = absen.absen_user_id").
		Where("absen.aktivitas_id = ?", aktivitasID)
	if subject.Type == model.SubjectTutor {
		q = q.Where("absen_users.tutor_id = ?", subject.ID)
	} else {
		q = q.Where("absen_users.anak_id = ?", subject.ID)
	}
	err := q.
		Preload("AbsenUser").Preload("AbsenUser.Anak").Preload("AbsenUser.Tutor").
		First(&absen).Error
	if err != nil {
		return nil, err
	}
	return &absen, nil
}

func (r *absenRepo) ListByAktivitas(ctx context.Context, aktivitasID string, f AbsenFilter) ([]model.Absen, error) {
	var list []model.Absen
	q := r.db.WithContext(ctx).
		Where("absen.aktivitas_id = ?", aktivitasID)
	q = applyAbsenFilter(q, f)
	err := q.
		Preload("AbsenUser").Preload("AbsenUser.Anak").Preload("AbsenUser.Tutor").
		Order("absen.created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *absenRepo) ListByAnak(ctx context.Context, anakID string, f AbsenFilter) ([]model.Absen, error) {
	var list []model.Absen
	q := r.db.WithContext(ctx).
		Joins("JOIN absen_users ON absen_users.absen_user_id = absen.absen_user_id").
		Where("absen_users.anak_id = ?", anakID)
	q = applyAbsenFilter(q, f)
	err := q.
		Preload("AbsenUser").Preload("AbsenUser.Anak").
		Preload("Aktivitas").
		Order("absen.created_at DESC").
		Find(&list).Error
	return list, err
}

// applyAbsenFilter 套用可选过滤条件；日期范围需联表活动日期
func applyAbsenFilter(q *gorm.DB, f AbsenFilter) *gorm.DB {
	if f.IsVerified != nil {
		q = q.Where("absen.is_verified = ?", *f.IsVerified)
	}
	if f.VerificationStatus != "" {
		q = q.Where("absen.verification_status = ?", f.VerificationStatus)
	}
	if f.Status != "" {
		q = q.Where("absen.status = ?", f.Status)
	}
	if f.DateFrom != nil || f.DateTo != nil {
		q = q.Joins("JOIN aktivitas ON aktivitas.aktivitas_id = absen.aktivitas_id")
		if f.DateFrom != nil {
			q = q.Where("aktivitas.date >= ?", f.DateFrom.Format("2006-01-02"))
		}
		if f.DateTo != nil {
			q = q.Where("aktivitas.date <= ?", f.DateTo.Format("2006-01-02"))
		}
	}
	return q
}
