package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bp-expo/backend/config"
	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
)

// ── 活动模块业务错误 ──

var (
	ErrShelterNotFound = errors.New("庇护所不存在")
	ErrInvalidClock    = errors.New("时刻格式无效，应为 HH:MM 或 HH:MM:SS")
	ErrInvalidDate     = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// AktivitasService 活动管理业务接口
type AktivitasService interface {
	Create(ctx context.Context, req *dto.CreateAktivitasRequest) (*dto.AktivitasResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AktivitasResponse, error)
	List(ctx context.Context, req *dto.AktivitasListRequest) ([]dto.AktivitasResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAktivitasRequest) (*dto.AktivitasResponse, error)
	Delete(ctx context.Context, id string) error
}

type aktivitasService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAktivitasService 创建 AktivitasService 实例
func NewAktivitasService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AktivitasService {
	return &aktivitasService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *aktivitasService) Create(ctx context.Context, req *dto.CreateAktivitasRequest) (*dto.AktivitasResponse, error) {
	if _, err := s.repo.Shelter.GetByID(ctx, req.ShelterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := validateClocks(req.StartTime, req.EndTime, req.LateThreshold); err != nil {
		return nil, err
	}

	aktivitas := &model.Aktivitas{
		ShelterID:            req.ShelterID,
		Name:                 req.Name,
		Kind:                 req.Kind,
		Date:                 date,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		LateThreshold:        req.LateThreshold,
		LateMinutesThreshold: s.cfg.Attendance.DefaultLateMinutes,
	}
	if req.LateMinutesThreshold != nil {
		aktivitas.LateMinutesThreshold = *req.LateMinutesThreshold
	}

	if err := s.repo.Aktivitas.Create(ctx, aktivitas); err != nil {
		s.logger.Error("创建活动失败", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}

	return s.toResponse(aktivitas), nil
}

func (s *aktivitasService) GetByID(ctx context.Context, id string) (*dto.AktivitasResponse, error) {
	aktivitas, err := s.repo.Aktivitas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAktivitasNotFound
		}
		return nil, err
	}
	return s.toResponse(aktivitas), nil
}

func (s *aktivitasService) List(ctx context.Context, req *dto.AktivitasListRequest) ([]dto.AktivitasResponse, int64, error) {
	filter := repository.AktivitasFilter{ShelterID: req.ShelterID}
	if req.DateFrom != "" {
		t, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		filter.DateFrom = &t
	}
	if req.DateTo != "" {
		t, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, 0, ErrInvalidDate
		}
		filter.DateTo = &t
	}

	list, total, err := s.repo.Aktivitas.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AktivitasResponse, 0, len(list))
	for i := range list {
		result = append(result, *s.toResponse(&list[i]))
	}
	return result, total, nil
}

func (s *aktivitasService) Update(ctx context.Context, id string, req *dto.UpdateAktivitasRequest) (*dto.AktivitasResponse, error) {
	aktivitas, err := s.repo.Aktivitas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAktivitasNotFound
		}
		return nil, err
	}

	if err := validateClocks(req.StartTime, req.EndTime, req.LateThreshold); err != nil {
		return nil, err
	}

	if req.Name != nil {
		aktivitas.Name = *req.Name
	}
	if req.Kind != nil {
		aktivitas.Kind = *req.Kind
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		aktivitas.Date = date
	}
	if req.StartTime != nil {
		aktivitas.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		aktivitas.EndTime = req.EndTime
	}
	if req.LateThreshold != nil {
		aktivitas.LateThreshold = req.LateThreshold
	}
	if req.LateMinutesThreshold != nil {
		aktivitas.LateMinutesThreshold = *req.LateMinutesThreshold
	}

	if err := s.repo.Aktivitas.Update(ctx, aktivitas); err != nil {
		s.logger.Error("更新活动失败", zap.String("aktivitas_id", id), zap.Error(err))
		return nil, err
	}

	return s.toResponse(aktivitas), nil
}

// Delete 删除活动；关联的出勤与复核记录由外键级联清理
func (s *aktivitasService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Aktivitas.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAktivitasNotFound
		}
		return err
	}
	if err := s.repo.Aktivitas.Delete(ctx, id); err != nil {
		s.logger.Error("删除活动失败", zap.String("aktivitas_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func validateClocks(clocks ...*string) error {
	for _, c := range clocks {
		if c != nil && !model.ValidClock(*c) {
			return ErrInvalidClock
		}
	}
	return nil
}

func (s *aktivitasService) toResponse(a *model.Aktivitas) *dto.AktivitasResponse {
	now := s.now()
	return &dto.AktivitasResponse{
		ID:                   a.AktivitasID,
		ShelterID:            a.ShelterID,
		Name:                 a.Name,
		Kind:                 a.Kind,
		Date:                 a.Date.Format("2006-01-02"),
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		LateThreshold:        a.LateThreshold,
		LateMinutesThreshold: a.LateMinutesThreshold,
		IsToday:              a.IsToday(now),
		IsUpcoming:           a.IsUpcoming(now),
		IsExpired:            a.IsExpired(now),
		CreatedAt:            a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            a.UpdatedAt.Format(time.RFC3339),
	}
}
