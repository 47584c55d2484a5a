package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
)

// ErrAbsenNotFound 出勤记录不存在
var ErrAbsenNotFound = errors.New("出勤记录不存在")

// VerificationService 出勤复核业务接口
//
// 审计轨迹仅追加：同一记录可被反复确认/驳回，每次操作都新增一行，
// 出勤记录上的复核状态始终反映最后一次操作
type VerificationService interface {
	Verify(ctx context.Context, absenID, verifiedBy string, req *dto.VerifyRequest) (*dto.VerificationResponse, error)
	Reject(ctx context.Context, absenID, verifiedBy string, req *dto.RejectRequest) (*dto.VerificationResponse, error)
	History(ctx context.Context, absenID string) ([]dto.VerificationResponse, error)
}

type verificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVerificationService 创建 VerificationService 实例
func NewVerificationService(repo *repository.Repository, logger *zap.Logger) VerificationService {
	return &verificationService{repo: repo, logger: logger}
}

// Verify 确认出勤记录
func (s *verificationService) Verify(ctx context.Context, absenID, verifiedBy string, req *dto.VerifyRequest) (*dto.VerificationResponse, error) {
	return s.apply(ctx, absenID, verifiedBy, model.VerificationOutcomeVerified, req.Notes)
}

// Reject 驳回出勤记录
func (s *verificationService) Reject(ctx context.Context, absenID, verifiedBy string, req *dto.RejectRequest) (*dto.VerificationResponse, error) {
	return s.apply(ctx, absenID, verifiedBy, model.VerificationOutcomeRejected, req.Reason)
}

func (s *verificationService) apply(ctx context.Context, absenID, verifiedBy, outcome, notes string) (*dto.VerificationResponse, error) {
	v := &model.AttendanceVerification{
		AbsenID: absenID,
		Outcome: outcome,
		Notes:   notes,
	}
	if verifiedBy != "" {
		v.VerifiedBy = &verifiedBy
	}

	isVerified := outcome == model.VerificationOutcomeVerified
	// 出勤记录上的复核状态与结论保持一致
	if err := s.repo.Verification.ApplyOutcome(ctx, absenID, isVerified, outcome, v); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenNotFound
		}
		s.logger.Error("写入复核结论失败",
			zap.String("absen_id", absenID),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, err
	}

	return toVerificationResponse(v), nil
}

// History 查询出勤记录的复核历史（按时间正序）
func (s *verificationService) History(ctx context.Context, absenID string) ([]dto.VerificationResponse, error) {
	if _, err := s.repo.Absen.GetByID(ctx, absenID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAbsenNotFound
		}
		return nil, err
	}

	list, err := s.repo.Verification.ListByAbsen(ctx, absenID)
	if err != nil {
		s.logger.Error("查询复核历史失败", zap.String("absen_id", absenID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.VerificationResponse, 0, len(list))
	for i := range list {
		result = append(result, *toVerificationResponse(&list[i]))
	}
	return result, nil
}

func toVerificationResponse(v *model.AttendanceVerification) *dto.VerificationResponse {
	resp := &dto.VerificationResponse{
		ID:        v.VerificationID,
		AbsenID:   v.AbsenID,
		Outcome:   v.Outcome,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
	if v.VerifiedBy != nil {
		resp.VerifiedBy = *v.VerifiedBy
	}
	return resp
}
