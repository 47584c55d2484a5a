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
	pkgerrors "bp-expo/backend/pkg/errors"
)

// ── 出勤模块业务错误 ──

var (
	ErrAktivitasNotFound  = errors.New("活动不存在")
	ErrInvalidArrivalTime = errors.New("到达时间格式无效")
)

// ── 结构化拒绝原因 ──

const (
	refuseActivityNotStarted = "活动尚未开始，无法记录出勤"
	refuseTokenMismatch      = "令牌与出勤主体不匹配"
	msgDuplicate             = "该主体在该活动的出勤已记录"
	msgRecorded              = "出勤记录成功"
)

const arrivalTimeLayout = "2006-01-02 15:04:05"

// AttendanceService 出勤记录业务接口
//
// 每对 (主体, 活动) 的状态机只有一条边：未记录 → 已记录，记录即终态；
// 二次记录是冲突（Duplicate=true，回传既有记录），后续修正只经由复核流程
type AttendanceService interface {
	RecordByQr(ctx context.Context, req *dto.RecordByQrRequest) (*dto.RecordResult, error)
	RecordManually(ctx context.Context, req *dto.RecordManualRequest) (*dto.RecordResult, error)
	ListByAktivitas(ctx context.Context, aktivitasID string, req *dto.AttendanceListRequest) ([]dto.AbsenResponse, error)
	ListByAnak(ctx context.Context, anakID string, req *dto.AttendanceListRequest) ([]dto.AbsenResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	tokens QrTokenService
	logger *zap.Logger
	now    func() time.Time
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, tokens QrTokenService, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, tokens: tokens, logger: logger, now: time.Now}
}

// ── 状态判定规则表 ──
//
// 按序求值，首个命中生效；显式覆盖优先于规则表。
// 缺勤判定先于迟到：晚于活动结束时刻的到达一律按缺勤处理，
// 迟到只对落在活动时间窗内的到达求值

type statusRule struct {
	name   string
	match  func(a *model.Aktivitas, arrival time.Time) bool
	status string
}

var statusRules = []statusRule{
	{name: "absent", match: (*model.Aktivitas).IsAbsent, status: model.AbsenTidak},
	{name: "late", match: (*model.Aktivitas).IsLate, status: model.AbsenTerlambat},
}

// deriveStatus 推导出勤状态
func deriveStatus(a *model.Aktivitas, arrival time.Time, override *string) string {
	if override != nil && model.ValidAbsenStatus(*override) {
		return *override
	}
	for _, r := range statusRules {
		if r.match(a, arrival) {
			return r.status
		}
	}
	return model.AbsenYa
}

// ────────────────────── RecordByQr ──────────────────────

func (s *attendanceService) RecordByQr(ctx context.Context, req *dto.RecordByQrRequest) (*dto.RecordResult, error) {
	subject := model.Subject{Type: model.SubjectType(req.SubjectType), ID: req.SubjectID}

	// 1. 令牌校验：失败时闭合拒绝，不触碰存储
	var vres *dto.ValidateTokenResponse
	var err error
	if subject.Type == model.SubjectTutor {
		vres, err = s.tokens.ValidateTutorToken(ctx, req.Token)
	} else {
		vres, err = s.tokens.ValidateToken(ctx, req.Token)
	}
	if err != nil {
		return nil, err
	}
	if !vres.Valid {
		return &dto.RecordResult{Success: false, Message: vres.Message}, nil
	}
	if vres.Subject == nil || vres.Subject.ID != subject.ID {
		return &dto.RecordResult{Success: false, Message: refuseTokenMismatch}, nil
	}

	// QR 签到即视为已核验：持有有效令牌即为充分凭证
	return s.record(ctx, subject, req.AktivitasID, req.Status, req.ArrivalTime, recordOptions{
		isVerified:         true,
		verificationStatus: model.VerificationVerified,
	})
}

// ────────────────────── RecordManually ──────────────────────

func (s *attendanceService) RecordManually(ctx context.Context, req *dto.RecordManualRequest) (*dto.RecordResult, error) {
	subject := model.Subject{Type: model.SubjectType(req.SubjectType), ID: req.SubjectID}

	// 人工录入走复核流程：未核验，等待二次确认
	return s.record(ctx, subject, req.AktivitasID, &req.Status, req.ArrivalTime, recordOptions{
		isVerified:         false,
		verificationStatus: model.VerificationManual,
		notes:              req.Notes,
	})
}

type recordOptions struct {
	isVerified         bool
	verificationStatus string
	notes              string
}

// record QR 与人工两条入口共用的记录管线
func (s *attendanceService) record(ctx context.Context, subject model.Subject, aktivitasID string, override *string, arrivalRaw *string, opts recordOptions) (*dto.RecordResult, error) {
	// 1. 加载活动
	aktivitas, err := s.repo.Aktivitas.GetByID(ctx, aktivitasID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAktivitasNotFound
		}
		s.logger.Error("查询活动失败", zap.String("aktivitas_id", aktivitasID), zap.Error(err))
		return nil, err
	}

	now := s.now()

	// 2. 记录门禁：未来活动拒绝，不触碰存储
	if !aktivitas.CanRecordAttendance(now) {
		return &dto.RecordResult{Success: false, Message: refuseActivityNotStarted}, nil
	}

	// 3. 生效到达时间：显式提供优先，否则取当前时刻
	arrival := now
	if arrivalRaw != nil && *arrivalRaw != "" {
		arrival, err = time.ParseInLocation(arrivalTimeLayout, *arrivalRaw, now.Location())
		if err != nil {
			return nil, ErrInvalidArrivalTime
		}
	}

	// 4. 状态推导 + 事务化写入（身份惰性创建、查重、插入同一事务）
	absen := &model.Absen{
		AktivitasID:        aktivitasID,
		Status:             deriveStatus(aktivitas, arrival, override),
		ArrivalTime:        &arrival,
		IsVerified:         opts.isVerified,
		VerificationStatus: opts.verificationStatus,
		Notes:              opts.notes,
	}

	rec, err := s.repo.Absen.Record(ctx, subject, absen)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateAttendance) {
			return &dto.RecordResult{
				Success:   false,
				Duplicate: true,
				Message:   msgDuplicate,
				Record:    s.toAbsenResponse(rec),
			}, nil
		}
		s.logger.Error("写入出勤记录失败",
			zap.String("aktivitas_id", aktivitasID),
			zap.String("subject_id", subject.ID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.RecordResult{
		Success: true,
		Message: msgRecorded,
		Record:  s.toAbsenResponse(rec),
	}, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *attendanceService) ListByAktivitas(ctx context.Context, aktivitasID string, req *dto.AttendanceListRequest) ([]dto.AbsenResponse, error) {
	if _, err := s.repo.Aktivitas.GetByID(ctx, aktivitasID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAktivitasNotFound
		}
		return nil, err
	}

	filter, err := toAbsenFilter(req)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Absen.ListByAktivitas(ctx, aktivitasID, filter)
	if err != nil {
		s.logger.Error("查询活动出勤失败", zap.String("aktivitas_id", aktivitasID), zap.Error(err))
		return nil, err
	}

	return s.toAbsenResponses(list), nil
}

func (s *attendanceService) ListByAnak(ctx context.Context, anakID string, req *dto.AttendanceListRequest) ([]dto.AbsenResponse, error) {
	if _, err := s.repo.Anak.GetByID(ctx, anakID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnakNotFound
		}
		return nil, err
	}

	filter, err := toAbsenFilter(req)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.Absen.ListByAnak(ctx, anakID, filter)
	if err != nil {
		s.logger.Error("查询儿童出勤失败", zap.String("anak_id", anakID), zap.Error(err))
		return nil, err
	}

	return s.toAbsenResponses(list), nil
}

// ── 内部辅助方法 ──

func toAbsenFilter(req *dto.AttendanceListRequest) (repository.AbsenFilter, error) {
	f := repository.AbsenFilter{
		IsVerified:         req.IsVerified,
		VerificationStatus: req.VerificationStatus,
		Status:             req.Status,
	}
	if req.DateFrom != "" {
		t, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return f, ErrInvalidArrivalTime
		}
		f.DateFrom = &t
	}
	if req.DateTo != "" {
		t, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return f, ErrInvalidArrivalTime
		}
		f.DateTo = &t
	}
	return f, nil
}

func (s *attendanceService) toAbsenResponse(absen *model.Absen) *dto.AbsenResponse {
	resp := &dto.AbsenResponse{
		ID:                 absen.AbsenID,
		AktivitasID:        absen.AktivitasID,
		Status:             absen.Status,
		IsVerified:         absen.IsVerified,
		VerificationStatus: absen.VerificationStatus,
		Notes:              absen.Notes,
		CreatedAt:          absen.CreatedAt.Format(time.RFC3339),
	}
	if absen.ArrivalTime != nil {
		v := absen.ArrivalTime.Format(time.RFC3339)
		resp.ArrivalTime = &v
	}
	if absen.AbsenUser != nil {
		subject := absen.AbsenUser.Subject()
		resp.Subject = &dto.SubjectBrief{
			AbsenUserID: absen.AbsenUser.AbsenUserID,
			Type:        string(subject.Type),
			ID:          subject.ID,
			Name:        absen.AbsenUser.DisplayName(),
		}
	}
	return resp
}

func (s *attendanceService) toAbsenResponses(list []model.Absen) []dto.AbsenResponse {
	result := make([]dto.AbsenResponse, 0, len(list))
	for i := range list {
		result = append(result, *s.toAbsenResponse(&list[i]))
	}
	return result
}
