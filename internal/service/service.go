package service

import (
	"go.uber.org/zap"

	"bp-expo/backend/config"
	"bp-expo/backend/internal/repository"
	"bp-expo/backend/pkg/jwt"
	"bp-expo/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Aktivitas    AktivitasService
	QrToken      QrTokenService
	Attendance   AttendanceService
	Verification VerificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	qrTokenSvc := NewQrTokenService(repo, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Aktivitas:    NewAktivitasService(cfg, repo, logger),
		QrToken:      qrTokenSvc,
		Attendance:   NewAttendanceService(repo, qrTokenSvc, logger),
		Verification: NewVerificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
