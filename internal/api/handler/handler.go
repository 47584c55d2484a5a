package handler

import "bp-expo/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Aktivitas    *AktivitasHandler
	Attendance   *AttendanceHandler
	QrToken      *QrTokenHandler
	Verification *VerificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Aktivitas:    NewAktivitasHandler(svc.Aktivitas),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		QrToken:      NewQrTokenHandler(svc.QrToken),
		Verification: NewVerificationHandler(svc.Verification),
		Export:       NewExportHandler(svc.Export),
	}
}
