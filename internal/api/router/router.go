package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bp-expo/backend/config"
	"bp-expo/backend/internal/api/handler"
	"bp-expo/backend/internal/api/middleware"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/pkg/jwt"
	"bp-expo/backend/pkg/redis"
)

// 公开令牌校验端点的速率窗口：防止令牌串枚举
const (
	validateRateLimit  = 30
	validateRateWindow = time.Minute
)

// maxBodyBytes 全局请求体上限
const maxBodyBytes = 1 << 20 // 1MB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 出勤记录与令牌签发是 shelter 现场操作；复核与管理操作开放给各级管理员
	anyAdmin := middleware.RoleAuth(model.RoleAdminPusat, model.RoleAdminCabang, model.RoleAdminShelter)
	shelterAdmin := middleware.RoleAuth(model.RoleAdminShelter)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 令牌校验（公开端点：扫码设备无账号；速率限制防枚举）
		validate := v1.Group("/qr-tokens")
		validate.Use(middleware.RateLimit(rdb, validateRateLimit, validateRateWindow))
		{
			validate.POST("/validate", h.QrToken.Validate)
			validate.POST("/validate/tutor", h.QrToken.ValidateTutor)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 活动模块
			aktivitas := authorized.Group("/aktivitas")
			{
				aktivitas.GET("", h.Aktivitas.List)
				aktivitas.GET("/:id", h.Aktivitas.Get)
				aktivitas.POST("", anyAdmin, h.Aktivitas.Create)
				aktivitas.PUT("/:id", anyAdmin, h.Aktivitas.Update)
				aktivitas.DELETE("/:id", anyAdmin, h.Aktivitas.Delete)
			}

			// 出勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("/qr", shelterAdmin, h.Attendance.RecordByQr)
				attendance.POST("/manual", shelterAdmin, h.Attendance.RecordManually)
				attendance.GET("/aktivitas/:id", h.Attendance.ListByAktivitas)
				attendance.GET("/anak/:id", h.Attendance.ListByAnak)

				// 复核模块
				attendance.POST("/:id/verify", anyAdmin, h.Verification.Verify)
				attendance.POST("/:id/reject", anyAdmin, h.Verification.Reject)
				attendance.GET("/:id/verifications", h.Verification.History)
			}

			// QR 令牌模块（签发/吊销需管理员）
			qrTokens := authorized.Group("/qr-tokens")
			{
				qrTokens.POST("/anak", shelterAdmin, h.QrToken.Generate)
				qrTokens.POST("/anak/batch", shelterAdmin, h.QrToken.GenerateBatch)
				qrTokens.POST("/tutor", shelterAdmin, h.QrToken.GenerateTutor)
				qrTokens.POST("/invalidate", shelterAdmin, h.QrToken.Invalidate)
				qrTokens.GET("/anak/:id/active", h.QrToken.GetActiveAnakToken)
				qrTokens.GET("/tutor/:id/active", h.QrToken.GetActiveTutorToken)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/attendance", anyAdmin, h.Export.ExportAttendance)
				export.GET("/calendar", h.Export.ExportCalendar) // 捐助人可订阅活动日历
			}
		}
	}

	return r
}
