package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/service"
	"bp-expo/backend/pkg/response"
)

// AttendanceHandler 出勤模块 HTTP 处理器
//
// 签到结果到 HTTP 状态的映射：
//   - 写入成功           → 201，data 为新记录
//   - 重复记录           → 409，data 回传已存在的记录
//   - 业务拒绝（令牌无效、未来活动等）→ 422
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// RecordByQr QR 扫码签到
// POST /api/v1/attendance/qr
func (h *AttendanceHandler) RecordByQr(c *gin.Context) {
	var req dto.RecordByQrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.RecordByQr(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	h.writeRecordResult(c, result)
}

// RecordManually 人工录入出勤
// POST /api/v1/attendance/manual
func (h *AttendanceHandler) RecordManually(c *gin.Context) {
	var req dto.RecordManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.RecordManually(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	h.writeRecordResult(c, result)
}

// ListByAktivitas 查询活动出勤
// GET /api/v1/attendance/aktivitas/:id
func (h *AttendanceHandler) ListByAktivitas(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "活动 ID 不能为空")
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	list, err := h.attendanceSvc.ListByAktivitas(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "success", list)
}

// ListByAnak 查询儿童出勤历史
// GET /api/v1/attendance/anak/:id
func (h *AttendanceHandler) ListByAnak(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "儿童 ID 不能为空")
		return
	}

	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	list, err := h.attendanceSvc.ListByAnak(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "success", list)
}

// writeRecordResult 把结构化签到结果映射为 HTTP 响应
func (h *AttendanceHandler) writeRecordResult(c *gin.Context, result *dto.RecordResult) {
	switch {
	case result.Success:
		response.Created(c, result.Message, result.Record)
	case result.Duplicate:
		response.Conflict(c, result.Message, result.Record)
	default:
		response.Unprocessable(c, result.Message)
	}
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAktivitasNotFound):
		response.NotFound(c, "活动不存在")
	case errors.Is(err, service.ErrAnakNotFound):
		response.NotFound(c, "儿童不存在")
	case errors.Is(err, service.ErrInvalidArrivalTime):
		response.Unprocessable(c, "到达时间格式无效")
	default:
		response.InternalError(c)
	}
}
