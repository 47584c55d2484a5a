package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/service"
	"bp-expo/backend/pkg/response"
)

// VerificationHandler 出勤复核模块 HTTP 处理器
type VerificationHandler struct {
	verificationSvc service.VerificationService
}

// NewVerificationHandler 创建 VerificationHandler
func NewVerificationHandler(verificationSvc service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationSvc: verificationSvc}
}

// Verify 确认出勤记录
// POST /api/v1/attendance/:id/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	absenID := c.Param("id")
	if absenID == "" {
		response.BadRequest(c, "出勤记录 ID 不能为空")
		return
	}

	var req dto.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.verificationSvc.Verify(c.Request.Context(), absenID, userID, &req)
	if err != nil {
		h.handleVerificationError(c, err)
		return
	}

	response.OK(c, "复核确认成功", result)
}

// Reject 驳回出勤记录
// POST /api/v1/attendance/:id/reject
func (h *VerificationHandler) Reject(c *gin.Context) {
	absenID := c.Param("id")
	if absenID == "" {
		response.BadRequest(c, "出勤记录 ID 不能为空")
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "驳回必须提供理由")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.verificationSvc.Reject(c.Request.Context(), absenID, userID, &req)
	if err != nil {
		h.handleVerificationError(c, err)
		return
	}

	response.OK(c, "复核驳回成功", result)
}

// History 复核历史（时间正序）
// GET /api/v1/attendance/:id/verifications
func (h *VerificationHandler) History(c *gin.Context) {
	absenID := c.Param("id")
	if absenID == "" {
		response.BadRequest(c, "出勤记录 ID 不能为空")
		return
	}

	result, err := h.verificationSvc.History(c.Request.Context(), absenID)
	if err != nil {
		h.handleVerificationError(c, err)
		return
	}

	response.OK(c, "success", result)
}

func (h *VerificationHandler) handleVerificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAbsenNotFound):
		response.NotFound(c, "出勤记录不存在")
	default:
		response.InternalError(c)
	}
}
