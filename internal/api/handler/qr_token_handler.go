package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/service"
	"bp-expo/backend/pkg/response"
)

// QrTokenHandler QR 令牌模块 HTTP 处理器
type QrTokenHandler struct {
	qrTokenSvc service.QrTokenService
}

// NewQrTokenHandler 创建 QrTokenHandler
func NewQrTokenHandler(qrTokenSvc service.QrTokenService) *QrTokenHandler {
	return &QrTokenHandler{qrTokenSvc: qrTokenSvc}
}

// Generate 为儿童签发令牌
// POST /api/v1/qr-tokens/anak
func (h *QrTokenHandler) Generate(c *gin.Context) {
	var req dto.GenerateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.GenerateToken(c.Request.Context(), &req)
	if err != nil {
		h.handleQrTokenError(c, err)
		return
	}

	response.Created(c, "令牌签发成功", result)
}

// GenerateTutor 为导师签发令牌
// POST /api/v1/qr-tokens/tutor
func (h *QrTokenHandler) GenerateTutor(c *gin.Context) {
	var req dto.GenerateTutorTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.GenerateTutorToken(c.Request.Context(), &req)
	if err != nil {
		h.handleQrTokenError(c, err)
		return
	}

	response.Created(c, "令牌签发成功", result)
}

// GenerateBatch 批量签发儿童令牌（全成全败）
// POST /api/v1/qr-tokens/anak/batch
func (h *QrTokenHandler) GenerateBatch(c *gin.Context) {
	var req dto.GenerateBatchTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.GenerateBatchTokens(c.Request.Context(), &req)
	if err != nil {
		h.handleQrTokenError(c, err)
		return
	}

	response.Created(c, "批量签发成功", result)
}

// Validate 校验儿童令牌（公开端点，配合速率限制）
// POST /api/v1/qr-tokens/validate
func (h *QrTokenHandler) Validate(c *gin.Context) {
	var req dto.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.ValidateToken(c.Request.Context(), req.Token)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 校验失败不是错误：200 + valid=false，消息区分原因
	response.OK(c, result.Message, result)
}

// ValidateTutor 校验导师令牌
// POST /api/v1/qr-tokens/validate/tutor
func (h *QrTokenHandler) ValidateTutor(c *gin.Context) {
	var req dto.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.ValidateTutorToken(c.Request.Context(), req.Token)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result.Message, result)
}

// Invalidate 吊销令牌（幂等）
// POST /api/v1/qr-tokens/invalidate
func (h *QrTokenHandler) Invalidate(c *gin.Context) {
	var req dto.InvalidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.qrTokenSvc.InvalidateToken(c.Request.Context(), req.Token)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "吊销完成", result)
}

// GetActiveAnakToken 查询儿童当前活动令牌
// GET /api/v1/qr-tokens/anak/:id/active
func (h *QrTokenHandler) GetActiveAnakToken(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "儿童 ID 不能为空")
		return
	}

	result, err := h.qrTokenSvc.GetActiveToken(c.Request.Context(), model.AnakSubject(id))
	if err != nil {
		h.handleQrTokenError(c, err)
		return
	}

	response.OK(c, "success", result)
}

// GetActiveTutorToken 查询导师当前活动令牌
// GET /api/v1/qr-tokens/tutor/:id/active
func (h *QrTokenHandler) GetActiveTutorToken(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "导师 ID 不能为空")
		return
	}

	result, err := h.qrTokenSvc.GetActiveToken(c.Request.Context(), model.TutorSubject(id))
	if err != nil {
		h.handleQrTokenError(c, err)
		return
	}

	response.OK(c, "success", result)
}

func (h *QrTokenHandler) handleQrTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnakNotFound):
		response.NotFound(c, "儿童不存在")
	case errors.Is(err, service.ErrTutorNotFound):
		response.NotFound(c, "导师不存在")
	case errors.Is(err, service.ErrNoActiveToken):
		response.NotFound(c, "没有可用的活动令牌")
	case errors.Is(err, service.ErrInvalidValidDays):
		response.Unprocessable(c, "有效天数必须大于 0")
	default:
		response.InternalError(c)
	}
}
