package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/service"
	"bp-expo/backend/pkg/response"
)

// AktivitasHandler 活动模块 HTTP 处理器
type AktivitasHandler struct {
	aktivitasSvc service.AktivitasService
}

// NewAktivitasHandler 创建 AktivitasHandler
func NewAktivitasHandler(aktivitasSvc service.AktivitasService) *AktivitasHandler {
	return &AktivitasHandler{aktivitasSvc: aktivitasSvc}
}

// Create 创建活动
// POST /api/v1/aktivitas
func (h *AktivitasHandler) Create(c *gin.Context) {
	var req dto.CreateAktivitasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.aktivitasSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAktivitasError(c, err)
		return
	}

	response.Created(c, "活动创建成功", result)
}

// Get 查询单个活动
// GET /api/v1/aktivitas/:id
func (h *AktivitasHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "活动 ID 不能为空")
		return
	}

	result, err := h.aktivitasSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAktivitasError(c, err)
		return
	}

	response.OK(c, "success", result)
}

// List 活动列表（分页 + 过滤）
// GET /api/v1/aktivitas
func (h *AktivitasHandler) List(c *gin.Context) {
	var req dto.AktivitasListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	list, total, err := h.aktivitasSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAktivitasError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Update 更新活动
// PUT /api/v1/aktivitas/:id
func (h *AktivitasHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "活动 ID 不能为空")
		return
	}

	var req dto.UpdateAktivitasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Unprocessable(c, "参数校验失败")
		return
	}

	result, err := h.aktivitasSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAktivitasError(c, err)
		return
	}

	response.OK(c, "活动更新成功", result)
}

// Delete 删除活动
// DELETE /api/v1/aktivitas/:id
func (h *AktivitasHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "活动 ID 不能为空")
		return
	}

	if err := h.aktivitasSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAktivitasError(c, err)
		return
	}

	response.OK(c, "活动删除成功", nil)
}

func (h *AktivitasHandler) handleAktivitasError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAktivitasNotFound):
		response.NotFound(c, "活动不存在")
	case errors.Is(err, service.ErrShelterNotFound):
		response.NotFound(c, "庇护所不存在")
	case errors.Is(err, service.ErrInvalidClock):
		response.Unprocessable(c, "时刻格式无效，应为 HH:MM 或 HH:MM:SS")
	case errors.Is(err, service.ErrInvalidDate):
		response.Unprocessable(c, "日期格式无效，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}
