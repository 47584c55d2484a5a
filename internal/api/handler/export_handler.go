package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bp-expo/backend/internal/service"
	"bp-expo/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出活动出勤表 (.xlsx)
// GET /api/v1/export/attendance?aktivitas_id=xxx
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	aktivitasID := c.Query("aktivitas_id")
	if aktivitasID == "" {
		response.BadRequest(c, "aktivitas_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportAktivitasAttendance(c.Request.Context(), aktivitasID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, xlsxContentType, filename, buf.Bytes())
}

// ExportCalendar 导出庇护所活动日历 (.ics)
// GET /api/v1/export/calendar?shelter_id=xxx
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	shelterID := c.Query("shelter_id")
	if shelterID == "" {
		response.BadRequest(c, "shelter_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportShelterCalendar(c.Request.Context(), shelterID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, icsContentType, filename, buf.Bytes())
}

// writeDownload 设置下载响应头并写入文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAktivitasNotFound):
		response.NotFound(c, "活动不存在")
	case errors.Is(err, service.ErrShelterNotFound):
		response.NotFound(c, "庇护所不存在")
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, "该活动暂无出勤记录")
	case errors.Is(err, service.ErrExportNoAktivitas):
		response.NotFound(c, "该庇护所暂无活动")
	default:
		response.InternalError(c)
	}
}
