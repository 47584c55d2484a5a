package dto

// ── 活动模块请求 ──

// CreateAktivitasRequest 创建活动请求
// 时刻字段为 "HH:MM" 或 "HH:MM:SS"；日期为 "2006-01-02"
type CreateAktivitasRequest struct {
	ShelterID            string  `json:"shelter_id"             binding:"required,uuid"`
	Name                 string  `json:"name"                   binding:"required,min=2,max=255"`
	Kind                 string  `json:"kind"                   binding:"omitempty,max=50"`
	Date                 string  `json:"date"                   binding:"required,datetime=2006-01-02"`
	StartTime            *string `json:"start_time"             binding:"omitempty"`
	EndTime              *string `json:"end_time"               binding:"omitempty"`
	LateThreshold        *string `json:"late_threshold"         binding:"omitempty"`
	LateMinutesThreshold *int    `json:"late_minutes_threshold" binding:"omitempty,min=1,max=720"`
}

// UpdateAktivitasRequest 更新活动请求（时间策略字段可变更）
type UpdateAktivitasRequest struct {
	Name                 *string `json:"name"                   binding:"omitempty,min=2,max=255"`
	Kind                 *string `json:"kind"                   binding:"omitempty,max=50"`
	Date                 *string `json:"date"                   binding:"omitempty,datetime=2006-01-02"`
	StartTime            *string `json:"start_time"             binding:"omitempty"`
	EndTime              *string `json:"end_time"               binding:"omitempty"`
	LateThreshold        *string `json:"late_threshold"         binding:"omitempty"`
	LateMinutesThreshold *int    `json:"late_minutes_threshold" binding:"omitempty,min=1,max=720"`
}

// AktivitasListRequest 活动列表查询参数
type AktivitasListRequest struct {
	ShelterID string `form:"shelter_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from"  binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to"    binding:"omitempty,datetime=2006-01-02"`
	PaginationRequest
}

// ── 活动模块响应 ──

// AktivitasResponse 活动响应
type AktivitasResponse struct {
	ID                   string  `json:"id"`
	ShelterID            string  `json:"shelter_id"`
	Name                 string  `json:"name"`
	Kind                 string  `json:"kind,omitempty"`
	Date                 string  `json:"date"`
	StartTime            *string `json:"start_time,omitempty"`
	EndTime              *string `json:"end_time,omitempty"`
	LateThreshold        *string `json:"late_threshold,omitempty"`
	LateMinutesThreshold int     `json:"late_minutes_threshold"`
	IsToday              bool    `json:"is_today"`
	IsUpcoming           bool    `json:"is_upcoming"`
	IsExpired            bool    `json:"is_expired"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}
