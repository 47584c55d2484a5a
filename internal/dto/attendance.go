package dto

// ── 出勤记录请求 ──

// RecordByQrRequest QR 扫码签到请求
// Status 可选：显式提供时覆盖自动推导（人工修正入口）
// ArrivalTime 可选："2006-01-02 15:04:05"，缺省取当前时刻
type RecordByQrRequest struct {
	SubjectType string  `json:"subject_type" binding:"required,oneof=anak tutor"`
	SubjectID   string  `json:"subject_id"   binding:"required,uuid"`
	AktivitasID string  `json:"aktivitas_id" binding:"required,uuid"`
	Token       string  `json:"token"        binding:"required"`
	Status      *string `json:"status"       binding:"omitempty,oneof=Ya Tidak Terlambat"`
	ArrivalTime *string `json:"arrival_time" binding:"omitempty,datetime=2006-01-02 15:04:05"`
}

// RecordManualRequest 人工录入出勤请求
// Notes 必填：说明为何绕过 QR 改为人工录入
type RecordManualRequest struct {
	SubjectType string  `json:"subject_type" binding:"required,oneof=anak tutor"`
	SubjectID   string  `json:"subject_id"   binding:"required,uuid"`
	AktivitasID string  `json:"aktivitas_id" binding:"required,uuid"`
	Status      string  `json:"status"       binding:"required,oneof=Ya Tidak Terlambat"`
	Notes       string  `json:"notes"        binding:"required,min=2,max=500"`
	ArrivalTime *string `json:"arrival_time" binding:"omitempty,datetime=2006-01-02 15:04:05"`
}

// AttendanceListRequest 出勤查询过滤参数
type AttendanceListRequest struct {
	IsVerified         *bool  `form:"is_verified"         binding:"omitempty"`
	VerificationStatus string `form:"verification_status" binding:"omitempty,oneof=pending verified rejected manual"`
	Status             string `form:"status"              binding:"omitempty,oneof=Ya Tidak Terlambat"`
	DateFrom           string `form:"date_from"           binding:"omitempty,datetime=2006-01-02"`
	DateTo             string `form:"date_to"             binding:"omitempty,datetime=2006-01-02"`
}

// ── 出勤记录响应 ──

// AbsenResponse 出勤记录响应
type AbsenResponse struct {
	ID                 string        `json:"id"`
	AktivitasID        string        `json:"aktivitas_id"`
	Subject            *SubjectBrief `json:"subject,omitempty"`
	Status             string        `json:"status"`
	ArrivalTime        *string       `json:"arrival_time,omitempty"`
	IsVerified         bool          `json:"is_verified"`
	VerificationStatus string        `json:"verification_status"`
	Notes              string        `json:"notes,omitempty"`
	CreatedAt          string        `json:"created_at"`
}

// SubjectBrief 出勤主体简要信息
type SubjectBrief struct {
	AbsenUserID string `json:"absen_user_id"`
	Type        string `json:"type"` // anak | tutor
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
}

// RecordResult 签到结果
// Duplicate=true 表示该主体在该活动已有记录，Record 回传已存在的记录；
// 调用方据此映射为 409 冲突而非错误
type RecordResult struct {
	Success   bool           `json:"success"`
	Duplicate bool           `json:"duplicate,omitempty"`
	Message   string         `json:"message,omitempty"`
	Record    *AbsenResponse `json:"record,omitempty"`
}
