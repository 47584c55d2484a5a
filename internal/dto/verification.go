package dto

// ── 出勤复核请求 ──

// VerifyRequest 人工确认请求（备注可选）
type VerifyRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// RejectRequest 驳回请求
// 驳回必须说明理由（与确认的可选备注不同，驳回需要问责依据）
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=2,max=500"`
}

// ── 出勤复核响应 ──

// VerificationResponse 复核审计行响应
type VerificationResponse struct {
	ID         string `json:"id"`
	AbsenID    string `json:"absen_id"`
	Outcome    string `json:"outcome"` // verified | rejected
	Notes      string `json:"notes,omitempty"`
	VerifiedBy string `json:"verified_by,omitempty"`
	CreatedAt  string `json:"created_at"`
}
