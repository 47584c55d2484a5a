package dto

// ── QR 令牌请求 ──

// GenerateTokenRequest 生成单个令牌请求
// ValidDays 为 nil 时令牌永不过期；<=0 在 Service 层拒绝
type GenerateTokenRequest struct {
	AnakID    string `json:"anak_id"    binding:"required,uuid"`
	ValidDays *int   `json:"valid_days" binding:"omitempty"`
}

// GenerateTutorTokenRequest 生成导师令牌请求
type GenerateTutorTokenRequest struct {
	TutorID   string `json:"tutor_id"   binding:"required,uuid"`
	ValidDays *int   `json:"valid_days" binding:"omitempty"`
}

// GenerateBatchTokensRequest 批量生成令牌请求（全成全败）
type GenerateBatchTokensRequest struct {
	AnakIDs   []string `json:"anak_ids"   binding:"required,min=1,max=200,dive,uuid"`
	ValidDays *int     `json:"valid_days" binding:"omitempty"`
}

// ValidateTokenRequest 令牌校验请求
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// InvalidateTokenRequest 令牌吊销请求
type InvalidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ── QR 令牌响应 ──

// QrTokenResponse 令牌响应
type QrTokenResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"` // anak | tutor
	SubjectID  string  `json:"subject_id"`
	Token      string  `json:"token"`
	ValidUntil *string `json:"valid_until,omitempty"` // 空表示永不过期
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

// ValidateTokenResponse 令牌校验结果
// 无效时 Message 区分未找到 / 已吊销 / 已过期
type ValidateTokenResponse struct {
	Valid   bool             `json:"valid"`
	Message string           `json:"message"`
	Subject *SubjectBrief    `json:"subject,omitempty"`
	Token   *QrTokenResponse `json:"token,omitempty"`
}

// InvalidateTokenResponse 令牌吊销结果
// Affected=false 表示没有可吊销的活动令牌（幂等，不视为错误）
type InvalidateTokenResponse struct {
	Affected bool `json:"affected"`
}
