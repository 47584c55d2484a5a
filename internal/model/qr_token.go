package model

import "time"

// QrToken QR 令牌表 — 对应 qr_tokens
// 免接触签到用的持有者凭证；非一次性，有效期内可重复校验，
// 同一主体可同时存在多个有效令牌（轮换不吊销旧令牌的既有设计）
type QrToken struct {
	QrTokenID  string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"qr_token_id"`
	Type       SubjectType `gorm:"type:varchar(10);not null"                      json:"type"`
	AnakID     *string     `gorm:"type:uuid"                                      json:"anak_id,omitempty"`
	TutorID    *string     `gorm:"type:uuid"                                      json:"tutor_id,omitempty"`
	Token      string      `gorm:"type:varchar(128);not null;uniqueIndex"         json:"token"`
	ValidUntil *time.Time  `json:"valid_until,omitempty"` // NULL 表示永不过期
	IsActive   bool        `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Anak  *Anak  `gorm:"foreignKey:AnakID;references:AnakID"   json:"anak,omitempty"`
	Tutor *Tutor `gorm:"foreignKey:TutorID;references:TutorID" json:"tutor,omitempty"`
}

// TableName 指定表名
func (QrToken) TableName() string { return "qr_tokens" }

// IsExpired 令牌是否已过有效期（NULL 有效期恒为 false）
func (t *QrToken) IsExpired(now time.Time) bool {
	return t.ValidUntil != nil && !t.ValidUntil.After(now)
}

// IsUsable 令牌当前是否可用于校验
func (t *QrToken) IsUsable(now time.Time) bool {
	return t.IsActive && !t.IsExpired(now)
}

// Subject 令牌指向的出勤主体
func (t *QrToken) Subject() Subject {
	if t.Type == SubjectTutor && t.TutorID != nil {
		return TutorSubject(*t.TutorID)
	}
	if t.AnakID != nil {
		return AnakSubject(*t.AnakID)
	}
	return Subject{Type: t.Type}
}
