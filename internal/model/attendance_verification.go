package model

import "time"

// ── 复核结论取值 ──

const (
	VerificationOutcomeVerified = "verified"
	VerificationOutcomeRejected = "rejected"
)

// AttendanceVerification 出勤复核审计表 — 对应 attendance_verifications
// 仅追加的审计轨迹；同一出勤记录可存在多行（复核历史），不修改不删除
type AttendanceVerification struct {
	VerificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"verification_id"`
	AbsenID        string    `gorm:"type:uuid;not null"                             json:"absen_id"`
	Outcome        string    `gorm:"type:varchar(10);not null"                      json:"outcome"` // verified | rejected
	Notes          string    `gorm:"type:text;not null;default:''"                  json:"notes"`
	VerifiedBy     *string   `gorm:"type:uuid"                                      json:"verified_by,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Absen *Absen `gorm:"foreignKey:AbsenID;references:AbsenID" json:"absen,omitempty"`
}

// TableName 指定表名
func (AttendanceVerification) TableName() string { return "attendance_verifications" }
