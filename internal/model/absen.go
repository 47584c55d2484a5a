package model

import "time"

// ── 出勤状态取值（互操作契约，逐字节保持） ──

const (
	AbsenYa        = "Ya"        // 出席
	AbsenTidak     = "Tidak"     // 缺勤
	AbsenTerlambat = "Terlambat" // 迟到
)

// ── 复核状态取值 ──

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
	VerificationManual   = "manual"
)

// ValidAbsenStatus 校验出勤状态取值
func ValidAbsenStatus(s string) bool {
	return s == AbsenYa || s == AbsenTidak || s == AbsenTerlambat
}

// Absen 出勤记录表 — 对应 absen
// (absen_user_id, aktivitas_id) 上的唯一约束保证每对主体/活动至多一条记录；
// 记录一经写入即为终态，状态修正只经由复核流程
type Absen struct {
	AbsenID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"absen_id"`
	AbsenUserID        string     `gorm:"type:uuid;not null;uniqueIndex:uq_absen_subject_activity" json:"absen_user_id"`
	AktivitasID        string     `gorm:"type:uuid;not null;uniqueIndex:uq_absen_subject_activity" json:"aktivitas_id"`
	Status             string     `gorm:"type:varchar(10);not null"                      json:"status"` // Ya | Tidak | Terlambat
	ArrivalTime        *time.Time `json:"arrival_time,omitempty"`
	IsVerified         bool       `gorm:"not null;default:false"                         json:"is_verified"`
	VerificationStatus string     `gorm:"type:varchar(10);not null;default:'pending'"    json:"verification_status"` // pending | verified | rejected | manual
	Notes              string     `gorm:"type:text;not null;default:''"                  json:"notes,omitempty"` // 人工录入时的必填说明
	IsRead             bool       `gorm:"not null;default:false"                         json:"is_read"`
	BaseModel

	// 关联
	AbsenUser *AbsenUser `gorm:"foreignKey:AbsenUserID;references:AbsenUserID"   json:"absen_user,omitempty"`
	Aktivitas *Aktivitas `gorm:"foreignKey:AktivitasID;references:AktivitasID"   json:"aktivitas,omitempty"`
}

// TableName 指定表名
func (Absen) TableName() string { return "absen" }
