package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── 出勤主体类型 ──

// SubjectType 出勤主体类别
type SubjectType string

const (
	SubjectAnak  SubjectType = "anak"
	SubjectTutor SubjectType = "tutor"
)

// Subject 出勤主体的标签化取值：儿童或导师，恰好一个
// 替代源系统中双可空外键的"联合体"行，杜绝两侧同空/同设的非法状态
type Subject struct {
	Type SubjectType
	ID   string
}

// AnakSubject 构造儿童主体
func AnakSubject(anakID string) Subject {
	return Subject{Type: SubjectAnak, ID: anakID}
}

// TutorSubject 构造导师主体
func TutorSubject(tutorID string) Subject {
	return Subject{Type: SubjectTutor, ID: tutorID}
}
