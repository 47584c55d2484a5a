package model

// AbsenUser 出勤主体身份表 — 对应 absen_users
// 每个儿童/导师至多一行，首次出勤操作时惰性创建；
// DB 层 CHECK 约束与此处的 Subject() 访问器共同保证恰好一侧外键非空
type AbsenUser struct {
	AbsenUserID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"absen_user_id"`
	Type        SubjectType `gorm:"type:varchar(10);not null"                      json:"type"`
	AnakID      *string     `gorm:"type:uuid"                                      json:"anak_id,omitempty"`
	TutorID     *string     `gorm:"type:uuid"                                      json:"tutor_id,omitempty"`
	BaseModel

	// 关联
	Anak  *Anak  `gorm:"foreignKey:AnakID;references:AnakID"    json:"anak,omitempty"`
	Tutor *Tutor `gorm:"foreignKey:TutorID;references:TutorID"  json:"tutor,omitempty"`
}

// TableName 指定表名
func (AbsenUser) TableName() string { return "absen_users" }

// NewAbsenUser 由标签化主体构造身份行
func NewAbsenUser(subject Subject) *AbsenUser {
	au := &AbsenUser{Type: subject.Type}
	id := subject.ID
	switch subject.Type {
	case SubjectAnak:
		au.AnakID = &id
	case SubjectTutor:
		au.TutorID = &id
	}
	return au
}

// Subject 还原标签化主体取值
func (au *AbsenUser) Subject() Subject {
	if au.Type == SubjectTutor && au.TutorID != nil {
		return TutorSubject(*au.TutorID)
	}
	if au.AnakID != nil {
		return AnakSubject(*au.AnakID)
	}
	return Subject{Type: au.Type}
}

// DisplayName 主体展示名（未预加载关联时为空）
func (au *AbsenUser) DisplayName() string {
	switch {
	case au.Anak != nil:
		return au.Anak.FullName
	case au.Tutor != nil:
		return au.Tutor.FullName
	}
	return ""
}
