package model

// Tutor 导师表 — 对应 tutors
type Tutor struct {
	TutorID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tutor_id"`
	ShelterID string `gorm:"type:uuid;not null"                             json:"shelter_id"`
	FullName  string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Shelter *Shelter `gorm:"foreignKey:ShelterID;references:ShelterID" json:"shelter,omitempty"`
}

// TableName 指定表名
func (Tutor) TableName() string { return "tutors" }
