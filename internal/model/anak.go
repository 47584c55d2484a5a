package model

// Anak 儿童表 — 对应 anak
type Anak struct {
	AnakID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"anak_id"`
	ShelterID string `gorm:"type:uuid;not null"                             json:"shelter_id"`
	FullName  string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	NickName  string `gorm:"type:varchar(50);not null;default:''"           json:"nick_name"`
	IsActive  bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Shelter *Shelter `gorm:"foreignKey:ShelterID;references:ShelterID" json:"shelter,omitempty"`
}

// TableName 指定表名
func (Anak) TableName() string { return "anak" }
