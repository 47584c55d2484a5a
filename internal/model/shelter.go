package model

// Shelter 庇护所表 — 对应 shelters
type Shelter struct {
	ShelterID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shelter_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	City      string `gorm:"type:varchar(100);not null;default:''"          json:"city"`
	BaseModel
}

// TableName 指定表名
func (Shelter) TableName() string { return "shelters" }
