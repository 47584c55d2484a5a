package model

// ── 账号角色 ──

const (
	RoleAdminPusat   = "admin_pusat"
	RoleAdminCabang  = "admin_cabang"
	RoleAdminShelter = "admin_shelter"
	RoleDonatur      = "donatur"
)

// User 账号表 — 对应 users
// ShelterID 仅 admin_shelter 角色持有
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                      json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                      json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                      json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'admin_shelter'" json:"role"`
	ShelterID    *string `gorm:"type:uuid"                                       json:"shelter_id,omitempty"`
	BaseModel

	// 关联
	Shelter *Shelter `gorm:"foreignKey:ShelterID;references:ShelterID" json:"shelter,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
