package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Shelter      ShelterRepository
	Anak         AnakRepository
	Tutor        TutorRepository
	AbsenUser    AbsenUserRepository
	Aktivitas    AktivitasRepository
	Absen        AbsenRepository
	QrToken      QrTokenRepository
	Verification VerificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Shelter:      NewShelterRepo(db),
		Anak:         NewAnakRepo(db),
		Tutor:        NewTutorRepo(db),
		AbsenUser:    NewAbsenUserRepo(db),
		Aktivitas:    NewAktivitasRepo(db),
		Absen:        NewAbsenRepo(db),
		QrToken:      NewQrTokenRepo(db),
		Verification: NewVerificationRepo(db),
	}
}
