package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
	pkgerrors "bp-expo/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ShelterRepository ──

type mockShelterRepo struct {
	shelters map[string]*model.Shelter
}

func newMockShelterRepo() *mockShelterRepo {
	return &mockShelterRepo{shelters: make(map[string]*model.Shelter)}
}

func (m *mockShelterRepo) GetByID(_ context.Context, id string) (*model.Shelter, error) {
	if s, ok := m.shelters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShelterRepo) List(_ context.Context) ([]model.Shelter, error) {
	var result []model.Shelter
	for _, s := range m.shelters {
		result = append(result, *s)
	}
	return result, nil
}

// ── Mock AnakRepository ──

type mockAnakRepo struct {
	anak map[string]*model.Anak
}

func newMockAnakRepo() *mockAnakRepo {
	return &mockAnakRepo{anak: make(map[string]*model.Anak)}
}

func (m *mockAnakRepo) GetByID(_ context.Context, id string) (*model.Anak, error) {
	if a, ok := m.anak[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnakRepo) ListByIDs(_ context.Context, ids []string) ([]model.Anak, error) {
	var result []model.Anak
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := m.anak[id]; ok {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── Mock TutorRepository ──

type mockTutorRepo struct {
	tutors map[string]*model.Tutor
}

func newMockTutorRepo() *mockTutorRepo {
	return &mockTutorRepo{tutors: make(map[string]*model.Tutor)}
}

func (m *mockTutorRepo) GetByID(_ context.Context, id string) (*model.Tutor, error) {
	if t, ok := m.tutors[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AbsenUserRepository ──

type mockAbsenUserRepo struct {
	users map[string]*model.AbsenUser // absen_user_id → 行
}

func newMockAbsenUserRepo() *mockAbsenUserRepo {
	return &mockAbsenUserRepo{users: make(map[string]*model.AbsenUser)}
}

func (m *mockAbsenUserRepo) GetBySubject(_ context.Context, subject model.Subject) (*model.AbsenUser, error) {
	for _, au := range m.users {
		s := au.Subject()
		if s.Type == subject.Type && s.ID == subject.ID {
			return au, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenUserRepo) GetByID(_ context.Context, id string) (*model.AbsenUser, error) {
	if au, ok := m.users[id]; ok {
		return au, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock AktivitasRepository ──

type mockAktivitasRepo struct {
	aktivitas map[string]*model.Aktivitas
	seq       int
}

func newMockAktivitasRepo() *mockAktivitasRepo {
	return &mockAktivitasRepo{aktivitas: make(map[string]*model.Aktivitas)}
}

func (m *mockAktivitasRepo) Create(_ context.Context, a *model.Aktivitas) error {
	if a.AktivitasID == "" {
		m.seq++
		a.AktivitasID = fmt.Sprintf("akt-%03d", m.seq)
	}
	m.aktivitas[a.AktivitasID] = a
	return nil
}

func (m *mockAktivitasRepo) GetByID(_ context.Context, id string) (*model.Aktivitas, error) {
	if a, ok := m.aktivitas[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAktivitasRepo) List(_ context.Context, f repository.AktivitasFilter, offset, limit int) ([]model.Aktivitas, int64, error) {
	var result []model.Aktivitas
	for _, a := range m.aktivitas {
		if f.ShelterID != "" && a.ShelterID != f.ShelterID {
			continue
		}
		if f.DateFrom != nil && a.Date.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && a.Date.After(*f.DateTo) {
			continue
		}
		result = append(result, *a)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockAktivitasRepo) Update(_ context.Context, a *model.Aktivitas) error {
	m.aktivitas[a.AktivitasID] = a
	return nil
}

func (m *mockAktivitasRepo) Delete(_ context.Context, id string) error {
	delete(m.aktivitas, id)
	return nil
}

// ── Mock AbsenRepository ──
//
// 复刻事务语义：惰性创建身份行、(absen_user_id, aktivitas_id) 查重，
// 重复时返回既有记录与 ErrDuplicateAttendance

type mockAbsenRepo struct {
	absenUsers *mockAbsenUserRepo
	records    map[string]*model.Absen
	seq        int
}

func newMockAbsenRepo(absenUsers *mockAbsenUserRepo) *mockAbsenRepo {
	return &mockAbsenRepo{absenUsers: absenUsers, records: make(map[string]*model.Absen)}
}

func (m *mockAbsenRepo) Record(ctx context.Context, subject model.Subject, absen *model.Absen) (*model.Absen, error) {
	au, err := m.absenUsers.GetBySubject(ctx, subject)
	if err != nil {
		au = model.NewAbsenUser(subject)
		au.AbsenUserID = fmt.Sprintf("au-%s-%s", subject.Type, subject.ID)
		m.absenUsers.users[au.AbsenUserID] = au
	}

	for _, rec := range m.records {
		if rec.AbsenUserID == au.AbsenUserID && rec.AktivitasID == absen.AktivitasID {
			return rec, pkgerrors.ErrDuplicateAttendance
		}
	}

	m.seq++
	absen.AbsenID = fmt.Sprintf("absen-%03d", m.seq)
	absen.AbsenUserID = au.AbsenUserID
	absen.AbsenUser = au
	absen.CreatedAt = time.Now()
	m.records[absen.AbsenID] = absen
	return absen, nil
}

func (m *mockAbsenRepo) GetByID(_ context.Context, id string) (*model.Absen, error) {
	if rec, ok := m.records[id]; ok {
		return rec, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenRepo) GetBySubjectActivity(ctx context.Context, subject model.Subject, aktivitasID string) (*model.Absen, error) {
	au, err := m.absenUsers.GetBySubject(ctx, subject)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	for _, rec := range m.records {
		if rec.AbsenUserID == au.AbsenUserID && rec.AktivitasID == aktivitasID {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAbsenRepo) ListByAktivitas(_ context.Context, aktivitasID string, f repository.AbsenFilter) ([]model.Absen, error) {
	var result []model.Absen
	for _, rec := range m.records {
		if rec.AktivitasID != aktivitasID || !matchAbsenFilter(rec, f) {
			continue
		}
		result = append(result, *rec)
	}
	return result, nil
}

func (m *mockAbsenRepo) ListByAnak(_ context.Context, anakID string, f repository.AbsenFilter) ([]model.Absen, error) {
	var result []model.Absen
	for _, rec := range m.records {
		if rec.AbsenUser == nil || rec.AbsenUser.AnakID == nil || *rec.AbsenUser.AnakID != anakID {
			continue
		}
		if !matchAbsenFilter(rec, f) {
			continue
		}
		result = append(result, *rec)
	}
	return result, nil
}

func matchAbsenFilter(rec *model.Absen, f repository.AbsenFilter) bool {
	if f.IsVerified != nil && rec.IsVerified != *f.IsVerified {
		return false
	}
	if f.VerificationStatus != "" && rec.VerificationStatus != f.VerificationStatus {
		return false
	}
	if f.Status != "" && rec.Status != f.Status {
		return false
	}
	return true
}

// ── Mock QrTokenRepository ──

type mockQrTokenRepo struct {
	tokens map[string]*model.QrToken // token 串 → 行
	seq    int
}

func newMockQrTokenRepo() *mockQrTokenRepo {
	return &mockQrTokenRepo{tokens: make(map[string]*model.QrToken)}
}

func (m *mockQrTokenRepo) Create(_ context.Context, token *model.QrToken) error {
	m.seq++
	token.QrTokenID = fmt.Sprintf("qrt-%03d", m.seq)
	token.CreatedAt = time.Now()
	m.tokens[token.Token] = token
	return nil
}

func (m *mockQrTokenRepo) CreateBatch(ctx context.Context, tokens []model.QrToken) error {
	for i := range tokens {
		if err := m.Create(ctx, &tokens[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockQrTokenRepo) GetByToken(_ context.Context, tokenString string) (*model.QrToken, error) {
	if t, ok := m.tokens[tokenString]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQrTokenRepo) GetActiveBySubject(_ context.Context, subject model.Subject, now time.Time) (*model.QrToken, error) {
	var latest *model.QrToken
	for _, t := range m.tokens {
		s := t.Subject()
		if s.Type != subject.Type || s.ID != subject.ID || !t.IsUsable(now) {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockQrTokenRepo) Deactivate(_ context.Context, tokenString string) (bool, error) {
	t, ok := m.tokens[tokenString]
	if !ok || !t.IsActive {
		return false, nil
	}
	t.IsActive = false
	return true, nil
}

// ── Mock VerificationRepository ──

type mockVerificationRepo struct {
	absen   *mockAbsenRepo
	entries []model.AttendanceVerification
	seq     int
}

func newMockVerificationRepo(absen *mockAbsenRepo) *mockVerificationRepo {
	return &mockVerificationRepo{absen: absen}
}

func (m *mockVerificationRepo) ApplyOutcome(_ context.Context, absenID string, isVerified bool, verificationStatus string, v *model.AttendanceVerification) error {
	rec, ok := m.absen.records[absenID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	rec.IsVerified = isVerified
	rec.VerificationStatus = verificationStatus

	m.seq++
	v.VerificationID = fmt.Sprintf("ver-%03d", m.seq)
	v.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	m.entries = append(m.entries, *v)
	return nil
}

func (m *mockVerificationRepo) ListByAbsen(_ context.Context, absenID string) ([]model.AttendanceVerification, error) {
	var result []model.AttendanceVerification
	for _, e := range m.entries {
		if e.AbsenID == absenID {
			result = append(result, e)
		}
	}
	return result, nil
}
