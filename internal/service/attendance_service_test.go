package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"bp-expo/backend/config"
	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
)

// ── 测试辅助 ──

// 固定挂钟：2026-03-10 09:00 本地时间（活动当天，活动 08:00 开始）
var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func testConfig() *config.Config {
	return &config.Config{
		Attendance: config.AttendanceConfig{
			DefaultLateMinutes: 15,
		},
	}
}

type attendanceFixture struct {
	svc       AttendanceService
	tokens    QrTokenService
	anakRepo  *mockAnakRepo
	tutorRepo *mockTutorRepo
	aktRepo   *mockAktivitasRepo
	absenRepo *mockAbsenRepo
	tokenRepo *mockQrTokenRepo
}

func setupAttendanceTest() *attendanceFixture {
	anakRepo := newMockAnakRepo()
	tutorRepo := newMockTutorRepo()
	absenUserRepo := newMockAbsenUserRepo()
	absenRepo := newMockAbsenRepo(absenUserRepo)
	aktRepo := newMockAktivitasRepo()
	tokenRepo := newMockQrTokenRepo()

	repo := &repository.Repository{
		User:         newMockUserRepo(),
		Shelter:      newMockShelterRepo(),
		Anak:         anakRepo,
		Tutor:        tutorRepo,
		AbsenUser:    absenUserRepo,
		Aktivitas:    aktRepo,
		Absen:        absenRepo,
		QrToken:      tokenRepo,
		Verification: newMockVerificationRepo(absenRepo),
	}
	logger := zap.NewNop()

	tokens := NewQrTokenService(repo, logger)
	tokens.(*qrTokenService).now = func() time.Time { return testNow }

	svc := NewAttendanceService(repo, tokens, logger)
	svc.(*attendanceService).now = func() time.Time { return testNow }

	f := &attendanceFixture{
		svc:       svc,
		tokens:    tokens,
		anakRepo:  anakRepo,
		tutorRepo: tutorRepo,
		aktRepo:   aktRepo,
		absenRepo: absenRepo,
		tokenRepo: tokenRepo,
	}
	f.seed()
	return f
}

// seed 基础数据：一名儿童、一名导师、当天 08:00-10:00 的活动
func (f *attendanceFixture) seed() {
	f.anakRepo.anak["anak-001"] = &model.Anak{AnakID: "anak-001", ShelterID: "sh-001", FullName: "Budi Santoso"}
	f.anakRepo.anak["anak-002"] = &model.Anak{AnakID: "anak-002", ShelterID: "sh-001", FullName: "Siti Rahma"}
	f.tutorRepo.tutors["tutor-001"] = &model.Tutor{TutorID: "tutor-001", ShelterID: "sh-001", FullName: "Pak Agus"}

	start, end := "08:00", "10:00"
	f.aktRepo.aktivitas["akt-001"] = &model.Aktivitas{
		AktivitasID:          "akt-001",
		ShelterID:            "sh-001",
		Name:                 "Bimbel Matematika",
		Date:                 time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local),
		StartTime:            &start,
		EndTime:              &end,
		LateMinutesThreshold: 15,
	}
}

// issueAnakToken 为儿童签发令牌并返回令牌串
func (f *attendanceFixture) issueAnakToken(t *testing.T, anakID string) string {
	t.Helper()
	days := 30
	resp, err := f.tokens.GenerateToken(context.Background(), &dto.GenerateTokenRequest{AnakID: anakID, ValidDays: &days})
	if err != nil {
		t.Fatalf("签发令牌应成功: %v", err)
	}
	return resp.Token
}

func strPtr(s string) *string { return &s }

// ── RecordByQr：状态推导 ──

func TestAttendanceService_RecordByQr_OnTime(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		ArrivalTime: strPtr("2026-03-10 08:10:00"),
	})
	if err != nil {
		t.Fatalf("RecordByQr 应成功: %v", err)
	}
	if !result.Success {
		t.Fatalf("期望 Success=true，实际消息: %s", result.Message)
	}
	if result.Record.Status != model.AbsenYa {
		t.Errorf("期望状态 Ya，实际=%s", result.Record.Status)
	}
	if !result.Record.IsVerified || result.Record.VerificationStatus != model.VerificationVerified {
		t.Errorf("QR 签到应即时核验，实际 is_verified=%v status=%s",
			result.Record.IsVerified, result.Record.VerificationStatus)
	}
}

func TestAttendanceService_RecordByQr_Late(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 08:00 开始 + 15 分钟阈值 → 08:20 已迟到
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		ArrivalTime: strPtr("2026-03-10 08:20:00"),
	})
	if err != nil {
		t.Fatalf("RecordByQr 应成功: %v", err)
	}
	if result.Record.Status != model.AbsenTerlambat {
		t.Errorf("期望状态 Terlambat，实际=%s", result.Record.Status)
	}
}

func TestAttendanceService_RecordByQr_BoundaryNotLate(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 恰好等于迟到边界 08:15:00 仍按准时处理
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		ArrivalTime: strPtr("2026-03-10 08:15:00"),
	})
	if err != nil {
		t.Fatalf("RecordByQr 应成功: %v", err)
	}
	if result.Record.Status != model.AbsenYa {
		t.Errorf("边界到达不应迟到，实际=%s", result.Record.Status)
	}
}

func TestAttendanceService_RecordByQr_AfterEndAbsent(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 晚于 10:00 结束时刻 → 缺勤优先于迟到
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		ArrivalTime: strPtr("2026-03-10 10:30:00"),
	})
	if err != nil {
		t.Fatalf("RecordByQr 应成功: %v", err)
	}
	if result.Record.Status != model.AbsenTidak {
		t.Errorf("期望状态 Tidak，实际=%s", result.Record.Status)
	}
}

func TestAttendanceService_RecordByQr_OverrideStatus(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 显式覆盖优先于自动推导：准点到达也可手工记为 Tidak
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		Status:      strPtr(model.AbsenTidak),
		ArrivalTime: strPtr("2026-03-10 08:05:00"),
	})
	if err != nil {
		t.Fatalf("RecordByQr 应成功: %v", err)
	}
	if result.Record.Status != model.AbsenTidak {
		t.Errorf("期望覆盖为 Tidak，实际=%s", result.Record.Status)
	}
}

// ── RecordByQr：重复与拒绝 ──

func TestAttendanceService_RecordByQr_Duplicate(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	req := &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
		ArrivalTime: strPtr("2026-03-10 08:10:00"),
	}
	first, err := f.svc.RecordByQr(context.Background(), req)
	if err != nil || !first.Success {
		t.Fatalf("首次记录应成功: %v", err)
	}

	// 二次记录：结构化冲突而非错误，回传既有记录
	second, err := f.svc.RecordByQr(context.Background(), req)
	if err != nil {
		t.Fatalf("重复记录不应返回错误: %v", err)
	}
	if second.Success || !second.Duplicate {
		t.Fatalf("期望 Duplicate=true，实际 success=%v duplicate=%v", second.Success, second.Duplicate)
	}
	if second.Record == nil || second.Record.ID != first.Record.ID {
		t.Error("冲突结果应回传首次写入的记录")
	}
}

func TestAttendanceService_RecordByQr_TokenMismatch(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// anak-002 持 anak-001 的令牌签到 → 拒绝
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-002",
		AktivitasID: "akt-001",
		Token:       token,
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if result.Success {
		t.Fatal("令牌主体不符应拒绝")
	}
	if result.Duplicate {
		t.Error("主体不符不是重复冲突")
	}
}

func TestAttendanceService_RecordByQr_UnknownToken(t *testing.T) {
	f := setupAttendanceTest()

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       "deadbeef",
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if result.Success {
		t.Fatal("未知令牌应拒绝")
	}
}

func TestAttendanceService_RecordByQr_RevokedToken(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	if _, err := f.tokens.InvalidateToken(context.Background(), token); err != nil {
		t.Fatalf("吊销应成功: %v", err)
	}

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if result.Success {
		t.Fatal("已吊销令牌应拒绝")
	}
}

func TestAttendanceService_RecordByQr_FutureActivity(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 活动日在明天 → 未来活动不可记录
	start := "08:00"
	f.aktRepo.aktivitas["akt-002"] = &model.Aktivitas{
		AktivitasID: "akt-002",
		ShelterID:   "sh-001",
		Name:        "Kelas Bahasa",
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local),
		StartTime:   &start,
	}

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-002",
		Token:       token,
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if result.Success {
		t.Fatal("未来活动应拒绝记录")
	}
	if result.Duplicate {
		t.Error("未来活动拒绝不是重复冲突")
	}
}

func TestAttendanceService_RecordByQr_PastActivityAllowed(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	// 过往活动可补录，无上界
	start, end := "08:00", "10:00"
	f.aktRepo.aktivitas["akt-003"] = &model.Aktivitas{
		AktivitasID: "akt-003",
		ShelterID:   "sh-001",
		Name:        "Kelas Seni",
		Date:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local),
		StartTime:   &start,
		EndTime:     &end,
	}

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-003",
		Token:       token,
	})
	if err != nil {
		t.Fatalf("补录应成功: %v", err)
	}
	if !result.Success {
		t.Fatalf("过往活动应可补录: %s", result.Message)
	}
	// 补录时挂钟已晚于活动日 → 自动推导为缺勤
	if result.Record.Status != model.AbsenTidak {
		t.Errorf("期望状态 Tidak，实际=%s", result.Record.Status)
	}
}

func TestAttendanceService_RecordByQr_AktivitasNotFound(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	_, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-999",
		Token:       token,
	})
	if !errors.Is(err, ErrAktivitasNotFound) {
		t.Errorf("期望 ErrAktivitasNotFound，实际: %v", err)
	}
}

// ── RecordManually ──

func TestAttendanceService_RecordManually(t *testing.T) {
	f := setupAttendanceTest()

	result, err := f.svc.RecordManually(context.Background(), &dto.RecordManualRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Status:      model.AbsenYa,
		Notes:       "QR 码遗失，现场确认到场",
	})
	if err != nil {
		t.Fatalf("RecordManually 应成功: %v", err)
	}
	if !result.Success {
		t.Fatalf("期望 Success=true: %s", result.Message)
	}
	if result.Record.IsVerified {
		t.Error("人工录入不应即时核验")
	}
	if result.Record.VerificationStatus != model.VerificationManual {
		t.Errorf("期望核验状态 manual，实际=%s", result.Record.VerificationStatus)
	}
	if result.Record.Notes != "QR 码遗失，现场确认到场" {
		t.Errorf("备注应落库，实际=%s", result.Record.Notes)
	}
}

func TestAttendanceService_RecordManually_DuplicateWithQr(t *testing.T) {
	f := setupAttendanceTest()
	token := f.issueAnakToken(t, "anak-001")

	first, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       token,
	})
	if err != nil || !first.Success {
		t.Fatalf("QR 记录应成功: %v", err)
	}

	// 同一 (主体, 活动) 的人工录入同样触发冲突
	second, err := f.svc.RecordManually(context.Background(), &dto.RecordManualRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Status:      model.AbsenYa,
		Notes:       "重复尝试",
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if !second.Duplicate {
		t.Fatal("期望 Duplicate=true")
	}
}

// ── 导师签到 ──

func TestAttendanceService_RecordByQr_Tutor(t *testing.T) {
	f := setupAttendanceTest()

	days := 30
	resp, err := f.tokens.GenerateTutorToken(context.Background(), &dto.GenerateTutorTokenRequest{TutorID: "tutor-001", ValidDays: &days})
	if err != nil {
		t.Fatalf("签发导师令牌应成功: %v", err)
	}

	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "tutor",
		SubjectID:   "tutor-001",
		AktivitasID: "akt-001",
		Token:       resp.Token,
		ArrivalTime: strPtr("2026-03-10 07:55:00"),
	})
	if err != nil {
		t.Fatalf("导师签到应成功: %v", err)
	}
	if !result.Success || result.Record.Status != model.AbsenYa {
		t.Errorf("期望导师记录 Ya，实际 success=%v status=%s", result.Success, result.Record.Status)
	}
}

func TestAttendanceService_RecordByQr_TutorTokenForAnakRejected(t *testing.T) {
	f := setupAttendanceTest()

	days := 30
	resp, err := f.tokens.GenerateTutorToken(context.Background(), &dto.GenerateTutorTokenRequest{TutorID: "tutor-001", ValidDays: &days})
	if err != nil {
		t.Fatalf("签发导师令牌应成功: %v", err)
	}

	// 儿童主体携导师令牌 → 类型不符视同不存在
	result, err := f.svc.RecordByQr(context.Background(), &dto.RecordByQrRequest{
		SubjectType: "anak",
		SubjectID:   "anak-001",
		AktivitasID: "akt-001",
		Token:       resp.Token,
	})
	if err != nil {
		t.Fatalf("不应返回错误: %v", err)
	}
	if result.Success {
		t.Fatal("跨类型令牌应拒绝")
	}
}

// ── 查询 ──

func TestAttendanceService_ListByAktivitas_Filter(t *testing.T) {
	f := setupAttendanceTest()

	if _, err := f.svc.RecordManually(context.Background(), &dto.RecordManualRequest{
		SubjectType: "anak", SubjectID: "anak-001", AktivitasID: "akt-001",
		Status: model.AbsenYa, Notes: "现场确认",
	}); err != nil {
		t.Fatalf("录入应成功: %v", err)
	}
	if _, err := f.svc.RecordManually(context.Background(), &dto.RecordManualRequest{
		SubjectType: "anak", SubjectID: "anak-002", AktivitasID: "akt-001",
		Status: model.AbsenTidak, Notes: "家长请假",
	}); err != nil {
		t.Fatalf("录入应成功: %v", err)
	}

	all, err := f.svc.ListByAktivitas(context.Background(), "akt-001", &dto.AttendanceListRequest{})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("期望 2 条记录，实际=%d", len(all))
	}

	onlyYa, err := f.svc.ListByAktivitas(context.Background(), "akt-001", &dto.AttendanceListRequest{Status: model.AbsenYa})
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(onlyYa) != 1 || onlyYa[0].Status != model.AbsenYa {
		t.Errorf("状态过滤失效，实际=%d 条", len(onlyYa))
	}
}

func TestAttendanceService_ListByAktivitas_NotFound(t *testing.T) {
	f := setupAttendanceTest()

	_, err := f.svc.ListByAktivitas(context.Background(), "akt-999", &dto.AttendanceListRequest{})
	if !errors.Is(err, ErrAktivitasNotFound) {
		t.Errorf("期望 ErrAktivitasNotFound，实际: %v", err)
	}
}
