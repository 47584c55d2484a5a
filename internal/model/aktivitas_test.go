package model

import (
	"testing"
	"time"
)

func strptr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.Local)
}

func testAktivitas() *Aktivitas {
	return &Aktivitas{
		AktivitasID:          "akt-001",
		ShelterID:            "shelter-001",
		Name:                 "Bimbel Matematika",
		Date:                 date(2024, 3, 11),
		StartTime:            strptr("08:00"),
		EndTime:              strptr("10:00"),
		LateMinutesThreshold: 15,
	}
}

// ── IsLate ──

func TestAktivitas_IsLate_Boundary(t *testing.T) {
	a := testAktivitas()

	// start 08:00 + 15 分钟 → 边界 08:15:00，恰好等于边界不算迟到
	cases := []struct {
		name    string
		arrival time.Time
		want    bool
	}{
		{"边界前一秒", at(2024, 3, 11, 8, 14, 59), false},
		{"恰好边界", at(2024, 3, 11, 8, 15, 0), false},
		{"边界后一秒", at(2024, 3, 11, 8, 15, 1), true},
		{"明显迟到", at(2024, 3, 11, 8, 20, 0), true},
	}

	for _, tc := range cases {
		if got := a.IsLate(tc.arrival); got != tc.want {
			t.Errorf("%s: 期望IsLate=%v，实际=%v", tc.name, tc.want, got)
		}
	}
}

func TestAktivitas_IsLate_ExplicitThreshold(t *testing.T) {
	a := testAktivitas()
	a.LateThreshold = strptr("08:30")

	// 显式阈值优先于 start_time + 分钟偏移
	if a.IsLate(at(2024, 3, 11, 8, 20, 0)) {
		t.Error("08:20 早于显式阈值 08:30，不应迟到")
	}
	if !a.IsLate(at(2024, 3, 11, 8, 30, 1)) {
		t.Error("08:30:01 晚于显式阈值，应迟到")
	}
}

func TestAktivitas_IsLate_NoStartTime(t *testing.T) {
	a := testAktivitas()
	a.StartTime = nil

	if a.IsLate(at(2024, 3, 11, 23, 59, 0)) {
		t.Error("无 start_time 时恒不迟到")
	}
}

func TestAktivitas_IsLate_CrossDate(t *testing.T) {
	a := testAktivitas()

	if !a.IsLate(at(2024, 3, 12, 7, 0, 0)) {
		t.Error("到达日晚于活动日应视为迟到")
	}
	if a.IsLate(at(2024, 3, 10, 9, 0, 0)) {
		t.Error("到达日早于活动日不应迟到")
	}
}

func TestAktivitas_IsLate_ZeroMinutesFallsBackToDefault(t *testing.T) {
	a := testAktivitas()
	a.LateMinutesThreshold = 0

	// 非法阈值回退默认 15 分钟
	if a.IsLate(at(2024, 3, 11, 8, 10, 0)) {
		t.Error("默认阈值 15 分钟内不应迟到")
	}
	if !a.IsLate(at(2024, 3, 11, 8, 16, 0)) {
		t.Error("超过默认阈值应迟到")
	}
}

// ── IsAbsent ──

func TestAktivitas_IsAbsent_Cutoff(t *testing.T) {
	a := testAktivitas()

	if a.IsAbsent(at(2024, 3, 11, 10, 0, 0)) {
		t.Error("恰好 end_time 不算缺勤")
	}
	if !a.IsAbsent(at(2024, 3, 11, 10, 5, 0)) {
		t.Error("晚于 end_time 应缺勤")
	}
	if a.IsAbsent(at(2024, 3, 11, 9, 0, 0)) {
		t.Error("活动进行中不应缺勤")
	}
}

func TestAktivitas_IsAbsent_NoEndTime(t *testing.T) {
	a := testAktivitas()
	a.EndTime = nil

	if a.IsAbsent(at(2024, 3, 12, 10, 0, 0)) {
		t.Error("无 end_time 时恒不缺勤")
	}
}

func TestAktivitas_IsAbsent_CrossDate(t *testing.T) {
	a := testAktivitas()

	if !a.IsAbsent(at(2024, 3, 12, 0, 1, 0)) {
		t.Error("到达日晚于活动日应缺勤")
	}
	if a.IsAbsent(at(2024, 3, 10, 12, 0, 0)) {
		t.Error("到达日早于活动日不应缺勤")
	}
}

// ── CanRecordAttendance ──

func TestAktivitas_CanRecordAttendance(t *testing.T) {
	a := testAktivitas()

	if a.CanRecordAttendance(at(2024, 3, 10, 23, 59, 0)) {
		t.Error("活动日在未来时不可记录出勤")
	}
	if !a.CanRecordAttendance(at(2024, 3, 11, 0, 0, 1)) {
		t.Error("活动日当天应可记录出勤")
	}
	// 过往活动无补录上界（既有设计，保留）
	if !a.CanRecordAttendance(at(2025, 1, 1, 8, 0, 0)) {
		t.Error("过往活动应始终可补录")
	}
}

// ── 日期谓词 ──

func TestAktivitas_DatePredicates(t *testing.T) {
	a := testAktivitas()

	if !a.IsToday(at(2024, 3, 11, 15, 0, 0)) {
		t.Error("期望IsToday=true")
	}
	if !a.IsUpcoming(at(2024, 3, 10, 15, 0, 0)) {
		t.Error("期望IsUpcoming=true")
	}
	if !a.IsExpired(at(2024, 3, 12, 0, 0, 1)) {
		t.Error("期望IsExpired=true")
	}
	if a.IsExpired(at(2024, 3, 11, 23, 59, 59)) {
		t.Error("活动日当天不应视为已过期")
	}
}
