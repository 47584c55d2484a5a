package model

import "time"

// DefaultLateMinutes 未显式配置迟到阈值时的默认分钟数
const DefaultLateMinutes = 15

// Aktivitas 活动表 — 对应 aktivitas
// 时间策略字段（开闭时刻、迟到阈值）均为可选；判定规则见下方纯函数
type Aktivitas struct {
	AktivitasID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"aktivitas_id"`
	ShelterID            string    `gorm:"type:uuid;not null"                             json:"shelter_id"`
	Name                 string    `gorm:"type:varchar(255);not null"                     json:"name"`
	Kind                 string    `gorm:"type:varchar(50);not null;default:''"           json:"kind"`
	Date                 time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime            *string   `gorm:"type:time"                                      json:"start_time,omitempty"` // "HH:MM" 或 "HH:MM:SS"
	EndTime              *string   `gorm:"type:time"                                      json:"end_time,omitempty"`
	LateThreshold        *string   `gorm:"type:time"                                      json:"late_threshold,omitempty"`
	LateMinutesThreshold int       `gorm:"not null;default:15"                            json:"late_minutes_threshold"`
	BaseModel

	// 关联
	Shelter *Shelter `gorm:"foreignKey:ShelterID;references:ShelterID" json:"shelter,omitempty"`
}

// TableName 指定表名
func (Aktivitas) TableName() string { return "aktivitas" }

// ── 时间策略（纯函数，不访问存储、不抛错） ──
//
// 日期比较按调用方提供的挂钟时间逐字段进行，不做时区归一化；
// 跨午夜、跨时区的歧义由调用方负责。

// IsLate 判断到达时间是否迟到
// 无 start_time 时恒为 false；到达日晚于活动日视为迟到，早于则不迟到；
// 同日时边界 = late_threshold（若设置）否则 start_time + late_minutes_threshold，
// 严格晚于边界才算迟到（恰好等于边界仍按准时处理）
func (a *Aktivitas) IsLate(arrival time.Time) bool {
	if a.StartTime == nil {
		return false
	}
	switch compareDate(arrival, a.Date) {
	case 1:
		return true
	case -1:
		return false
	}

	boundary, ok := a.lateBoundary(arrival)
	if !ok {
		return false
	}
	return arrival.After(boundary)
}

// IsAbsent 判断到达时间是否已构成缺勤（硬性截止，优先级高于迟到）
// 无 end_time 时恒为 false；同日时严格晚于 end_time 即缺勤
func (a *Aktivitas) IsAbsent(arrival time.Time) bool {
	if a.EndTime == nil {
		return false
	}
	switch compareDate(arrival, a.Date) {
	case 1:
		return true
	case -1:
		return false
	}

	end, ok := clockOn(a.Date, *a.EndTime, arrival.Location())
	if !ok {
		return false
	}
	return arrival.After(end)
}

// CanRecordAttendance 出勤记录门禁
// 仅拒绝活动日严格在未来的记录请求；过往活动无上界可补录
func (a *Aktivitas) CanRecordAttendance(now time.Time) bool {
	return compareDate(a.Date, now) <= 0
}

// IsToday 活动日是否为今天
func (a *Aktivitas) IsToday(now time.Time) bool {
	return compareDate(a.Date, now) == 0
}

// IsUpcoming 活动日是否在未来
func (a *Aktivitas) IsUpcoming(now time.Time) bool {
	return compareDate(a.Date, now) == 1
}

// IsExpired 活动日是否已过去
func (a *Aktivitas) IsExpired(now time.Time) bool {
	return compareDate(a.Date, now) == -1
}

// lateBoundary 构造迟到边界时刻（活动日 + 显式阈值或开始时刻偏移）
func (a *Aktivitas) lateBoundary(arrival time.Time) (time.Time, bool) {
	if a.LateThreshold != nil {
		return clockOn(a.Date, *a.LateThreshold, arrival.Location())
	}

	start, ok := clockOn(a.Date, *a.StartTime, arrival.Location())
	if !ok {
		return time.Time{}, false
	}
	minutes := a.LateMinutesThreshold
	if minutes <= 0 {
		minutes = DefaultLateMinutes
	}
	return start.Add(time.Duration(minutes) * time.Minute), true
}

// StartAt 活动开始时刻（活动日 + start_time）；无 start_time 时 ok=false
func (a *Aktivitas) StartAt(loc *time.Location) (time.Time, bool) {
	if a.StartTime == nil {
		return time.Time{}, false
	}
	return clockOn(a.Date, *a.StartTime, loc)
}

// EndAt 活动结束时刻（活动日 + end_time）；无 end_time 时 ok=false
func (a *Aktivitas) EndAt(loc *time.Location) (time.Time, bool) {
	if a.EndTime == nil {
		return time.Time{}, false
	}
	return clockOn(a.Date, *a.EndTime, loc)
}

// ValidClock 校验 "HH:MM" / "HH:MM:SS" 时刻串
func ValidClock(clock string) bool {
	_, ok := clockOn(time.Time{}, clock, time.UTC)
	return ok
}

// compareDate 按日历日期逐字段比较：a 晚于 b 返回 1，早于返回 -1，同日返回 0
func compareDate(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return sign(ay - by)
	case am != bm:
		return sign(int(am) - int(bm))
	case ad != bd:
		return sign(ad - bd)
	}
	return 0
}

// clockOn 在指定日期上套用 "HH:MM[:SS]" 时刻
func clockOn(date time.Time, clock string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, false
		}
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

func sign(n int) int {
	if n > 0 {
		return 1
	}
	return -1
}
