package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoRecords    = errors.New("该活动暂无出勤记录")
	ErrExportNoAktivitas  = errors.New("该庇护所暂无活动")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 出勤表导出为 Excel (.xlsx)，按主体逐行呈现
//   - 庇护所活动日历导出为 iCalendar (.ics)，供捐助人订阅
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportAktivitasAttendance 导出单个活动的出勤表为 Excel
	ExportAktivitasAttendance(ctx context.Context, aktivitasID string) (*bytes.Buffer, string, error)
	// ExportShelterCalendar 导出庇护所的活动日历为 ICS
	ExportShelterCalendar(ctx context.Context, shelterID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAktivitasAttendance — 导出活动出勤表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，表头 | 姓名 | 主体类型 | 状态 | 到达时间 | 核验状态 | 备注 |
//   - 状态与核验状态保持存储取值原样（互操作契约）
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportAktivitasAttendance(ctx context.Context, aktivitasID string) (*bytes.Buffer, string, error) {
	aktivitas, err := s.repo.Aktivitas.GetByID(ctx, aktivitasID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrAktivitasNotFound
		}
		s.logger.Error("查询活动失败", zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Absen.ListByAktivitas(ctx, aktivitasID, repository.AbsenFilter{})
	if err != nil {
		s.logger.Error("查询出勤记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "出勤表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 22)
	f.SetColWidth(sheetName, "E", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s（%s）— 出勤表", aktivitas.Name, aktivitas.Date.Format("2006-01-02")))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"姓名", "主体类型", "状态", "到达时间", "核验状态", "备注"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}

	// 数据行
	row := 3
	for i := range records {
		rec := &records[i]
		name, subjectType := "-", "-"
		if rec.AbsenUser != nil {
			name = rec.AbsenUser.DisplayName()
			subjectType = string(rec.AbsenUser.Subject().Type)
		}
		arrival := "-"
		if rec.ArrivalTime != nil {
			arrival = rec.ArrivalTime.Format("2006-01-02 15:04:05")
		}

		f.SetCellValue(sheetName, cell("A", row), name)
		f.SetCellValue(sheetName, cell("B", row), subjectType)
		f.SetCellValue(sheetName, cell("C", row), rec.Status)
		f.SetCellValue(sheetName, cell("D", row), arrival)
		f.SetCellValue(sheetName, cell("E", row), rec.VerificationStatus)
		f.SetCellValue(sheetName, cell("F", row), rec.Notes)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("出勤表_%s_%s.xlsx", aktivitas.Name, aktivitas.Date.Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportShelterCalendar — 导出庇护所活动日历为 ICS
// ═══════════════════════════════════════════════════════════
//
// 每个活动一个 VEVENT；无 start_time 的活动导出为全天事件，
// 有 start_time 无 end_time 的按一小时时长补齐

const defaultEventDuration = time.Hour

func (s *exportService) ExportShelterCalendar(ctx context.Context, shelterID string) (*bytes.Buffer, string, error) {
	shelter, err := s.repo.Shelter.GetByID(ctx, shelterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrShelterNotFound
		}
		s.logger.Error("查询庇护所失败", zap.Error(err))
		return nil, "", err
	}

	// 不分页：日历订阅需要完整活动集
	list, _, err := s.repo.Aktivitas.List(ctx, repository.AktivitasFilter{ShelterID: shelterID}, 0, 1000)
	if err != nil {
		s.logger.Error("查询活动列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(list) == 0 {
		return nil, "", ErrExportNoAktivitas
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//bp-expo//attendance//ID")
	cal.SetName(fmt.Sprintf("%s 活动日历", shelter.Name))

	for i := range list {
		s.appendEvent(cal, &list[i], shelter)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("活动日历_%s.ics", shelter.Name)
	return buf, filename, nil
}

func (s *exportService) appendEvent(cal *ics.Calendar, a *model.Aktivitas, shelter *model.Shelter) {
	event := cal.AddEvent(fmt.Sprintf("%s@bp-expo", a.AktivitasID))
	event.SetCreatedTime(a.CreatedAt)
	event.SetDtStampTime(a.UpdatedAt)
	event.SetSummary(a.Name)
	if shelter.City != "" {
		event.SetLocation(fmt.Sprintf("%s（%s）", shelter.Name, shelter.City))
	} else {
		event.SetLocation(shelter.Name)
	}
	if a.Kind != "" {
		event.SetDescription(a.Kind)
	}

	start, ok := a.StartAt(time.Local)
	if !ok {
		event.SetAllDayStartAt(a.Date)
		event.SetAllDayEndAt(a.Date.AddDate(0, 0, 1))
		return
	}
	event.SetStartAt(start)
	if end, ok := a.EndAt(time.Local); ok && end.After(start) {
		event.SetEndAt(end)
	} else {
		event.SetEndAt(start.Add(defaultEventDuration))
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
