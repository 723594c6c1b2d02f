package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/NariCare/NariCare-App-sub000/internal/domain"

	"github.com/xuri/excelize/v2"
)

const checkinExportSheet = "Check-ins"

// CheckinExportHeader 导出表头
var CheckinExportHeader = []string{
	"Record Date",
	"Record Time",
	"Struggles",
	"Positive Moments",
	"Concerning Thoughts",
	"Grateful For",
	"Proud Of Today",
	"Tomorrow Goal",
	"Additional Notes",
	"Crisis Alert",
	"Voice Entry",
	"Created At",
}

var checkinExportWidths = []float64{14, 12, 30, 30, 36, 30, 30, 30, 40, 12, 12, 22}

// GenerateCheckinExport 生成打卡历史 Excel；checkins 为空时只有表头
func GenerateCheckinExport(checkins []*domain.EmotionCheckin) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(checkinExportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#FCE4EC"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range CheckinExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(checkinExportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(checkinExportSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(checkinExportSheet, name, name, checkinExportWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, c := range checkins {
		row := i + 2
		values := []any{
			c.RecordDate,
			c.RecordTime,
			strings.Join(c.SelectedStruggles, ", "),
			strings.Join(c.SelectedPositiveMoments, ", "),
			formatThoughts(c.SelectedConcerningThoughts),
			derefString(c.GratefulFor),
			derefString(c.ProudOfToday),
			derefString(c.TomorrowGoal),
			derefString(c.AdditionalNotes),
			yesNo(c.CrisisAlertTriggered),
			yesNo(c.EnteredViaVoice),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(checkinExportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func formatThoughts(thoughts []domain.ConcerningThought) string {
	parts := make([]string, 0, len(thoughts))
	for _, t := range thoughts {
		parts = append(parts, fmt.Sprintf("%s (%s)", t.Tag, t.Severity))
	}
	return strings.Join(parts, ", ")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
