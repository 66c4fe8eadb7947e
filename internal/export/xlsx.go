package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/claude/reptracker/internal/models"
)

// SheetName is the worksheet holding the log rows.
const SheetName = "Exercise Logs"

var xlsxColumns = []struct {
	name  string
	col   string
	width float64
}{
	{"Date", "A", 12},
	{"Time", "B", 10},
	{"Type", "C", 15},
	{"Count", "D", 8},
	{"Timestamp", "E", 25},
}

// XLSX writes a workbook with one row per log. The Time column is the entry's
// wall-clock time in loc (24h HH:MM:SS); Count is stored as a number.
func XLSX(w io.Writer, logs []models.LogEntry, types []models.ExerciseType, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(xlsxColumns))
	for i, c := range xlsxColumns {
		header[i] = c.name
		if err := f.SetColWidth(SheetName, c.col, c.col, c.width); err != nil {
			return fmt.Errorf("setting width of %s: %w", c.name, err)
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	names := models.TypeNames(types)
	for i, l := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			l.DateKey,
			time.UnixMilli(l.Timestamp).In(loc).Format("15:04:05"),
			typeName(names, l.TypeID),
			l.Count,
			ISOTimestamp(l.Timestamp),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
