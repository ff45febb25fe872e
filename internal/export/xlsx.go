package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/petsos-dev/availability/internal/domain"
)

const monthSheet = "Розклад"

// MonthXLSX renders a vet's slots for one month as a spreadsheet with the
// same columns as the CSV export.
func MonthXLSX(slots []domain.Slot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthSheet); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(monthSheet, "A", "D", 18); err != nil {
		return nil, err
	}

	for col, title := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(monthSheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i, s := range slots {
		values := []string{s.Date, s.StartTime, s.EndTime, string(s.Type)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(monthSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AdminWorkbook builds the coverage workbook for one month: one sheet per
// slot type, each an hour×day grid with vet names in covered cells and
// uncovered cells highlighted.
func AdminWorkbook(urgent, vp []NamedSlot, yearMonth string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	emptyStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	})
	if err != nil {
		return nil, err
	}

	sheets := []struct {
		name  string
		slots []NamedSlot
	}{
		{string(domain.TypeURGENT), urgent},
		{string(domain.TypeVP), vp},
	}
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, err
			}
		}
		if err := writeGrid(f, sheet.name, sheet.slots, yearMonth, emptyStyle); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeGrid(f *excelize.File, sheet string, slots []NamedSlot, yearMonth string, emptyStyle int) error {
	grid, err := ScheduleGrid(slots, yearMonth)
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(grid[0]))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}

	for r, row := range grid {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
			// Highlight uncovered hour cells so gaps stand out. The
			// hour column and header row keep the default style.
			if r > 0 && c > 0 && value == "" {
				if err := f.SetCellStyle(sheet, cell, cell, emptyStyle); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// MonthFileName names the month export attachment.
func MonthFileName(yearMonth, ext string) string {
	return fmt.Sprintf("slots-%s.%s", yearMonth, ext)
}

// AdminFileName names the admin coverage attachment.
func AdminFileName(yearMonth string) string {
	return fmt.Sprintf("schedule-%s.xlsx", yearMonth)
}
