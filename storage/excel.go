package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"job-aggregator/models"
)

// DefaultSheet is the worksheet name of exported results.
const DefaultSheet = "Jobs"

// ResultsFileName is the export name for a run finished on day.
func ResultsFileName(day time.Time) string {
	return fmt.Sprintf("results_%s.xlsx", day.Format("2006-01-02"))
}

// ExcelExporter renders tables as .xlsx workbooks.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Export writes tbl to a single-sheet workbook: a bold header row with the
// column names, then one row per posting. Null cells stay empty.
func (e *ExcelExporter) Export(tbl *models.Table, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("excel: name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: header style: %w", err)
	}

	if tbl == nil {
		tbl = models.NewTable()
	}
	for c, name := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, fmt.Errorf("excel: header cell: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("excel: write header: %w", err)
		}
	}
	if len(tbl.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(tbl.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("excel: style header: %w", err)
		}
	}

	for r, row := range tbl.Rows {
		for c, col := range tbl.Columns {
			v := row[col]
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("excel: cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return nil, fmt.Errorf("excel: write %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellValue keeps numbers, booleans and dates native and renders anything
// else as text.
func cellValue(v any) any {
	switch v.(type) {
	case float64, bool, string, time.Time:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// WriteFile exports tbl to dir/name and returns the written path.
func WriteFile(e Exporter, tbl *models.Table, dir, name string) (string, error) {
	b, err := e.Export(tbl, DefaultSheet)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", fmt.Errorf("export: write %q: %w", path, err)
	}
	return path, nil
}
