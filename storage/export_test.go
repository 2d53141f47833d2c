package storage

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"job-aggregator/models"
)

func resultTable() *models.Table {
	tbl := models.NewTable(models.ColTitle, models.ColCompany, models.ColMinAmount, models.ColMaxAmount)
	tbl.Append(models.Row{models.ColTitle: "Analyst", models.ColCompany: "Acme", models.ColMinAmount: 60000, models.ColMaxAmount: 75000})
	tbl.Append(models.Row{models.ColTitle: "Auditor", models.ColCompany: "Beta", models.ColMinAmount: 55000.5})
	return tbl
}

func TestExcelExport(t *testing.T) {
	b, err := NewExcelExporter().Export(resultTable(), "Jobs")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Jobs"}, f.GetSheetList())
	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "company", "min_amount", "max_amount"}, rows[0])
	assert.Equal(t, []string{"Analyst", "Acme", "60000", "75000"}, rows[1])
	assert.Equal(t, []string{"Auditor", "Beta", "55000.5"}, rows[2], "trailing null cell stays empty")
}

func TestExcelExportEmpty(t *testing.T) {
	b, err := NewExcelExporter().Export(models.NewTable(), "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DefaultSheet}, f.GetSheetList())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	name := ResultsFileName(time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC))
	assert.Equal(t, "results_2024-03-09.xlsx", name)

	path, err := WriteFile(NewExcelExporter(), resultTable(), dir, name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestCSVWriterWriteRaw(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	w, err := NewCSVWriter(dir, time.Date(2024, 3, 9, 17, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, w.WriteRaw(models.CategoryFinance, resultTable()))
	require.NoError(t, w.WriteRaw(models.CategoryBAIS, models.NewTable(models.ColTitle)))

	paths := w.Paths()
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "raw_20240309-170405_finance.csv"), paths[0])

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Auditor", "Beta", "55000.5", ""}, records[2])
}

func TestCSVWriterReportsFileErrors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw")
	w, err := NewCSVWriter(dir, time.Now())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	err = w.WriteRaw(models.CategoryFinance, resultTable())
	require.Error(t, err)
	assert.Empty(t, w.Paths(), "a failed dump is not listed")
}
