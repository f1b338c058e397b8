package sheetparser

import (
	"context"
	"testing"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExtract_XLSX(t *testing.T) {
	date := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	content := buildWorkbook(t, [][]interface{}{
		{"Date", "Description", "Amount", "Balance"},
		{date, "Woolworths", -450.0, 1200.0},
		{"2025-10-07", "Uber", -85.5, 1114.5},
	})

	ex, err := NewExtractor(logging.NewMockLogger()).Extract(context.Background(), content, "oct.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount", "Balance"}, ex.Header)
	require.Len(t, ex.Rows, 2)

	first := ex.Rows[0]
	require.NotNil(t, first.Cells[0].Time, "native date cell must be typed")
	assert.Equal(t, "2025-10-06", first.Cells[0].Time.Format("2006-01-02"))
	assert.Equal(t, "Woolworths", first.Cells[1].Text)
	require.NotNil(t, first.Cells[2].Amount)
	assert.True(t, first.Cells[2].Amount.Equal(decimal.RequireFromString("-450")))

	second := ex.Rows[1]
	assert.Nil(t, second.Cells[0].Time, "text dates stay text")
	assert.Equal(t, "2025-10-07", second.Cells[0].Text)
	assert.Equal(t, 2, second.SourceRow)
}

func TestExtract_XLSX_BlankRows(t *testing.T) {
	content := buildWorkbook(t, [][]interface{}{
		{nil},
		{"Date", "Description", "Amount"},
		{"2025-10-06", "Rent", -8500},
		{nil, nil, nil},
		{"2025-10-25", "Salary", 25000},
	})

	ex, err := NewExtractor(nil).Extract(context.Background(), content, "blank.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "Date", ex.Header[0])
	require.Len(t, ex.Rows, 2)
	assert.Equal(t, "Salary", ex.Rows[1].Cells[1].Text)
}

func TestExtract_Invalid(t *testing.T) {
	e := NewExtractor(logging.NewMockLogger())

	_, err := e.Extract(context.Background(), []byte("not a workbook"), "bad.xlsx")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)

	_, err = e.Extract(context.Background(), []byte("not a workbook either"), "bad.xls")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
	assert.Equal(t, models.FormatSpreadsheet, e.Format())
}

func TestIsDateNumFmt(t *testing.T) {
	custom := func(s string) *string { return &s }
	tests := []struct {
		name   string
		numFmt int
		custom *string
		isDate bool
	}{
		{"general", 0, nil, false},
		{"two decimals", 2, nil, false},
		{"short date", 14, nil, true},
		{"date time", 22, nil, true},
		{"cjk date", 31, nil, true},
		{"time only", 45, nil, true},
		{"custom date", 164, custom("dd/mm/yyyy"), true},
		{"custom long month", 165, custom("[$-409]mmmm d, yyyy;@"), true},
		{"custom currency", 166, custom(`"R" #,##0.00;[Red]-"R" #,##0.00`), false},
		{"custom accounting", 167, custom("_-* #,##0.00_-"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isDate, IsDateNumFmt(tt.numFmt, tt.custom))
		})
	}
}
