// Package sheetparser extracts raw rows from the first worksheet of .xlsx
// and legacy .xls workbooks. Native date cells are surfaced as typed dates.
package sheetparser

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/extrame/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Extractor implements parser.Extractor for spreadsheet files.
type Extractor struct {
	parser.BaseParser
}

// NewExtractor creates a spreadsheet extractor.
func NewExtractor(logger logging.Logger) *Extractor {
	return &Extractor{BaseParser: parser.NewBaseParser(logger)}
}

// Format returns models.FormatSpreadsheet.
func (e *Extractor) Format() models.Format {
	return models.FormatSpreadsheet
}

// Extract reads the first sheet. Leading blank rows are skipped, the first
// remaining row is the header and fully blank data rows are dropped.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*models.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		grid [][]models.Cell
		err  error
	)
	if strings.EqualFold(filepath.Ext(fileName), ".xls") {
		grid, err = e.readXLS(content)
	} else {
		grid, err = e.readXLSX(content)
	}
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       fileName,
			ExpectedFormat: "spreadsheet workbook",
			Msg:            err.Error(),
		}
	}

	extraction := buildExtraction(grid)
	e.GetLogger().Debug("Extracted spreadsheet rows",
		logging.F(logging.FieldFile, fileName),
		logging.F(logging.FieldCount, len(extraction.Rows)))
	return extraction, nil
}

func buildExtraction(grid [][]models.Cell) *models.Extraction {
	extraction := &models.Extraction{}

	start := 0
	for start < len(grid) && (models.RawRow{Cells: grid[start]}).NonEmpty() == 0 {
		start++
	}
	if start >= len(grid) {
		return extraction
	}

	for _, c := range grid[start] {
		extraction.Header = append(extraction.Header, strings.TrimSpace(c.Text))
	}

	for i, cells := range grid[start+1:] {
		row := models.RawRow{SourceRow: i + 1, Cells: cells}
		if row.NonEmpty() == 0 {
			continue
		}
		extraction.Rows = append(extraction.Rows, row)
	}
	return extraction
}

func (e *Extractor) readXLSX(content []byte) ([][]models.Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			e.GetLogger().WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	dateStyles := make(map[int]bool)
	grid := make([][]models.Cell, len(rows))
	for r, values := range rows {
		cells := make([]models.Cell, len(values))
		for c, raw := range values {
			raw = strings.TrimSpace(raw)
			cells[c] = models.TextCell(raw)

			serial, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if e.isDateCell(f, sheet, c+1, r+1, dateStyles) {
				if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
					cells[c] = models.DateCell(t)
					continue
				}
			}
			if d, err := decimal.NewFromString(raw); err == nil {
				cells[c] = models.Cell{Text: raw, Amount: &d}
			}
		}
		grid[r] = cells
	}
	return grid, nil
}

// isDateCell reports whether the cell's number format displays a date.
// Results are cached per style index.
func (e *Extractor) isDateCell(f *excelize.File, sheet string, col, row int, cache map[int]bool) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	if isDate, ok := cache[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := f.GetStyle(styleID); err == nil && style != nil {
		isDate = IsDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	cache[styleID] = isDate
	return isDate
}

// IsDateNumFmt reports whether a built-in number format id or a custom
// format code renders a date.
func IsDateNumFmt(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		code := strings.ToLower(stripQuoted(*custom))
		return strings.ContainsAny(code, "dy") || strings.Contains(code, "mmm")
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

// stripQuoted removes literal text ("...") and bracketed sections ([Red])
// from a number format code.
func stripQuoted(code string) string {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == '[' && !inQuote:
			inBracket = true
		case r == ']' && !inQuote:
			inBracket = false
		case !inQuote && !inBracket:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// readXLS reads a BIFF workbook. The library renders date cells as
// formatted text, so those go through the textual date layouts.
func (e *Extractor) readXLS(content []byte) (grid [][]models.Cell, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("malformed workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no readable first sheet")
	}

	grid = make([][]models.Cell, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]models.Cell, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, models.TextCell(strings.TrimSpace(row.Col(c))))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
