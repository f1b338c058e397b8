package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell is one raw value produced by an extractor. Text is always set; Time
// and Amount are set when the source carried a native typed value.
type Cell struct {
	Text   string
	Time   *time.Time
	Amount *decimal.Decimal
}

// TextCell builds a text-only cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// DateCell builds a cell holding a native date.
func DateCell(t time.Time) Cell {
	return Cell{Text: t.Format("2006-01-02"), Time: &t}
}

// AmountCell builds a cell holding a native signed amount.
func AmountCell(d decimal.Decimal) Cell {
	return Cell{Text: d.String(), Amount: &d}
}

// IsBlank reports whether the cell carries no value.
func (c Cell) IsBlank() bool {
	return c.Time == nil && c.Amount == nil && strings.TrimSpace(c.Text) == ""
}

// RawRow is one source row, positionally aligned with the extraction header.
// SourceRow is the 1-based data row number in the source file.
type RawRow struct {
	SourceRow int
	Cells     []Cell
}

// Cell returns the cell at position i, or a blank cell when out of range.
func (r RawRow) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[i]
}

// NonEmpty counts the cells that carry a value.
func (r RawRow) NonEmpty() int {
	n := 0
	for _, c := range r.Cells {
		if !c.IsBlank() {
			n++
		}
	}
	return n
}

// Extraction is the output of a format extractor. Mapping is set by
// extractors whose layout is fixed (text-layout and structured-exchange)
// and bypasses the column mapper.
type Extraction struct {
	Header   []string
	Rows     []RawRow
	Mapping  *ColumnMapping
	Encoding string
	Delim    rune
}

// ColumnIndex returns the position of the named header, case-insensitively,
// or -1 when absent.
func (e Extraction) ColumnIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range e.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
