package pdfparser

import (
	"regexp"
	"strings"

	"fjacquet/statement-import/internal/models"
)

// Both grammars must cover the whole line.
var (
	// DATE DESCRIPTION AMOUNT BALANCE
	amountBalanceLine = regexp.MustCompile(`^\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+(-?[\d,]+\.\d{2})\s+([\d,]+\.\d{2})\s*$`)
	// DATE DESCRIPTION DEBIT? CREDIT? BALANCE
	debitCreditLine = regexp.MustCompile(`^\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s+(.+?)\s+(-?[\d,]+\.\d{2})?\s+(-?[\d,]+\.\d{2})?\s+([\d,]+\.\d{2})\s*$`)

	amountToken = regexp.MustCompile(`^-?[\d,]+\.\d{2}$`)
)

// Column positions of the synthetic header.
const (
	colDate = iota
	colDescription
	colAmount
	colDebit
	colCredit
	colBalance
)

// Header is the synthetic header of text-layout extractions.
var Header = []string{"Date", "Description", "Amount", "Debit", "Credit", "Balance"}

// Mapping is the fixed column mapping of text-layout extractions. Rows from
// the first grammar fill Amount; rows from the second fill Debit and Credit.
var Mapping = models.ColumnMapping{
	Date:        Header[colDate],
	Description: Header[colDescription],
	Amount:      Header[colAmount],
	Debit:       Header[colDebit],
	Credit:      Header[colCredit],
	Balance:     Header[colBalance],
}

// parseLines scans text line by line against the two grammars; the first
// grammar that matches wins and lines matching neither are skipped. A line
// with three trailing amounts is a debit/credit/balance line.
// SourceRow is the 1-based line number.
func parseLines(text string) []models.RawRow {
	var rows []models.RawRow
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if cells, ok := matchLine(line); ok {
			rows = append(rows, models.RawRow{SourceRow: i + 1, Cells: cells})
		}
	}
	return rows
}

func matchLine(line string) ([]models.Cell, bool) {
	cells := make([]models.Cell, len(Header))

	if m := amountBalanceLine.FindStringSubmatch(line); m != nil && !endsWithAmount(m[2]) {
		cells[colDate] = models.TextCell(m[1])
		cells[colDescription] = models.TextCell(strings.TrimSpace(m[2]))
		cells[colAmount] = models.TextCell(m[3])
		cells[colBalance] = models.TextCell(m[4])
		return cells, true
	}

	if m := debitCreditLine.FindStringSubmatch(line); m != nil {
		if m[3] == "" && m[4] == "" {
			// a balance-only line such as an opening balance
			return nil, false
		}
		cells[colDate] = models.TextCell(m[1])
		cells[colDescription] = models.TextCell(strings.TrimSpace(m[2]))
		cells[colDebit] = models.TextCell(m[3])
		cells[colCredit] = models.TextCell(m[4])
		cells[colBalance] = models.TextCell(m[5])
		return cells, true
	}

	return nil, false
}

// endsWithAmount reports whether the last word of description is itself an
// amount, which means the line carries one more amount column.
func endsWithAmount(description string) bool {
	fields := strings.Fields(description)
	return len(fields) > 0 && amountToken.MatchString(fields[len(fields)-1])
}
