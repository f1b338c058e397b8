// Package batch imports every statement of a directory, grouping the files
// by account.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// DateRange is the span of transaction dates covered by one or more files.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the range as "YYYY-MM-DD_YYYY-MM-DD", or "" when unset.
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start.Format("2006-01-02"), dr.End.Format("2006-01-02"))
}

// Merge returns the smallest range covering both ranges. Zero bounds are
// ignored.
func (dr DateRange) Merge(other DateRange) DateRange {
	start, end := dr.Start, dr.End
	if start.IsZero() || (!other.Start.IsZero() && other.Start.Before(start)) {
		start = other.Start
	}
	if end.IsZero() || (!other.End.IsZero() && other.End.After(end)) {
		end = other.End
	}
	return DateRange{Start: start, End: end}
}

// RangeOf returns the date range of txs.
func RangeOf(txs []models.ParsedTransaction) DateRange {
	var dr DateRange
	for _, tx := range txs {
		dr = dr.Merge(DateRange{Start: tx.Date, End: tx.Date})
	}
	return dr
}

// FileGroup is a set of statement files belonging to one account.
type FileGroup struct {
	AccountID string
	Files     []string
}

// Aggregator assigns statement files to accounts.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrDefault(logger)}
}

// GroupFilesByAccount groups files by account. When account is set every
// file belongs to it; otherwise the account is taken from the file name.
// Groups are sorted by account and files keep their input order.
func (a *Aggregator) GroupFilesByAccount(files []string, account string) []FileGroup {
	byAccount := make(map[string]*FileGroup)
	for _, file := range files {
		id := account
		if id == "" {
			id = AccountFromFilename(file)
		}
		a.logger.Debug("File mapped to account",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldAccountID, id))

		g, ok := byAccount[id]
		if !ok {
			g = &FileGroup{AccountID: id}
			byAccount[id] = g
		}
		g.Files = append(g.Files, file)
	}

	groups := make([]FileGroup, 0, len(byAccount))
	for _, g := range byAccount {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].AccountID < groups[j].AccountID })

	a.logger.Info("Grouped files into account groups",
		logging.F("total_files", len(files)),
		logging.F("account_groups", len(groups)))
	return groups
}

// AccountFromFilename derives an account identifier from a statement file
// name: the part of the base name before the first underscore, sanitized.
// "cheque-123_2025-10.csv" belongs to "cheque-123".
func AccountFromFilename(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.Index(stem, "_"); i > 0 {
		stem = stem[:i]
	}
	return SanitizeAccountID(stem)
}

// SanitizeAccountID keeps letters, digits, '-' and '.'; every other rune
// becomes '_'. An empty result is "default".
func SanitizeAccountID(id string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := strings.Trim(strings.ReplaceAll(b.String(), "..", "_"), "._")
	if s == "" {
		return "default"
	}
	return s
}
