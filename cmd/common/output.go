// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/statement-import/internal/batch"
	"fjacquet/statement-import/internal/models"
)

const dateLayout = "2006-01-02"

// WriteJSON prints v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteBatch prints the preview of a staged batch.
func WriteBatch(w io.Writer, b *models.ImportBatch, asJSON bool) error {
	if asJSON {
		return WriteJSON(w, b)
	}

	fmt.Fprintf(w, "Import ID: %s\n", b.ImportID)
	fmt.Fprintf(w, "File:      %s (%s)\n", b.SourceFileName, b.DetectedFormat)
	fmt.Fprintf(w, "Account:   %s\n", b.AccountID)
	if b.Mapping.Profile != "" {
		fmt.Fprintf(w, "Profile:   %s\n", b.Mapping.Profile)
	}
	fmt.Fprintf(w, "Status:    %s\n", b.Status)
	fmt.Fprintf(w, "Total: %d  New: %d  Duplicates: %d\n\n", b.Total, b.New, b.Duplicates)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tDESCRIPTION\tAMOUNT\tCATEGORY\tCONFIDENCE\tDUPLICATE")
	for i, tx := range b.Transactions {
		dup := ""
		if tx.IsDuplicate {
			dup = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i, tx.Date.Format(dateLayout), tx.Description, tx.Amount.StringFixed(2),
			tx.CategorySuggestion, tx.ConfidenceLabel(), dup)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writeRowErrors(w, "Rows skipped while parsing", b.RowErrors)
}

// WriteConfirm prints the outcome of a confirm call.
func WriteConfirm(w io.Writer, r *models.ConfirmResult, asJSON bool) error {
	if asJSON {
		return WriteJSON(w, r)
	}
	fmt.Fprintf(w, "Import %s confirmed: %d imported, %d skipped\n", r.ImportID, r.ImportedCount, r.SkippedCount)
	return writeRowErrors(w, "Transactions that could not be saved", r.Errors)
}

func writeRowErrors(w io.Writer, title string, errs []models.RowError) error {
	if len(errs) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, e := range errs {
		line := fmt.Sprintf("  row %d: %s", e.Row, e.Message)
		if e.Value != "" {
			line += fmt.Sprintf(" (%q)", e.Value)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistory prints completed imports, newest first.
func WriteHistory(w io.Writer, entries []models.ImportHistoryEntry, asJSON bool) error {
	if asJSON {
		return WriteJSON(w, entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No imports recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IMPORT ID\tFILE\tTYPE\tACCOUNT\tTOTAL\tIMPORTED\tSKIPPED\tCOMPLETED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ImportID, e.FileName, e.FileType, e.AccountID,
			e.TotalTransactions, e.ImportedCount, e.SkippedCount, e.CompletedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// WriteSummary prints the result of a directory import.
func WriteSummary(w io.Writer, s *batch.Summary, asJSON bool) error {
	if asJSON {
		return WriteJSON(w, s)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tACCOUNT\tIMPORTED\tSKIPPED\tDATES\tSTATUS")
	for _, f := range s.Files {
		status := "ok"
		if f.Err != nil {
			status = f.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", f.File, f.AccountID, f.Imported, f.Skipped, f.DateRange, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d files, %d imported, %d skipped, %d failed\n", len(s.Files), s.Imported, s.Skipped, s.Failed)
	return err
}

// ParseMapping builds a column mapping from role=column pairs. Besides the
// roles, the keys date_format and external_id are accepted.
func ParseMapping(pairs map[string]string) (*models.ColumnMapping, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := &models.ColumnMapping{}
	for key, column := range pairs {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "date_format":
			m.DateFormat = column
			continue
		case "external_id":
			m.ExternalID = column
			continue
		}
		role, ok := models.ParseRole(key)
		if !ok {
			return nil, fmt.Errorf("unknown column role %q", key)
		}
		m.Set(role, column)
	}
	return m, nil
}
