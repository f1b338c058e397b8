// Package parsererror defines the error taxonomy of the statement import pipeline.
// Every typed error matches its sentinel with errors.Is, so callers can branch on
// the class of failure without type switches.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrNoMappingResolved   = errors.New("no column mapping resolved")
	ErrRowParse            = errors.New("row parse error")
	ErrNoTransactionsFound = errors.New("no transactions found")
	ErrImportNotFound      = errors.New("import not found")
	ErrAlreadyProcessed    = errors.New("import already processed")
	ErrPersistFailure      = errors.New("persist failure")
	ErrInvalidFormat       = errors.New("invalid format")
)

// UnsupportedFormatError is returned by the format detector for unknown extensions.
type UnsupportedFormatError struct {
	FileName  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return fmt.Sprintf("unsupported format for '%s': file has no extension", e.FileName)
	}
	return fmt.Sprintf("unsupported format for '%s': extension '%s' is not one of .csv, .xls, .xlsx, .pdf, .ofx, .qfx",
		e.FileName, e.Extension)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }

// NoMappingResolvedError means the header could not be assigned to the required roles.
type NoMappingResolvedError struct {
	Header  []string
	Missing []string
	Profile string
}

func (e *NoMappingResolvedError) Error() string {
	msg := fmt.Sprintf("could not resolve column mapping, missing roles [%s] in header [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Header, ", "))
	if e.Profile != "" {
		msg += fmt.Sprintf(" (profile '%s')", e.Profile)
	}
	return msg + "; supply an explicit mapping or a bank profile"
}

func (e *NoMappingResolvedError) Is(target error) bool { return target == ErrNoMappingResolved }

// RowParseError reports one source row whose date or amount could not be parsed.
// Row is the 1-based data row number in the source file.
type RowParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

func (e *RowParseError) Is(target error) bool { return target == ErrRowParse }

// NoTransactionsFoundError is returned when extraction yields zero usable rows.
type NoTransactionsFoundError struct {
	FileName  string
	RowErrors int
}

func (e *NoTransactionsFoundError) Error() string {
	if e.RowErrors > 0 {
		return fmt.Sprintf("no transactions found in '%s' (%d rows rejected)", e.FileName, e.RowErrors)
	}
	return fmt.Sprintf("no transactions found in '%s'", e.FileName)
}

func (e *NoTransactionsFoundError) Is(target error) bool { return target == ErrNoTransactionsFound }

// ImportNotFoundError is returned for unknown or no longer pending import IDs.
type ImportNotFoundError struct {
	ImportID string
}

func (e *ImportNotFoundError) Error() string {
	return fmt.Sprintf("import not found: %s", e.ImportID)
}

func (e *ImportNotFoundError) Is(target error) bool { return target == ErrImportNotFound }

// AlreadyProcessedError is returned by a second confirm of the same import.
type AlreadyProcessedError struct {
	ImportID string
}

func (e *AlreadyProcessedError) Error() string {
	return fmt.Sprintf("import already processed: %s", e.ImportID)
}

func (e *AlreadyProcessedError) Is(target error) bool { return target == ErrAlreadyProcessed }

// PersistError reports a single transaction the ledger refused during confirm.
type PersistError struct {
	Index       int
	Description string
	Err         error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("transaction %d ('%s'): persist failed: %v", e.Index, e.Description, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersistFailure }

// InvalidFormatError represents an input whose content does not match the
// format its extension claims.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Is(target error) bool { return target == ErrInvalidFormat }

// DataExtractionError represents a structurally valid file from which the
// statement data could not be read.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
	Err       error
}

func (e *DataExtractionError) Error() string {
	msg := fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s", e.FilePath, e.FieldName, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataExtractionError) Unwrap() error { return e.Err }
