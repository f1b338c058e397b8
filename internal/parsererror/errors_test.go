package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unsupported", &UnsupportedFormatError{FileName: "a.txt", Extension: ".txt"}, ErrUnsupportedFormat},
		{"no mapping", &NoMappingResolvedError{Header: []string{"x"}, Missing: []string{"date"}}, ErrNoMappingResolved},
		{"row parse", &RowParseError{Row: 3, Field: "amount", Value: "abc", Err: errors.New("bad")}, ErrRowParse},
		{"no transactions", &NoTransactionsFoundError{FileName: "a.csv"}, ErrNoTransactionsFound},
		{"not found", &ImportNotFoundError{ImportID: "imp"}, ErrImportNotFound},
		{"already processed", &AlreadyProcessedError{ImportID: "imp"}, ErrAlreadyProcessed},
		{"persist", &PersistError{Index: 1, Err: errors.New("locked")}, ErrPersistFailure},
		{"invalid format", &InvalidFormatError{FilePath: "a.pdf", ExpectedFormat: "PDF", Msg: "no header"}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			wrapped := fmt.Errorf("stage: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.False(t, errors.Is(tt.err, ErrPersistFailure) && tt.sentinel != ErrPersistFailure)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "unsupported with extension",
			err:      &UnsupportedFormatError{FileName: "notes.txt", Extension: ".txt"},
			expected: "unsupported format for 'notes.txt': extension '.txt' is not one of .csv, .xls, .xlsx, .pdf, .ofx, .qfx",
		},
		{
			name:     "unsupported without extension",
			err:      &UnsupportedFormatError{FileName: "README"},
			expected: "unsupported format for 'README': file has no extension",
		},
		{
			name:     "row parse",
			err:      &RowParseError{Row: 7, Field: "date", Value: "31/31/2025", Err: errors.New("no layout matched")},
			expected: "row 7: failed to parse date='31/31/2025': no layout matched",
		},
		{
			name:     "no transactions with rejected rows",
			err:      &NoTransactionsFoundError{FileName: "s.csv", RowErrors: 4},
			expected: "no transactions found in 's.csv' (4 rows rejected)",
		},
		{
			name:     "no mapping with profile",
			err:      &NoMappingResolvedError{Header: []string{"A", "B"}, Missing: []string{"date", "amount"}, Profile: "fnb"},
			expected: "could not resolve column mapping, missing roles [date, amount] in header [A, B] (profile 'fnb'); supply an explicit mapping or a bank profile",
		},
		{
			name:     "invalid format with snippet",
			err:      &InvalidFormatError{FilePath: "x.pdf", ExpectedFormat: "PDF", ActualContentSnippet: "PK", Msg: "missing %PDF header"},
			expected: "invalid format in file 'x.pdf': missing %PDF header. Expected: PDF. Content snippet: 'PK'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("ledger locked")
	persist := &PersistError{Index: 2, Description: "Uber", Err: cause}
	assert.ErrorIs(t, persist, cause)

	extraction := &DataExtractionError{FilePath: "a.ofx", FieldName: "transactions", Reason: "no statement", Err: cause}
	assert.ErrorIs(t, extraction, cause)
	assert.Contains(t, extraction.Error(), "ledger locked")

	var rowErr *RowParseError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", &RowParseError{Row: 1, Err: cause}), &rowErr))
	assert.Equal(t, 1, rowErr.Row)
}
