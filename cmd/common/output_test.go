package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fjacquet/statement-import/internal/batch"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatch() *models.ImportBatch {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return &models.ImportBatch{
		ImportID:       "imp_1",
		SourceFileName: "statement.csv",
		DetectedFormat: models.FormatDelimited,
		AccountID:      "cheque",
		Mapping:        models.ColumnMapping{Profile: "fnb"},
		Transactions: []models.ParsedTransaction{
			{Date: date, Description: "Woolworths", Amount: decimal.RequireFromString("-250"), CategorySuggestion: "cat_needs_groceries", CategoryConfidence: 0.9},
			{Date: date, Description: "Uber", Amount: decimal.RequireFromString("-85.5"), CategoryConfidence: 0.3, IsDuplicate: true},
		},
		Total:      2,
		New:        1,
		Duplicates: 1,
		Status:     models.StatusPending,
		RowErrors:  []models.RowError{{Row: 4, Value: "31/02/2024", Message: "invalid date"}},
	}
}

func TestWriteBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, sampleBatch(), false))
	out := buf.String()

	assert.Contains(t, out, "Import ID: imp_1")
	assert.Contains(t, out, "Profile:   fnb")
	assert.Contains(t, out, "Total: 2  New: 1  Duplicates: 1")
	assert.Contains(t, out, "-250.00")
	assert.Contains(t, out, "-85.50")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, `row 4: invalid date ("31/02/2024")`)
}

func TestWriteBatch_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, sampleBatch(), true))

	var decoded models.ImportBatch
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "imp_1", decoded.ImportID)
	assert.Len(t, decoded.Transactions, 2)
	assert.True(t, decoded.Transactions[1].IsDuplicate)
}

func TestWriteConfirm(t *testing.T) {
	var buf bytes.Buffer
	result := &models.ConfirmResult{
		ImportID:      "imp_1",
		ImportedCount: 1,
		SkippedCount:  1,
		Errors:        []models.RowError{{Row: 1, Message: "ledger unavailable"}},
	}
	require.NoError(t, WriteConfirm(&buf, result, false))
	assert.Contains(t, buf.String(), "Import imp_1 confirmed: 1 imported, 1 skipped")
	assert.Contains(t, buf.String(), "row 1: ledger unavailable")
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil, false))
	assert.Equal(t, "No imports recorded\n", buf.String())

	buf.Reset()
	entries := []models.ImportHistoryEntry{{
		ImportID: "imp_1", FileName: "statement.csv", FileType: "delimited-text", AccountID: "cheque",
		TotalTransactions: 3, ImportedCount: 2, SkippedCount: 1,
		CompletedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, WriteHistory(&buf, entries, false))
	assert.Contains(t, buf.String(), "imp_1")
	assert.Contains(t, buf.String(), "2024-02-01T10:00:00Z")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	s := &batch.Summary{
		Files: []batch.FileResult{
			{File: "cheque_jan.csv", AccountID: "cheque", Imported: 3, DateRange: batch.DateRange{
				Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}},
			{File: "broken.pdf", AccountID: "broken", Err: errors.New("invalid format")},
		},
		Imported: 3,
		Failed:   1,
	}
	require.NoError(t, WriteSummary(&buf, s, false))
	assert.Contains(t, buf.String(), "2024-01-01_2024-01-31")
	assert.Contains(t, buf.String(), "invalid format")
	assert.Contains(t, buf.String(), "2 files, 3 imported, 0 skipped, 1 failed")
}

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = ParseMapping(map[string]string{
		"Date": "Posted", "description": "Memo", "debit": "Out", "credit": "In",
		"date_format": "%d/%m/%Y", "external_id": "Ref",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ColumnMapping{
		Date: "Posted", Description: "Memo", Debit: "Out", Credit: "In", DateFormat: "%d/%m/%Y", ExternalID: "Ref",
	}, *m)

	_, err = ParseMapping(map[string]string{"payee": "Memo"})
	assert.Error(t, err)
}
