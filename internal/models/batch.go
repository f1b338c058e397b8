package models

import "time"

// RowError records a row-level failure. During staging Row is the source row
// number; during confirm it is the index of the transaction in the batch.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ImportBatch is one staged upload.
type ImportBatch struct {
	ImportID       string              `json:"import_id"`
	SourceFileName string              `json:"source_file_name"`
	DetectedFormat Format              `json:"detected_format"`
	AccountID      string              `json:"account_id"`
	Mapping        ColumnMapping       `json:"mapping"`
	Transactions   []ParsedTransaction `json:"transactions"`
	Total          int                 `json:"total"`
	New            int                 `json:"new"`
	Duplicates     int                 `json:"duplicates"`
	Status         ImportStatus        `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	CompletedAt    time.Time           `json:"completed_at,omitempty"`
	ImportedCount  int                 `json:"imported_count"`
	SkippedCount   int                 `json:"skipped_count"`
	RowErrors      []RowError          `json:"row_errors,omitempty"`
	ConfirmErrors  []RowError          `json:"confirm_errors,omitempty"`
}

// IsCompleted reports whether the batch has been confirmed.
func (b *ImportBatch) IsCompleted() bool {
	return b.Status == StatusCompleted
}

// Clone returns a deep copy of the batch.
func (b *ImportBatch) Clone() *ImportBatch {
	if b == nil {
		return nil
	}
	c := *b
	c.Transactions = make([]ParsedTransaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		if tx.Balance != nil {
			bal := *tx.Balance
			tx.Balance = &bal
		}
		c.Transactions[i] = tx
	}
	c.RowErrors = append([]RowError(nil), b.RowErrors...)
	c.ConfirmErrors = append([]RowError(nil), b.ConfirmErrors...)
	return &c
}

// HistoryEntry projects a completed batch onto its audit summary.
func (b *ImportBatch) HistoryEntry() ImportHistoryEntry {
	return ImportHistoryEntry{
		ImportID:          b.ImportID,
		FileName:          b.SourceFileName,
		FileType:          string(b.DetectedFormat),
		AccountID:         b.AccountID,
		TotalTransactions: b.Total,
		ImportedCount:     b.ImportedCount,
		SkippedCount:      b.SkippedCount,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
		CompletedAt:       b.CompletedAt,
	}
}

// ImportHistoryEntry is the durable summary of a completed import.
type ImportHistoryEntry struct {
	ImportID          string       `json:"import_id"`
	FileName          string       `json:"file_name"`
	FileType          string       `json:"file_type"`
	AccountID         string       `json:"account_id"`
	TotalTransactions int          `json:"total_transactions"`
	ImportedCount     int          `json:"imported_count"`
	SkippedCount      int          `json:"skipped_count"`
	Status            ImportStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	CompletedAt       time.Time    `json:"completed_at"`
}

// ConfirmResult is returned by a confirm call.
type ConfirmResult struct {
	ImportID      string     `json:"import_id"`
	ImportedCount int        `json:"imported_count"`
	SkippedCount  int        `json:"skipped_count"`
	Errors        []RowError `json:"errors,omitempty"`
}
