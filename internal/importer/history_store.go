package importer

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// DefaultHistoryFile is the history file name used when none is configured.
const DefaultHistoryFile = "import_history.csv"

// HistoryStore is the append-only audit trail of completed imports.
type HistoryStore interface {
	Append(entry models.ImportHistoryEntry) error
	// List returns entries newest first; limit <= 0 returns all of them.
	List(limit int) ([]models.ImportHistoryEntry, error)
	Get(importID string) (models.ImportHistoryEntry, bool, error)
}

func sortAndLimit(entries []models.ImportHistoryEntry, limit int) []models.ImportHistoryEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// MemoryHistoryStore keeps history in process memory.
type MemoryHistoryStore struct {
	mu      sync.RWMutex
	entries []models.ImportHistoryEntry
}

// NewMemoryHistoryStore creates an empty history.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{}
}

// Append implements HistoryStore.
func (s *MemoryHistoryStore) Append(entry models.ImportHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// List implements HistoryStore.
func (s *MemoryHistoryStore) List(limit int) ([]models.ImportHistoryEntry, error) {
	s.mu.RLock()
	entries := append([]models.ImportHistoryEntry(nil), s.entries...)
	s.mu.RUnlock()
	return sortAndLimit(entries, limit), nil
}

// Get implements HistoryStore.
func (s *MemoryHistoryStore) Get(importID string) (models.ImportHistoryEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ImportID == importID {
			return e, true, nil
		}
	}
	return models.ImportHistoryEntry{}, false, nil
}

// historyRow is the on-disk shape of a history entry.
type historyRow struct {
	ImportID          string `csv:"import_id"`
	FileName          string `csv:"file_name"`
	FileType          string `csv:"file_type"`
	AccountID         string `csv:"account_id"`
	TotalTransactions int    `csv:"total_transactions"`
	ImportedCount     int    `csv:"imported_count"`
	SkippedCount      int    `csv:"skipped_count"`
	Status            string `csv:"status"`
	CreatedAt         string `csv:"created_at"`
	CompletedAt       string `csv:"completed_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %s: %w", field, strconv.Quote(value), err)
	}
	return t, nil
}

// CSVHistoryStore appends history entries to a CSV file.
type CSVHistoryStore struct {
	mu     sync.Mutex
	path   string
	logger logging.Logger
}

// NewCSVHistoryStore creates a history backed by path.
func NewCSVHistoryStore(path string, logger logging.Logger) *CSVHistoryStore {
	if path == "" {
		path = DefaultHistoryFile
	}
	return &CSVHistoryStore{path: path, logger: logging.OrDefault(logger)}
}

// Append implements HistoryStore.
func (s *CSVHistoryStore) Append(e models.ImportHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := historyRow{
		ImportID:          e.ImportID,
		FileName:          e.FileName,
		FileType:          e.FileType,
		AccountID:         e.AccountID,
		TotalTransactions: e.TotalTransactions,
		ImportedCount:     e.ImportedCount,
		SkippedCount:      e.SkippedCount,
		Status:            string(e.Status),
		CreatedAt:         formatTime(e.CreatedAt),
		CompletedAt:       formatTime(e.CompletedAt),
	}
	if err := common.AppendCSVFile(s.path, []historyRow{row}, s.logger); err != nil {
		return fmt.Errorf("failed to append import history: %w", err)
	}
	return nil
}

func (s *CSVHistoryStore) readAll() ([]models.ImportHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := common.ReadCSVFile[historyRow](s.path, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read import history: %w", err)
	}
	entries := make([]models.ImportHistoryEntry, 0, len(rows))
	for _, r := range rows {
		created, err := parseTime("created_at", r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", r.ImportID, err)
		}
		completed, err := parseTime("completed_at", r.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", r.ImportID, err)
		}
		entries = append(entries, models.ImportHistoryEntry{
			ImportID:          r.ImportID,
			FileName:          r.FileName,
			FileType:          r.FileType,
			AccountID:         r.AccountID,
			TotalTransactions: r.TotalTransactions,
			ImportedCount:     r.ImportedCount,
			SkippedCount:      r.SkippedCount,
			Status:            models.ImportStatus(r.Status),
			CreatedAt:         created,
			CompletedAt:       completed,
		})
	}
	return entries, nil
}

// List implements HistoryStore.
func (s *CSVHistoryStore) List(limit int) ([]models.ImportHistoryEntry, error) {
	entries, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return sortAndLimit(entries, limit), nil
}

// Get implements HistoryStore.
func (s *CSVHistoryStore) Get(importID string) (models.ImportHistoryEntry, bool, error) {
	entries, err := s.readAll()
	if err != nil {
		return models.ImportHistoryEntry{}, false, err
	}
	for _, e := range entries {
		if e.ImportID == importID {
			return e, true, nil
		}
	}
	return models.ImportHistoryEntry{}, false, nil
}
