package ledger

import (
	"fmt"
	"sync"
	"time"

	"fjacquet/statement-import/internal/common"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultLedgerFile is the file name used when none is configured.
const DefaultLedgerFile = "transactions.csv"

// csvRecord is the on-disk shape of a record.
type csvRecord struct {
	ID          string `csv:"id"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	CategoryID  string `csv:"category_id"`
	AccountID   string `csv:"account_id"`
	Type        string `csv:"type"`
	Source      string `csv:"source"`
	ExternalID  string `csv:"external_id"`
	CreatedAt   string `csv:"created_at"`
}

const csvDateLayout = "2006-01-02"

func toCSV(r models.Record) csvRecord {
	return csvRecord{
		ID:          r.ID,
		Date:        r.Date.Format(csvDateLayout),
		Description: r.Description,
		Amount:      r.Amount.StringFixed(2),
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Type:        string(r.Type),
		Source:      r.Source,
		ExternalID:  r.ExternalID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

func fromCSV(c csvRecord) (models.Record, error) {
	date, err := time.Parse(csvDateLayout, c.Date)
	if err != nil {
		return models.Record{}, fmt.Errorf("record %s: invalid date %q: %w", c.ID, c.Date, err)
	}
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return models.Record{}, fmt.Errorf("record %s: invalid amount %q: %w", c.ID, c.Amount, err)
	}
	r := models.Record{
		ID:          c.ID,
		Date:        date,
		Description: c.Description,
		Amount:      amount,
		CategoryID:  c.CategoryID,
		AccountID:   c.AccountID,
		Type:        models.TransactionType(c.Type),
		Source:      c.Source,
		ExternalID:  c.ExternalID,
	}
	if c.CreatedAt != "" {
		if r.CreatedAt, err = time.Parse(time.RFC3339, c.CreatedAt); err != nil {
			return models.Record{}, fmt.Errorf("record %s: invalid created_at %q: %w", c.ID, c.CreatedAt, err)
		}
	}
	return r, nil
}

// CSVStore is an append-only ledger kept in a CSV file. The file is read on
// first use and each Append writes one line.
type CSVStore struct {
	path   string
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	loaded  bool
	records []models.Record
	ids     map[string]struct{}
}

// NewCSVStore creates a ledger backed by path.
func NewCSVStore(path string, logger logging.Logger) *CSVStore {
	if path == "" {
		path = DefaultLedgerFile
	}
	return &CSVStore{path: path, logger: logging.OrDefault(logger), now: time.Now}
}

// Path returns the ledger file.
func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) load() error {
	if s.loaded {
		return nil
	}
	rows, err := common.ReadCSVFile[csvRecord](s.path, s.logger)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}
	records := make([]models.Record, 0, len(rows))
	ids := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		r, err := fromCSV(row)
		if err != nil {
			return fmt.Errorf("failed to read ledger %s: %w", s.path, err)
		}
		records = append(records, r)
		ids[r.ID] = struct{}{}
	}
	s.records, s.ids, s.loaded = records, ids, true
	s.logger.Debug("Loaded ledger",
		logging.F(logging.FieldFile, s.path),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// Append implements Store.
func (s *CSVStore) Append(r models.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return "", err
	}

	r = prepare(r, s.now())
	if _, ok := s.ids[r.ID]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	if err := common.AppendCSVFile(s.path, []csvRecord{toCSV(r)}, s.logger); err != nil {
		return "", fmt.Errorf("failed to append to ledger: %w", err)
	}
	s.ids[r.ID] = struct{}{}
	s.records = append(s.records, r)
	return r.ID, nil
}

// List implements Store.
func (s *CSVStore) List() ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]models.Record(nil), s.records...), nil
}

// Exists implements Store.
func (s *CSVStore) Exists(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(); err != nil {
		return false, err
	}
	_, ok := s.ids[id]
	return ok, nil
}
