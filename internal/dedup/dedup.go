// Package dedup flags staged transactions that likely duplicate records
// already in the ledger.
package dedup

import (
	"strings"

	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/textutils"

	"github.com/shopspring/decimal"
)

// Matching defaults.
const (
	DefaultThreshold = 85.0
	DefaultTolerance = "0.01"
)

// Match describes why a transaction was flagged.
type Match struct {
	RecordID   string
	Similarity float64
}

// Deduplicator compares transactions against a snapshot of ledger records
// taken once per import. Records are bucketed by calendar day so each lookup
// only scans the records of one date.
type Deduplicator struct {
	byDay     map[string][]models.Record
	size      int
	threshold float64
	tolerance decimal.Decimal
	logger    logging.Logger
}

// NewDeduplicator builds a deduplicator over records. A threshold <= 0 or a
// negative tolerance selects the defaults.
func NewDeduplicator(records []models.Record, threshold float64, tolerance decimal.Decimal, logger logging.Logger) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if tolerance.IsNegative() {
		tolerance = decimal.RequireFromString(DefaultTolerance)
	}
	d := &Deduplicator{
		byDay:     make(map[string][]models.Record),
		threshold: threshold,
		tolerance: tolerance,
		logger:    logging.OrDefault(logger),
	}
	for _, r := range records {
		if strings.TrimSpace(r.Description) == "" {
			continue
		}
		key := dateutils.ToISODate(r.Date)
		d.byDay[key] = append(d.byDay[key], r)
		d.size++
	}
	return d
}

// Size returns the number of records in the snapshot.
func (d *Deduplicator) Size() int {
	return d.size
}

// Find returns the first record matching tx. A record matches when it falls
// on the same day, its amount is within the tolerance and the case-folded
// description similarity reaches the threshold.
func (d *Deduplicator) Find(tx models.ParsedTransaction) (Match, bool) {
	if strings.TrimSpace(tx.Description) == "" {
		return Match{}, false
	}
	for _, r := range d.byDay[dateutils.ToISODate(tx.Date)] {
		if !currencyutils.WithinTolerance(tx.Amount, r.Amount, d.tolerance) {
			continue
		}
		if score := textutils.FoldedRatio(tx.Description, r.Description); score >= d.threshold {
			return Match{RecordID: r.ID, Similarity: score}, true
		}
	}
	return Match{}, false
}

// IsDuplicate reports whether tx matches any record.
func (d *Deduplicator) IsDuplicate(tx models.ParsedTransaction) bool {
	_, ok := d.Find(tx)
	return ok
}

// Flag sets IsDuplicate on every transaction and returns the number flagged.
func (d *Deduplicator) Flag(txs []models.ParsedTransaction) int {
	flagged := 0
	for i := range txs {
		m, ok := d.Find(txs[i])
		txs[i].IsDuplicate = ok
		if !ok {
			continue
		}
		flagged++
		d.logger.Debug("Flagged duplicate transaction",
			logging.F(logging.FieldRow, txs[i].SourceRow),
			logging.F("record_id", m.RecordID),
			logging.F("similarity", m.Similarity))
	}
	d.logger.Info("Duplicate detection finished",
		logging.F(logging.FieldCount, len(txs)),
		logging.F(logging.FieldDuplicates, flagged),
		logging.F("ledger_records", d.size))
	return flagged
}
