// Package ledger provides the record store that confirmed imports are
// committed to and the category taxonomy used to validate suggestions.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-import/internal/models"

	"github.com/google/uuid"
)

// ErrDuplicateID is returned when a record is appended with an ID that is
// already stored.
var ErrDuplicateID = errors.New("record id already exists")

// Store is the ledger collaborator of the import workflow.
type Store interface {
	// Append stores r and returns its ID. An empty ID is generated.
	Append(r models.Record) (string, error)
	// List returns every stored record in insertion order.
	List() ([]models.Record, error)
	// Exists reports whether a record with id is stored.
	Exists(id string) (bool, error)
}

// NewRecordID returns an ID of the form tx_<yyyymmdd>_<hhmmss>_<8 hex>.
func NewRecordID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("tx_%s_%s", now.Format("20060102_150405"), suffix)
}

// prepare fills the generated fields of r.
func prepare(r models.Record, now time.Time) models.Record {
	if r.ID == "" {
		r.ID = NewRecordID(now)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.Type == "" {
		r.Type = models.TypeForAmount(r.Amount)
	}
	return r
}
