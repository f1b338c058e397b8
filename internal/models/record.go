package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a committed ledger transaction.
type Record struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"category_id"`
	AccountID   string          `json:"account_id"`
	Type        TransactionType `json:"type"`
	Source      string          `json:"source"`
	ExternalID  string          `json:"external_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RecordFromTransaction builds the ledger record persisted on confirm.
func RecordFromTransaction(tx ParsedTransaction) Record {
	typ := tx.Type
	if typ == "" {
		typ = TypeForAmount(tx.Amount)
	}
	return Record{
		Date:        tx.Date,
		Description: tx.Description,
		Amount:      tx.Amount,
		CategoryID:  tx.CategorySuggestion,
		AccountID:   tx.AccountID,
		Type:        typ,
		Source:      LedgerSourceImport,
		ExternalID:  tx.ExternalID,
	}
}
