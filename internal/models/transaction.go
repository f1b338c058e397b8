package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is the canonical candidate transaction produced by the
// normalizer and enriched by the categorizer and the deduplicator.
type ParsedTransaction struct {
	Date               time.Time        `json:"date"`
	Description        string           `json:"description"`
	Amount             decimal.Decimal  `json:"amount"`
	Balance            *decimal.Decimal `json:"balance,omitempty"`
	ExternalID         string           `json:"external_id,omitempty"`
	Type               TransactionType  `json:"type"`
	CategorySuggestion string           `json:"category_suggestion,omitempty"`
	CategoryConfidence float64          `json:"category_confidence"`
	IsDuplicate        bool             `json:"is_duplicate"`
	AccountID          string           `json:"account_id"`
	SourceRow          int              `json:"source_row"`
}

// TypeForAmount returns income for positive amounts and expense otherwise.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsPositive() {
		return TypeIncome
	}
	return TypeExpense
}

// ConfidenceLabel returns the display label for the category confidence.
func (t ParsedTransaction) ConfidenceLabel() string {
	return ConfidenceLabel(t.CategoryConfidence)
}

// ConfidenceLabel maps a confidence score to High, Medium or Low.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "High"
	case confidence >= 0.5:
		return "Medium"
	default:
		return "Low"
	}
}
