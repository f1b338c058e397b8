package categorizer

import (
	"context"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// AIRequest is what an AI client sees of a transaction.
type AIRequest struct {
	Description string
	Amount      decimal.Decimal
	Kind        models.CategoryKind
	Candidates  []models.CategoryConfig
}

// AIClient defines the interface for AI-based categorization services.
// This abstraction allows the core categorization logic to be tested independently
// of external API calls.
type AIClient interface {
	// SuggestCategory returns the identifier of one of req.Candidates, or ""
	// when the service has no opinion.
	SuggestCategory(ctx context.Context, req AIRequest) (string, error)
}
