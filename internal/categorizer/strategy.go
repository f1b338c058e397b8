package categorizer

import (
	"context"
	"strings"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// Tier names, in evaluation order.
const (
	TierLearned  = "learned"
	TierMerchant = "merchant"
	TierKeyword  = "keyword"
	TierAI       = "ai"
	TierAmount   = "amount"
	TierDefault  = "default"
)

// Input is the view of a transaction the strategies work on.
type Input struct {
	Description string // lower-cased
	Amount      decimal.Decimal
	Kind        models.CategoryKind

	// Allowed filters candidate categories; nil allows all of them.
	Allowed func(categoryID string) bool
}

// Allows reports whether categoryID may be suggested.
func (in Input) Allows(categoryID string) bool {
	return in.Allowed == nil || in.Allowed(categoryID)
}

// NewInput builds the strategy input for a description and a signed amount.
// Positive amounts are income; everything else is an expense.
func NewInput(description string, amount decimal.Decimal) Input {
	kind := models.KindExpense
	if amount.IsPositive() {
		kind = models.KindIncome
	}
	return Input{
		Description: strings.ToLower(strings.TrimSpace(description)),
		Amount:      amount,
		Kind:        kind,
	}
}

// CategorizationStrategy is one tier of the categorizer. Strategies are
// evaluated in priority order and the first hit wins.
type CategorizationStrategy interface {
	// Categorize returns a suggestion and true on a hit. An error means the
	// strategy could not run; the categorizer moves on to the next tier.
	Categorize(ctx context.Context, in Input) (models.Suggestion, bool, error)

	// Name returns the tier name used in suggestions and logs.
	Name() string
}
