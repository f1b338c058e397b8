package categorizer

import (
	"context"
	"fmt"

	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// AmountStrategy buckets expenses by absolute amount. Rules are checked in
// order; income is never bucketed.
type AmountStrategy struct {
	rules []models.AmountRuleConfig
}

// NewAmountStrategy creates an amount strategy from rules.
func NewAmountStrategy(rules []models.AmountRuleConfig) *AmountStrategy {
	return &AmountStrategy{rules: rules}
}

// Name returns the tier name.
func (s *AmountStrategy) Name() string {
	return TierAmount
}

// Categorize implements CategorizationStrategy.
func (s *AmountStrategy) Categorize(_ context.Context, in Input) (models.Suggestion, bool, error) {
	if in.Kind != models.KindExpense {
		return models.Suggestion{}, false, nil
	}
	abs := in.Amount.Abs()
	for _, r := range s.rules {
		if !in.Allows(r.Category) {
			continue
		}
		var rule string
		switch {
		case r.Above != nil && abs.GreaterThan(decimal.NewFromFloat(*r.Above)):
			rule = fmt.Sprintf("> %g", *r.Above)
		case r.Below != nil && abs.LessThan(decimal.NewFromFloat(*r.Below)):
			rule = fmt.Sprintf("< %g", *r.Below)
		default:
			continue
		}
		return models.Suggestion{
			CategoryID: r.Category,
			Confidence: r.Confidence,
			Tier:       TierAmount,
			Rule:       rule,
		}, true, nil
	}
	return models.Suggestion{}, false, nil
}
