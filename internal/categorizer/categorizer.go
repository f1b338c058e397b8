// Package categorizer suggests a category for a transaction. Tiers are
// evaluated in a fixed order (learned words, merchant patterns, keyword
// patterns, an optional AI client, amount buckets) and the first hit wins;
// a fixed default category closes the chain. Positive amounts are matched
// against income categories only and everything else against expense
// categories only.
package categorizer

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/shopspring/decimal"
)

// Default fallbacks when no tier matches.
const (
	DefaultExpenseCategory = "cat_needs_groceries"
	DefaultIncomeCategory  = "cat_income_salary"
	DefaultConfidence      = 0.3
)

// Options tunes the categorizer.
type Options struct {
	DefaultExpenseCategory string
	DefaultIncomeCategory  string
	LearnedMinExamples     int
	LearnedMaxWords        int
	AIConfidence           float64
	AITimeout              time.Duration
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		DefaultExpenseCategory: DefaultExpenseCategory,
		DefaultIncomeCategory:  DefaultIncomeCategory,
		LearnedMinExamples:     DefaultLearnedMinExamples,
		LearnedMaxWords:        DefaultLearnedMaxWords,
		AIConfidence:           DefaultAIConfidence,
	}
}

// Categorizer runs the categorization tiers.
type Categorizer struct {
	strategies []CategorizationStrategy
	categories []models.CategoryConfig
	taxonomy   Taxonomy
	opts       Options
	logger     logging.Logger
}

// NewCategorizer loads the rule tables from rules and builds the tier
// chain. taxonomy and aiClient may be nil.
func NewCategorizer(rules RuleSource, taxonomy Taxonomy, aiClient AIClient, opts Options, logger logging.Logger) (*Categorizer, error) {
	logger = logging.OrDefault(logger)
	if opts.DefaultExpenseCategory == "" {
		opts.DefaultExpenseCategory = DefaultExpenseCategory
	}
	if opts.DefaultIncomeCategory == "" {
		opts.DefaultIncomeCategory = DefaultIncomeCategory
	}

	cfg, err := rules.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categorization rules: %w", err)
	}

	merchant, err := NewMerchantStrategy(cfg.Categories, logger)
	if err != nil {
		return nil, err
	}
	keyword, err := NewKeywordStrategy(cfg.Categories, logger)
	if err != nil {
		return nil, err
	}
	learned := NewLearnedStrategy(opts.LearnedMinExamples, opts.LearnedMaxWords, logger)

	strategies := []CategorizationStrategy{learned, merchant, keyword}
	if aiClient != nil {
		strategies = append(strategies, NewAIStrategy(aiClient, cfg.Categories, opts.AIConfidence, opts.AITimeout, logger))
	}
	strategies = append(strategies, NewAmountStrategy(cfg.AmountRules))

	logger.Debug("Categorizer initialized",
		logging.F("categories", len(cfg.Categories)),
		logging.F("amount_rules", len(cfg.AmountRules)),
		logging.F("ai_enabled", aiClient != nil))

	return &Categorizer{
		strategies: strategies,
		categories: cfg.Categories,
		taxonomy:   taxonomy,
		opts:       opts,
		logger:     logger,
	}, nil
}

// WithHistory returns a categorizer whose learned tier is built from
// records. c is left unchanged, so concurrent imports each categorize
// against their own ledger snapshot.
func (c *Categorizer) WithHistory(records []models.Record) *Categorizer {
	learned := NewLearnedStrategy(c.opts.LearnedMinExamples, c.opts.LearnedMaxWords, c.logger)
	learned.Learn(records)

	strategies := make([]CategorizationStrategy, len(c.strategies))
	copy(strategies, c.strategies)
	for i, s := range strategies {
		if s.Name() == TierLearned {
			strategies[i] = learned
		}
	}

	out := *c
	out.strategies = strategies
	return &out
}

// CategorizeWithHistory learns from records and categorizes txs in place
// without touching the shared learned tier.
func (c *Categorizer) CategorizeWithHistory(ctx context.Context, records []models.Record, txs []models.ParsedTransaction) {
	c.WithHistory(records).CategorizeTransactions(ctx, txs)
}

// Categories returns the configured categories.
func (c *Categorizer) Categories() []models.CategoryConfig {
	return c.categories
}

// Categorize returns the suggestion for one transaction.
func (c *Categorizer) Categorize(ctx context.Context, description string, amount decimal.Decimal) models.Suggestion {
	suggestion, _ := c.Explain(ctx, description, amount)
	return suggestion
}

// Explain is Categorize plus the outcome of every tier that ran.
func (c *Categorizer) Explain(ctx context.Context, description string, amount decimal.Decimal) (models.Suggestion, StrategyResults) {
	in := NewInput(description, amount)
	if c.taxonomy != nil {
		in.Allowed = c.taxonomy.Lookup
	}

	var results StrategyResults
	for _, s := range c.strategies {
		suggestion, found, err := s.Categorize(ctx, in)
		results.Results = append(results.Results, StrategyResult{
			Strategy:   s.Name(),
			Suggestion: suggestion,
			Found:      found,
			Error:      err,
		})
		if err != nil {
			c.logger.WithError(err).Warn("Categorization strategy failed",
				logging.F(logging.FieldStrategy, s.Name()))
			continue
		}
		if found {
			return suggestion, results
		}
	}

	fallback := models.Suggestion{
		CategoryID: c.opts.DefaultExpenseCategory,
		Confidence: DefaultConfidence,
		Tier:       TierDefault,
	}
	if in.Kind == models.KindIncome {
		fallback.CategoryID = c.opts.DefaultIncomeCategory
	}
	if !in.Allows(fallback.CategoryID) {
		c.logger.Warn("Default category is not in the taxonomy",
			logging.F(logging.FieldCategory, fallback.CategoryID))
	}
	results.Results = append(results.Results, StrategyResult{Strategy: TierDefault, Suggestion: fallback, Found: true})
	return fallback, results
}

// CategorizeTransactions sets the suggestion and confidence of every
// transaction in place.
func (c *Categorizer) CategorizeTransactions(ctx context.Context, txs []models.ParsedTransaction) {
	for i := range txs {
		s := c.Categorize(ctx, txs[i].Description, txs[i].Amount)
		txs[i].CategorySuggestion = s.CategoryID
		txs[i].CategoryConfidence = s.Confidence
	}
}
