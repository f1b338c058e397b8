package categorizer

import (
	"context"
	"fmt"
	"regexp"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// Default confidences of the pattern tiers.
const (
	MerchantConfidence = 0.9
	KeywordConfidence  = 0.6
)

type compiledRule struct {
	categoryID string
	source     string
	re         *regexp.Regexp
}

// PatternStrategy matches case-insensitive regular expressions against the
// description. One instance serves merchant patterns and another serves
// keyword patterns; rules keep the order of the category table.
type PatternStrategy struct {
	name       string
	confidence float64
	rules      map[models.CategoryKind][]compiledRule
	logger     logging.Logger
}

// NewMerchantStrategy compiles the Merchants lists of categories.
func NewMerchantStrategy(categories []models.CategoryConfig, logger logging.Logger) (*PatternStrategy, error) {
	return newPatternStrategy(TierMerchant, MerchantConfidence, categories,
		func(c models.CategoryConfig) []string { return c.Merchants }, logger)
}

// NewKeywordStrategy compiles the Keywords lists of categories.
func NewKeywordStrategy(categories []models.CategoryConfig, logger logging.Logger) (*PatternStrategy, error) {
	return newPatternStrategy(TierKeyword, KeywordConfidence, categories,
		func(c models.CategoryConfig) []string { return c.Keywords }, logger)
}

func newPatternStrategy(name string, confidence float64, categories []models.CategoryConfig,
	patterns func(models.CategoryConfig) []string, logger logging.Logger) (*PatternStrategy, error) {
	s := &PatternStrategy{
		name:       name,
		confidence: confidence,
		rules:      make(map[models.CategoryKind][]compiledRule),
		logger:     logging.OrDefault(logger),
	}
	for _, cat := range categories {
		kind := cat.Kind
		if kind == "" {
			kind = models.KindExpense
		}
		for _, p := range patterns(cat) {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("invalid %s pattern %q for category %s: %w", name, p, cat.ID, err)
			}
			s.rules[kind] = append(s.rules[kind], compiledRule{categoryID: cat.ID, source: p, re: re})
		}
	}
	return s, nil
}

// Name returns the tier name.
func (s *PatternStrategy) Name() string {
	return s.name
}

// Categorize returns the first rule of the transaction's kind that matches.
func (s *PatternStrategy) Categorize(_ context.Context, in Input) (models.Suggestion, bool, error) {
	if in.Description == "" {
		return models.Suggestion{}, false, nil
	}
	for _, rule := range s.rules[in.Kind] {
		if in.Allows(rule.categoryID) && rule.re.MatchString(in.Description) {
			s.logger.Debug("Pattern matched",
				logging.F(logging.FieldStrategy, s.name),
				logging.F("pattern", rule.source),
				logging.F(logging.FieldCategory, rule.categoryID))
			return models.Suggestion{
				CategoryID: rule.categoryID,
				Confidence: s.confidence,
				Tier:       s.name,
				Rule:       rule.source,
			}, true, nil
		}
	}
	return models.Suggestion{}, false, nil
}
