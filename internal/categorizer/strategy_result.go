package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/models"
)

// StrategyResult records one tier attempt.
type StrategyResult struct {
	Strategy   string
	Suggestion models.Suggestion
	Found      bool
	Error      error
}

// StrategyResults aggregates the tier attempts of one categorization.
type StrategyResults struct {
	Results []StrategyResult
}

// GetBestResult returns the first accepted hit.
func (sr StrategyResults) GetBestResult() (models.Suggestion, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r.Suggestion, true
		}
	}
	return models.Suggestion{}, false
}

// GetErrors returns all errors encountered during strategy execution.
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, r := range sr.Results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", r.Strategy, r.Error))
		}
	}
	return errs
}

// Summary returns a human-readable summary of all strategy attempts.
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		status := "no_match"
		switch {
		case r.Error != nil:
			status = "failed"
		case r.Found:
			status = "success"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
