package categorizer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/textutils"
)

// Learned pattern defaults.
const (
	LearnedConfidence         = 0.85
	DefaultLearnedMinExamples = 2
	DefaultLearnedMaxWords    = 10
)

type learnedPattern struct {
	categoryID string
	words      []string
}

// LearnedStrategy matches words taken from the descriptions of records the
// user already categorized. A category needs minExamples records before its
// words are used; each category keeps its maxWords most frequent words.
type LearnedStrategy struct {
	mu          sync.RWMutex
	patterns    map[models.CategoryKind][]learnedPattern
	minExamples int
	maxWords    int
	logger      logging.Logger
}

// NewLearnedStrategy creates an empty learned strategy.
func NewLearnedStrategy(minExamples, maxWords int, logger logging.Logger) *LearnedStrategy {
	if minExamples <= 0 {
		minExamples = DefaultLearnedMinExamples
	}
	if maxWords <= 0 {
		maxWords = DefaultLearnedMaxWords
	}
	return &LearnedStrategy{
		patterns:    make(map[models.CategoryKind][]learnedPattern),
		minExamples: minExamples,
		maxWords:    maxWords,
		logger:      logging.OrDefault(logger),
	}
}

// Name returns the tier name.
func (s *LearnedStrategy) Name() string {
	return TierLearned
}

// Learn rebuilds the patterns from records. Income and expense records are
// learned separately. Records without a category and records written by a
// confirmed import are ignored: only categories a user chose are learned.
func (s *LearnedStrategy) Learn(records []models.Record) {
	type bucket struct {
		examples int
		counts   map[string]int
	}
	buckets := map[models.CategoryKind]map[string]*bucket{
		models.KindIncome:  {},
		models.KindExpense: {},
	}

	for _, r := range records {
		if r.CategoryID == "" || strings.TrimSpace(r.Description) == "" {
			continue
		}
		if r.Source == models.LedgerSourceImport {
			continue
		}
		kind := models.KindExpense
		if r.Amount.IsPositive() {
			kind = models.KindIncome
		}
		b := buckets[kind][r.CategoryID]
		if b == nil {
			b = &bucket{counts: make(map[string]int)}
			buckets[kind][r.CategoryID] = b
		}
		b.examples++
		for _, w := range textutils.MeaningfulWords(r.Description) {
			b.counts[w]++
		}
	}

	patterns := make(map[models.CategoryKind][]learnedPattern, len(buckets))
	learned := 0
	for kind, byCategory := range buckets {
		ids := make([]string, 0, len(byCategory))
		for id := range byCategory {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			b := byCategory[id]
			if b.examples < s.minExamples || len(b.counts) == 0 {
				continue
			}
			words := make([]string, 0, len(b.counts))
			for w := range b.counts {
				words = append(words, w)
			}
			sort.Slice(words, func(i, j int) bool {
				if b.counts[words[i]] != b.counts[words[j]] {
					return b.counts[words[i]] > b.counts[words[j]]
				}
				return words[i] < words[j]
			})
			if len(words) > s.maxWords {
				words = words[:s.maxWords]
			}
			patterns[kind] = append(patterns[kind], learnedPattern{categoryID: id, words: words})
			learned++
		}
	}

	s.mu.Lock()
	s.patterns = patterns
	s.mu.Unlock()

	s.logger.Debug("Learned categorization patterns",
		logging.F("records", len(records)),
		logging.F(logging.FieldCount, learned))
}

// Categorize returns the first learned category with a word contained in
// the description.
func (s *LearnedStrategy) Categorize(_ context.Context, in Input) (models.Suggestion, bool, error) {
	if in.Description == "" {
		return models.Suggestion{}, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.patterns[in.Kind] {
		if !in.Allows(p.categoryID) {
			continue
		}
		for _, w := range p.words {
			if strings.Contains(in.Description, w) {
				return models.Suggestion{
					CategoryID: p.categoryID,
					Confidence: LearnedConfidence,
					Tier:       TierLearned,
					Rule:       w,
				}, true, nil
			}
		}
	}
	return models.Suggestion{}, false, nil
}

// Patterns returns the learned words per category for kind.
func (s *LearnedStrategy) Patterns(kind models.CategoryKind) map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.patterns[kind]))
	for _, p := range s.patterns[kind] {
		out[p.categoryID] = append([]string(nil), p.words...)
	}
	return out
}
