package categorizer

import (
	"context"
	"strings"
	"time"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// DefaultAIConfidence is the confidence given to AI suggestions.
const DefaultAIConfidence = 0.5

// AIStrategy implements categorization using AI services.
// It uses the AIClient interface to interact with external AI services.
type AIStrategy struct {
	aiClient   AIClient
	categories []models.CategoryConfig
	confidence float64
	timeout    time.Duration
	logger     logging.Logger
}

// NewAIStrategy creates a new AIStrategy. A confidence <= 0 selects
// DefaultAIConfidence; a zero timeout means no timeout beyond ctx.
func NewAIStrategy(aiClient AIClient, categories []models.CategoryConfig, confidence float64, timeout time.Duration, logger logging.Logger) *AIStrategy {
	if confidence <= 0 {
		confidence = DefaultAIConfidence
	}
	return &AIStrategy{
		aiClient:   aiClient,
		categories: categories,
		confidence: confidence,
		timeout:    timeout,
		logger:     logging.OrDefault(logger),
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return TierAI
}

// Categorize asks the AI client to pick one of the categories of the
// transaction's kind. Client failures are logged and treated as no match.
func (s *AIStrategy) Categorize(ctx context.Context, in Input) (models.Suggestion, bool, error) {
	if s.aiClient == nil || strings.TrimSpace(in.Description) == "" {
		return models.Suggestion{}, false, nil
	}

	var candidates []models.CategoryConfig
	for _, c := range s.categories {
		if (c.Kind == in.Kind || (c.Kind == "" && in.Kind == models.KindExpense)) && in.Allows(c.ID) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return models.Suggestion{}, false, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger := s.logger.WithFields(
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F("description", in.Description),
	)
	categoryID, err := s.aiClient.SuggestCategory(ctx, AIRequest{
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Candidates:  candidates,
	})
	if err != nil {
		logger.WithError(err).Warn("AI categorization failed")
		return models.Suggestion{}, false, nil
	}

	categoryID = strings.TrimSpace(categoryID)
	for _, c := range candidates {
		if c.ID == categoryID {
			logger.Debug("Transaction categorized using AI", logging.F(logging.FieldCategory, categoryID))
			return models.Suggestion{
				CategoryID: categoryID,
				Confidence: s.confidence,
				Tier:       TierAI,
			}, true, nil
		}
	}

	logger.Debug("AI returned no usable category", logging.F("ai_category", categoryID))
	return models.Suggestion{}, false, nil
}
