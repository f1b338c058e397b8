package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient implements AIClient with the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGeminiClient connects to Gemini with apiKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0)
	return &GeminiClient{client: client, model: m, logger: logging.OrDefault(logger)}, nil
}

// SuggestCategory asks the model to choose one candidate identifier.
func (c *GeminiClient) SuggestCategory(ctx context.Context, req AIRequest) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	answer := parseAnswer(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	c.logger.Debug("Gemini suggested category",
		logging.F(logging.FieldOperation, "gemini_categorization"),
		logging.F(logging.FieldCategory, answer))
	return answer, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func buildPrompt(req AIRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Categorize this bank statement transaction.\nDescription: %s\nAmount: %s\nType: %s\n\n",
		req.Description, req.Amount.StringFixed(2), req.Kind)
	b.WriteString("Choose exactly one category id from this list:\n")
	for _, c := range req.Candidates {
		fmt.Fprintf(&b, "- %s (%s)\n", c.ID, c.Name)
	}
	b.WriteString("\nRespond with the category id only, in this format:\nCategory: <id>")
	return b.String()
}

// parseAnswer extracts the id from "Category: <id>" or a bare id.
func parseAnswer(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Category:"); ok {
			return strings.Trim(strings.TrimSpace(rest), "`\"'[]")
		}
	}
	return strings.Trim(strings.TrimSpace(response), "`\"'[]")
}
