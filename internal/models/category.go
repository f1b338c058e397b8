package models

// CategoryKind separates income categories from expense categories.
type CategoryKind string

const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
)

// CategoryConfig is one category entry of categories.yaml. Merchants and
// Keywords are case-insensitive regular expressions.
type CategoryConfig struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Kind      CategoryKind `yaml:"kind"`
	Merchants []string     `yaml:"merchants,omitempty"`
	Keywords  []string     `yaml:"keywords,omitempty"`
}

// AmountRuleConfig buckets expenses by absolute amount. Exactly one of Above
// or Below is set.
type AmountRuleConfig struct {
	Above      *float64 `yaml:"above,omitempty"`
	Below      *float64 `yaml:"below,omitempty"`
	Category   string   `yaml:"category"`
	Confidence float64  `yaml:"confidence"`
}

// CategoriesConfig is the structure of categories.yaml.
type CategoriesConfig struct {
	Categories  []CategoryConfig   `yaml:"categories"`
	AmountRules []AmountRuleConfig `yaml:"amount_rules"`
}

// Suggestion is a categorizer verdict.
type Suggestion struct {
	CategoryID string  `json:"category_id"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Rule       string  `json:"rule,omitempty"`
}

// Label returns the confidence label of the suggestion.
func (s Suggestion) Label() string {
	return ConfidenceLabel(s.Confidence)
}
