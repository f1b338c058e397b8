package ledger

import (
	"fjacquet/statement-import/internal/models"
)

// StaticTaxonomy is a fixed set of known category identifiers.
type StaticTaxonomy map[string]struct{}

// NewTaxonomy creates a taxonomy holding ids.
func NewTaxonomy(ids ...string) StaticTaxonomy {
	t := make(StaticTaxonomy, len(ids))
	for _, id := range ids {
		t[id] = struct{}{}
	}
	return t
}

// TaxonomyFromCategories collects the ids of the configured categories and
// of the amount rule targets.
func TaxonomyFromCategories(cfg models.CategoriesConfig) StaticTaxonomy {
	t := make(StaticTaxonomy, len(cfg.Categories))
	for _, c := range cfg.Categories {
		t[c.ID] = struct{}{}
	}
	for _, r := range cfg.AmountRules {
		t[r.Category] = struct{}{}
	}
	return t
}

// Lookup reports whether id is a known category.
func (t StaticTaxonomy) Lookup(id string) bool {
	_, ok := t[id]
	return ok
}

// Add registers more ids.
func (t StaticTaxonomy) Add(ids ...string) {
	for _, id := range ids {
		t[id] = struct{}{}
	}
}
