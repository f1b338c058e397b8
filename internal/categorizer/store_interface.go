package categorizer

import "fjacquet/statement-import/internal/models"

// RuleSource provides the category rule tables.
type RuleSource interface {
	LoadCategories() (models.CategoriesConfig, error)
}

// Taxonomy validates category identifiers.
type Taxonomy interface {
	Lookup(categoryID string) bool
}
