package store

import (
	"strings"

	"fjacquet/statement-import/internal/models"
)

// MockRuleStore is an in-memory rule and profile source for tests.
type MockRuleStore struct {
	Config   models.CategoriesConfig
	Profiles []models.BankProfile

	LoadCategoriesError error
}

// NewMockRuleStore returns a mock holding the built-in rules and profiles.
func NewMockRuleStore() *MockRuleStore {
	return &MockRuleStore{Config: DefaultCategories(), Profiles: DefaultBankProfiles()}
}

// LoadCategories returns the mock rules.
func (m *MockRuleStore) LoadCategories() (models.CategoriesConfig, error) {
	if m.LoadCategoriesError != nil {
		return models.CategoriesConfig{}, m.LoadCategoriesError
	}
	return m.Config, nil
}

// ListProfiles returns the mock profiles.
func (m *MockRuleStore) ListProfiles() []models.BankProfile {
	return m.Profiles
}

// GetProfile returns the mock profile called name.
func (m *MockRuleStore) GetProfile(name string) (models.BankProfile, bool) {
	for _, p := range m.Profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.BankProfile{}, false
}
