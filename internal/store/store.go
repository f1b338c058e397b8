// Package store loads the categorization rules and bank profiles from YAML
// files, falling back to built-in defaults when a file is absent.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"gopkg.in/yaml.v3"
)

// Default file names.
const (
	DefaultCategoriesFile = "categories.yaml"
	DefaultProfilesFile   = "bank_profiles.yaml"
)

// RuleStore manages loading of category rules and bank profiles.
type RuleStore struct {
	CategoriesFile string
	ProfilesFile   string
	logger         logging.Logger

	profilesOnce sync.Once
	profiles     []models.BankProfile
	profilesErr  error
}

// NewRuleStore creates a store for the given files. Empty names select the
// default file names.
func NewRuleStore(categoriesFile, profilesFile string, logger logging.Logger) *RuleStore {
	if categoriesFile == "" {
		categoriesFile = DefaultCategoriesFile
	}
	if profilesFile == "" {
		profilesFile = DefaultProfilesFile
	}
	return &RuleStore{
		CategoriesFile: categoriesFile,
		ProfilesFile:   profilesFile,
		logger:         logging.OrDefault(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".statement-import", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// readConfig returns the content of filename, or nil when it cannot be found.
func (s *RuleStore) readConfig(filename string) ([]byte, string, error) {
	path, err := FindConfigFile(filename)
	if err != nil {
		return nil, "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, path, nil
}

// LoadCategories loads the category rules. A missing file yields the
// built-in defaults; a file without amount_rules gets the default buckets.
func (s *RuleStore) LoadCategories() (models.CategoriesConfig, error) {
	data, path, err := s.readConfig(s.CategoriesFile)
	if err != nil {
		return models.CategoriesConfig{}, err
	}
	if data == nil {
		s.logger.Debug("Categories file not found, using built-in rules",
			logging.F(logging.FieldFile, s.CategoriesFile))
		return DefaultCategories(), nil
	}

	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil || len(cfg.Categories) == 0 {
		// a bare list of categories without the top-level key
		var categories []models.CategoryConfig
		if listErr := yaml.Unmarshal(data, &categories); listErr != nil {
			if err == nil {
				err = listErr
			}
			return models.CategoriesConfig{}, fmt.Errorf("error parsing categories file %s: %w", path, err)
		}
		cfg = models.CategoriesConfig{Categories: categories}
	}

	if err := validateCategories(cfg.Categories); err != nil {
		return models.CategoriesConfig{}, fmt.Errorf("invalid categories file %s: %w", path, err)
	}
	if cfg.AmountRules == nil {
		cfg.AmountRules = DefaultAmountRules()
	}

	s.logger.Debug("Loaded categories",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(cfg.Categories)))
	return cfg, nil
}

func validateCategories(categories []models.CategoryConfig) error {
	seen := make(map[string]bool, len(categories))
	for i := range categories {
		c := &categories[i]
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("category %d has no id", i+1)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate category id %s", c.ID)
		}
		seen[c.ID] = true
		switch c.Kind {
		case "":
			c.Kind = models.KindExpense
		case models.KindIncome, models.KindExpense:
		default:
			return fmt.Errorf("category %s has unknown kind %q", c.ID, c.Kind)
		}
	}
	return nil
}

// LoadBankProfiles loads the bank profiles. A missing file yields the
// built-in profiles.
func (s *RuleStore) LoadBankProfiles() ([]models.BankProfile, error) {
	data, path, err := s.readConfig(s.ProfilesFile)
	if err != nil {
		return nil, err
	}
	if data == nil {
		s.logger.Debug("Bank profiles file not found, using built-in profiles",
			logging.F(logging.FieldFile, s.ProfilesFile))
		return DefaultBankProfiles(), nil
	}

	var cfg models.BankProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing bank profiles file %s: %w", path, err)
	}
	for i, p := range cfg.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("bank profile %d in %s has no name", i+1, path)
		}
	}
	s.logger.Debug("Loaded bank profiles",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(cfg.Profiles)))
	return cfg.Profiles, nil
}

func (s *RuleStore) loadProfiles() []models.BankProfile {
	s.profilesOnce.Do(func() {
		s.profiles, s.profilesErr = s.LoadBankProfiles()
		if s.profilesErr != nil {
			s.logger.WithError(s.profilesErr).Warn("Failed to load bank profiles, using built-in profiles")
			s.profiles = DefaultBankProfiles()
		}
	})
	return s.profiles
}

// ListProfiles returns the configured bank profiles.
func (s *RuleStore) ListProfiles() []models.BankProfile {
	return append([]models.BankProfile(nil), s.loadProfiles()...)
}

// GetProfile returns the profile called name, compared case-insensitively.
func (s *RuleStore) GetProfile(name string) (models.BankProfile, bool) {
	for _, p := range s.loadProfiles() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return models.BankProfile{}, false
}
