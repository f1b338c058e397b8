// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "STMT"

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DataConfig locates the files the importer writes.
type DataConfig struct {
	Directory   string `mapstructure:"directory" yaml:"directory"`
	LedgerFile  string `mapstructure:"ledger_file" yaml:"ledger_file"`
	HistoryFile string `mapstructure:"history_file" yaml:"history_file"`
	PendingFile string `mapstructure:"pending_file" yaml:"pending_file"`
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	MappingThreshold     float64       `mapstructure:"mapping_threshold" yaml:"mapping_threshold"`
	DuplicateThreshold   float64       `mapstructure:"duplicate_threshold" yaml:"duplicate_threshold"`
	AmountTolerance      float64       `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
	Encodings            []string      `mapstructure:"encodings" yaml:"encodings"`
	SniffBytes           int           `mapstructure:"sniff_bytes" yaml:"sniff_bytes"`
	ConcurrencyThreshold int           `mapstructure:"concurrency_threshold" yaml:"concurrency_threshold"`
	PendingStore         string        `mapstructure:"pending_store" yaml:"pending_store"`
	PendingTTL           time.Duration `mapstructure:"pending_ttl" yaml:"pending_ttl"`
	HistoryLimit         int           `mapstructure:"history_limit" yaml:"history_limit"`
}

// CategorizationConfig configures the categorizer.
type CategorizationConfig struct {
	RulesFile              string `mapstructure:"rules_file" yaml:"rules_file"`
	DefaultExpenseCategory string `mapstructure:"default_expense_category" yaml:"default_expense_category"`
	DefaultIncomeCategory  string `mapstructure:"default_income_category" yaml:"default_income_category"`
	LearnedMinExamples     int    `mapstructure:"learned_min_examples" yaml:"learned_min_examples"`
	LearnedMaxWords        int    `mapstructure:"learned_max_words" yaml:"learned_max_words"`
}

// AIConfig configures the optional Gemini categorization tier.
type AIConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	Model          string  `mapstructure:"model" yaml:"model"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Confidence     float64 `mapstructure:"confidence" yaml:"confidence"`
	APIKey         string  `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Data           DataConfig           `mapstructure:"data" yaml:"data"`
	Import         ImportConfig         `mapstructure:"import" yaml:"import"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	AI             AIConfig             `mapstructure:"ai" yaml:"ai"`

	Profiles struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"profiles" yaml:"profiles"`

	Ledger struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
	} `mapstructure:"ledger" yaml:"ledger"`

	PDF struct {
		UsePdftotext bool `mapstructure:"use_pdftotext" yaml:"use_pdftotext"`
	} `mapstructure:"pdf" yaml:"pdf"`
}

// DataPath resolves name inside the data directory. Absolute names are
// returned unchanged.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) || c.Data.Directory == "" {
		return name
	}
	return filepath.Join(c.Data.Directory, name)
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then the config file, then STMT_* environment variables. An
// empty configFile searches config.yaml in the standard locations.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-import")
		v.AddConfigPath(".statement-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if !errors.As(err, &notFound) {
			logrus.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key is read from the unprefixed variable
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		logrus.Warnf("Failed to bind GEMINI_API_KEY environment variable: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "data")
	v.SetDefault("data.ledger_file", "transactions.csv")
	v.SetDefault("data.history_file", "import_history.csv")
	v.SetDefault("data.pending_file", "pending.db")

	v.SetDefault("import.mapping_threshold", 80.0)
	v.SetDefault("import.duplicate_threshold", 85.0)
	v.SetDefault("import.amount_tolerance", 0.01)
	v.SetDefault("import.encodings", []string{"utf-8", "windows-1252", "iso-8859-1"})
	v.SetDefault("import.sniff_bytes", 1024)
	v.SetDefault("import.concurrency_threshold", 100)
	v.SetDefault("import.pending_store", "bolt")
	v.SetDefault("import.pending_ttl", "0s")
	v.SetDefault("import.history_limit", 50)

	v.SetDefault("categorization.rules_file", "categories.yaml")
	v.SetDefault("categorization.default_expense_category", "cat_needs_groceries")
	v.SetDefault("categorization.default_income_category", "cat_income_salary")
	v.SetDefault("categorization.learned_min_examples", 2)
	v.SetDefault("categorization.learned_max_words", 10)

	v.SetDefault("profiles.file", "bank_profiles.yaml")
	v.SetDefault("ledger.backend", "csv")
	v.SetDefault("pdf.use_pdftotext", true)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-1.5-flash")
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.confidence", 0.5)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if t := config.Import.MappingThreshold; t < 0 || t > 100 {
		return fmt.Errorf("import.mapping_threshold must be between 0 and 100, got: %g", t)
	}
	if t := config.Import.DuplicateThreshold; t < 0 || t > 100 {
		return fmt.Errorf("import.duplicate_threshold must be between 0 and 100, got: %g", t)
	}
	if config.Import.AmountTolerance < 0 {
		return fmt.Errorf("import.amount_tolerance must not be negative, got: %g", config.Import.AmountTolerance)
	}
	if config.Import.PendingTTL < 0 {
		return fmt.Errorf("import.pending_ttl must not be negative, got: %s", config.Import.PendingTTL)
	}
	switch config.Import.PendingStore {
	case "memory", "bolt":
	default:
		return fmt.Errorf("import.pending_store must be 'memory' or 'bolt', got: %s", config.Import.PendingStore)
	}
	switch config.Ledger.Backend {
	case "csv", "memory":
	default:
		return fmt.Errorf("ledger.backend must be 'csv' or 'memory', got: %s", config.Ledger.Backend)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
		if config.AI.Confidence < 0 || config.AI.Confidence > 1 {
			return fmt.Errorf("ai.confidence must be between 0.0 and 1.0, got: %g", config.AI.Confidence)
		}
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
