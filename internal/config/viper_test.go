package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no STMT_* variables.
func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"STMT_LOG_LEVEL", "STMT_LOG_FORMAT", "STMT_DATA_DIRECTORY",
		"STMT_IMPORT_DUPLICATE_THRESHOLD", "STMT_IMPORT_ENCODINGS", "STMT_IMPORT_PENDING_STORE",
		"STMT_IMPORT_PENDING_TTL", "STMT_AI_ENABLED", "STMT_LEDGER_BACKEND", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "data", config.Data.Directory)
	assert.Equal(t, "transactions.csv", config.Data.LedgerFile)
	assert.Equal(t, "import_history.csv", config.Data.HistoryFile)
	assert.Equal(t, "pending.db", config.Data.PendingFile)
	assert.Equal(t, 80.0, config.Import.MappingThreshold)
	assert.Equal(t, 85.0, config.Import.DuplicateThreshold)
	assert.Equal(t, 0.01, config.Import.AmountTolerance)
	assert.Equal(t, []string{"utf-8", "windows-1252", "iso-8859-1"}, config.Import.Encodings)
	assert.Equal(t, 1024, config.Import.SniffBytes)
	assert.Equal(t, 100, config.Import.ConcurrencyThreshold)
	assert.Equal(t, "bolt", config.Import.PendingStore)
	assert.Zero(t, config.Import.PendingTTL)
	assert.Equal(t, 50, config.Import.HistoryLimit)
	assert.Equal(t, "categories.yaml", config.Categorization.RulesFile)
	assert.Equal(t, "cat_needs_groceries", config.Categorization.DefaultExpenseCategory)
	assert.Equal(t, "cat_income_salary", config.Categorization.DefaultIncomeCategory)
	assert.Equal(t, 2, config.Categorization.LearnedMinExamples)
	assert.Equal(t, 10, config.Categorization.LearnedMaxWords)
	assert.Equal(t, "bank_profiles.yaml", config.Profiles.File)
	assert.Equal(t, "csv", config.Ledger.Backend)
	assert.True(t, config.PDF.UsePdftotext)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, 0.5, config.AI.Confidence)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("STMT_LOG_LEVEL", "debug")
	t.Setenv("STMT_LOG_FORMAT", "json")
	t.Setenv("STMT_IMPORT_DUPLICATE_THRESHOLD", "90")
	t.Setenv("STMT_IMPORT_ENCODINGS", "utf-8,iso-8859-1")
	t.Setenv("STMT_IMPORT_PENDING_STORE", "memory")
	t.Setenv("STMT_IMPORT_PENDING_TTL", "30m")
	t.Setenv("STMT_AI_ENABLED", "true")
	t.Setenv("GEMINI_API_KEY", "test-api-key")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 90.0, config.Import.DuplicateThreshold)
	assert.Equal(t, []string{"utf-8", "iso-8859-1"}, config.Import.Encodings)
	assert.Equal(t, "memory", config.Import.PendingStore)
	assert.Equal(t, 30*time.Minute, config.Import.PendingTTL)
	assert.True(t, config.AI.Enabled)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

const fileConfig = `
log:
  level: warn
data:
  directory: /var/lib/stmt
import:
  duplicate_threshold: 88
ledger:
  backend: memory
`

func TestInitializeConfig_ConfigFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte(fileConfig), 0600))
	t.Setenv("STMT_LOG_LEVEL", "error")

	config, err := InitializeConfig("")
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level, "environment wins over the file")
	assert.Equal(t, "/var/lib/stmt", config.Data.Directory)
	assert.Equal(t, 88.0, config.Import.DuplicateThreshold)
	assert.Equal(t, "memory", config.Ledger.Backend)
	assert.Equal(t, 80.0, config.Import.MappingThreshold, "defaults fill the rest")
}

func TestInitializeConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fileConfig), 0600))

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Log.Level)

	_, err = InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_Invalid(t *testing.T) {
	isolate(t)
	t.Setenv("STMT_LEDGER_BACKEND", "postgres")

	_, err := InitializeConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.backend")
}

func validConfig() *Config {
	c := &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Import: ImportConfig{MappingThreshold: 80, DuplicateThreshold: 85, AmountTolerance: 0.01, PendingStore: "memory"},
		AI:     AIConfig{TimeoutSeconds: 30, Confidence: 0.5},
	}
	c.Ledger.Backend = "csv"
	return c
}

func TestValidateConfig(t *testing.T) {
	require.NoError(t, validateConfig(validConfig()))

	tests := []struct {
		name        string
		modify      func(*Config)
		expectError string
	}{
		{"invalid log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
		{"mapping threshold", func(c *Config) { c.Import.MappingThreshold = 101 }, "import.mapping_threshold"},
		{"duplicate threshold", func(c *Config) { c.Import.DuplicateThreshold = -1 }, "import.duplicate_threshold"},
		{"negative tolerance", func(c *Config) { c.Import.AmountTolerance = -0.01 }, "import.amount_tolerance"},
		{"negative ttl", func(c *Config) { c.Import.PendingTTL = -time.Second }, "import.pending_ttl"},
		{"pending store", func(c *Config) { c.Import.PendingStore = "redis" }, "import.pending_store"},
		{"ledger backend", func(c *Config) { c.Ledger.Backend = "sqlite" }, "ledger.backend"},
		{"AI without key", func(c *Config) { c.AI.Enabled = true }, "GEMINI_API_KEY required"},
		{"AI timeout", func(c *Config) { c.AI.Enabled, c.AI.APIKey, c.AI.TimeoutSeconds = true, "k", 0 }, "ai.timeout_seconds"},
		{"AI confidence", func(c *Config) { c.AI.Enabled, c.AI.APIKey, c.AI.Confidence = true, "k", 2 }, "ai.confidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)
			err := validateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestDataPath(t *testing.T) {
	c := validConfig()
	c.Data.Directory = "data"
	assert.Equal(t, filepath.Join("data", "ledger.csv"), c.DataPath("ledger.csv"))
	assert.Equal(t, "/abs/ledger.csv", c.DataPath("/abs/ledger.csv"))
	c.Data.Directory = ""
	assert.Equal(t, "ledger.csv", c.DataPath("ledger.csv"))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	c := validConfig()
	c.Log = LogConfig{Level: "debug", Format: "json"}
	logger := ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	c.Log = LogConfig{Level: "nonsense", Format: "text"}
	logger = ConfigureLoggingFromConfig(c)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLoadEnvFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("STMT_TEST_FROM_DOTENV=yes\n"), 0600))
	t.Setenv("STMT_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("STMT_TEST_FROM_DOTENV"))

	assert.Equal(t, ".env", loadEnvFile("missing.env", ".env"))
	assert.Equal(t, "yes", GetEnv("STMT_TEST_FROM_DOTENV", "no"))
	assert.Equal(t, "fallback", GetEnv("STMT_TEST_UNSET", "fallback"))
	assert.Equal(t, "", loadEnvFile("nothing-here.env"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory for the duration of the test and restores it after.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
