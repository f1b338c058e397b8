package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/pdfparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAI struct{ answer string }

func (s stubAI) SuggestCategory(context.Context, categorizer.AIRequest) (string, error) {
	return s.answer, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg := &config.Config{
		Log:  config.LogConfig{Level: "info", Format: "text"},
		Data: config.DataConfig{Directory: t.TempDir(), LedgerFile: "transactions.csv", HistoryFile: "import_history.csv", PendingFile: "pending.db"},
		Import: config.ImportConfig{
			MappingThreshold:   80,
			DuplicateThreshold: 85,
			AmountTolerance:    0.01,
			Encodings:          []string{"utf-8"},
			SniffBytes:         1024,
			PendingStore:       "memory",
		},
		Categorization: config.CategorizationConfig{RulesFile: "categories.yaml", LearnedMinExamples: 2, LearnedMaxWords: 10},
		AI:             config.AIConfig{TimeoutSeconds: 30, Confidence: 0.5},
	}
	cfg.Profiles.File = "bank_profiles.yaml"
	cfg.Ledger.Backend = "csv"
	return cfg
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainer_Wiring(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewMockLogger()

	c, err := NewContainer(cfg, WithLogger(logger))
	require.NoError(t, err)
	defer func() { assert.NoError(t, c.Close()) }()

	assert.Same(t, cfg, c.GetConfig())
	assert.Same(t, logger, c.GetLogger())
	assert.NotNil(t, c.GetStore())
	assert.NotNil(t, c.GetCategorizer())
	assert.NotNil(t, c.GetLedger())
	assert.NotNil(t, c.GetOrchestrator())
	assert.NotNil(t, c.GetBatchRunner())
	assert.Nil(t, c.GetAIClient())
	assert.ElementsMatch(t, []models.Format{
		models.FormatDelimited, models.FormatSpreadsheet, models.FormatTextLayout, models.FormatStructured,
	}, c.GetRegistry().Formats())
	assert.True(t, logger.HasEntry("INFO", "AI categorization disabled"))
	assert.True(t, logger.HasEntry("INFO", "Container initialized successfully"))
}

func TestNewContainer_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	content := []byte("Date,Description,Amount\n2024-01-15,Woolworths Food,-250.00\n2024-01-16,Salary ACME,15000.00\n")
	batch, err := c.GetOrchestrator().Stage(context.Background(), content, "statement.csv", "acc_1", true)
	require.NoError(t, err)
	require.Len(t, batch.Transactions, 2)

	result, err := c.GetOrchestrator().Confirm(context.Background(), batch.ImportID, true, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ImportedCount)

	records, err := c.GetLedger().List()
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.FileExists(t, filepath.Join(cfg.Data.Directory, "transactions.csv"))
	assert.FileExists(t, filepath.Join(cfg.Data.Directory, "import_history.csv"))
}

func TestNewContainer_BoltPendingStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Import.PendingStore = "bolt"
	cfg.Ledger.Backend = "memory"

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.Data.Directory, "pending.db"))
	require.NoError(t, c.Close())
}

func TestNewContainer_AIClient(t *testing.T) {
	cfg := testConfig(t)
	logger := logging.NewMockLogger()

	c, err := NewContainer(cfg, WithLogger(logger), WithAIClient(stubAI{answer: "cat_needs_transport"}),
		WithPDFExtractor(pdfparser.NewMockPDFExtractor("", nil)))
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.NotNil(t, c.GetAIClient())
	assert.True(t, logger.HasEntry("INFO", "AI categorization enabled"))
}

func TestNewContainer_AIEnabledWithoutKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true

	_, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	assert.Error(t, err)
}

func TestNewContainer_InvalidRules(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile("categories.yaml", []byte("categories: [unclosed"), 0600))

	_, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorization rules")
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
