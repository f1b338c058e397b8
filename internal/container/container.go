// Package container provides dependency injection for the statement importer.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/statement-import/internal/batch"
	"fjacquet/statement-import/internal/categorizer"
	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/csvparser"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/ledger"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/mapper"
	"fjacquet/statement-import/internal/normalizer"
	"fjacquet/statement-import/internal/ofxparser"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/pdfparser"
	"fjacquet/statement-import/internal/sheetparser"
	"fjacquet/statement-import/internal/store"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	aiClient    categorizer.AIClient
	categorizer *categorizer.Categorizer
	registry    *parser.Registry
	ledger      ledger.Store
	pending     importer.PendingStore

	orchestrator *importer.Orchestrator
	runner       *batch.Runner

	closers []io.Closer
}

// Option customizes a container under construction.
type Option func(*options)

type options struct {
	logger       logging.Logger
	pdfExtractor pdfparser.PDFExtractor
	aiClient     categorizer.AIClient
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPDFExtractor replaces the PDF text extractor.
func WithPDFExtractor(e pdfparser.PDFExtractor) Option {
	return func(o *options) { o.pdfExtractor = e }
}

// WithAIClient replaces the Gemini client. The client is used even when
// AI categorization is disabled in the configuration.
func WithAIClient(c categorizer.AIClient) Option {
	return func(o *options) { o.aiClient = c }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	c := &Container{logger: logger, config: cfg}

	c.store = store.NewRuleStore(cfg.Categorization.RulesFile, cfg.Profiles.File, logger)
	rules, err := c.store.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categorization rules: %w", err)
	}

	c.aiClient = o.aiClient
	if c.aiClient == nil && cfg.AI.Enabled {
		gemini, err := categorizer.NewGeminiClient(context.Background(), cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
		c.aiClient = gemini
		c.closers = append(c.closers, gemini)
	}
	if c.aiClient != nil {
		logger.Info("AI categorization enabled")
	} else {
		logger.Info("AI categorization disabled")
	}

	c.categorizer, err = categorizer.NewCategorizer(c.store, ledger.TaxonomyFromCategories(rules), c.aiClient, categorizer.Options{
		DefaultExpenseCategory: cfg.Categorization.DefaultExpenseCategory,
		DefaultIncomeCategory:  cfg.Categorization.DefaultIncomeCategory,
		LearnedMinExamples:     cfg.Categorization.LearnedMinExamples,
		LearnedMaxWords:        cfg.Categorization.LearnedMaxWords,
		AIConfidence:           cfg.AI.Confidence,
		AITimeout:              time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		c.closeAll()
		return nil, err
	}

	pdfExtractor := o.pdfExtractor
	if pdfExtractor == nil {
		pdfExtractor = pdfparser.NewDefaultExtractor(cfg.PDF.UsePdftotext, logger)
	}
	c.registry = parser.NewRegistry(
		csvparser.NewExtractor(logger, cfg.Import.Encodings, cfg.Import.SniffBytes),
		sheetparser.NewExtractor(logger),
		pdfparser.NewExtractor(logger, pdfExtractor),
		ofxparser.NewExtractor(logger),
	)

	if err := c.openStores(); err != nil {
		c.closeAll()
		return nil, err
	}

	c.orchestrator, err = importer.NewOrchestrator(importer.Config{
		Registry:           c.registry,
		Mapper:             mapper.NewMapper(logger, c.store, cfg.Import.MappingThreshold),
		Normalizer:         normalizer.NewNormalizer(logger, cfg.Import.ConcurrencyThreshold),
		Categorizer:        c.categorizer,
		Ledger:             c.ledger,
		Pending:            c.pending,
		History:            importer.NewCSVHistoryStore(cfg.DataPath(cfg.Data.HistoryFile), logger),
		DuplicateThreshold: cfg.Import.DuplicateThreshold,
		AmountTolerance:    decimal.NewFromFloat(cfg.Import.AmountTolerance),
		Logger:             logger,
	})
	if err != nil {
		c.closeAll()
		return nil, err
	}
	c.runner = batch.NewRunner(c.orchestrator, logger)

	logger.Info("Container initialized successfully",
		logging.F("formats", len(c.registry.Formats())),
		logging.F("ledger_backend", cfg.Ledger.Backend),
		logging.F("pending_store", cfg.Import.PendingStore))

	return c, nil
}

func (c *Container) openStores() error {
	cfg := c.config
	switch cfg.Ledger.Backend {
	case "memory":
		c.ledger = ledger.NewMemoryStore()
	default:
		c.ledger = ledger.NewCSVStore(cfg.DataPath(cfg.Data.LedgerFile), c.logger)
	}

	switch cfg.Import.PendingStore {
	case "bolt":
		path := cfg.DataPath(cfg.Data.PendingFile)
		if err := fileutils.EnsureParentDirectory(path); err != nil {
			return err
		}
		bolt, err := importer.OpenBoltPendingStore(path)
		if err != nil {
			return fmt.Errorf("failed to open pending store: %w", err)
		}
		c.pending = bolt
		c.closers = append(c.closers, bolt)
	default:
		c.pending = importer.NewMemoryPendingStore(cfg.Import.PendingTTL)
	}
	return nil
}

func (c *Container) closeAll() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule and profile store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetAIClient returns the container's AI client instance.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() categorizer.AIClient {
	return c.aiClient
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetRegistry returns the extractor registry.
func (c *Container) GetRegistry() *parser.Registry {
	return c.registry
}

// GetLedger returns the ledger store.
func (c *Container) GetLedger() ledger.Store {
	return c.ledger
}

// GetOrchestrator returns the import orchestrator.
func (c *Container) GetOrchestrator() *importer.Orchestrator {
	return c.orchestrator
}

// GetBatchRunner returns the directory import runner.
func (c *Container) GetBatchRunner() *batch.Runner {
	return c.runner
}

// Close releases the pending store and the AI client.
func (c *Container) Close() error {
	err := c.closeAll()
	c.logger.Info("Container closed")
	return err
}
