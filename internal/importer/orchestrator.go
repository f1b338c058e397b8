// Package importer composes the import pipeline into the two-phase
// stage/confirm workflow and keeps the pending batches and the history.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/statement-import/internal/dedup"
	"fjacquet/statement-import/internal/format"
	"fjacquet/statement-import/internal/ledger"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/mapper"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/normalizer"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionCategorizer is the part of the categorizer used while staging.
// records is the ledger snapshot of the current stage.
type TransactionCategorizer interface {
	CategorizeWithHistory(ctx context.Context, records []models.Record, txs []models.ParsedTransaction)
}

// Config wires the collaborators of an Orchestrator. Registry and Ledger are
// required; the other fields have in-memory or default fallbacks.
type Config struct {
	Registry    *parser.Registry
	Mapper      *mapper.Mapper
	Normalizer  *normalizer.Normalizer
	Categorizer TransactionCategorizer
	Ledger      ledger.Store
	Pending     PendingStore
	History     HistoryStore

	DuplicateThreshold float64
	AmountTolerance    decimal.Decimal
	Logger             logging.Logger
}

// Orchestrator runs stage, preview, confirm and history.
type Orchestrator struct {
	registry    *parser.Registry
	mapper      *mapper.Mapper
	normalizer  *normalizer.Normalizer
	categorizer TransactionCategorizer
	ledger      ledger.Store
	pending     PendingStore
	history     HistoryStore

	dupThreshold float64
	tolerance    decimal.Decimal
	logger       logging.Logger
	locks        *keyedMutex
	now          func() time.Time
}

// NewOrchestrator validates cfg and creates an orchestrator.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Registry == nil {
		return nil, errors.New("extractor registry is required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("ledger store is required")
	}
	logger := logging.OrDefault(cfg.Logger)

	o := &Orchestrator{
		registry:     cfg.Registry,
		mapper:       cfg.Mapper,
		normalizer:   cfg.Normalizer,
		categorizer:  cfg.Categorizer,
		ledger:       cfg.Ledger,
		pending:      cfg.Pending,
		history:      cfg.History,
		dupThreshold: cfg.DuplicateThreshold,
		tolerance:    cfg.AmountTolerance,
		logger:       logger,
		locks:        newKeyedMutex(),
		now:          time.Now,
	}
	if o.mapper == nil {
		o.mapper = mapper.NewMapper(logger, nil, 0)
	}
	if o.normalizer == nil {
		o.normalizer = normalizer.NewNormalizer(logger, 0)
	}
	if o.pending == nil {
		o.pending = NewMemoryPendingStore(0)
	}
	if o.history == nil {
		o.history = NewMemoryHistoryStore()
	}
	if o.tolerance.IsZero() {
		o.tolerance = decimal.RequireFromString(dedup.DefaultTolerance)
	}
	return o, nil
}

// DetectFormat returns the extraction strategy for fileName.
func (o *Orchestrator) DetectFormat(fileName string) (models.Format, error) {
	return format.Detect(fileName)
}

// Stage extracts, maps, normalizes, categorizes and deduplicates content
// and stores the result as a pending batch. The ledger is read once, before
// any transaction is compared with it; staging never writes to it.
func (o *Orchestrator) Stage(ctx context.Context, content []byte, fileName, accountID string, autoCategorize bool, opts ...StageOption) (*models.ImportBatch, error) {
	start := o.now()
	var so stageOptions
	for _, opt := range opts {
		opt(&so)
	}
	name := filepath.Base(fileName)
	logger := o.logger.WithFields(
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldAccountID, accountID))

	f, err := format.DetectContent(fileName, content)
	if err != nil {
		return nil, err
	}
	logger.Info("Staging statement", logging.F(logging.FieldFormat, f))

	extractor, err := o.registry.GetExtractor(f)
	if err != nil {
		return nil, err
	}
	ex, err := extractor.Extract(ctx, content, name)
	if err != nil {
		return nil, err
	}

	mapping, err := o.resolveMapping(ex, so)
	if err != nil {
		logger.WithError(err).Warn("Column mapping failed")
		return nil, err
	}
	logger.Debug("Resolved column mapping",
		logging.F(logging.FieldProfile, mapping.Profile),
		logging.F("date_column", mapping.Date),
		logging.F("description_column", mapping.Description))

	result, err := o.normalizer.Normalize(ctx, ex, mapping, accountID)
	if err != nil {
		return nil, err
	}
	if len(result.Transactions) == 0 {
		return nil, &parsererror.NoTransactionsFoundError{FileName: name, RowErrors: len(result.Errors)}
	}

	records, err := o.ledger.List()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	txs := result.Transactions
	if autoCategorize && o.categorizer != nil {
		o.categorizer.CategorizeWithHistory(ctx, records, txs)
	}
	duplicates := dedup.NewDeduplicator(records, o.dupThreshold, o.tolerance, logger).Flag(txs)

	batch := &models.ImportBatch{
		ImportID:       "imp_" + uuid.NewString(),
		SourceFileName: name,
		DetectedFormat: f,
		AccountID:      accountID,
		Mapping:        mapping,
		Transactions:   txs,
		Total:          len(txs),
		New:            len(txs) - duplicates,
		Duplicates:     duplicates,
		Status:         models.StatusPending,
		CreatedAt:      o.now(),
		RowErrors:      result.Errors,
	}
	if err := o.pending.Put(batch); err != nil {
		return nil, fmt.Errorf("failed to store pending import: %w", err)
	}

	logger.Info("Staged import",
		logging.F(logging.FieldImportID, batch.ImportID),
		logging.F(logging.FieldCount, batch.Total),
		logging.F(logging.FieldDuplicates, duplicates),
		logging.F("row_errors", len(result.Errors)),
		logging.F(logging.FieldDuration, o.now().Sub(start).Milliseconds()))
	return batch.Clone(), nil
}

func (o *Orchestrator) resolveMapping(ex *models.Extraction, so stageOptions) (models.ColumnMapping, error) {
	// fixed-layout extractors know their columns
	if ex.Mapping != nil {
		return *ex.Mapping, nil
	}
	return o.mapper.Resolve(ex.Header, mapper.Request{Explicit: so.mapping, Profile: so.profile})
}

// GetPreview returns a copy of a pending batch.
func (o *Orchestrator) GetPreview(importID string) (*models.ImportBatch, error) {
	unlock := o.locks.lock(importID)
	defer unlock()

	batch, ok, err := o.pending.Get(importID)
	if err != nil {
		return nil, err
	}
	if !ok || batch.IsCompleted() {
		return nil, &parsererror.ImportNotFoundError{ImportID: importID}
	}
	return batch, nil
}

// Confirm commits the selected transactions of a pending batch to the
// ledger. A nil selected means every transaction; out-of-range and repeated
// indices are ignored. With skipDuplicates, flagged transactions are left
// out. A row the ledger rejects is reported in the result and does not stop
// the others. The batch is completed exactly once: it is stored as
// completed before any row is written, and Confirm fails without writing
// when that is not possible.
func (o *Orchestrator) Confirm(ctx context.Context, importID string, skipDuplicates bool, selected []int) (*models.ConfirmResult, error) {
	unlock := o.locks.lock(importID)
	defer unlock()

	batch, ok, err := o.pending.Get(importID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, done, herr := o.history.Get(importID); herr == nil && done {
			return nil, &parsererror.AlreadyProcessedError{ImportID: importID}
		}
		return nil, &parsererror.ImportNotFoundError{ImportID: importID}
	}
	if batch.IsCompleted() {
		return nil, &parsererror.AlreadyProcessedError{ImportID: importID}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := o.logger.WithFields(
		logging.F(logging.FieldImportID, importID),
		logging.F(logging.FieldAccountID, batch.AccountID))

	// The batch is marked completed before the first ledger write. If that
	// cannot be stored nothing is committed and the import stays pending.
	batch.Status = models.StatusCompleted
	batch.CompletedAt = o.now()
	if err := o.pending.Put(batch); err != nil {
		logger.WithError(err).Error("Failed to mark import as completed")
		return nil, fmt.Errorf("failed to mark import %s as completed: %w", importID, err)
	}

	result := &models.ConfirmResult{ImportID: importID}
	for _, i := range selection(len(batch.Transactions), selected) {
		tx := batch.Transactions[i]
		if skipDuplicates && tx.IsDuplicate {
			continue
		}
		if _, err := o.ledger.Append(models.RecordFromTransaction(tx)); err != nil {
			perr := &parsererror.PersistError{Index: i, Description: tx.Description, Err: err}
			logger.WithError(err).Error("Failed to persist transaction", logging.F(logging.FieldRow, i))
			result.Errors = append(result.Errors, models.RowError{
				Row:     i,
				Value:   tx.Description,
				Message: perr.Error(),
			})
			continue
		}
		result.ImportedCount++
	}
	result.SkippedCount = len(batch.Transactions) - result.ImportedCount

	batch.ImportedCount = result.ImportedCount
	batch.SkippedCount = result.SkippedCount
	batch.ConfirmErrors = result.Errors
	if err := o.pending.Put(batch); err != nil {
		// the stored batch is already completed; only the counts are stale
		logger.WithError(err).Warn("Failed to store import counts")
	}

	if err := o.history.Append(batch.HistoryEntry()); err != nil {
		// the completed batch stays in the pending store so a second
		// confirm is still rejected
		logger.WithError(err).Error("Failed to record import history")
	} else if err := o.pending.Delete(importID); err != nil {
		logger.WithError(err).Warn("Failed to discard completed import")
	}

	logger.Info("Confirmed import",
		logging.F("imported", result.ImportedCount),
		logging.F("skipped", result.SkippedCount),
		logging.F("errors", len(result.Errors)))
	return result, nil
}

// selection returns the sorted, distinct, in-range indices of selected, or
// every index when selected is nil.
func selection(n int, selected []int) []int {
	if selected == nil {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	seen := make(map[int]bool, len(selected))
	out := make([]int, 0, len(selected))
	for _, i := range selected {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// History returns the most recent completed imports, newest first.
func (o *Orchestrator) History(limit int) ([]models.ImportHistoryEntry, error) {
	return o.history.List(limit)
}
