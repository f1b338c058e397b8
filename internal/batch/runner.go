package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/format"
	"fjacquet/statement-import/internal/importer"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
)

// Importer is the part of the import orchestrator the runner drives.
type Importer interface {
	Stage(ctx context.Context, content []byte, fileName, accountID string, autoCategorize bool, opts ...importer.StageOption) (*models.ImportBatch, error)
	Confirm(ctx context.Context, importID string, skipDuplicates bool, selected []int) (*models.ConfirmResult, error)
}

// FileResult is the outcome of importing one file.
type FileResult struct {
	File      string
	AccountID string
	ImportID  string
	DateRange DateRange
	Imported  int
	Skipped   int
	RowErrors int
	Err       error
}

// Summary aggregates the results of a directory import.
type Summary struct {
	Files    []FileResult
	Imported int
	Skipped  int
	Failed   int
	Ranges   map[string]DateRange
}

// Runner stages and confirms every supported statement of a directory.
type Runner struct {
	importer   Importer
	aggregator *Aggregator
	logger     logging.Logger

	AutoCategorize bool
	SkipDuplicates bool
	StageOptions   []importer.StageOption
}

// NewRunner creates a runner that categorizes and skips duplicates.
func NewRunner(imp Importer, logger logging.Logger) *Runner {
	logger = logging.OrDefault(logger)
	return &Runner{
		importer:       imp,
		aggregator:     NewAggregator(logger),
		logger:         logger,
		AutoCategorize: true,
		SkipDuplicates: true,
	}
}

// Run imports the files of dir. A file that fails to stage or confirm is
// recorded in the summary and the remaining files are still processed.
func (r *Runner) Run(ctx context.Context, dir, account string) (*Summary, error) {
	files, err := fileutils.ListFilesWithExtensions(dir, format.SupportedExtensions())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported statement files found in %s", dir)
	}

	summary := &Summary{Ranges: make(map[string]DateRange)}
	for _, group := range r.aggregator.GroupFilesByAccount(files, account) {
		for _, file := range group.Files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			res := r.importFile(ctx, file, group.AccountID)
			summary.Files = append(summary.Files, res)
			if res.Err != nil {
				summary.Failed++
				continue
			}
			summary.Imported += res.Imported
			summary.Skipped += res.Skipped
			summary.Ranges[group.AccountID] = summary.Ranges[group.AccountID].Merge(res.DateRange)
		}
	}

	r.logger.Info("Directory import finished",
		logging.F("files", len(summary.Files)),
		logging.F("imported", summary.Imported),
		logging.F("skipped", summary.Skipped),
		logging.F("failed", summary.Failed))
	return summary, nil
}

func (r *Runner) importFile(ctx context.Context, file, account string) FileResult {
	res := FileResult{File: file, AccountID: account}
	logger := r.logger.WithFields(
		logging.F(logging.FieldFile, filepath.Base(file)),
		logging.F(logging.FieldAccountID, account))

	content, err := fileutils.ReadFile(file)
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to read file")
		return res
	}

	staged, err := r.importer.Stage(ctx, content, file, account, r.AutoCategorize, r.StageOptions...)
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to stage file")
		return res
	}
	res.ImportID = staged.ImportID
	res.DateRange = RangeOf(staged.Transactions)
	res.RowErrors = len(staged.RowErrors)

	confirmed, err := r.importer.Confirm(ctx, staged.ImportID, r.SkipDuplicates, nil)
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to confirm import", logging.F(logging.FieldImportID, staged.ImportID))
		return res
	}
	res.Imported = confirmed.ImportedCount
	res.Skipped = confirmed.SkippedCount
	return res
}
