// Package normalizer turns raw extracted rows into canonical transactions.
// Rows are independent, so large extractions are normalized concurrently;
// output always follows source order.
package normalizer

import (
	"context"
	"errors"
	"strings"
	"time"

	"fjacquet/statement-import/internal/currencyutils"
	"fjacquet/statement-import/internal/dateutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

var errEmptyDescription = errors.New("empty description")

// Result holds the normalized transactions and the rows that were dropped.
type Result struct {
	Transactions []models.ParsedTransaction
	Errors       []models.RowError
}

// Normalizer parses dates and amounts of raw rows.
type Normalizer struct {
	logger    logging.Logger
	processor *ConcurrentProcessor
}

// NewNormalizer creates a normalizer. Extractions with at least
// concurrencyThreshold rows are processed by a worker pool.
func NewNormalizer(logger logging.Logger, concurrencyThreshold int) *Normalizer {
	logger = logging.OrDefault(logger)
	return &Normalizer{
		logger:    logger,
		processor: NewConcurrentProcessor(logger, concurrencyThreshold),
	}
}

// columns holds the header positions of the mapped roles; -1 when unmapped.
type columns struct {
	date, description, amount, debit, credit, balance, externalID int
	layout                                                        string
}

func resolveColumns(ex *models.Extraction, mapping models.ColumnMapping) columns {
	idx := ex.ColumnIndex
	return columns{
		date:        idx(mapping.Date),
		description: idx(mapping.Description),
		amount:      idx(mapping.Amount),
		debit:       idx(mapping.Debit),
		credit:      idx(mapping.Credit),
		balance:     idx(mapping.Balance),
		externalID:  idx(mapping.ExternalID),
	}
}

type rowOutcome struct {
	tx  models.ParsedTransaction
	err error
}

// Normalize converts every row of ex using mapping. A row whose date,
// description or amount cannot be parsed is dropped and reported in
// Result.Errors; it never fails the whole extraction.
func (n *Normalizer) Normalize(ctx context.Context, ex *models.Extraction, mapping models.ColumnMapping, accountID string) (*Result, error) {
	cols := resolveColumns(ex, mapping)
	if mapping.DateFormat != "" {
		layout, err := dateutils.LayoutFromPattern(mapping.DateFormat)
		if err != nil {
			n.logger.WithError(err).Warn("Ignoring date format hint",
				logging.F(logging.FieldProfile, mapping.Profile))
		} else {
			cols.layout = layout
		}
	}

	outcomes, err := ProcessOrdered(ctx, n.processor, ex.Rows, func(row models.RawRow) rowOutcome {
		tx, err := normalizeRow(row, cols, accountID)
		return rowOutcome{tx: tx, err: err}
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Transactions: make([]models.ParsedTransaction, 0, len(outcomes))}
	for _, o := range outcomes {
		if o.err == nil {
			result.Transactions = append(result.Transactions, o.tx)
			continue
		}
		rowErr := models.RowError{Message: o.err.Error()}
		var pe *parsererror.RowParseError
		if errors.As(o.err, &pe) {
			rowErr.Row, rowErr.Field, rowErr.Value = pe.Row, pe.Field, pe.Value
		}
		n.logger.Warn("Dropping unparseable row",
			logging.F(logging.FieldRow, rowErr.Row),
			logging.F(logging.FieldReason, rowErr.Message))
		result.Errors = append(result.Errors, rowErr)
	}
	return result, nil
}

// normalizeRow converts one raw row. Errors are *parsererror.RowParseError.
func normalizeRow(row models.RawRow, cols columns, accountID string) (models.ParsedTransaction, error) {
	rowErr := func(field, value string, err error) error {
		return &parsererror.RowParseError{Row: row.SourceRow, Field: field, Value: value, Err: err}
	}

	dateCell := row.Cell(cols.date)
	date, err := parseDateCell(dateCell, cols.layout)
	if err != nil {
		return models.ParsedTransaction{}, rowErr("date", dateCell.Text, err)
	}

	description := strings.TrimSpace(row.Cell(cols.description).Text)
	if description == "" {
		return models.ParsedTransaction{}, rowErr("description", "", errEmptyDescription)
	}

	amount, field, value, err := resolveAmount(row, cols)
	if err != nil {
		return models.ParsedTransaction{}, rowErr(field, value, err)
	}

	tx := models.ParsedTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        models.TypeForAmount(amount),
		AccountID:   accountID,
		ExternalID:  strings.TrimSpace(row.Cell(cols.externalID).Text),
		SourceRow:   row.SourceRow,
	}
	if balCell := row.Cell(cols.balance); !balCell.IsBlank() {
		// informational only; an unreadable balance does not drop the row
		if balance, err := parseAmountCell(balCell); err == nil {
			tx.Balance = &balance
		}
	}
	return tx, nil
}

func parseDateCell(c models.Cell, layout string) (time.Time, error) {
	if c.Time != nil {
		return dateutils.DateOnly(*c.Time), nil
	}
	t, _, err := dateutils.ParseDate(c.Text, layout)
	return t, err
}

func parseAmountCell(c models.Cell) (decimal.Decimal, error) {
	if c.Amount != nil {
		return *c.Amount, nil
	}
	return currencyutils.ParseAmount(c.Text)
}

// resolveAmount reads the amount column when it holds a value and
// otherwise synthesizes the amount from the debit and credit columns:
// a non-zero credit is an inflow, else the debit is an outflow.
func resolveAmount(row models.RawRow, cols columns) (decimal.Decimal, string, string, error) {
	if amountCell := row.Cell(cols.amount); cols.amount >= 0 && !amountCell.IsBlank() {
		amount, err := parseAmountCell(amountCell)
		if err != nil {
			return decimal.Zero, "amount", amountCell.Text, err
		}
		return amount, "", "", nil
	}

	if cols.debit < 0 && cols.credit < 0 {
		return decimal.Zero, "amount", "", currencyutils.ErrEmptyAmount
	}

	creditCell := row.Cell(cols.credit)
	if !creditCell.IsBlank() {
		credit, err := parseAmountCell(creditCell)
		if err != nil {
			return decimal.Zero, "credit", creditCell.Text, err
		}
		if !credit.IsZero() {
			return credit.Abs(), "", "", nil
		}
	}

	debitCell := row.Cell(cols.debit)
	if !debitCell.IsBlank() {
		debit, err := parseAmountCell(debitCell)
		if err != nil {
			return decimal.Zero, "debit", debitCell.Text, err
		}
		if !debit.IsZero() {
			return debit.Abs().Neg(), "", "", nil
		}
	}

	return decimal.Zero, "amount", "", errors.New("neither debit nor credit holds an amount")
}
