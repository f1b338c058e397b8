// Package ofxparser extracts transactions from OFX and QFX statements. The
// transaction list is already typed, so rows carry native date and amount
// cells and a preset mapping; no header detection is involved.
package ofxparser

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const unknownDescription = "Unknown"

// Header is the synthetic header of structured extractions.
var Header = []string{"Date", "Description", "Amount", "ExternalID"}

// Mapping is the fixed column mapping of structured extractions.
var Mapping = models.ColumnMapping{
	Date:        "Date",
	Description: "Description",
	Amount:      "Amount",
	ExternalID:  "ExternalID",
}

// Extractor implements parser.Extractor for .ofx and .qfx files.
type Extractor struct {
	parser.BaseParser
}

// NewExtractor creates a structured-exchange extractor.
func NewExtractor(logger logging.Logger) *Extractor {
	return &Extractor{BaseParser: parser.NewBaseParser(logger)}
}

// Format returns models.FormatStructured.
func (e *Extractor) Format() models.Format {
	return models.FormatStructured
}

// Extract parses the first bank statement of the response, or the first
// credit card statement when there is no bank statement.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*models.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	response, err := ofxgo.ParseResponse(bytes.NewReader(content))
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       fileName,
			ExpectedFormat: "OFX",
			Msg:            fmt.Sprintf("failed to parse OFX response (%d bytes): %v", len(content), err),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tranList, currency, err := statementTransactions(response)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{FilePath: fileName, ExpectedFormat: "OFX", Msg: err.Error()}
	}

	mapping := Mapping
	extraction := &models.Extraction{
		Header:  append([]string(nil), Header...),
		Mapping: &mapping,
	}
	if tranList == nil {
		return extraction, nil
	}

	for i, txn := range tranList.Transactions {
		amount, err := decimal.NewFromString(txn.TrnAmt.FloatString(4))
		if err != nil {
			return nil, &parsererror.DataExtractionError{
				FilePath:  fileName,
				FieldName: "TRNAMT",
				Reason:    fmt.Sprintf("transaction %d", i+1),
				Err:       err,
			}
		}
		extraction.Rows = append(extraction.Rows, models.RawRow{
			SourceRow: i + 1,
			Cells: []models.Cell{
				models.DateCell(txn.DtPosted.Time),
				models.TextCell(description(txn)),
				models.AmountCell(amount),
				models.TextCell(txn.FiTID.String()),
			},
		})
	}

	e.GetLogger().Debug("Extracted OFX transactions",
		logging.F(logging.FieldFile, fileName),
		logging.F("currency", currency),
		logging.F(logging.FieldCount, len(extraction.Rows)))
	return extraction, nil
}

func statementTransactions(resp *ofxgo.Response) (*ofxgo.TransactionList, string, error) {
	if len(resp.Bank) > 0 {
		stmt, ok := resp.Bank[0].(*ofxgo.StatementResponse)
		if !ok {
			return nil, "", fmt.Errorf("unexpected bank statement type %T", resp.Bank[0])
		}
		return stmt.BankTranList, stmt.CurDef.String(), nil
	}
	if len(resp.CreditCard) > 0 {
		stmt, ok := resp.CreditCard[0].(*ofxgo.CCStatementResponse)
		if !ok {
			return nil, "", fmt.Errorf("unexpected credit card statement type %T", resp.CreditCard[0])
		}
		return stmt.BankTranList, stmt.CurDef.String(), nil
	}
	return nil, "", fmt.Errorf("no bank or credit card statement found")
}

// description prefers the memo, then the name, then the payee name.
func description(txn ofxgo.Transaction) string {
	if memo := strings.TrimSpace(txn.Memo.String()); memo != "" {
		return memo
	}
	if name := strings.TrimSpace(txn.Name.String()); name != "" {
		return name
	}
	if txn.Payee != nil {
		if name := strings.TrimSpace(txn.Payee.Name.String()); name != "" {
			return name
		}
	}
	return unknownDescription
}
