// Package models provides the data structures shared by the import pipeline.
package models

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDataFile   = 0644
	PermissionDirectory  = 0750
)

// Format is the extraction strategy chosen for an input file.
type Format string

const (
	FormatDelimited   Format = "delimited-text"
	FormatSpreadsheet Format = "spreadsheet"
	FormatTextLayout  Format = "text-layout"
	FormatStructured  Format = "structured-exchange"
)

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// TransactionType separates inflows from outflows.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ImportStatus is the lifecycle state of an import batch.
type ImportStatus string

const (
	StatusPending   ImportStatus = "pending"
	StatusCompleted ImportStatus = "completed"
)

// Ledger record sources. Records created by a confirmed import are
// LedgerSourceImport; anything a user entered or recategorized is
// LedgerSourceManual.
const (
	LedgerSourceImport = "import"
	LedgerSourceManual = "manual"
)
