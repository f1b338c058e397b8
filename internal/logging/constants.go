package logging

// Field keys shared by all importer log lines.
const (
	FieldFile       = "file"
	FieldFormat     = "format"
	FieldImportID   = "import_id"
	FieldAccountID  = "account_id"
	FieldRow        = "row"
	FieldColumn     = "column"
	FieldProfile    = "profile"
	FieldCategory   = "category"
	FieldConfidence = "confidence"
	FieldStrategy   = "strategy"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldDelimiter  = "delimiter"
	FieldEncoding   = "encoding"
	FieldDuplicates = "duplicates"
	FieldWorkers    = "workers"
)
