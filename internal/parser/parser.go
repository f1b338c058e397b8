package parser

import (
	"context"

	"fjacquet/statement-import/internal/models"
)

// Extractor turns the bytes of one statement file into raw rows.
//
// Extractors for headed formats return the header and let the column mapper
// resolve roles. Extractors for fixed layouts (text-layout, structured
// exchange) also return a preset mapping. Implementations return
// parsererror.InvalidFormatError or parsererror.DataExtractionError when the
// bytes cannot be read as their format.
type Extractor interface {
	Format() models.Format
	Extract(ctx context.Context, content []byte, fileName string) (*models.Extraction, error)
}
