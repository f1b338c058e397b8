// Package pdfparser extracts statement lines from PDF documents. Text is
// pulled out page by page and each line is recognized by fixed line grammars;
// there is no header, so extractions carry a preset column mapping.
package pdfparser

import (
	"context"
	"strings"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"
)

// Extractor implements parser.Extractor for .pdf files.
type Extractor struct {
	parser.BaseParser
	textExtractor PDFExtractor
}

// NewExtractor creates a text-layout extractor. A nil textExtractor selects
// the in-process library extractor.
func NewExtractor(logger logging.Logger, textExtractor PDFExtractor) *Extractor {
	if textExtractor == nil {
		textExtractor = NewLibraryExtractor()
	}
	return &Extractor{
		BaseParser:    parser.NewBaseParser(logger),
		textExtractor: textExtractor,
	}
}

// Format returns models.FormatTextLayout.
func (e *Extractor) Format() models.Format {
	return models.FormatTextLayout
}

// Extract pulls the document text and keeps the lines that match a
// statement line grammar.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*models.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := e.GetLogger().WithField(logging.FieldFile, fileName)

	text, err := e.textExtractor.ExtractText(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &parsererror.InvalidFormatError{
			FilePath:       fileName,
			ExpectedFormat: "PDF",
			Msg:            "text could not be extracted: " + err.Error(),
		}
	}

	rows := parseLines(text)
	mapping := Mapping
	extraction := &models.Extraction{
		Header:  append([]string(nil), Header...),
		Rows:    rows,
		Mapping: &mapping,
	}

	logger.Debug("Extracted PDF statement lines",
		logging.F("lines", strings.Count(text, "\n")+1),
		logging.F(logging.FieldCount, len(rows)))
	return extraction, nil
}
