// Package csvparser extracts raw rows from delimited text statements of
// unknown layout: the encoding and the delimiter are detected, row 0 is the
// header.
package csvparser

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"
	"fjacquet/statement-import/internal/parsererror"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncodings is the order in which encodings are tried.
var DefaultEncodings = []string{"utf-8", "windows-1252", "iso-8859-1"}

// DefaultSniffBytes is how much of the decoded text is inspected to pick the delimiter.
const DefaultSniffBytes = 1024

// Delimiters are the candidate field separators, in preference order.
var Delimiters = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor implements parser.Extractor for .csv files.
type Extractor struct {
	parser.BaseParser
	encodings  []string
	sniffBytes int
}

// NewExtractor creates a delimited-text extractor. Empty encodings or a
// non-positive sniffBytes select the defaults.
func NewExtractor(logger logging.Logger, encodings []string, sniffBytes int) *Extractor {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	if sniffBytes <= 0 {
		sniffBytes = DefaultSniffBytes
	}
	return &Extractor{
		BaseParser: parser.NewBaseParser(logger),
		encodings:  encodings,
		sniffBytes: sniffBytes,
	}
}

// Format returns models.FormatDelimited.
func (e *Extractor) Format() models.Format {
	return models.FormatDelimited
}

// Extract decodes content, detects its delimiter and returns the header and
// every data row with at least two non-empty cells.
func (e *Extractor) Extract(ctx context.Context, content []byte, fileName string) (*models.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := e.GetLogger().WithField(logging.FieldFile, fileName)

	text, encodingName, err := e.decode(content)
	if err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:  fileName,
			FieldName: "encoding",
			Reason:    fmt.Sprintf("none of %s could decode the file", strings.Join(e.encodings, ", ")),
			Err:       err,
		}
	}

	sample := text
	if len(sample) > e.sniffBytes {
		sample = sample[:e.sniffBytes]
	}
	delim := SniffDelimiter(sample, len(text) > e.sniffBytes)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       fileName,
			ExpectedFormat: "delimited text",
			Msg:            err.Error(),
		}
	}

	extraction := &models.Extraction{Encoding: encodingName, Delim: delim}
	if len(records) == 0 {
		return extraction, nil
	}

	extraction.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		extraction.Header[i] = strings.TrimSpace(h)
	}

	skipped := 0
	for i, record := range records[1:] {
		row := models.RawRow{SourceRow: i + 1, Cells: make([]models.Cell, len(record))}
		for j, value := range record {
			row.Cells[j] = models.TextCell(strings.TrimSpace(value))
		}
		if row.NonEmpty() == 0 {
			skipped++
			continue
		}
		extraction.Rows = append(extraction.Rows, row)
	}

	logger.Debug("Extracted delimited rows",
		logging.F(logging.FieldEncoding, encodingName),
		logging.F(logging.FieldDelimiter, string(delim)),
		logging.F(logging.FieldCount, len(extraction.Rows)),
		logging.F("skipped", skipped))
	return extraction, nil
}

// decode tries each configured encoding in order and returns the first
// clean decoding together with the encoding's canonical name.
func (e *Extractor) decode(content []byte) (string, string, error) {
	for _, name := range e.encodings {
		label := strings.ToLower(strings.TrimSpace(name))
		if label == "utf-8" || label == "utf8" {
			body := bytes.TrimPrefix(content, utf8BOM)
			if utf8.Valid(body) {
				return string(body), "utf-8", nil
			}
			continue
		}

		enc, canonical := lookupEncoding(label)
		if enc == nil {
			e.GetLogger().Warn("Unknown encoding in configuration", logging.F(logging.FieldEncoding, name))
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(content)
		if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(bytes.TrimPrefix(decoded, utf8BOM)), canonical, nil
	}
	return "", "", fmt.Errorf("no usable encoding")
}

func lookupEncoding(label string) (encoding.Encoding, string) {
	switch label {
	case "iso-8859-1", "latin-1", "latin1":
		// WHATWG aliases latin-1 to windows-1252; keep the strict table.
		return charmap.ISO8859_1, "iso-8859-1"
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "utf-16"
	}
	return charset.Lookup(label)
}

// SniffDelimiter picks the candidate delimiter whose per-line count is the
// same non-zero value on every sampled line, preferring the larger count.
// When no candidate is consistent the one most frequent on the first line
// wins; ',' is the fallback. truncated drops the last, partial line.
func SniffDelimiter(sample string, truncated bool) rune {
	lines := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	if truncated && len(lines) > 1 {
		lines = lines[:len(lines)-1]
	}

	var nonEmpty []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	if len(nonEmpty) == 0 {
		return ','
	}

	best, bestCount := rune(0), 0
	for _, d := range Delimiters {
		count := countOutsideQuotes(nonEmpty[0], d)
		if count == 0 {
			continue
		}
		consistent := true
		for _, l := range nonEmpty[1:] {
			if countOutsideQuotes(l, d) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best, bestCount = d, count
		}
	}
	if best != 0 {
		return best
	}

	for _, d := range Delimiters {
		if count := countOutsideQuotes(nonEmpty[0], d); count > bestCount {
			best, bestCount = d, count
		}
	}
	if best != 0 {
		return best
	}
	return ','
}

func countOutsideQuotes(line string, delim rune) int {
	inQuotes := false
	count := 0
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}
