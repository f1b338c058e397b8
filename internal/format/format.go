// Package format selects the extraction strategy for an input file.
package format

import (
	"bytes"
	"path/filepath"
	"strings"

	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parsererror"
)

var byExtension = map[string]models.Format{
	".csv":  models.FormatDelimited,
	".xls":  models.FormatSpreadsheet,
	".xlsx": models.FormatSpreadsheet,
	".pdf":  models.FormatTextLayout,
	".ofx":  models.FormatStructured,
	".qfx":  models.FormatStructured,
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".csv", ".xls", ".xlsx", ".pdf", ".ofx", ".qfx"}
}

// Detect chooses the format from the file extension alone.
func Detect(fileName string) (models.Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	f, ok := byExtension[ext]
	if !ok {
		return "", &parsererror.UnsupportedFormatError{FileName: fileName, Extension: ext}
	}
	return f, nil
}

var (
	pdfMagic  = []byte("%PDF")
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectContent detects the format from the extension and then checks that
// the leading bytes agree with it. Delimited text is not sniffed.
func DetectContent(fileName string, head []byte) (models.Format, error) {
	f, err := Detect(fileName)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	var expected, problem string
	switch {
	case f == models.FormatTextLayout && !bytes.HasPrefix(head, pdfMagic):
		expected, problem = "PDF document", "missing %PDF header"
	case ext == ".xlsx" && !bytes.HasPrefix(head, zipMagic):
		expected, problem = "Office Open XML workbook", "not a zip container"
	case ext == ".xls" && !bytes.HasPrefix(head, ole2Magic):
		expected, problem = "Excel 97-2003 workbook", "not an OLE2 compound document"
	case f == models.FormatStructured && !looksLikeOFX(head):
		expected, problem = "OFX/QFX statement", "no OFX header or <OFX> element"
	}

	if problem != "" {
		return "", &parsererror.InvalidFormatError{
			FilePath:             fileName,
			ExpectedFormat:       expected,
			ActualContentSnippet: snippet(head),
			Msg:                  problem,
		}
	}
	return f, nil
}

func looksLikeOFX(head []byte) bool {
	upper := bytes.ToUpper(head)
	return bytes.Contains(upper, []byte("OFXHEADER")) || bytes.Contains(upper, []byte("<OFX>"))
}

func snippet(head []byte) string {
	const limit = 16
	if len(head) > limit {
		head = head[:limit]
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, string(head))
}
