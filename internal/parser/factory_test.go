package parser_test

import (
	"context"
	"testing"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	parser.BaseParser
	format models.Format
}

func (s *stubExtractor) Format() models.Format { return s.format }

func (s *stubExtractor) Extract(_ context.Context, _ []byte, fileName string) (*models.Extraction, error) {
	s.GetLogger().Debug("extracting", logging.F(logging.FieldFile, fileName))
	return &models.Extraction{Header: []string{"Date"}}, nil
}

func TestRegistry(t *testing.T) {
	csv := &stubExtractor{BaseParser: parser.NewBaseParser(nil), format: models.FormatDelimited}
	pdf := &stubExtractor{BaseParser: parser.NewBaseParser(nil), format: models.FormatTextLayout}
	r := parser.NewRegistry(csv, pdf)

	e, err := r.GetExtractor(models.FormatDelimited)
	require.NoError(t, err)
	assert.Same(t, csv, e)

	_, err = r.GetExtractor(models.FormatStructured)
	assert.Error(t, err)

	replacement := &stubExtractor{format: models.FormatDelimited}
	r.Register(replacement)
	e, err = r.GetExtractor(models.FormatDelimited)
	require.NoError(t, err)
	assert.Same(t, replacement, e)
	assert.Len(t, r.Formats(), 2)
}

func TestBaseParser_Logger(t *testing.T) {
	mock := logging.NewMockLogger()
	b := parser.NewBaseParser(mock)
	assert.Same(t, mock, b.GetLogger())

	b.SetLogger(nil)
	assert.Same(t, mock, b.GetLogger())

	other := logging.NewMockLogger()
	b.SetLogger(other)
	assert.Same(t, other, b.GetLogger())

	var zero parser.BaseParser
	assert.NotNil(t, zero.GetLogger())

	s := &stubExtractor{BaseParser: parser.NewBaseParser(mock), format: models.FormatDelimited}
	_, err := s.Extract(context.Background(), nil, "a.csv")
	require.NoError(t, err)
	assert.True(t, mock.HasEntry("DEBUG", "extracting"))
}
