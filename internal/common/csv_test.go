package common

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-import/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCSVRow struct {
	Name    string `csv:"Name"`
	Age     string `csv:"Age"`
	Country string `csv:"Country"`
}

func TestReadCSVFile(t *testing.T) {
	tempDir := t.TempDir()

	csvContent := `Name,Age,Country
John Doe,30,USA
Jane Smith,25,Canada`

	path := filepath.Join(tempDir, "test.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvContent), 0600))

	logger := logging.NewMockLogger()
	rows, err := ReadCSVFile[testCSVRow](path, logger)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "John Doe", rows[0].Name)
	assert.Equal(t, "Canada", rows[1].Country)

	rows, err = ReadCSVFile[testCSVRow](filepath.Join(tempDir, "missing.csv"), logger)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	empty := filepath.Join(tempDir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	rows, err = ReadCSVFile[testCSVRow](empty, logger)
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAppendCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "people.csv")
	logger := logging.NewMockLogger()

	require.NoError(t, AppendCSVFile(path, []testCSVRow{{Name: "John", Age: "30", Country: "USA"}}, logger))
	require.NoError(t, AppendCSVFile(path, []testCSVRow{{Name: "Jane", Age: "25", Country: "Canada"}}, logger))
	require.NoError(t, AppendCSVFile[testCSVRow](path, nil, logger))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age,Country\nJohn,30,USA\nJane,25,Canada\n", string(data))

	rows, err := ReadCSVFile[testCSVRow](path, logger)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
