// Package common provides the gocsv backed persistence helpers shared by the
// ledger and import history stores.
package common

import (
	"fmt"
	"os"

	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"

	"github.com/gocarina/gocsv"
)

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// A missing or empty file yields an empty slice.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	logger = logging.OrDefault(logger)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Debug("Read CSV data",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// AppendCSVFile appends rows to filePath, writing the header first when the
// file does not exist yet or is empty.
func AppendCSVFile[TCSVRow any](filePath string, rows []TCSVRow, logger logging.Logger) error {
	logger = logging.OrDefault(logger)
	if len(rows) == 0 {
		return nil
	}

	if err := fileutils.EnsureParentDirectory(filePath); err != nil {
		return err
	}

	withHeader := true
	if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
		withHeader = false
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, models.PermissionDataFile)
	if err != nil {
		return fmt.Errorf("error opening CSV file for append: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if withHeader {
		err = gocsv.Marshal(rows, file)
	} else {
		err = gocsv.MarshalWithoutHeaders(rows, file)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Debug("Appended CSV rows",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}
