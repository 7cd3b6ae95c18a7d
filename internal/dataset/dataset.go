// Package dataset reads raw order exports and writes cleaned datasets.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

var (
	ErrDatasetNotFound     = errors.New("input dataset not found")
	ErrOutputAlreadyExists = errors.New("output dataset already exists")
	ErrUnsupportedFormat   = errors.New("unsupported dataset format")
)

// Table is a raw dataset: the header as read and one RawOrder per data row.
type Table struct {
	Header []string
	Rows   []models.RawOrder
}

// Read loads a raw dataset, picking the format from the file extension
// (.csv, .parquet, .xlsx).
func Read(path string) (Table, error) {
	if err := RequireExists(path); err != nil {
		return Table{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".parquet", ".parq":
		return ReadParquet(path)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// RequireExists fails with ErrDatasetNotFound when path does not exist.
func RequireExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return err
	}
	return nil
}

// RequireAbsent fails with ErrOutputAlreadyExists when path exists.
func RequireAbsent(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrOutputAlreadyExists, path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// rowFromCells maps cells onto header names. Cells past the end of a short
// row are read as empty strings.
func rowFromCells(header, cells []string) models.RawOrder {
	row := make(models.RawOrder, len(header))
	for i, name := range header {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		row[name] = &v
	}
	return row
}
