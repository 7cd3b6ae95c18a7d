package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cheertaboi/voucher-selection-service/internal/cleaning"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

// ReadCSV reads a comma separated export whose first line is the header.
func ReadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return Table{}, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV parses CSV data from r.
func DecodeCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, nil
		}
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := Table{Header: header}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read line %d: %w", line, err)
		}
		t.Rows = append(t.Rows, rowFromCells(header, rec))
	}
	return t, nil
}

// WriteCSV writes cleaned orders to path. The file is written next to path
// under a temporary name and renamed into place, so a failed write leaves
// nothing behind. An existing path is never overwritten.
func WriteCSV(path string, orders []models.Order) (err error) {
	if err := RequireAbsent(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = EncodeCSV(tmp, orders); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// EncodeCSV writes the canonical header followed by one line per order.
func EncodeCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.OrderColumns); err != nil {
		return err
	}
	rec := make([]string, len(models.OrderColumns))
	for _, o := range orders {
		row := cleaning.FormatOrder(o)
		for i, col := range models.OrderColumns {
			rec[i] = *row[col]
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadCSV reads a cleaned dataset back into orders.
func LoadCSV(path string) ([]models.Order, error) {
	t, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	if err := cleaning.CheckColumns(t.Header); err != nil {
		return nil, err
	}
	return cleaning.CleanOrders(t.Rows)
}
