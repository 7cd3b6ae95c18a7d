package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/deprecated"

	"github.com/Cheertaboi/voucher-selection-service/internal/cleaning"
	"github.com/Cheertaboi/voucher-selection-service/internal/models"
)

const parquetBatchSize = 1024

// julian day number of 1970-01-01, the epoch of INT96 timestamps
const julianUnixEpoch = 2440588

// cellFunc renders one non-null parquet value as a raw cell.
type cellFunc func(parquet.Value) *string

// ReadParquet reads a raw export in parquet format. The header is the
// file's own column set, so absent columns surface in CheckColumns.
// Timestamp and date columns are rendered in the text form the cleaner
// parses.
func ReadParquet(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Table{}, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return Table{}, fmt.Errorf("read parquet %s: %w", path, err)
	}

	schema := pf.Schema()
	var (
		header []string
		cells  []cellFunc
	)
	for _, colPath := range schema.Columns() {
		leaf, ok := schema.Lookup(colPath...)
		if !ok {
			return Table{}, fmt.Errorf("read parquet %s: column %s not in schema", path, strings.Join(colPath, "."))
		}
		header = append(header, strings.Join(colPath, "."))
		cells = append(cells, parquetCell(leaf.Node.Type()))
	}

	t := Table{
		Header: header,
		Rows:   make([]models.RawOrder, 0, pf.NumRows()),
	}

	r := parquet.NewReader(pf)
	defer r.Close()

	buf := make([]parquet.Row, parquetBatchSize)
	for {
		n, err := r.ReadRows(buf)
		for _, row := range buf[:n] {
			raw := make(models.RawOrder, len(header))
			for _, h := range header {
				raw[h] = nil
			}
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(cells) || v.IsNull() {
					continue
				}
				raw[header[c]] = cells[c](v)
			}
			t.Rows = append(t.Rows, raw)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read parquet %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return t, nil
}

// parquetCell picks how values of typ are rendered, going by the logical
// type first and the physical kind otherwise.
func parquetCell(typ parquet.Type) cellFunc {
	if lt := typ.LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil:
			unit := time.Nanosecond
			switch {
			case lt.Timestamp.Unit.Millis != nil:
				unit = time.Millisecond
			case lt.Timestamp.Unit.Micros != nil:
				unit = time.Microsecond
			}
			return epochCell(unit)
		case lt.Date != nil:
			return dateCell
		}
	}
	if ct := typ.ConvertedType(); ct != nil {
		switch *ct {
		case deprecated.TimestampMillis:
			return epochCell(time.Millisecond)
		case deprecated.TimestampMicros:
			return epochCell(time.Microsecond)
		case deprecated.Date:
			return dateCell
		}
	}

	switch typ.Kind() {
	case parquet.Boolean:
		return func(v parquet.Value) *string { return strCell(strconv.FormatBool(v.Boolean())) }
	case parquet.Int32:
		return func(v parquet.Value) *string { return strCell(strconv.FormatInt(int64(v.Int32()), 10)) }
	case parquet.Int64:
		return func(v parquet.Value) *string { return strCell(strconv.FormatInt(v.Int64(), 10)) }
	case parquet.Int96:
		return int96Cell
	case parquet.Float:
		return func(v parquet.Value) *string { return floatCell(float64(v.Float())) }
	case parquet.Double:
		return func(v parquet.Value) *string { return floatCell(v.Double()) }
	default:
		return func(v parquet.Value) *string { return strCell(string(v.ByteArray())) }
	}
}

func epochCell(unit time.Duration) cellFunc {
	return func(v parquet.Value) *string {
		ts := time.Unix(0, 0).Add(time.Duration(v.Int64()) * unit)
		return strCell(cleaning.FormatTimestamp(ts))
	}
}

func dateCell(v parquet.Value) *string {
	d := time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32()))
	return strCell(d.Format(time.DateOnly))
}

// int96Cell decodes the legacy INT96 timestamp: nanoseconds of the day in
// the low 64 bits, julian day in the high 32.
func int96Cell(v parquet.Value) *string {
	i := v.Int96()
	nanos := int64(uint64(i[1])<<32 | uint64(i[0]))
	day := int64(i[2]) - julianUnixEpoch
	ts := time.Unix(day*86400, nanos)
	return strCell(cleaning.FormatTimestamp(ts))
}

func floatCell(f float64) *string {
	if math.IsNaN(f) {
		return nil
	}
	return strCell(strconv.FormatFloat(f, 'f', -1, 64))
}

func strCell(s string) *string {
	return &s
}
