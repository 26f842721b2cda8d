package bq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

var (
	// ErrColumnMismatch is returned when an appended row does not match
	// the frame's column count.
	ErrColumnMismatch = errors.New("row length does not match column count")

	// ErrNoColumn is returned when a named column does not exist.
	ErrNoColumn = errors.New("no such column")
)

// Column names one frame column and carries its type tag. Tags follow the
// common dataframe dtype names ("int64", "float64", "bool", "object",
// "datetime64[ns]", "date", "timedelta64[ns]") and drive schema inference.
type Column struct {
	Name  string
	DType string
}

// Frame is an ordered in-memory table of query results or rows to load.
// Column order is fixed at construction; rows hold one bigquery.Value per
// column.
type Frame struct {
	cols []Column
	rows [][]bigquery.Value
}

// NewFrame creates an empty frame with the given columns.
func NewFrame(cols ...Column) *Frame {
	return &Frame{cols: cols}
}

// Append adds one row. The number of values must match the column count.
func (f *Frame) Append(values ...bigquery.Value) error {
	if len(values) != len(f.cols) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrColumnMismatch, len(values), len(f.cols))
	}
	f.rows = append(f.rows, values)
	return nil
}

// Columns returns the frame's columns in order.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.rows) }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Row returns the i-th row.
func (f *Frame) Row(i int) []bigquery.Value { return f.rows[i] }

// Rows returns all rows in order.
func (f *Frame) Rows() [][]bigquery.Value { return f.rows }

// Column returns all values of the named column in row order.
func (f *Frame) Column(name string) ([]bigquery.Value, error) {
	idx := -1
	for i, col := range f.cols {
		if col.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	out := make([]bigquery.Value, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// frameFromIterator drains a row iterator into a frame. Column type tags
// are derived from the result schema.
func frameFromIterator(it *bigquery.RowIterator) (*Frame, error) {
	var rows [][]bigquery.Value
	for {
		var values []bigquery.Value
		err := it.Next(&values)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, values)
	}
	cols := make([]Column, len(it.Schema))
	for i, field := range it.Schema {
		cols[i] = Column{Name: field.Name, DType: dtypeForFieldType(field.Type)}
	}
	return &Frame{cols: cols, rows: rows}, nil
}

func dtypeForFieldType(t bigquery.FieldType) string {
	switch t {
	case bigquery.IntegerFieldType:
		return "int64"
	case bigquery.FloatFieldType, bigquery.NumericFieldType, bigquery.BigNumericFieldType:
		return "float64"
	case bigquery.BooleanFieldType:
		return "bool"
	case bigquery.TimestampFieldType, bigquery.DateTimeFieldType:
		return "datetime64[ns]"
	case bigquery.DateFieldType:
		return "date"
	case bigquery.TimeFieldType:
		return "timedelta64[ns]"
	default:
		return "object"
	}
}

// encodeJSONLines renders the frame as newline-delimited JSON for a load
// job. Temporal values are formatted the way the load service expects.
func (f *Frame) encodeJSONLines() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, row := range f.rows {
		record := make(map[string]any, len(f.cols))
		for j, col := range f.cols {
			record[col.Name] = jsonValue(row[j])
		}
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func jsonValue(v bigquery.Value) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case civil.Date:
		return t.String()
	case civil.Time:
		return t.String()
	case civil.DateTime:
		return t.String()
	default:
		return v
	}
}
