// Package csv reads delimited text with a header row into a table.
//
// Every cell is read as a string. A column whose sampled non-empty cells all
// parse as numbers is converted to quantitative; empty cells are missing
// values in every column.
package csv

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/table"
)

// DefaultSampleSize is the number of leading rows inspected per column
const DefaultSampleSize = 100

// Config configures the reader
type Config struct {
	// Comma is the field delimiter, ',' when zero
	Comma rune
	// SampleSize is the number of rows used for type inference,
	// DefaultSampleSize when zero. Negative means every row.
	SampleSize int
}

// Read parses r and creates a table with one column per header field, in
// header order.
func Read(r io.Reader, cfg Config, opts ...table.Option) (*table.Table, error) {
	names, columns, err := readColumns(r, cfg)
	if err != nil {
		return nil, err
	}

	values := make([][]interface{}, len(columns))
	for i, col := range columns {
		converted, err := convert(col, cfg.sampleSize())
		if err != nil {
			return nil, err.WithDetail("column", names[i])
		}
		values[i] = converted
	}
	return table.FromColumns(names, values, opts...)
}

func (c Config) sampleSize() int {
	if c.SampleSize == 0 {
		return DefaultSampleSize
	}
	return c.SampleSize
}

// readColumns appends every record field directly to its column
func readColumns(r io.Reader, cfg Config) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	if cfg.Comma != 0 {
		reader.Comma = cfg.Comma
	}
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New(errors.ErrorTypeFormat, "CSV input has no header row")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read CSV header")
	}
	names := append([]string(nil), header...)

	columns := make([][]string, len(names))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read CSV record")
		}
		for i, value := range record {
			columns[i] = append(columns[i], value)
		}
	}
	return names, columns, nil
}

// convert infers the column type from the first sampleSize cells and
// converts every cell
func convert(col []string, sampleSize int) ([]interface{}, *errors.Error) {
	if sampleSize < 0 || sampleSize > len(col) {
		sampleSize = len(col)
	}
	numeric := isNumeric(col[:sampleSize])

	out := make([]interface{}, len(col))
	for i, s := range col {
		switch {
		case s == "":
			out[i] = nil
		case numeric:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrorTypeFormat,
					"value %q is not a number, but earlier rows of its column are", s).
					WithDetail("row", i)
			}
			out[i] = f
		default:
			out[i] = s
		}
	}
	return out, nil
}

// isNumeric reports whether every non-empty cell parses as a float and at
// least one cell is non-empty
func isNumeric(cells []string) bool {
	seen := false
	for _, s := range cells {
		if s == "" {
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
