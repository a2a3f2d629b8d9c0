// Package arrow converts tables to and from the Apache Arrow IPC file format.
//
// Semantic types map onto Arrow types as follows:
//
//	quantitative  float64
//	categorical   utf8
//	temporal      timestamp[ms, UTC]
//	interval      fixed_size_list<float64>[2]
//	geometry      utf8 holding GeoJSON, tagged in the field metadata
//
// Missing values become nulls. Columns of nested tables cannot be exported.
// On import the $key column is kept as is, so an imported table always has
// caller supplied keys.
package arrow

import (
	"bytes"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/geometry"
	"github.com/ajitpratap0/datacontainer/pkg/json"
	"github.com/ajitpratap0/datacontainer/pkg/table"
)

// Field metadata recording the semantic type of a column
const (
	typeKey      = "datacontainer.type"
	geometryType = "geometry"
)

var intervalType = arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Float64)

// Schema returns the Arrow schema tbl is exported with.
func Schema(tbl *table.Table) (*arrow.Schema, error) {
	names := tbl.ColumnNames()
	fields := make([]arrow.Field, 0, len(names))
	for _, name := range names {
		typ, err := tbl.Type(name)
		if err != nil {
			return nil, err
		}
		field := arrow.Field{Name: name, Nullable: true}
		switch typ {
		case datatype.Quantitative:
			field.Type = arrow.PrimitiveTypes.Float64
		case datatype.Categorical, datatype.Invalid:
			field.Type = arrow.BinaryTypes.String
		case datatype.Temporal:
			field.Type = arrow.FixedWidthTypes.Timestamp_ms
		case datatype.IntervalType:
			field.Type = intervalType
		case datatype.Geometry:
			field.Type = arrow.BinaryTypes.String
			field.Metadata = arrow.NewMetadata([]string{typeKey}, []string{geometryType})
		default:
			return nil, errors.Newf(errors.ErrorTypeFormat,
				"column %q of type %s cannot be exported to Arrow", name, typ).
				WithDetail("column", name)
		}
		fields = append(fields, field)
	}
	return arrow.NewSchema(fields, nil), nil
}

// Write exports tbl to w as an Arrow IPC file holding record batches of at
// most batchSize rows. A non-positive batchSize writes a single batch.
// A table without rows is a format error: it could not be read back.
func Write(w io.Writer, tbl *table.Table, batchSize int) error {
	if tbl.NumRows() == 0 {
		return errors.New(errors.ErrorTypeFormat, "cannot export a table without rows to Arrow")
	}
	schema, err := Schema(tbl)
	if err != nil {
		return err
	}
	columns := make([][]interface{}, schema.NumFields())
	for i, field := range schema.Fields() {
		if columns[i], err = tbl.Column(field.Name); err != nil {
			return err
		}
	}
	rows := tbl.NumRows()
	if batchSize <= 0 || batchSize > rows {
		batchSize = rows
	}

	mem := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to create Arrow writer")
	}

	for lo := 0; lo < rows; lo += batchSize {
		hi := lo + batchSize
		if hi > rows {
			hi = rows
		}
		for i, field := range schema.Fields() {
			for row := lo; row < hi; row++ {
				if err := appendValue(builder.Field(i), columns[i][row]); err != nil {
					return errors.Wrapf(err, errors.ErrorTypeFormat, "column %q", field.Name).
						WithDetail("column", field.Name).
						WithDetail("row", row)
				}
			}
		}
		if err := flushBatch(fw, builder); err != nil {
			return err
		}
	}

	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to close Arrow writer")
	}
	return nil
}

func flushBatch(fw *ipc.FileWriter, builder *array.RecordBuilder) error {
	record := builder.NewRecord()
	defer record.Release()
	if err := fw.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to write record batch")
	}
	return nil
}

func appendValue(builder array.Builder, value interface{}) error {
	if !datatype.IsValid(value) {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.Float64Builder:
		f, _ := datatype.ToFloat(value)
		b.Append(f)
	case *array.StringBuilder:
		if g, ok := value.(*geometry.Geometry); ok {
			data, err := json.Marshal(g)
			if err != nil {
				return err
			}
			b.Append(string(data))
			return nil
		}
		s, ok := value.(string)
		if !ok {
			b.AppendNull()
			return nil
		}
		b.Append(s)
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(value.(time.Time).UnixMilli()))
	case *array.FixedSizeListBuilder:
		iv, _ := datatype.ToInterval(value)
		b.Append(true)
		vb := b.ValueBuilder().(*array.Float64Builder)
		vb.Append(iv[0])
		vb.Append(iv[1])
	default:
		return errors.Newf(errors.ErrorTypeInternal, "unsupported builder type %T", builder)
	}
	return nil
}

// Read decodes an Arrow IPC file into a table. Every record batch is
// appended in order. Integer and float32 columns are read as quantitative.
func Read(r io.Reader, opts ...table.Option) (*table.Table, error) {
	// the file format needs random access
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to read Arrow data")
	}
	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open Arrow file")
	}
	defer fr.Close()

	schema := fr.Schema()
	names := make([]string, schema.NumFields())
	values := make([][]interface{}, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
	}

	for b := 0; b < fr.NumRecords(); b++ {
		record, err := fr.Record(b)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrorTypeFormat, "failed to read record batch %d", b)
		}
		for i, field := range schema.Fields() {
			col := record.Column(i)
			for row := 0; row < col.Len(); row++ {
				v, err := columnValue(col, field, row)
				if err != nil {
					return nil, errors.Wrapf(err, errors.ErrorTypeFormat, "column %q", field.Name).
						WithDetail("column", field.Name).
						WithDetail("batch", b).
						WithDetail("row", row)
				}
				values[i] = append(values[i], v)
			}
		}
	}
	return table.FromColumns(names, values, opts...)
}

func columnValue(col arrow.Array, field arrow.Field, row int) (interface{}, error) {
	if col.IsNull(row) {
		return nil, nil
	}

	switch c := col.(type) {
	case *array.Float64:
		return c.Value(row), nil
	case *array.Float32:
		return float64(c.Value(row)), nil
	case *array.Int64:
		return float64(c.Value(row)), nil
	case *array.Int32:
		return float64(c.Value(row)), nil
	case *array.String:
		s := c.Value(row)
		if typ, ok := field.Metadata.GetValue(typeKey); ok && typ == geometryType {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(s), &obj); err != nil {
				return nil, err
			}
			return obj, nil
		}
		return s, nil
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(row).ToTime(unit).UTC(), nil
	case *array.FixedSizeList:
		if c.DataType().(*arrow.FixedSizeListType).Len() != 2 {
			return nil, errors.Newf(errors.ErrorTypeFormat, "fixed size list of %s is not an interval",
				c.DataType())
		}
		floats, ok := c.ListValues().(*array.Float64)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeFormat, "interval values must be float64, got %s",
				c.ListValues().DataType())
		}
		start, _ := c.ValueOffsets(row)
		return datatype.Interval{floats.Value(int(start)), floats.Value(int(start) + 1)}, nil
	}
	return nil, errors.Newf(errors.ErrorTypeFormat, "unsupported Arrow type %s", col.DataType())
}
