package arrow

import (
	"bytes"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/geometry"
	"github.com/ajitpratap0/datacontainer/pkg/keyindex"
	"github.com/ajitpratap0/datacontainer/pkg/table"
	"github.com/ajitpratap0/datacontainer/pkg/testutil"
)

func TestRoundTrip(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	src, err := table.New(map[string]interface{}{
		"n":  []interface{}{1.5, nil, 3},
		"s":  []interface{}{"x", "y", nil},
		"t":  []interface{}{ts, nil, ts.Add(time.Hour)},
		"iv": []interface{}{[]interface{}{0, 1}, nil, []interface{}{2, 3}},
	}, table.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src, 0))

	got, err := Read(&buf, table.WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, src.ColumnNames(), got.ColumnNames())
	assert.Equal(t, src.Rows(), got.Rows())
	for _, name := range src.ColumnNames() {
		want, _ := src.Type(name)
		typ, err := got.Type(name)
		require.NoError(t, err)
		assert.Equal(t, want, typ, name)
	}

	// keys survive and stay addressable
	assert.True(t, got.CustomKeys())
	row, err := got.Row(keyindex.ByKey("2"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, row["n"])
}

func TestRoundTrip_Geometry(t *testing.T) {
	src, err := table.New(testutil.FeatureCollection())
	require.NoError(t, err)

	schema, err := Schema(src)
	require.NoError(t, err)
	idx := schema.FieldIndices(datatype.GeometryColumn)
	require.Len(t, idx, 1)
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(idx[0]).Type)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src, 0))
	got, err := Read(&buf)
	require.NoError(t, err)

	geoms, err := got.Column(datatype.GeometryColumn)
	require.NoError(t, err)
	require.Len(t, geoms, 3)
	g := geoms[1].(*geometry.Geometry)
	assert.Equal(t, geometry.Point, g.Type)
	assert.Equal(t, geometry.Position{2, 1}, g.Coordinates)

	d, err := got.Domain(datatype.GeometryColumn)
	require.NoError(t, err)
	want, _ := src.Domain(datatype.GeometryColumn)
	assert.Equal(t, want, d)
}

func TestWrite_GroupedIsFormatError(t *testing.T) {
	src, err := table.New(testutil.Columns())
	require.NoError(t, err)
	binned, err := src.Bin(binning.Instruction{Column: "a", Method: binning.EqualInterval, NumClasses: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Write(&buf, binned, 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
	assert.Zero(t, buf.Len())
}

func TestWrite_EmptyIsFormatError(t *testing.T) {
	src, err := table.New(testutil.Columns())
	require.NoError(t, err)
	empty, err := src.Filter(func(map[string]interface{}) bool { return false })
	require.NoError(t, err)
	require.Zero(t, empty.NumRows())

	var buf bytes.Buffer
	err = Write(&buf, empty, 0)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
	assert.Zero(t, buf.Len())
}

func TestRead_ForeignEmptyIsSchemaError(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	var buf bytes.Buffer
	fw, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	_, err = Read(&buf)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestRead_ForeignIntegers(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "count", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{4, 5, 6}, nil)
	record := b.NewRecord()
	defer record.Release()

	var buf bytes.Buffer
	fw, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, fw.Write(record))
	require.NoError(t, fw.Close())

	got, err := Read(&buf)
	require.NoError(t, err)
	counts, _ := got.Column("count")
	assert.Equal(t, []interface{}{4.0, 5.0, 6.0}, counts)
	assert.False(t, got.CustomKeys())
	assert.Equal(t, []interface{}{"0", "1", "2"}, got.Keys())
}

func TestRead_Garbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not an arrow file")))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
}

func TestWrite_Batches(t *testing.T) {
	src, err := table.New(testutil.Columns())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, src, 3))

	fr, err := ipc.NewFileReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, fr.NumRecords())
	require.NoError(t, fr.Close())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Rows(), got.Rows())
}
