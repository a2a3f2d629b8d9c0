package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

func mustColumn(t *testing.T, name string, values ...interface{}) *Column {
	t.Helper()
	col, err := NewColumn(name, values)
	require.NoError(t, err)
	return col
}

func TestColumn(t *testing.T) {
	values := []interface{}{nil, 1, 2}
	col, err := NewColumn("a", values)
	require.NoError(t, err)
	assert.Equal(t, "a", col.Name())
	assert.Equal(t, datatype.Quantitative, col.Type())
	assert.Equal(t, 3, col.Len())

	values[1] = 100
	assert.Equal(t, 1, col.Get(1), "input slice is copied")

	out := col.Values()
	out[2] = 100
	assert.Equal(t, 2, col.Get(2), "Values returns a copy")

	_, err = NewColumn("a", []interface{}{1, "x"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestColumn_TypeFollowsFirstValidValue(t *testing.T) {
	col := mustColumn(t, "a", nil, nil)
	assert.Equal(t, datatype.Invalid, col.Type())

	require.NoError(t, col.Append("x"))
	assert.Equal(t, datatype.Categorical, col.Type())
	assert.Error(t, col.Append(1))

	// removing the only valid value frees the type again
	require.NoError(t, col.Set(2, nil))
	assert.Equal(t, datatype.Invalid, col.Type())
	require.NoError(t, col.Set(0, 5))
	assert.Equal(t, datatype.Quantitative, col.Type())

	col.Delete(0)
	assert.Equal(t, datatype.Invalid, col.Type())
	assert.Equal(t, 2, col.Len())
}

func TestColumn_Check(t *testing.T) {
	geom := map[string]interface{}{"type": "Point", "coordinates": []interface{}{0, 0}}

	num := mustColumn(t, "a", 1)
	assert.NoError(t, num.Check(nil))
	assert.NoError(t, num.Check(2.5))
	assert.Error(t, num.Check("x"))
	assert.Error(t, num.Check(geom))

	g := mustColumn(t, datatype.GeometryColumn, geom)
	assert.NoError(t, g.Check(geom))
	assert.Error(t, g.Check(1))
}

func TestColumn_TakeClone(t *testing.T) {
	col := mustColumn(t, "c", "x", "y", "z")

	taken := col.Take([]int{2, 0})
	assert.Equal(t, []interface{}{"z", "x"}, taken.Values())
	assert.Equal(t, datatype.Categorical, taken.Type())

	cp := col.Clone()
	require.NoError(t, cp.Set(0, "changed"))
	assert.Equal(t, "x", col.Get(0))
}

func TestSet(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(mustColumn(t, "a", 1, 2, 3)))
	require.NoError(t, s.Add(mustColumn(t, "b", "x", "y", "z")))
	assert.Equal(t, []string{"a", "b"}, s.Names())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Rows())

	assert.Error(t, s.Add(mustColumn(t, "a", 1, 2, 3)), "duplicate name")
	assert.Error(t, s.Add(mustColumn(t, "c", 1)), "length mismatch")

	assert.Equal(t, map[string]interface{}{"a": 2, "b": "y"}, s.Row(1))

	require.NoError(t, s.Replace(mustColumn(t, "a", 7, 8, 9)))
	assert.Equal(t, []string{"a", "b"}, s.Names(), "replace keeps position")
	assert.Error(t, s.Replace(mustColumn(t, "missing", 1, 2, 3)))
	assert.Error(t, s.Replace(mustColumn(t, "a", 1)))

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, s.Names())
}

func TestSet_Rows(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(mustColumn(t, "a", 1, 2)))
	require.NoError(t, s.Add(mustColumn(t, "b", "x", "y")))

	require.NoError(t, s.AppendRow(map[string]interface{}{"a": 3, "b": nil}))
	assert.Equal(t, 3, s.Rows())

	tests := []struct {
		name string
		row  map[string]interface{}
	}{
		{"missing column", map[string]interface{}{"a": 4}},
		{"unknown column", map[string]interface{}{"a": 4, "b": "z", "c": 1}},
		{"wrong type", map[string]interface{}{"a": "4", "b": "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.AppendRow(tt.row))
			assert.Equal(t, 3, s.Rows(), "a rejected row leaves the set unchanged")
			a, _ := s.Get("a")
			assert.Equal(t, 3, a.Len())
		})
	}

	s.DeleteRow(0)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, map[string]interface{}{"a": 2, "b": "y"}, s.Row(0))

	taken := s.Take([]int{1})
	assert.Equal(t, 1, taken.Rows())
	assert.Equal(t, map[string]interface{}{"a": 3, "b": nil}, taken.Row(0))

	cp := s.Clone()
	cp.DeleteRow(0)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, 1, cp.Rows())
}
