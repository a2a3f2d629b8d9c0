package datatype

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

type fakeGeometry struct{}

func (fakeGeometry) GeometryType() string               { return "Point" }
func (fakeGeometry) EachPosition(fn func(x, y float64)) { fn(1, 2) }

type fakeTable struct{}

func (fakeTable) NumRows() int          { return 0 }
func (fakeTable) ColumnNames() []string { return nil }

func TestTypeOf(t *testing.T) {
	now := time.Now()
	var nilTime *time.Time

	tests := []struct {
		name  string
		value interface{}
		want  Type
	}{
		{"nil", nil, Invalid},
		{"int", 3, Quantitative},
		{"float", 2.5, Quantitative},
		{"uint8", uint8(7), Quantitative},
		{"json number", json.Number("12.5"), Quantitative},
		{"bad json number", json.Number("x"), Invalid},
		{"NaN", math.NaN(), Invalid},
		{"Inf", math.Inf(-1), Invalid},
		{"string", "x", Categorical},
		{"numeric string", "12", Categorical},
		{"empty string", "", Categorical},
		{"time", now, Temporal},
		{"time pointer", &now, Temporal},
		{"nil time pointer", nilTime, Invalid},
		{"interval", Interval{1, 2}, IntervalType},
		{"pair slice", []interface{}{1, 2.5}, IntervalType},
		{"float pair", []float64{0, 1}, IntervalType},
		{"non-finite pair", []interface{}{1, math.NaN()}, Invalid},
		{"triple", []interface{}{1, 2, 3}, Invalid},
		{"string pair", []interface{}{"a", "b"}, Invalid},
		{"geometry object", map[string]interface{}{"type": "Point", "coordinates": []interface{}{1, 2}}, Geometry},
		{"plain object", map[string]interface{}{"type": "Point"}, Invalid},
		{"spatial", fakeGeometry{}, Geometry},
		{"nested", fakeTable{}, Grouped},
		{"bool", true, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.value))
			assert.Equal(t, tt.want != Invalid, IsValid(tt.value))
		})
	}
}

func TestType_Text(t *testing.T) {
	assert.Equal(t, "quantitative", Quantitative.String())
	assert.Equal(t, "unknown", Type(99).String())

	b, err := json.Marshal(map[string]Type{"t": Temporal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"temporal"}`, string(b))
}

func TestInterval(t *testing.T) {
	iv := Interval{5, 1}
	assert.Equal(t, 5.0, iv.Lo())
	assert.Equal(t, 1.0, iv.Hi())
	assert.Equal(t, Interval{1, 5}, iv.Sorted())
	assert.Equal(t, Interval{1, 5}, Interval{1, 5}.Sorted())

	got, ok := ToInterval([2]float64{3, 4})
	assert.True(t, ok)
	assert.Equal(t, Interval{3, 4}, got)

	_, ok = ToInterval("3-4")
	assert.False(t, ok)
}

func TestColumnType(t *testing.T) {
	assert.Equal(t, Quantitative, ColumnType([]interface{}{nil, math.NaN(), 1, "x"}))
	assert.Equal(t, Categorical, ColumnType([]interface{}{nil, "x"}))
	assert.Equal(t, Invalid, ColumnType([]interface{}{nil, nil}))
	assert.Equal(t, Invalid, ColumnType(nil))
}

func TestEnsureHomogeneous(t *testing.T) {
	geom := map[string]interface{}{"type": "Point", "coordinates": []interface{}{1, 2}}

	tests := []struct {
		name    string
		column  string
		values  []interface{}
		wantErr bool
	}{
		{"numbers with gaps", "a", []interface{}{1, nil, 2, math.NaN()}, false},
		{"all missing", "a", []interface{}{nil, nil}, false},
		{"mixed", "a", []interface{}{1, "x"}, true},
		{"mixed after missing", "a", []interface{}{nil, "x", 2}, true},
		{"geometry column", GeometryColumn, []interface{}{geom, nil}, false},
		{"geometry column with numbers", GeometryColumn, []interface{}{1, 2}, true},
		{"geometry outside its column", "shape", []interface{}{geom}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureHomogeneous(tt.values, tt.column)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
		})
	}
}
