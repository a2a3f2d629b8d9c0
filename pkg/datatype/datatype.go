// Package datatype classifies single values and whole columns into the
// semantic types understood by the container.
//
// Types overlap structurally, so detection follows a fixed order: number,
// string, time, two-element numeric pair, geometry, nested table. Missing
// values (nil) and non-finite numbers are invalid: they carry no type and are
// skipped by inference instead of being rejected.
package datatype

import (
	"encoding/json"
	"math"
	"time"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Type is the semantic type of a value or column
type Type int

const (
	// Invalid marks missing values, non-finite numbers and unknown shapes
	Invalid Type = iota
	// Quantitative values are finite numbers
	Quantitative
	// Categorical values are strings
	Categorical
	// Temporal values are time instants
	Temporal
	// IntervalType values are [lo, hi] number pairs
	IntervalType
	// Geometry values are GeoJSON-like geometry objects
	Geometry
	// Grouped values are nested tables
	Grouped
)

// Reserved column names
const (
	KeyColumn      = "$key"
	GeometryColumn = "$geometry"
	GroupedColumn  = "$grouped"
)

var typeNames = map[Type]string{
	Invalid:      "invalid",
	Quantitative: "quantitative",
	Categorical:  "categorical",
	Temporal:     "temporal",
	IntervalType: "interval",
	Geometry:     "geometry",
	Grouped:      "grouped",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText renders the type name, so types read naturally in JSON and YAML output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Interval is a pair of numbers [lo, hi]. Bin ranges are intervals too.
type Interval [2]float64

// Lo returns the first element
func (iv Interval) Lo() float64 { return iv[0] }

// Hi returns the second element
func (iv Interval) Hi() float64 { return iv[1] }

// Sorted returns the pair in ascending order
func (iv Interval) Sorted() Interval {
	if iv[0] > iv[1] {
		return Interval{iv[1], iv[0]}
	}
	return iv
}

// Spatial is implemented by geometry values.
type Spatial interface {
	// GeometryType returns the GeoJSON discriminant ("Point", "Polygon", ...)
	GeometryType() string
	// EachPosition calls fn for every coordinate pair, recursing into collections
	EachPosition(fn func(x, y float64))
}

// Nested is implemented by tables stored inside a $grouped column.
type Nested interface {
	NumRows() int
	ColumnNames() []string
}

// TypeOf classifies a single value. It returns Invalid for missing values,
// non-finite numbers and values of no known shape.
func TypeOf(value interface{}) Type {
	if value == nil {
		return Invalid
	}
	if f, ok := ToFloat(value); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Invalid
		}
		return Quantitative
	}

	switch v := value.(type) {
	case string:
		return Categorical
	case time.Time:
		return Temporal
	case *time.Time:
		if v == nil {
			return Invalid
		}
		return Temporal
	}

	if iv, ok := ToInterval(value); ok {
		if !finite(iv[0]) || !finite(iv[1]) {
			return Invalid
		}
		return IntervalType
	}

	switch v := value.(type) {
	case Spatial:
		return Geometry
	case map[string]interface{}:
		_, hasType := v["type"]
		_, hasCoordinates := v["coordinates"]
		if hasType && hasCoordinates {
			return Geometry
		}
	case Nested:
		return Grouped
	}

	return Invalid
}

// IsValid reports whether value carries a type.
func IsValid(value interface{}) bool {
	return TypeOf(value) != Invalid
}

// ToFloat converts any Go numeric kind or json.Number to float64.
// It reports false for every other value, including numeric strings.
func ToFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInterval converts an Interval, a [2]float64 or a two-element numeric
// slice to an Interval.
func ToInterval(value interface{}) (Interval, bool) {
	switch v := value.(type) {
	case Interval:
		return v, true
	case [2]float64:
		return Interval(v), true
	case []float64:
		if len(v) == 2 {
			return Interval{v[0], v[1]}, true
		}
	case []interface{}:
		if len(v) == 2 {
			lo, ok1 := ToFloat(v[0])
			hi, ok2 := ToFloat(v[1])
			if ok1 && ok2 {
				return Interval{lo, hi}, true
			}
		}
	}
	return Interval{}, false
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ColumnType returns the type of the first valid value, scanning from index 0.
// A column of only invalid values has type Invalid.
func ColumnType(values []interface{}) Type {
	for _, v := range values {
		if t := TypeOf(v); t != Invalid {
			return t
		}
	}
	return Invalid
}

// EnsureHomogeneous fails with a schema error if a valid value's type differs
// from the column type, or if geometry values live outside the $geometry
// column (or the $geometry column holds anything else).
func EnsureHomogeneous(values []interface{}, name string) error {
	colType := ColumnType(values)
	for i, v := range values {
		t := TypeOf(v)
		if t == Invalid || t == colType {
			continue
		}
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q mixes %s and %s values", name, colType, t).
			WithDetail("column", name).
			WithDetail("row", i)
	}

	if name == GeometryColumn && colType != Invalid && colType != Geometry {
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q must hold geometries, found %s", name, colType).
			WithDetail("column", name)
	}
	if name != GeometryColumn && colType == Geometry {
		return errors.Newf(errors.ErrorTypeSchema,
			"geometries are only allowed in the %q column, found in %q", GeometryColumn, name).
			WithDetail("column", name)
	}
	return nil
}
