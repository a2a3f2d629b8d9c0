package table

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/columnar"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/geometry"
	"github.com/ajitpratap0/datacontainer/pkg/json"
)

// shape is the input form detected by New
type shape int

const (
	shapeUnknown shape = iota
	shapeColumns
	shapeRows
	shapeGeoJSON
	shapeGroup
)

var shapeNames = map[shape]string{
	shapeUnknown: "unknown",
	shapeColumns: "column-oriented",
	shapeRows:    "row-oriented",
	shapeGeoJSON: "GeoJSON",
	shapeGroup:   "group",
}

func (s shape) String() string { return shapeNames[s] }

// group is the handle produced by groupBy and binning. It carries already
// validated columns and skips input validation.
type group struct {
	columns *columnar.Set
}

// detectShape classifies input. The checks are mutually exclusive: a
// FeatureCollection object is never column-oriented since its "type" field
// is not an array.
func detectShape(input interface{}) shape {
	switch v := input.(type) {
	case *group:
		return shapeGroup
	case map[string]interface{}:
		if v["type"] == "FeatureCollection" {
			return shapeGeoJSON
		}
		if len(v) == 0 {
			return shapeUnknown
		}
		for _, col := range v {
			if _, ok := toValues(col); !ok {
				return shapeUnknown
			}
		}
		return shapeColumns
	case map[string][]interface{}:
		if len(v) == 0 {
			return shapeUnknown
		}
		return shapeColumns
	case []map[string]interface{}:
		return shapeRows
	case []interface{}:
		for _, item := range v {
			if _, ok := item.(map[string]interface{}); !ok {
				return shapeUnknown
			}
		}
		return shapeRows
	}
	return shapeUnknown
}

// New creates a table from column-oriented input (a map from column name to
// a slice of values), row-oriented input (a slice of records with identical
// key sets) or a GeoJSON FeatureCollection (a decoded JSON object).
// Columns of map input are ordered by name.
func New(input interface{}, opts ...Option) (*Table, error) {
	var (
		set *columnar.Set
		err error
	)
	s := detectShape(input)
	switch s {
	case shapeColumns:
		set, err = columnsInput(input)
	case shapeRows:
		set, err = rowsInput(input)
	case shapeGeoJSON:
		set, err = geoJSONInput(input.(map[string]interface{}))
	case shapeGroup:
		set = input.(*group).columns
	default:
		return nil, errors.Newf(errors.ErrorTypeFormat,
			"input of type %T is not column-oriented, row-oriented or GeoJSON", input)
	}
	if err != nil {
		return nil, err
	}

	t := newTable(set, opts)
	if err := t.setupKey(); err != nil {
		return nil, err
	}
	t.log.Debug("table created",
		zap.Stringer("shape", s),
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", set.Len()))
	return t, nil
}

// FromColumns creates a table from named columns in the given order. Like
// map input to New, every column must hold at least one value.
func FromColumns(names []string, values [][]interface{}, opts ...Option) (*Table, error) {
	if len(names) != len(values) {
		return nil, errors.Newf(errors.ErrorTypeFormat,
			"got %d column names for %d columns", len(names), len(values))
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "column-oriented input needs at least one column")
	}
	for i, name := range names {
		if len(values[i]) == 0 {
			return nil, errors.Newf(errors.ErrorTypeSchema, "column %q is empty", name).
				WithDetail("column", name)
		}
	}
	set, err := buildColumns(names, values)
	if err != nil {
		return nil, err
	}
	return New(&group{columns: set}, opts...)
}

// FromJSON decodes a JSON document and creates a table from it. Numbers are
// kept exact until normalised to float64.
func FromJSON(data []byte, opts ...Option) (*Table, error) {
	var input interface{}
	if err := json.UnmarshalNumbers(data, &input); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to decode JSON input")
	}
	return New(input, opts...)
}

func columnsInput(input interface{}) (*columnar.Set, error) {
	raw := make(map[string][]interface{})
	switch v := input.(type) {
	case map[string]interface{}:
		for name, col := range v {
			raw[name], _ = toValues(col)
		}
	case map[string][]interface{}:
		raw = v
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	values := make([][]interface{}, len(names))
	for i, name := range names {
		if len(raw[name]) == 0 {
			return nil, errors.Newf(errors.ErrorTypeSchema, "column %q is empty", name).
				WithDetail("column", name)
		}
		values[i] = raw[name]
	}
	return buildColumns(names, values)
}

func rowsInput(input interface{}) (*columnar.Set, error) {
	var records []map[string]interface{}
	switch v := input.(type) {
	case []map[string]interface{}:
		records = v
	case []interface{}:
		records = make([]map[string]interface{}, len(v))
		for i, item := range v {
			records[i] = item.(map[string]interface{})
		}
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "row-oriented input needs at least one row")
	}

	names := make([]string, 0, len(records[0]))
	for name := range records[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([][]interface{}, len(names))
	for i := range values {
		values[i] = make([]interface{}, len(records))
	}
	for r, rec := range records {
		if len(rec) != len(names) {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"row %d has %d fields, expected %d", r, len(rec), len(names)).WithDetail("row", r)
		}
		for i, name := range names {
			v, ok := rec[name]
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeSchema, "row %d is missing field %q", r, name).
					WithDetail("row", r)
			}
			values[i][r] = v
		}
	}
	return buildColumns(names, values)
}

// geoJSONInput turns every feature property into a column and the feature
// geometries into $geometry. A property absent from a feature is missing.
func geoJSONInput(fc map[string]interface{}) (*columnar.Set, error) {
	features, ok := fc["features"].([]interface{})
	if !ok || len(features) == 0 {
		return nil, errors.New(errors.ErrorTypeFormat, "FeatureCollection needs a non-empty features array")
	}

	var names []string
	seen := make(map[string]struct{})
	props := make([]map[string]interface{}, len(features))
	geoms := make([]interface{}, len(features))
	for i, item := range features {
		feature, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeFormat, "feature %d is not an object", i)
		}
		if raw, ok := feature["geometry"].(map[string]interface{}); ok {
			g, err := geometry.Parse(raw)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrorTypeFormat, "feature %d", i)
			}
			geoms[i] = g
		}
		props[i], _ = feature["properties"].(map[string]interface{})
		for name := range props[i] {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	values := make([][]interface{}, 0, len(names)+1)
	for _, name := range names {
		col := make([]interface{}, len(features))
		for i, p := range props {
			col[i] = p[name]
		}
		values = append(values, col)
	}
	names = append(names, datatype.GeometryColumn)
	values = append(values, geoms)
	return buildColumns(names, values)
}

// buildColumns validates names, normalises values and assembles the set.
func buildColumns(names []string, values [][]interface{}) (*columnar.Set, error) {
	set := columnar.NewSet()
	for i, name := range names {
		if err := validateName(name); err != nil {
			return nil, err
		}
		normalized, err := normalizeValues(values[i], name)
		if err != nil {
			return nil, err
		}
		col, err := columnar.NewColumn(name, normalized)
		if err != nil {
			return nil, err
		}
		if err := set.Add(col); err != nil {
			return nil, err
		}
	}
	return set, nil
}

var reservedNames = map[string]struct{}{
	datatype.KeyColumn:      {},
	datatype.GeometryColumn: {},
	datatype.GroupedColumn:  {},
}

// validateName rejects empty names, names containing '/' and names starting
// with '$' other than the reserved ones.
func validateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrorTypeSchema, "column name must not be empty")
	}
	if strings.Contains(name, "/") {
		return errors.Newf(errors.ErrorTypeSchema, "column name %q must not contain '/'", name).
			WithDetail("column", name)
	}
	if strings.HasPrefix(name, "$") {
		if _, ok := reservedNames[name]; !ok {
			return errors.Newf(errors.ErrorTypeSchema,
				"column name %q must not start with '$'", name).WithDetail("column", name)
		}
	}
	return nil
}

func normalizeValues(values []interface{}, column string) ([]interface{}, error) {
	out := make([]interface{}, len(values))
	for i, v := range values {
		n, err := normalizeValue(v)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.WithDetail("column", column).WithDetail("row", i)
			}
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// normalizeValue maps an input value to its stored form: numbers become
// float64, numeric pairs become intervals and geometry objects are parsed.
// Values of no known shape are kept and behave as missing.
func normalizeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if f, ok := datatype.ToFloat(v); ok {
		return f, nil
	}
	switch x := v.(type) {
	case string, time.Time, datatype.Interval, *geometry.Geometry, datatype.Nested:
		return v, nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	}
	if iv, ok := datatype.ToInterval(v); ok {
		return iv, nil
	}
	g, isGeometry, err := geometry.FromValue(v)
	if err != nil {
		return nil, err
	}
	if isGeometry {
		return g, nil
	}
	return v, nil
}

// toValues converts any slice to []interface{}
func toValues(col interface{}) ([]interface{}, bool) {
	switch v := col.(type) {
	case []interface{}:
		return v, true
	case []float64:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []string:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}

	rv := reflect.ValueOf(col)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
