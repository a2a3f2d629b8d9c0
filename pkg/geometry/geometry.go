// Package geometry holds GeoJSON-like geometry values stored in the
// $geometry column. It parses decoded JSON objects into a typed form and
// walks every coordinate of every geometry type.
package geometry

import (
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// GeoJSON geometry discriminants
const (
	Point              = "Point"
	MultiPoint         = "MultiPoint"
	LineString         = "LineString"
	MultiLineString    = "MultiLineString"
	Polygon            = "Polygon"
	MultiPolygon       = "MultiPolygon"
	GeometryCollection = "GeometryCollection"
)

// Position is an (x, y) coordinate. Altitude is dropped on parse.
type Position [2]float64

// Geometry is a parsed GeoJSON geometry. Coordinates holds a Position for
// Point, []Position for LineString and MultiPoint, [][]Position for Polygon
// and MultiLineString and [][][]Position for MultiPolygon.
// GeometryCollection uses Geometries instead.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates,omitempty"`
	Geometries  []*Geometry `json:"geometries,omitempty"`
}

// depth is the nesting level of positions inside Coordinates
var depth = map[string]int{
	Point:           0,
	MultiPoint:      1,
	LineString:      1,
	MultiLineString: 2,
	Polygon:         2,
	MultiPolygon:    3,
}

// GeometryType returns the GeoJSON discriminant
func (g *Geometry) GeometryType() string { return g.Type }

// EachPosition calls fn for every coordinate, recursing into collections.
func (g *Geometry) EachPosition(fn func(x, y float64)) {
	if g == nil {
		return
	}
	switch c := g.Coordinates.(type) {
	case Position:
		fn(c[0], c[1])
	case []Position:
		for _, p := range c {
			fn(p[0], p[1])
		}
	case [][]Position:
		for _, ring := range c {
			for _, p := range ring {
				fn(p[0], p[1])
			}
		}
	case [][][]Position:
		for _, poly := range c {
			for _, ring := range poly {
				for _, p := range ring {
					fn(p[0], p[1])
				}
			}
		}
	}
	for _, child := range g.Geometries {
		child.EachPosition(fn)
	}
}

// Clone returns a deep copy
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	out := &Geometry{Type: g.Type}
	switch c := g.Coordinates.(type) {
	case Position:
		out.Coordinates = c
	case []Position:
		out.Coordinates = append([]Position(nil), c...)
	case [][]Position:
		rings := make([][]Position, len(c))
		for i, ring := range c {
			rings[i] = append([]Position(nil), ring...)
		}
		out.Coordinates = rings
	case [][][]Position:
		polys := make([][][]Position, len(c))
		for i, poly := range c {
			polys[i] = make([][]Position, len(poly))
			for j, ring := range poly {
				polys[i][j] = append([]Position(nil), ring...)
			}
		}
		out.Coordinates = polys
	}
	for _, child := range g.Geometries {
		out.Geometries = append(out.Geometries, child.Clone())
	}
	return out
}

// Parse converts a decoded GeoJSON geometry object into a Geometry.
func Parse(obj map[string]interface{}) (*Geometry, error) {
	typ, _ := obj["type"].(string)
	if typ == GeometryCollection {
		raw, ok := obj["geometries"].([]interface{})
		if !ok {
			return nil, errors.New(errors.ErrorTypeFormat, "GeometryCollection without geometries")
		}
		g := &Geometry{Type: typ}
		for i, item := range raw {
			childObj, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeFormat, "geometry %d of collection is not an object", i)
			}
			child, err := Parse(childObj)
			if err != nil {
				return nil, err
			}
			g.Geometries = append(g.Geometries, child)
		}
		return g, nil
	}

	d, ok := depth[typ]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeFormat, "unknown geometry type %q", typ)
	}
	coords, err := parseCoordinates(obj["coordinates"], d)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFormat, "invalid %s coordinates", typ)
	}
	return &Geometry{Type: typ, Coordinates: coords}, nil
}

// FromValue returns value as a geometry, parsing decoded JSON objects.
func FromValue(value interface{}) (*Geometry, bool, error) {
	switch v := value.(type) {
	case *Geometry:
		return v, true, nil
	case Geometry:
		return &v, true, nil
	case map[string]interface{}:
		if datatype.TypeOf(v) != datatype.Geometry && v["type"] != GeometryCollection {
			return nil, false, nil
		}
		g, err := Parse(v)
		if err != nil {
			return nil, true, err
		}
		return g, true, nil
	}
	return nil, false, nil
}

func parseCoordinates(raw interface{}, d int) (interface{}, error) {
	if d == 0 {
		return parsePosition(raw)
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New(errors.ErrorTypeFormat, "coordinates must be an array")
	}
	switch d {
	case 1:
		out := make([]Position, 0, len(items))
		for _, item := range items {
			p, err := parsePosition(item)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case 2:
		out := make([][]Position, 0, len(items))
		for _, item := range items {
			line, err := parseCoordinates(item, 1)
			if err != nil {
				return nil, err
			}
			out = append(out, line.([]Position))
		}
		return out, nil
	default:
		out := make([][][]Position, 0, len(items))
		for _, item := range items {
			poly, err := parseCoordinates(item, 2)
			if err != nil {
				return nil, err
			}
			out = append(out, poly.([][]Position))
		}
		return out, nil
	}
}

func parsePosition(raw interface{}) (Position, error) {
	switch v := raw.(type) {
	case Position:
		return v, nil
	case []float64:
		if len(v) >= 2 {
			return Position{v[0], v[1]}, nil
		}
	case []interface{}:
		if len(v) >= 2 {
			x, ok1 := datatype.ToFloat(v[0])
			y, ok2 := datatype.ToFloat(v[1])
			if ok1 && ok2 {
				return Position{x, y}, nil
			}
		}
	}
	return Position{}, errors.New(errors.ErrorTypeFormat, "position must hold at least two numbers")
}
