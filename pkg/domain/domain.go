// Package domain computes the value range ("domain") of a column according
// to its semantic type and memoizes it per column name.
package domain

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Domain is the observed value range of a column. Its concrete type depends
// on the column type: Range for quantitative and interval columns,
// Categories, TimeRange, BBox, or Empty for an empty scalar column.
type Domain interface {
	isDomain()
}

// Range is a [min, max] numeric domain
type Range [2]float64

// Min returns the lower bound
func (r Range) Min() float64 { return r[0] }

// Max returns the upper bound
func (r Range) Max() float64 { return r[1] }

// Categories lists the unique values of a categorical column in first-seen order
type Categories []string

// TimeRange is an [earliest, latest] temporal domain
type TimeRange [2]time.Time

// BBox is the bounding box of a geometry column. X and Y hold [min, max]
// or are empty for an empty column.
type BBox struct {
	X []float64 `json:"x" yaml:"x"`
	Y []float64 `json:"y" yaml:"y"`
}

// Empty is the domain of an empty scalar column
type Empty struct{}

func (Range) isDomain()      {}
func (Categories) isDomain() {}
func (TimeRange) isDomain()  {}
func (BBox) isDomain()       {}
func (Empty) isDomain()      {}

// Copy returns d with fresh backing storage for its slice-backed forms.
func Copy(d Domain) Domain {
	switch v := d.(type) {
	case Categories:
		return append(Categories{}, v...)
	case BBox:
		return BBox{X: append([]float64{}, v.X...), Y: append([]float64{}, v.Y...)}
	}
	return d
}

// absorbing seeds for the running min/max fold
const (
	seedMin = math.MaxFloat64
	seedMax = -math.MaxFloat64
)

const day = 24 * time.Hour

// Calculate computes the domain of a column. Special cases are checked in
// order: grouped column, empty column, all-missing column, single value.
// A nil logger disables the single-value notice.
func Calculate(values []interface{}, name string, log *zap.Logger) (Domain, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if name == datatype.GroupedColumn {
		return nil, errors.Newf(errors.ErrorTypeDomain,
			"cannot calculate domain of column %q", name).WithDetail("column", name)
	}

	if len(values) == 0 {
		if name == datatype.GeometryColumn {
			return BBox{X: []float64{}, Y: []float64{}}, nil
		}
		return Empty{}, nil
	}

	valid := make([]interface{}, 0, len(values))
	for _, v := range values {
		if datatype.IsValid(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return nil, errors.Newf(errors.ErrorTypeDomain,
			"column %q contains only missing values", name).WithDetail("column", name)
	}

	colType := datatype.TypeOf(valid[0])
	if colType == datatype.Grouped {
		return nil, errors.Newf(errors.ErrorTypeDomain,
			"cannot calculate domain of grouped values in column %q", name).WithDetail("column", name)
	}

	if d, ok := singleValue(valid, colType); ok {
		if colType != datatype.Categorical {
			log.Warn("column has only one unique value, using synthetic domain",
				zap.String("column", name),
				zap.Stringer("type", colType))
		}
		return d, nil
	}

	return fold(valid, colType, name)
}

// singleValue returns the synthetic domain used when a column holds exactly
// one valid value or one unique valid value.
func singleValue(valid []interface{}, colType datatype.Type) (Domain, bool) {
	if len(valid) != 1 && uniqueCount(valid, colType) != 1 {
		return nil, false
	}
	v := valid[0]
	switch colType {
	case datatype.Quantitative:
		f, _ := datatype.ToFloat(v)
		return Range{f - 1, f + 1}, true
	case datatype.Temporal:
		t := toTime(v)
		return TimeRange{t.Add(-day), t.Add(day)}, true
	case datatype.Categorical:
		return Categories{v.(string)}, true
	case datatype.IntervalType:
		iv, _ := datatype.ToInterval(v)
		s := iv.Sorted()
		return Range{s[0], s[1]}, true
	}
	return nil, false
}

// uniqueCount counts distinct values using a type-appropriate identity:
// raw equality for numbers and strings, the instant for times and the
// structural pair for intervals. Geometries are never collapsed.
func uniqueCount(valid []interface{}, colType datatype.Type) int {
	seen := make(map[interface{}]struct{}, len(valid))
	for _, v := range valid {
		var id interface{}
		switch colType {
		case datatype.Quantitative:
			id, _ = datatype.ToFloat(v)
		case datatype.Categorical:
			id = v
		case datatype.Temporal:
			id = toTime(v).UnixNano()
		case datatype.IntervalType:
			id, _ = datatype.ToInterval(v)
		default:
			return len(valid)
		}
		seen[id] = struct{}{}
	}
	return len(seen)
}

func fold(valid []interface{}, colType datatype.Type, name string) (Domain, error) {
	mixed := func(t datatype.Type, i int) error {
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q mixes %s and %s values", name, colType, t).
			WithDetail("column", name).
			WithDetail("index", i)
	}

	switch colType {
	case datatype.Quantitative, datatype.IntervalType:
		lo, hi := seedMin, seedMax
		update := func(f float64) {
			if f <= lo {
				lo = f
			}
			if f >= hi {
				hi = f
			}
		}
		for i, v := range valid {
			if t := datatype.TypeOf(v); t != colType {
				return nil, mixed(t, i)
			}
			if colType == datatype.Quantitative {
				f, _ := datatype.ToFloat(v)
				update(f)
				continue
			}
			iv, _ := datatype.ToInterval(v)
			update(iv[0])
			update(iv[1])
		}
		return Range{lo, hi}, nil

	case datatype.Categorical:
		seen := make(map[string]struct{})
		out := Categories{}
		for i, v := range valid {
			s, ok := v.(string)
			if !ok {
				return nil, mixed(datatype.TypeOf(v), i)
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
		return out, nil

	case datatype.Temporal:
		var lo, hi time.Time
		for i, v := range valid {
			if t := datatype.TypeOf(v); t != colType {
				return nil, mixed(t, i)
			}
			t := toTime(v)
			if i == 0 || t.UnixNano() <= lo.UnixNano() {
				lo = t
			}
			if i == 0 || t.UnixNano() >= hi.UnixNano() {
				hi = t
			}
		}
		return TimeRange{lo, hi}, nil

	case datatype.Geometry:
		minX, maxX, minY, maxY := seedMin, seedMax, seedMin, seedMax
		found := false
		for i, v := range valid {
			g, ok := v.(datatype.Spatial)
			if !ok {
				return nil, mixed(datatype.TypeOf(v), i)
			}
			g.EachPosition(func(x, y float64) {
				found = true
				if x <= minX {
					minX = x
				}
				if x >= maxX {
					maxX = x
				}
				if y <= minY {
					minY = y
				}
				if y >= maxY {
					maxY = y
				}
			})
		}
		if !found {
			return BBox{X: []float64{}, Y: []float64{}}, nil
		}
		return BBox{X: []float64{minX, maxX}, Y: []float64{minY, maxY}}, nil
	}

	return nil, errors.Newf(errors.ErrorTypeDomain,
		"cannot calculate domain of %s column %q", colType, name).WithDetail("column", name)
}

func toTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		return *t
	}
	return time.Time{}
}
