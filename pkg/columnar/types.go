// Package columnar provides the column storage behind a table: named,
// ordered, fixed-type sequences of values kept in an insertion-ordered set.
package columnar

import (
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Column is a named sequence of values of one semantic type. Invalid
// (missing or non-finite) values may appear anywhere and carry no type.
type Column struct {
	name   string
	typ    datatype.Type
	values []interface{}
}

// NewColumn creates a column from values, validating homogeneity.
// The values slice is copied.
func NewColumn(name string, values []interface{}) (*Column, error) {
	if err := datatype.EnsureHomogeneous(values, name); err != nil {
		return nil, err
	}
	return newColumn(name, append([]interface{}(nil), values...)), nil
}

// newColumn wraps already validated values without copying
func newColumn(name string, values []interface{}) *Column {
	return &Column{
		name:   name,
		typ:    datatype.ColumnType(values),
		values: values,
	}
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Type returns the semantic type, Invalid while the column holds no valid value
func (c *Column) Type() datatype.Type { return c.typ }

// Len returns the number of values
func (c *Column) Len() int { return len(c.values) }

// Get returns the value at row i
func (c *Column) Get(i int) interface{} { return c.values[i] }

// Values returns a copy of the values
func (c *Column) Values() []interface{} {
	return append([]interface{}(nil), c.values...)
}

// View returns the backing values. Callers must not modify or retain it
// across a mutation.
func (c *Column) View() []interface{} { return c.values }

// Append adds a value at the end
func (c *Column) Append(value interface{}) error {
	if err := c.Check(value); err != nil {
		return err
	}
	c.adopt(value)
	c.values = append(c.values, value)
	return nil
}

// Set replaces the value at row i
func (c *Column) Set(i int, value interface{}) error {
	if err := c.Check(value); err != nil {
		return err
	}
	c.adopt(value)
	c.values[i] = value
	// a column that lost its only valid value may change type later
	if datatype.TypeOf(value) == datatype.Invalid {
		c.typ = datatype.ColumnType(c.values)
	}
	return nil
}

// Delete removes the value at row i
func (c *Column) Delete(i int) {
	copy(c.values[i:], c.values[i+1:])
	c.values[len(c.values)-1] = nil
	c.values = c.values[:len(c.values)-1]
	if c.typ != datatype.Invalid {
		c.typ = datatype.ColumnType(c.values)
	}
}

// Clone returns an independent copy sharing no storage with c
func (c *Column) Clone() *Column {
	return &Column{name: c.name, typ: c.typ, values: c.Values()}
}

// Take returns a new column holding the values at the given rows, in order
func (c *Column) Take(rows []int) *Column {
	values := make([]interface{}, len(rows))
	for i, r := range rows {
		values[i] = c.values[r]
	}
	return newColumn(c.name, values)
}

// Check reports whether value fits the column type without modifying the column.
func (c *Column) Check(value interface{}) error {
	t := datatype.TypeOf(value)
	if t == datatype.Invalid {
		return nil
	}
	if (c.name == datatype.GeometryColumn) != (t == datatype.Geometry) {
		return errors.Newf(errors.ErrorTypeSchema,
			"%s value does not belong in column %q", t, c.name).WithDetail("column", c.name)
	}
	if c.typ != datatype.Invalid && t != c.typ {
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q holds %s values, got %s", c.name, c.typ, t).
			WithDetail("column", c.name)
	}
	return nil
}

// adopt fixes the column type on the first valid value
func (c *Column) adopt(value interface{}) {
	if c.typ == datatype.Invalid {
		c.typ = datatype.TypeOf(value)
	}
}
