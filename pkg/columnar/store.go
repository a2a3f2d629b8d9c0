package columnar

import (
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Set is an insertion-ordered collection of equal-length columns.
type Set struct {
	names   []string
	columns map[string]*Column
	rows    int
}

// NewSet creates an empty column set
func NewSet() *Set {
	return &Set{
		columns: make(map[string]*Column),
	}
}

// Add appends a column. Its length must match the existing columns.
func (s *Set) Add(col *Column) error {
	if _, exists := s.columns[col.Name()]; exists {
		return errors.Newf(errors.ErrorTypeSchema, "column %q already exists", col.Name()).
			WithDetail("column", col.Name())
	}
	if len(s.names) > 0 && col.Len() != s.rows {
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q has length %d, expected %d", col.Name(), col.Len(), s.rows).
			WithDetail("column", col.Name())
	}
	if len(s.names) == 0 {
		s.rows = col.Len()
	}
	s.names = append(s.names, col.Name())
	s.columns[col.Name()] = col
	return nil
}

// Replace swaps the column with the same name, keeping its position.
func (s *Set) Replace(col *Column) error {
	if _, exists := s.columns[col.Name()]; !exists {
		return errors.Newf(errors.ErrorTypeSchema, "column %q not found", col.Name()).
			WithDetail("column", col.Name())
	}
	if col.Len() != s.rows {
		return errors.Newf(errors.ErrorTypeSchema,
			"column %q has length %d, expected %d", col.Name(), col.Len(), s.rows).
			WithDetail("column", col.Name())
	}
	s.columns[col.Name()] = col
	return nil
}

// Remove deletes a column, reporting whether it existed
func (s *Set) Remove(name string) bool {
	if _, exists := s.columns[name]; !exists {
		return false
	}
	delete(s.columns, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Get retrieves a column by name
func (s *Set) Get(name string) (*Column, bool) {
	col, exists := s.columns[name]
	return col, exists
}

// Names returns the column names in insertion order
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of columns
func (s *Set) Len() int { return len(s.names) }

// Rows returns the number of rows
func (s *Set) Rows() int { return s.rows }

// Row returns the values of row i keyed by column name
func (s *Set) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(s.names))
	for _, name := range s.names {
		row[name] = s.columns[name].Get(i)
	}
	return row
}

// CheckRow validates a full row against the column types without mutating.
// Every column must be present in row and no unknown names are allowed.
func (s *Set) CheckRow(row map[string]interface{}) error {
	for name := range row {
		if _, ok := s.columns[name]; !ok {
			return errors.Newf(errors.ErrorTypeSchema, "unknown column %q", name).
				WithDetail("column", name)
		}
	}
	for _, name := range s.names {
		value, ok := row[name]
		if !ok {
			return errors.Newf(errors.ErrorTypeSchema, "row is missing column %q", name).
				WithDetail("column", name)
		}
		if err := s.columns[name].Check(value); err != nil {
			return err
		}
	}
	return nil
}

// AppendRow appends a full row after validating it with CheckRow
func (s *Set) AppendRow(row map[string]interface{}) error {
	if err := s.CheckRow(row); err != nil {
		return err
	}
	for _, name := range s.names {
		// CheckRow guarantees this succeeds
		_ = s.columns[name].Append(row[name])
	}
	s.rows++
	return nil
}

// DeleteRow removes row i from every column
func (s *Set) DeleteRow(i int) {
	for _, name := range s.names {
		s.columns[name].Delete(i)
	}
	s.rows--
}

// Take returns a new set holding the given rows of every column, in order
func (s *Set) Take(rows []int) *Set {
	out := NewSet()
	for _, name := range s.names {
		out.names = append(out.names, name)
		out.columns[name] = s.columns[name].Take(rows)
	}
	out.rows = len(rows)
	return out
}

// Clone returns a deep copy sharing no column storage with s
func (s *Set) Clone() *Set {
	out := NewSet()
	for _, name := range s.names {
		out.names = append(out.names, name)
		out.columns[name] = s.columns[name].Clone()
	}
	out.rows = s.rows
	return out
}
