// Package table implements the column-oriented data container.
//
// A Table holds equal-length typed columns, a $key column giving every row a
// stable identity, and a lazily created cache of column domains. Tables are
// built from column-oriented, row-oriented or GeoJSON input:
//
//	tbl, err := table.New(map[string]interface{}{
//	    "a": []interface{}{1, 2, 3, 4, 5, 6, 7},
//	    "b": []interface{}{8, 9, 10, 11, 12, 13, 14},
//	})
//
// Modifications (AddRow, UpdateRow, DeleteRow, AddColumn, ReplaceColumn,
// DeleteColumn) mutate the receiver. Transformations (Filter, Select, Clone,
// Arrange, GroupBy, Ungroup, Bin) return a new table that shares no column
// storage with its source.
//
// A Table is not safe for concurrent use.
package table

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/columnar"
	"github.com/ajitpratap0/datacontainer/pkg/config"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/domain"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/keyindex"
	"github.com/ajitpratap0/datacontainer/pkg/logger"
)

// Table is an in-memory column-oriented data container.
type Table struct {
	columns *columnar.Set
	index   *keyindex.Index
	// domains is created on the first Domain call
	domains *domain.Cache
	// customKeys is set when the $key column came from the caller
	customKeys bool

	log *zap.Logger
	cfg *config.Config
}

// Option configures a Table
type Option func(*Table)

// WithLogger sets the logger receiving diagnostics. Defaults to logger.Get().
func WithLogger(l *zap.Logger) Option {
	return func(t *Table) {
		if l != nil {
			t.log = l
		}
	}
}

// WithConfig sets the configuration providing binning defaults.
// Defaults to config.NewDefault().
func WithConfig(cfg *config.Config) Option {
	return func(t *Table) {
		if cfg != nil {
			t.cfg = cfg
		}
	}
}

func newTable(set *columnar.Set, opts []Option) *Table {
	t := &Table{columns: set}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get()
	}
	if t.cfg == nil {
		t.cfg = config.NewDefault()
	}
	return t
}

// derive creates a table over set carrying the receiver's logger and config
func (t *Table) derive(set *columnar.Set) *Table {
	return &Table{columns: set, log: t.log, cfg: t.cfg}
}

// NumRows returns the number of rows
func (t *Table) NumRows() int { return t.columns.Rows() }

// ColumnNames returns the column names in order, $key included
func (t *Table) ColumnNames() []string { return t.columns.Names() }

// HasColumn reports whether a column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns.Get(name)
	return ok
}

// CustomKeys reports whether the $key column was supplied by the caller
// rather than generated.
func (t *Table) CustomKeys() bool { return t.customKeys }

func (t *Table) column(name string) (*columnar.Column, error) {
	col, ok := t.columns.Get(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeSchema, "column %q not found", name).
			WithDetail("column", name)
	}
	return col, nil
}

// Column returns a copy of the values of the named column
func (t *Table) Column(name string) ([]interface{}, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	return col.Values(), nil
}

// Type returns the semantic type of the named column. A column holding
// only missing values has type Invalid.
func (t *Table) Type(name string) (datatype.Type, error) {
	col, err := t.column(name)
	if err != nil {
		return datatype.Invalid, err
	}
	return col.Type(), nil
}

// Domain returns the value range of the named column, computing and caching
// it on first use.
func (t *Table) Domain(name string) (domain.Domain, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if t.domains == nil {
		t.domains = domain.NewCache(t.log)
	}
	return t.domains.Get(name, col.View())
}

// invalidate drops the cached domains of the given columns
func (t *Table) invalidate(names ...string) {
	if t.domains != nil {
		t.domains.Invalidate(names...)
	}
}

// Row returns the row addressed by acc as a map from column name to value.
// An index outside [0, NumRows) is a key error.
func (t *Table) Row(acc keyindex.Accessor) (map[string]interface{}, error) {
	i, err := t.resolve(acc)
	if err != nil {
		return nil, err
	}
	return t.columns.Row(i), nil
}

// Rows returns every row in order
func (t *Table) Rows() []map[string]interface{} {
	rows := make([]map[string]interface{}, t.NumRows())
	for i := range rows {
		rows[i] = t.columns.Row(i)
	}
	return rows
}

// Keys returns the $key values in row order
func (t *Table) Keys() []interface{} {
	col, _ := t.columns.Get(datatype.KeyColumn)
	return col.Values()
}

func (t *Table) resolve(acc keyindex.Accessor) (int, error) {
	i, err := t.index.Resolve(acc)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= t.NumRows() {
		return 0, errors.Newf(errors.ErrorTypeKey, "no row at index %d", i).
			WithDetail("index", i).
			WithDetail("rows", t.NumRows())
	}
	return i, nil
}

// setupKey validates a caller supplied $key column or generates one, then
// builds the key index.
func (t *Table) setupKey() error {
	if col, ok := t.columns.Get(datatype.KeyColumn); ok {
		idx, err := keyindex.Build(col.View())
		if err != nil {
			return err
		}
		t.index = idx
		t.customKeys = true
		return nil
	}

	keys, err := columnar.NewColumn(datatype.KeyColumn, keyindex.Generate(t.NumRows()))
	if err != nil {
		return err
	}
	if err := t.columns.Add(keys); err != nil {
		return err
	}
	idx, err := keyindex.Build(keys.View())
	if err != nil {
		return err
	}
	t.index = idx
	return nil
}
