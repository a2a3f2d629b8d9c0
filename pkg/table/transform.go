package table

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ajitpratap0/datacontainer/pkg/columnar"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := t.derive(t.columns.Clone())
	out.index = t.index.Clone()
	out.customKeys = t.customKeys
	return out
}

// Filter returns a table holding the rows for which keep returns true.
// Rows keep their keys.
func (t *Table) Filter(keep func(row map[string]interface{}) bool) (*Table, error) {
	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		if keep(t.columns.Row(i)) {
			rows = append(rows, i)
		}
	}
	return t.subTable(rows, nil)
}

// Select returns a table holding only the named columns, in the given
// order, plus $key.
func (t *Table) Select(names ...string) (*Table, error) {
	set := columnar.NewSet()
	keep := append(append([]string(nil), names...), datatype.KeyColumn)
	for _, name := range keep {
		if _, dup := set.Get(name); dup {
			continue
		}
		col, err := t.column(name)
		if err != nil {
			return nil, err
		}
		if err := set.Add(col.Clone()); err != nil {
			return nil, err
		}
	}
	return t.fromGroup(&group{columns: set})
}

// Arrange returns a table with rows stably sorted by the named column.
// Missing values sort last in either direction.
func (t *Table) Arrange(name string, descending bool) (*Table, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	less, err := lessFunc(col.Type())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeSchema, "cannot arrange by column %q", name)
	}

	values := col.View()
	rows := make([]int, len(values))
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := values[rows[i]], values[rows[j]]
		aValid, bValid := datatype.IsValid(a), datatype.IsValid(b)
		if !aValid || !bValid {
			return aValid && !bValid
		}
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
	return t.subTable(rows, nil)
}

func lessFunc(typ datatype.Type) (func(a, b interface{}) bool, error) {
	switch typ {
	case datatype.Quantitative:
		return func(a, b interface{}) bool {
			x, _ := datatype.ToFloat(a)
			y, _ := datatype.ToFloat(b)
			return x < y
		}, nil
	case datatype.Categorical:
		return func(a, b interface{}) bool { return a.(string) < b.(string) }, nil
	case datatype.Temporal:
		return func(a, b interface{}) bool { return a.(time.Time).Before(b.(time.Time)) }, nil
	case datatype.IntervalType:
		return func(a, b interface{}) bool {
			x, _ := datatype.ToInterval(a)
			y, _ := datatype.ToInterval(b)
			return x[0] < y[0] || (x[0] == y[0] && x[1] < y[1])
		}, nil
	case datatype.Invalid:
		return func(a, b interface{}) bool { return false }, nil
	}
	return nil, errors.Newf(errors.ErrorTypeSchema, "%s values have no order", typ)
}

// GroupBy returns a table with one row per distinct combination of values of
// the named columns, in first-seen order, and a $grouped column holding the
// remaining columns of each group's rows. Missing values form their own group.
func (t *Table) GroupBy(names ...string) (*Table, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrorTypeSchema, "groupBy needs at least one column")
	}
	cols := make([]*columnar.Column, len(names))
	for i, name := range names {
		if name == datatype.KeyColumn || name == datatype.GroupedColumn {
			return nil, errors.Newf(errors.ErrorTypeSchema, "cannot group by column %q", name).
				WithDetail("column", name)
		}
		col, err := t.column(name)
		if err != nil {
			return nil, err
		}
		if typ := col.Type(); typ == datatype.Geometry {
			return nil, errors.Newf(errors.ErrorTypeSchema, "cannot group by %s column %q", typ, name).
				WithDetail("column", name)
		}
		cols[i] = col
	}

	var (
		order []string
		first = make(map[string]int)
		rows  = make(map[string][]int)
	)
	for r := 0; r < t.NumRows(); r++ {
		id := groupID(cols, r)
		if _, seen := first[id]; !seen {
			first[id] = r
			order = append(order, id)
		}
		rows[id] = append(rows[id], r)
	}

	groupCols := make([][]interface{}, len(names))
	for i := range groupCols {
		groupCols[i] = make([]interface{}, len(order))
	}
	groupRows := make([][]int, len(order))
	for g, id := range order {
		for i, col := range cols {
			groupCols[i][g] = col.Get(first[id])
		}
		groupRows[g] = rows[id]
	}
	return t.grouped(names, groupCols, groupRows, names)
}

// groupID builds a composite identity for row r over cols. Values are
// tagged with their type so that "1" and 1 never collide.
func groupID(cols []*columnar.Column, r int) string {
	var b strings.Builder
	for _, col := range cols {
		v := col.Get(r)
		switch typ := datatype.TypeOf(v); typ {
		case datatype.Temporal:
			fmt.Fprintf(&b, "%d:%d|", typ, v.(time.Time).UnixNano())
		case datatype.Invalid:
			fmt.Fprintf(&b, "%d:|", typ)
		default:
			fmt.Fprintf(&b, "%d:%q|", typ, fmt.Sprint(v))
		}
	}
	return b.String()
}

// Ungroup flattens the $grouped column: every row of every sub-table becomes
// a row of the result, with the outer columns of its group attached. It
// reverses GroupBy up to row order. A sub-table column sharing its name with
// an outer column is a schema error.
func (t *Table) Ungroup() (*Table, error) {
	grouped, err := t.column(datatype.GroupedColumn)
	if err != nil {
		return nil, err
	}

	var outer []string
	for _, name := range t.columns.Names() {
		if name != datatype.KeyColumn && name != datatype.GroupedColumn {
			outer = append(outer, name)
		}
	}

	var (
		names  = append([]string(nil), outer...)
		index  = make(map[string]int)
		values [][]interface{}
		total  int
	)
	for i, name := range names {
		index[name] = i
		values = append(values, nil)
	}

	for r := 0; r < t.NumRows(); r++ {
		sub, ok := grouped.Get(r).(*Table)
		if !ok {
			continue
		}
		for _, name := range sub.ColumnNames() {
			if c, exists := index[name]; exists && c < len(outer) {
				return nil, errors.Newf(errors.ErrorTypeSchema,
					"column %q exists both in the grouped table and in group %d", name, r).
					WithDetail("column", name).
					WithDetail("row", r)
			}
			if _, exists := index[name]; !exists {
				index[name] = len(names)
				names = append(names, name)
				// earlier groups lacked this column
				values = append(values, make([]interface{}, total))
			}
		}
		n := sub.NumRows()
		for c, name := range names {
			if c < len(outer) {
				v, _ := t.columns.Get(name)
				for k := 0; k < n; k++ {
					values[c] = append(values[c], v.Get(r))
				}
				continue
			}
			col, ok := sub.columns.Get(name)
			for k := 0; k < n; k++ {
				if ok {
					values[c] = append(values[c], col.Get(k))
				} else {
					values[c] = append(values[c], nil)
				}
			}
		}
		total += n
	}

	set := columnar.NewSet()
	for c, name := range names {
		if values[c] == nil {
			values[c] = []interface{}{}
		}
		col, err := columnar.NewColumn(name, values[c])
		if err != nil {
			return nil, err
		}
		if err := set.Add(col); err != nil {
			return nil, err
		}
	}

	out := t.derive(set)
	if err := out.setupKey(); err != nil {
		return nil, err
	}
	return out, nil
}
