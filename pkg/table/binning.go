package table

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/columnar"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/keyindex"
)

// Output column names of Bin: BinsColumn for one instruction, otherwise
// BinsColumnPrefix followed by the binned column name
const (
	BinsColumn       = "bins"
	BinsColumnPrefix = "bins_"
)

// Scale maps a value to the range value of its class. It reports false for
// non-finite values.
type Scale func(value float64) (interface{}, bool)

func (t *Table) defaults() binning.Defaults {
	return binning.Defaults{
		Method:     t.cfg.Binning.DefaultMethod,
		NumClasses: t.cfg.Binning.DefaultNumClasses,
	}
}

// series returns the valid values of a quantitative column
func (t *Table) series(name string) ([]float64, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if typ := col.Type(); typ != datatype.Quantitative && typ != datatype.Invalid {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"column %q is %s, only quantitative columns can be classified", name, typ).
			WithDetail("column", name)
	}
	out := make([]float64, 0, col.Len())
	for _, v := range col.View() {
		if datatype.TypeOf(v) == datatype.Quantitative {
			f, _ := datatype.ToFloat(v)
			out = append(out, f)
		}
	}
	return out, nil
}

// Bounds computes the class boundaries of the instruction's column. An
// omitted method or class count falls back to the configured defaults.
func (t *Table) Bounds(in binning.Instruction) ([]float64, error) {
	in = in.WithDefaults(t.defaults(), t.log)
	series, err := t.series(in.Column)
	if err != nil {
		return nil, err
	}
	return binning.Bounds(series, in)
}

// Classify returns a threshold scale over the instruction's boundaries:
// values below the first interior boundary map to rangeValues[0], values
// between the first and second to rangeValues[1], and so on. rangeValues
// needs at least one entry per class.
func (t *Table) Classify(in binning.Instruction, rangeValues []interface{}) (Scale, error) {
	bounds, err := t.Bounds(in)
	if err != nil {
		return nil, err
	}
	if len(bounds) < 2 {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"column %q yields no classes", in.Column).WithDetail("column", in.Column)
	}
	classes := len(bounds) - 1
	if len(rangeValues) < classes {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"%d range values for %d classes", len(rangeValues), classes).
			WithDetail("column", in.Column)
	}

	thresholds := bounds[1:classes]
	values := append([]interface{}(nil), rangeValues...)
	return func(v float64) (interface{}, bool) {
		if datatype.TypeOf(v) != datatype.Quantitative {
			return nil, false
		}
		i := sort.Search(len(thresholds), func(i int) bool { return thresholds[i] > v })
		return values[i], true
	}, nil
}

// Bin partitions the rows into bins. One instruction bins a single column
// into a table with a "bins" column of ranges; several instructions bin
// jointly into one "bins_<column>" column per instruction. Either way the
// rows of each non-empty bin form a sub-table in $grouped. Rows missing a
// bin in any dimension are dropped.
func (t *Table) Bin(instructions ...binning.Instruction) (*Table, error) {
	if len(instructions) == 0 {
		return nil, errors.New(errors.ErrorTypeClassification, "bin needs at least one instruction")
	}

	ranges := make([][]datatype.Interval, len(instructions))
	values := make([][]interface{}, len(instructions))
	for d, in := range instructions {
		bounds, err := t.Bounds(in)
		if err != nil {
			return nil, err
		}
		ranges[d] = binning.PairRanges(bounds)
		col, _ := t.columns.Get(in.Column)
		values[d] = col.View()
	}

	if len(instructions) == 1 {
		groups := binning.Bin1D(values[0], ranges[0], t.log)
		bins := make([]interface{}, len(groups))
		rows := make([][]int, len(groups))
		for i, g := range groups {
			bins[i] = g.Range
			rows[i] = g.Rows
		}
		return t.grouped([]string{BinsColumn}, [][]interface{}{bins}, rows, nil)
	}

	cells, err := binning.BinKD(values, ranges, t.log)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(instructions))
	for d, in := range instructions {
		names[d] = BinsColumnPrefix + in.Column
	}
	cols := make([][]interface{}, len(instructions))
	for d := range cols {
		cols[d] = make([]interface{}, len(cells))
	}
	rows := make([][]int, len(cells))
	for i, c := range cells {
		for d, r := range c.Ranges {
			cols[d][i] = r
		}
		rows[i] = c.Rows
	}
	return t.grouped(names, cols, rows, nil)
}

// grouped builds a table with the given leading columns plus a $grouped
// column holding one sub-table per entry of rows. Columns listed in drop
// are left out of the sub-tables.
func (t *Table) grouped(names []string, cols [][]interface{}, rows [][]int, drop []string) (*Table, error) {
	subs := make([]interface{}, len(rows))
	for i, r := range rows {
		sub, err := t.subTable(r, drop)
		if err != nil {
			return nil, err
		}
		subs[i] = sub
	}

	set := columnar.NewSet()
	for i, name := range names {
		col, err := columnar.NewColumn(name, cols[i])
		if err != nil {
			return nil, err
		}
		if err := set.Add(col); err != nil {
			return nil, err
		}
	}
	grouped, err := columnar.NewColumn(datatype.GroupedColumn, subs)
	if err != nil {
		return nil, err
	}
	if err := set.Add(grouped); err != nil {
		return nil, err
	}

	out := t.derive(set)
	if err := out.setupKey(); err != nil {
		return nil, err
	}
	t.log.Debug("grouped table created",
		zap.Strings("columns", names),
		zap.Int("groups", len(rows)))
	return out, nil
}

// subTable copies the given rows into an independent table keeping the
// source keys
func (t *Table) subTable(rows []int, drop []string) (*Table, error) {
	set := t.columns.Take(rows)
	for _, name := range drop {
		set.Remove(name)
	}
	return t.fromGroup(&group{columns: set})
}

// fromGroup finishes a table over already validated columns that carry a
// $key column
func (t *Table) fromGroup(g *group) (*Table, error) {
	out := t.derive(g.columns)
	idx, err := keyindex.Build(keyValues(g.columns))
	if err != nil {
		return nil, err
	}
	out.index = idx
	out.customKeys = t.customKeys
	return out, nil
}

func keyValues(set *columnar.Set) []interface{} {
	col, _ := set.Get(datatype.KeyColumn)
	return col.View()
}
