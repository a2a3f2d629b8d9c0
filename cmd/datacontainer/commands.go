package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/binning"
	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/domain"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/table"
)

type columnDomain struct {
	Column string        `json:"column" yaml:"column"`
	Type   datatype.Type `json:"type" yaml:"type"`
	Domain domain.Domain `json:"domain,omitempty" yaml:"domain,omitempty"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func (a *app) domainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domain <dataset> [column...]",
		Short: "Print the type and domain of columns",
		Long: `Print the semantic type and domain of the named columns, or of every
column when none is given. A column whose domain cannot be computed reports
the error instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			names := args[1:]
			if len(names) == 0 {
				names = tbl.ColumnNames()
			}

			out := make([]columnDomain, 0, len(names))
			for _, name := range names {
				typ, err := tbl.Type(name)
				if err != nil {
					return err
				}
				cd := columnDomain{Column: name, Type: typ}
				if d, err := tbl.Domain(name); err != nil {
					cd.Error = err.Error()
				} else {
					cd.Domain = d
				}
				out = append(out, cd)
			}
			return a.print(cmd, out)
		},
	}
}

type columnBounds struct {
	Column string          `json:"column" yaml:"column"`
	Method binning.Method  `json:"method" yaml:"method"`
	Bounds []float64       `json:"bounds" yaml:"bounds"`
	Ranges []rangeOfValues `json:"ranges" yaml:"ranges"`
}

type rangeOfValues struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

func (a *app) boundsCmd() *cobra.Command {
	var (
		specs []string
		file  string
	)
	cmd := &cobra.Command{
		Use:   "bounds <dataset>",
		Short: "Compute class boundaries of quantitative columns",
		Long: `Compute class boundaries for every instruction. An instruction is
column[:method[:param]]; omitted parts fall back to the configured defaults.

Example:
  datacontainer bounds cities.csv --by pop:Jenks:5 --by area:IntervalSize:100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := instructions(specs, file)
			if err != nil {
				return err
			}
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}

			out := make([]columnBounds, 0, len(ins))
			for _, in := range ins {
				bounds, err := tbl.Bounds(in)
				if err != nil {
					return err
				}
				cb := columnBounds{
					Column: in.Column,
					Method: in.WithDefaults(a.defaults(), nil).Method,
					Bounds: bounds,
					Ranges: []rangeOfValues{},
				}
				for _, r := range binning.PairRanges(bounds) {
					cb.Ranges = append(cb.Ranges, rangeOfValues{Lo: r[0], Hi: r[1]})
				}
				out = append(out, cb)
			}
			return a.print(cmd, out)
		},
	}
	cmd.Flags().StringArrayVar(&specs, "by", nil, "Instruction column[:method[:param]], repeatable")
	cmd.Flags().StringVar(&file, "instructions", "", "Path to a JSON array of instructions")
	return cmd
}

func (a *app) defaults() binning.Defaults {
	return binning.Defaults{
		Method:     a.cfg.Binning.DefaultMethod,
		NumClasses: a.cfg.Binning.DefaultNumClasses,
	}
}

type binSummary struct {
	Bins map[string]rangeOfValues `json:"bins" yaml:"bins"`
	Rows int                      `json:"rows" yaml:"rows"`
	Keys []interface{}            `json:"keys,omitempty" yaml:"keys,omitempty"`
}

func (a *app) binCmd() *cobra.Command {
	var (
		specs    []string
		file     string
		out      string
		withKeys bool
	)
	cmd := &cobra.Command{
		Use:   "bin <dataset>",
		Short: "Partition rows into bins",
		Long: `Partition rows into bins, jointly across every instruction, and print
one entry per non-empty bin. With --out the rows are written back flat with
their bin ranges attached.

Example:
  datacontainer bin cities.csv --by pop:Quantile:4 --by area:EqualInterval:2 --out binned.arrow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := instructions(specs, file)
			if err != nil {
				return err
			}
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			binned, err := tbl.Bin(ins...)
			if err != nil {
				return err
			}

			names := make([]string, len(ins))
			for d, in := range ins {
				names[d] = table.BinsColumn
				if len(ins) > 1 {
					names[d] = table.BinsColumnPrefix + in.Column
				}
			}
			summaries, err := summarize(binned, names, withKeys)
			if err != nil {
				return err
			}
			a.log.Info("rows binned",
				zap.Int("bins", len(summaries)),
				zap.Int("rows", tbl.NumRows()))

			if out != "" {
				flat, err := binned.Ungroup()
				if err != nil {
					return err
				}
				if _, err := a.save(out, flat); err != nil {
					return err
				}
			}
			return a.print(cmd, summaries)
		},
	}
	cmd.Flags().StringArrayVar(&specs, "by", nil, "Instruction column[:method[:param]], repeatable")
	cmd.Flags().StringVar(&file, "instructions", "", "Path to a JSON array of instructions")
	cmd.Flags().StringVar(&out, "out", "", "Write the binned rows to an .arrow or .json file")
	cmd.Flags().BoolVar(&withKeys, "keys", false, "List the row keys of every bin")
	return cmd
}

// summarize describes every row of a grouped table by its range columns
// and the size of its sub-table
func summarize(binned *table.Table, names []string, withKeys bool) ([]binSummary, error) {
	groups, err := binned.Column(datatype.GroupedColumn)
	if err != nil {
		return nil, err
	}
	ranges := make([][]interface{}, len(names))
	for d, name := range names {
		if ranges[d], err = binned.Column(name); err != nil {
			return nil, err
		}
	}

	out := make([]binSummary, len(groups))
	for i, g := range groups {
		sub, ok := g.(*table.Table)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeInternal, "row %d holds no sub-table", i)
		}
		s := binSummary{Bins: make(map[string]rangeOfValues, len(names)), Rows: sub.NumRows()}
		for d, name := range names {
			iv, _ := datatype.ToInterval(ranges[d][i])
			s.Bins[name] = rangeOfValues{Lo: iv[0], Hi: iv[1]}
		}
		if withKeys {
			s.Keys = sub.Keys()
		}
		out[i] = s
	}
	return out, nil
}

type groupSummary struct {
	Values map[string]interface{} `json:"values" yaml:"values"`
	Rows   int                    `json:"rows" yaml:"rows"`
}

func (a *app) groupByCmd() *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "groupby <dataset>",
		Short: "Group rows by the values of columns",
		Long: `Group rows by every distinct combination of the --by columns, in
first-seen order, and print the group values with their row counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			grouped, err := tbl.GroupBy(by...)
			if err != nil {
				return err
			}

			out := make([]groupSummary, 0, grouped.NumRows())
			for _, row := range grouped.Rows() {
				s := groupSummary{Values: make(map[string]interface{}, len(by))}
				for _, name := range by {
					if datatype.IsValid(row[name]) {
						s.Values[name] = row[name]
					} else {
						s.Values[name] = nil
					}
				}
				if sub, ok := row[datatype.GroupedColumn].(*table.Table); ok {
					s.Rows = sub.NumRows()
				}
				out = append(out, s)
			}
			return a.print(cmd, out)
		},
	}
	cmd.Flags().StringArrayVar(&by, "by", nil, "Column to group by, repeatable")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

type exportResult struct {
	Path    string   `json:"path" yaml:"path"`
	Rows    int      `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

func (a *app) exportCmd() *cobra.Command {
	var (
		out        string
		columns    []string
		sortBy     string
		descending bool
	)
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Convert a dataset to Arrow or row-oriented JSON",
		Long: `Convert a dataset to an Arrow IPC file or a JSON array of rows. The output
format follows the --out extension; a compression suffix (.gz, .zst, .lz4,
.sz, .s2, .deflate) compresses the file, otherwise io.compression applies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			if len(columns) > 0 {
				if tbl, err = tbl.Select(columns...); err != nil {
					return err
				}
			}
			if sortBy != "" {
				if tbl, err = tbl.Arrange(sortBy, descending); err != nil {
					return err
				}
			}

			path, err := a.save(out, tbl)
			if err != nil {
				return err
			}
			return a.print(cmd, exportResult{Path: path, Rows: tbl.NumRows(), Columns: tbl.ColumnNames()})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file (.arrow, .ipc or .json, optionally compressed)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to keep, in order ($key is always kept)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Column to sort rows by")
	cmd.Flags().BoolVar(&descending, "desc", false, "Sort in descending order")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
