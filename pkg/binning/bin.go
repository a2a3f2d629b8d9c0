package binning

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/metrics"
)

// Group is one non-empty bin of a one-dimensional binning
type Group struct {
	Range datatype.Interval
	Rows  []int
}

// Bin1D routes every row of values into the range holding it. Rows whose
// value is missing, non-numeric or outside every range are dropped. Empty
// bins are omitted; the rest keep range order and their rows ascending.
func Bin1D(values []interface{}, ranges []datatype.Interval, log *zap.Logger) []Group {
	rows := make([][]int, len(ranges))
	dropped := 0
	for row, v := range values {
		bin, ok := assignValue(ranges, v)
		if !ok {
			dropped++
			continue
		}
		rows[bin] = append(rows[bin], row)
	}
	logDropped(log, dropped, len(values))
	metrics.ObserveBinning(len(values)-dropped, dropped)

	groups := make([]Group, 0, len(ranges))
	for i, r := range rows {
		if len(r) > 0 {
			groups = append(groups, Group{Range: ranges[i], Rows: r})
		}
	}
	return groups
}

// Cell is one occupied combination of bins of a multi-dimensional binning
type Cell struct {
	Ranges []datatype.Interval
	Rows   []int
}

// BinKD routes every row into the combination of bins holding its value in
// each dimension. columns[d] holds the values of dimension d and ranges[d]
// its ranges. A row missing a bin in any dimension is dropped. Cells come
// out in lexicographic order of their bin indices.
func BinKD(columns [][]interface{}, ranges [][]datatype.Interval, log *zap.Logger) ([]Cell, error) {
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrorTypeClassification, "multi-dimensional binning needs at least one column")
	}
	if len(columns) != len(ranges) {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"got %d columns but %d range sets", len(columns), len(ranges))
	}
	numRows := len(columns[0])
	for d, col := range columns {
		if len(col) != numRows {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"dimension %d has %d rows, expected %d", d, len(col), numRows)
		}
	}

	t := newTree(ranges)
	path := make([]int, len(columns))
	dropped := 0
rows:
	for row := 0; row < numRows; row++ {
		for d, col := range columns {
			bin, ok := assignValue(ranges[d], col[row])
			if !ok {
				dropped++
				continue rows
			}
			path[d] = bin
		}
		t.insert(path, row)
	}
	logDropped(log, dropped, numRows)
	metrics.ObserveBinning(numRows-dropped, dropped)

	return t.cells(ranges), nil
}

func assignValue(ranges []datatype.Interval, v interface{}) (int, bool) {
	if datatype.TypeOf(v) != datatype.Quantitative {
		return 0, false
	}
	f, _ := datatype.ToFloat(v)
	return Assign(ranges, f)
}

func logDropped(log *zap.Logger, dropped, total int) {
	if log == nil || dropped == 0 {
		return
	}
	log.Debug("rows outside every bin were dropped",
		zap.Int("dropped", dropped),
		zap.Int("rows", total))
}

// node is a vertex of the bin-index tree. Interior nodes at depth d have one
// child slot per range of dimension d; leaves (depth == dimensions) hold rows.
type node struct {
	depth    int
	children []int // node ids, 0 when absent (the root is never a child)
	rows     []int
}

// tree is an arena of nodes addressed by id; nodes[0] is the root
type tree struct {
	nodes []node
	width []int // number of ranges per dimension
}

func newTree(ranges [][]datatype.Interval) *tree {
	t := &tree{width: make([]int, len(ranges))}
	for d, r := range ranges {
		t.width[d] = len(r)
	}
	t.nodes = append(t.nodes, t.newNode(0))
	return t
}

func (t *tree) dims() int { return len(t.width) }

func (t *tree) newNode(depth int) node {
	n := node{depth: depth}
	if depth < t.dims() {
		n.children = make([]int, t.width[depth])
	}
	return n
}

// insert walks path from the root, creating missing nodes, and appends row
// to the leaf
func (t *tree) insert(path []int, row int) {
	id := 0
	for depth, bin := range path {
		next := t.nodes[id].children[bin]
		if next == 0 {
			next = len(t.nodes)
			t.nodes = append(t.nodes, t.newNode(depth+1))
			t.nodes[id].children[bin] = next
		}
		id = next
	}
	t.nodes[id].rows = append(t.nodes[id].rows, row)
}

// cells flattens the tree depth first with an explicit stack. A node already
// visited is never emitted twice, even if reachable from more than one parent.
func (t *tree) cells(ranges [][]datatype.Interval) []Cell {
	type frame struct {
		id   int
		path []int
	}

	var out []Cell
	visited := make(map[int]struct{}, len(t.nodes))
	stack := []frame{{id: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[f.id]; seen {
			continue
		}
		visited[f.id] = struct{}{}

		n := t.nodes[f.id]
		if n.depth == t.dims() {
			cell := Cell{Ranges: make([]datatype.Interval, t.dims()), Rows: n.rows}
			for d, bin := range f.path {
				cell.Ranges[d] = ranges[d][bin]
			}
			out = append(out, cell)
			continue
		}
		// reverse push so the lowest bin is popped first
		for bin := len(n.children) - 1; bin >= 0; bin-- {
			child := n.children[bin]
			if child == 0 {
				continue
			}
			path := make([]int, len(f.path)+1)
			copy(path, f.path)
			path[len(f.path)] = bin
			stack = append(stack, frame{id: child, path: path})
		}
	}
	return out
}
