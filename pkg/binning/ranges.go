package binning

import (
	"sort"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
)

// PairRanges turns boundaries [b0, b1, ..., bk] into ranges
// [b0, b1], [b1, b2], ..., [bk-1, bk].
func PairRanges(bounds []float64) []datatype.Interval {
	if len(bounds) < 2 {
		return []datatype.Interval{}
	}
	ranges := make([]datatype.Interval, len(bounds)-1)
	for i := range ranges {
		ranges[i] = datatype.Interval{bounds[i], bounds[i+1]}
	}
	return ranges
}

// Assign returns the index of the range holding value. Ranges are half-open
// [lo, hi) except the last, which is closed [lo, hi]. It reports false when
// no range holds the value.
func Assign(ranges []datatype.Interval, value float64) (int, bool) {
	n := len(ranges)
	if n == 0 {
		return 0, false
	}
	// first range ending after value
	i := sort.Search(n, func(i int) bool { return value < ranges[i][1] })
	if i < n && value >= ranges[i][0] {
		return i, true
	}
	last := ranges[n-1]
	if value == last[1] && value >= last[0] {
		return n - 1, true
	}
	return 0, false
}
