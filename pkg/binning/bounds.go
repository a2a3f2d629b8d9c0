package binning

import (
	"math"
	"sort"

	"github.com/ajitpratap0/datacontainer/pkg/classify"
	"github.com/ajitpratap0/datacontainer/pkg/errors"
	"github.com/ajitpratap0/datacontainer/pkg/metrics"
)

var classifiers = map[Method]classify.Func{
	EqualInterval:         classify.EqualInterval,
	Quantile:              classify.Quantile,
	StandardDeviation:     classify.StandardDeviation,
	ArithmeticProgression: classify.ArithmeticProgression,
	GeometricProgression:  classify.GeometricProgression,
	Jenks:                 classify.Jenks,
	CKMeans:               classify.Ckmeans,
}

// Bounds computes the boundaries requested by the instruction from a
// numeric series. Defaults must already have been applied.
func Bounds(series []float64, in Instruction) ([]float64, error) {
	switch in.Method {
	case IntervalSize:
		return intervalSizeBounds(series, in.BinSize)
	case Manual:
		return manualBounds(in.ManualClasses)
	}

	fn, ok := classifiers[in.Method]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeClassification, "unknown binning method %q", in.Method).
			WithDetail("column", in.Column)
	}

	timer := metrics.NewTimer()
	bounds, err := fn(series, in.NumClasses)
	metrics.ObserveClassification(string(in.Method), timer.Stop(), err)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			e.WithDetail("column", in.Column)
		}
		return nil, err
	}
	return bounds, nil
}

// intervalSizeBounds steps from the minimum by size until the maximum is
// reached or passed. There are always at least two boundaries.
func intervalSizeBounds(series []float64, size float64) ([]float64, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"bin size must be a positive number, got %v", size).WithDetail("bin_size", size)
	}
	if len(series) == 0 {
		return []float64{}, nil
	}

	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	bounds := []float64{lo}
	for i := 1; ; i++ {
		b := lo + float64(i)*size
		bounds = append(bounds, b)
		if b >= hi {
			break
		}
	}
	return bounds, nil
}

func manualBounds(classes []float64) ([]float64, error) {
	if len(classes) < 2 {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"manual classes need at least two boundaries, got %d", len(classes))
	}
	if !sort.Float64sAreSorted(classes) {
		return nil, errors.New(errors.ErrorTypeClassification,
			"manual classes must be in non-decreasing order").WithDetail("classes", classes)
	}
	return append([]float64(nil), classes...), nil
}
