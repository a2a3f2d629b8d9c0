// Package classify reduces a numeric series to an ordered slice of class
// boundaries. Every function is pure: the input is never modified and the
// result is freshly allocated.
//
// A classification into k classes yields k+1 non-decreasing boundaries whose
// first and last elements are the series minimum and maximum. An empty series
// yields an empty result.
package classify

import (
	"math"
	"sort"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Func is the signature shared by all breakpoint algorithms
type Func func(series []float64, numClasses int) ([]float64, error)

func checkClasses(numClasses int) error {
	if numClasses <= 0 {
		return errors.Newf(errors.ErrorTypeClassification,
			"number of classes must be a positive integer, got %d", numClasses).
			WithDetail("num_classes", numClasses)
	}
	return nil
}

func minMax(series []float64) (float64, float64) {
	lo, hi := series[0], series[0]
	for _, v := range series[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func sorted(series []float64) []float64 {
	out := append([]float64(nil), series...)
	sort.Float64s(out)
	return out
}

// EqualInterval splits [min, max] into numClasses ranges of equal width.
func EqualInterval(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}

	lo, hi := minMax(series)
	width := (hi - lo) / float64(numClasses)
	bounds := make([]float64, numClasses+1)
	for i := range bounds {
		bounds[i] = lo + float64(i)*width
	}
	// absorb floating point drift
	bounds[numClasses] = hi
	return bounds, nil
}

// Quantile places boundaries so each class holds roughly the same number
// of values.
func Quantile(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}

	data := sorted(series)
	n := len(data)
	step := float64(n) / float64(numClasses)
	bounds := make([]float64, numClasses+1)
	bounds[0] = data[0]
	for i := 1; i < numClasses; i++ {
		// round half up, as Math.round does
		idx := int(math.Floor(float64(i)*step+0.49+0.5)) - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		bounds[i] = data[idx]
	}
	bounds[numClasses] = data[n-1]
	return bounds, nil
}

// StandardDeviation centres the middle class on the mean and steps outward
// by one (population) standard deviation per class. Boundaries are clamped
// to [min, max] so the result stays non-decreasing on skewed series.
func StandardDeviation(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}

	mean, sd := meanStdDev(series)
	bounds := make([]float64, numClasses+1)
	mid := numClasses / 2
	var upper int
	if numClasses%2 == 1 {
		bounds[mid] = mean - sd/2
		bounds[mid+1] = mean + sd/2
		upper = mid + 1
	} else {
		bounds[mid] = mean
		upper = mid
	}
	for i := upper + 1; i <= numClasses; i++ {
		bounds[i] = bounds[i-1] + sd
	}
	for i := mid - 1; i >= 0; i-- {
		bounds[i] = bounds[i+1] - sd
	}

	lo, hi := minMax(series)
	for i := range bounds {
		bounds[i] = math.Max(lo, math.Min(hi, bounds[i]))
	}
	bounds[0], bounds[numClasses] = lo, hi
	return bounds, nil
}

func meanStdDev(series []float64) (float64, float64) {
	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(len(series))
	var sq float64
	for _, v := range series {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(series)))
}

// ArithmeticProgression grows class widths linearly: class i is i times
// wider than the first.
func ArithmeticProgression(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}

	lo, hi := minMax(series)
	denominator := float64(numClasses*(numClasses+1)) / 2
	unit := (hi - lo) / denominator
	bounds := make([]float64, numClasses+1)
	bounds[0] = lo
	for i := 1; i <= numClasses; i++ {
		bounds[i] = bounds[i-1] + float64(i)*unit
	}
	bounds[numClasses] = hi
	return bounds, nil
}

// GeometricProgression subdivides [log10(min), log10(max)] evenly. Every
// value must be strictly positive.
func GeometricProgression(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}
	for i, v := range series {
		if v <= 0 {
			return nil, errors.Newf(errors.ErrorTypeClassification,
				"geometric progression requires strictly positive values, got %v", v).
				WithDetail("index", i)
		}
	}

	lo, hi := minMax(series)
	logLo := math.Log10(lo)
	step := (math.Log10(hi) - logLo) / float64(numClasses)
	bounds := make([]float64, numClasses+1)
	for i := range bounds {
		bounds[i] = math.Pow(10, logLo+float64(i)*step)
	}
	bounds[0], bounds[numClasses] = lo, hi
	return bounds, nil
}
