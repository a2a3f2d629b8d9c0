package classify

import (
	"math"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

// Jenks computes Fisher-Jenks natural breaks: the partition of the sorted
// series into numClasses contiguous groups minimising the total within-group
// sum of squared deviations. Runs in O(numClasses * n^2).
//
// When several split points reach the same minimum the first one examined
// (the largest lower class limit) is kept.
func Jenks(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []float64{}, nil
	}
	if numClasses > len(series) {
		return nil, errors.Newf(errors.ErrorTypeClassification,
			"cannot split %d values into %d natural breaks classes", len(series), numClasses).
			WithDetail("num_classes", numClasses).
			WithDetail("values", len(series))
	}

	data := sorted(series)
	lowerLimits, _ := jenksMatrices(rescaled(data), numClasses)
	return jenksBreaks(data, lowerLimits, numClasses)
}

// rescaled returns data divided by its largest magnitude when the running
// sums of squares could overflow. Positive scaling keeps the optimal
// partition, and boundaries are read from the original values.
func rescaled(data []float64) []float64 {
	maxAbs := math.Max(math.Abs(data[0]), math.Abs(data[len(data)-1]))
	if maxAbs < math.Sqrt(math.MaxFloat64)/float64(len(data)+1) {
		return data
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v / maxAbs
	}
	return out
}

// jenksMatrices fills the 1-based (n+1)x(k+1) lower class limit and
// variance matrices.
func jenksMatrices(data []float64, numClasses int) ([][]int, [][]float64) {
	n := len(data)
	lowerLimits := make([][]int, n+1)
	variances := make([][]float64, n+1)
	for i := range lowerLimits {
		lowerLimits[i] = make([]int, numClasses+1)
		variances[i] = make([]float64, numClasses+1)
	}
	for j := 1; j <= numClasses; j++ {
		lowerLimits[1][j] = 1
		for i := 2; i <= n; i++ {
			variances[i][j] = math.Inf(1)
		}
	}

	for l := 2; l <= n; l++ {
		var sum, sumSquares, weight, variance float64
		for m := 1; m <= l; m++ {
			lowerLimit := l - m + 1
			val := data[lowerLimit-1]

			weight++
			sum += val
			sumSquares += val * val
			variance = sumSquares - (sum*sum)/weight

			prev := lowerLimit - 1
			if prev == 0 {
				continue
			}
			for j := 2; j <= numClasses; j++ {
				candidate := variance + variances[prev][j-1]
				if variances[l][j] > candidate {
					lowerLimits[l][j] = lowerLimit
					variances[l][j] = candidate
				}
			}
		}
		lowerLimits[l][1] = 1
		variances[l][1] = variance
	}
	return lowerLimits, variances
}

func jenksBreaks(data []float64, lowerLimits [][]int, numClasses int) ([]float64, error) {
	n := len(data)
	bounds := make([]float64, numClasses+1)
	bounds[0] = data[0]
	bounds[numClasses] = data[n-1]

	k := n
	for class := numClasses; class > 1; class-- {
		limit := lowerLimits[k][class]
		if limit < 2 {
			// only non-finite values leave a class without a lower limit
			return nil, errors.Newf(errors.ErrorTypeClassification,
				"no natural breaks for %d classes: series holds non-finite values", numClasses).
				WithDetail("num_classes", numClasses)
		}
		bounds[class-1] = data[limit-2]
		k = limit - 1
	}
	if numClasses > 1 && bounds[0] == bounds[1] {
		bounds[0] = 0
	}
	return bounds, nil
}
