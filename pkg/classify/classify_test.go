package classify

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datacontainer/pkg/errors"
)

var algorithms = map[string]Func{
	"EqualInterval":         EqualInterval,
	"Quantile":              Quantile,
	"StandardDeviation":     StandardDeviation,
	"ArithmeticProgression": ArithmeticProgression,
	"GeometricProgression":  GeometricProgression,
	"Jenks":                 Jenks,
	"Ckmeans":               Ckmeans,
}

func TestAlgorithms_CommonContract(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	series := make([]float64, 60)
	for i := range series {
		series[i] = 1 + rng.Float64()*100
	}
	lo, hi := minMax(series)

	for name, fn := range algorithms {
		for _, k := range []int{1, 2, 3, 5, 7} {
			bounds, err := fn(series, k)
			require.NoError(t, err, "%s k=%d", name, k)
			require.Len(t, bounds, k+1, "%s k=%d", name, k)
			assert.True(t, sort.Float64sAreSorted(bounds), "%s k=%d not sorted: %v", name, k, bounds)
			assert.Equal(t, lo, bounds[0], "%s k=%d first", name, k)
			assert.Equal(t, hi, bounds[k], "%s k=%d last", name, k)
		}
	}
}

func TestAlgorithms_EmptySeries(t *testing.T) {
	for name, fn := range algorithms {
		bounds, err := fn(nil, 3)
		require.NoError(t, err, name)
		assert.Empty(t, bounds, name)
	}
}

func TestAlgorithms_NonPositiveClasses(t *testing.T) {
	for name, fn := range algorithms {
		for _, k := range []int{0, -2} {
			_, err := fn([]float64{1, 2, 3}, k)
			require.Error(t, err, name)
			assert.True(t, errors.IsType(err, errors.ErrorTypeClassification), name)
		}
	}
}

func TestAlgorithms_DoNotMutateInput(t *testing.T) {
	series := []float64{5, 3, 9, 1, 7}
	for name, fn := range algorithms {
		_, err := fn(series, 2)
		require.NoError(t, err, name)
		assert.Equal(t, []float64{5, 3, 9, 1, 7}, series, name)
	}
}

func TestEqualInterval(t *testing.T) {
	bounds, err := EqualInterval([]float64{1, 2, 3, 4, 5, 6, 7}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 5, 7}, bounds)

	// last boundary is exactly the max despite drift
	bounds, err = EqualInterval([]float64{0.1, 0.7}, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.7, bounds[3])
}

func TestQuantile(t *testing.T) {
	bounds, err := Quantile([]float64{7, 1, 6, 2, 5, 3, 4}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3, 5, 7}, bounds)

	bounds, err = Quantile([]float64{1, 2, 3, 4, 5, 6, 7, 8}, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 4, 6, 8}, bounds)
}

func TestStandardDeviation(t *testing.T) {
	series := []float64{2, 4, 4, 4, 5, 5, 7, 9} // mean 5, stddev 2

	bounds, err := StandardDeviation(series, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 5, 9}, bounds)

	bounds, err = StandardDeviation(series, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6, 9}, bounds)

	bounds, err = StandardDeviation(series, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 5, 7, 9}, bounds)
}

func TestStandardDeviation_SkewedStaysSorted(t *testing.T) {
	series := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	bounds, err := StandardDeviation(series, 5)
	require.NoError(t, err)
	assert.True(t, sort.Float64sAreSorted(bounds), "%v", bounds)
}

func TestArithmeticProgression(t *testing.T) {
	bounds, err := ArithmeticProgression([]float64{0, 60}, 3)
	require.NoError(t, err)
	// widths 10, 20, 30
	assert.Equal(t, []float64{0, 10, 30, 60}, bounds)
}

func TestGeometricProgression(t *testing.T) {
	bounds, err := GeometricProgression([]float64{1, 10, 1000}, 3)
	require.NoError(t, err)
	require.Len(t, bounds, 4)
	assert.Equal(t, 1.0, bounds[0])
	assert.InDelta(t, 10, bounds[1], 1e-9)
	assert.InDelta(t, 100, bounds[2], 1e-9)
	assert.Equal(t, 1000.0, bounds[3])
}

func TestGeometricProgression_NonPositive(t *testing.T) {
	for _, series := range [][]float64{{1, 0, 3}, {-1, 2}} {
		_, err := GeometricProgression(series, 2)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeClassification))
	}
}

func TestJenks_NaturalGroups(t *testing.T) {
	series := []float64{10.1, 1, 5.2, 1.1, 10, 5, 1.2, 5.1, 10.2}
	bounds, err := Jenks(series, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.2, 5.2, 10.2}, bounds)
}

func TestJenks_Partitions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	series := make([]float64, 40)
	for i := range series {
		series[i] = rng.NormFloat64()*10 + 50
	}
	data := sorted(series)

	bounds, err := Jenks(series, 4)
	require.NoError(t, err)
	require.Len(t, bounds, 5)
	assert.Equal(t, data[0], bounds[0])
	assert.Equal(t, data[len(data)-1], bounds[4])

	// every interior boundary is a series value closing a non-empty group
	counts := make([]int, 4)
	for _, v := range data {
		for c := 0; c < 4; c++ {
			if v <= bounds[c+1] {
				counts[c]++
				break
			}
		}
	}
	total := 0
	for _, c := range counts {
		assert.Positive(t, c)
		total += c
	}
	assert.Equal(t, len(data), total)
}

func TestJenks_LargeMagnitudes(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   []float64
	}{
		{"positive", []float64{4e200, 1e200, 3e200, 2e200}, []float64{1e200, 2e200, 4e200}},
		{"negative", []float64{-4e200, -1e200, -3e200, -2e200}, []float64{-4e200, -3e200, -1e200}},
		{"near max float", []float64{2, -math.MaxFloat64, 1, -math.MaxFloat64 / 2}, []float64{-math.MaxFloat64, -math.MaxFloat64 / 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bounds []float64
			var err error
			require.NotPanics(t, func() { bounds, err = Jenks(tt.series, 2) })
			require.NoError(t, err)
			assert.Equal(t, tt.want, bounds)
		})
	}
}

func TestJenks_NonFiniteIsError(t *testing.T) {
	var err error
	require.NotPanics(t, func() { _, err = Jenks([]float64{1, math.NaN(), 3, 4}, 2) })
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeClassification))
}

func TestJenks_TooManyClasses(t *testing.T) {
	_, err := Jenks([]float64{1, 2}, 3)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeClassification))
}

func TestCkmeans(t *testing.T) {
	series := []float64{10.1, 1, 5.2, 1.1, 10, 5, 1.2, 5.1, 10.2}
	bounds, err := Ckmeans(series, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.2, 5.2, 10.2}, bounds)
}

func TestCkmeans_EdgeCases(t *testing.T) {
	bounds, err := Ckmeans([]float64{1, 2, 3}, 4)
	require.NoError(t, err)
	assert.Empty(t, bounds)

	bounds, err = Ckmeans([]float64{4, 4, 4, 4}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, bounds)

	bounds, err = Ckmeans([]float64{3, 1, 2}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, bounds)
}

func TestCkmeans_MatchesJenksOnSeparatedData(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var series []float64
	for _, centre := range []float64{0, 100, 200, 300} {
		for i := 0; i < 15; i++ {
			series = append(series, centre+rng.Float64()*10)
		}
	}
	ck, err := Ckmeans(series, 4)
	require.NoError(t, err)
	jk, err := Jenks(series, 4)
	require.NoError(t, err)
	assert.Equal(t, jk, ck)
}
