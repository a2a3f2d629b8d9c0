package classify

// Ckmeans computes optimal one-dimensional k-means clustering by dynamic
// programming, filling each column of the cost matrix by divide and conquer
// in O(k * n * log n). The result is the first value of the first cluster
// followed by the last value of every cluster.
//
// Asking for more clusters than values yields an empty result. A series of
// identical values forms a single cluster [v, v].
func Ckmeans(series []float64, numClasses int) ([]float64, error) {
	if err := checkClasses(numClasses); err != nil {
		return nil, err
	}
	if len(series) == 0 || numClasses > len(series) {
		return []float64{}, nil
	}

	data := sorted(series)
	if data[0] == data[len(data)-1] {
		return []float64{data[0], data[0]}, nil
	}

	clusters := ckmeansClusters(data, numClasses)
	bounds := make([]float64, 0, numClasses+1)
	bounds = append(bounds, clusters[0][0])
	for _, c := range clusters {
		bounds = append(bounds, c[len(c)-1])
	}
	return bounds, nil
}

// ckmeansClusters returns the sorted data split into numClasses clusters
func ckmeansClusters(data []float64, numClasses int) [][]float64 {
	n := len(data)
	s := &ckmeansState{
		cost:      makeMatrix(numClasses, n),
		backtrack: make([][]int, numClasses),
	}
	for i := range s.backtrack {
		s.backtrack[i] = make([]int, n)
	}
	s.fill(data)

	clusters := make([][]float64, numClasses)
	right := n - 1
	for c := numClasses - 1; c >= 0; c-- {
		left := s.backtrack[c][right]
		clusters[c] = data[left : right+1]
		if c > 0 {
			right = left - 1
		}
	}
	return clusters
}

type ckmeansState struct {
	cost       [][]float64
	backtrack  [][]int
	sums       []float64
	sumSquares []float64
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// fill computes prefix sums shifted by the median for numerical stability,
// seeds the single-cluster column and fills the rest.
func (s *ckmeansState) fill(data []float64) {
	n := len(data)
	shift := data[n/2]
	s.sums = make([]float64, n)
	s.sumSquares = make([]float64, n)
	for i, v := range data {
		shifted := v - shift
		if i == 0 {
			s.sums[i] = shifted
			s.sumSquares[i] = shifted * shifted
		} else {
			s.sums[i] = s.sums[i-1] + shifted
			s.sumSquares[i] = s.sumSquares[i-1] + shifted*shifted
		}
		s.cost[0][i] = s.ssq(0, i)
		s.backtrack[0][i] = 0
	}

	for cluster := 1; cluster < len(s.cost); cluster++ {
		iMin := cluster
		if cluster == len(s.cost)-1 {
			// only the full series matters for the last cluster
			iMin = n - 1
		}
		s.fillColumn(iMin, n-1, cluster)
	}
}

// ssq is the within-cluster sum of squared deviations of data[j..i]
func (s *ckmeansState) ssq(j, i int) float64 {
	var sji float64
	if j > 0 {
		size := float64(i - j + 1)
		mean := (s.sums[i] - s.sums[j-1]) / size
		sji = s.sumSquares[i] - s.sumSquares[j-1] - size*mean*mean
	} else {
		sji = s.sumSquares[i] - s.sums[i]*s.sums[i]/float64(i+1)
	}
	if sji < 0 {
		return 0
	}
	return sji
}

// fillColumn solves rows iMin..iMax of one cluster column. The optimal split
// is monotone in i, so the midpoint is solved first and bounds the search
// range of both halves.
func (s *ckmeansState) fillColumn(iMin, iMax, cluster int) {
	if iMin > iMax {
		return
	}
	i := (iMin + iMax) / 2
	cost, prev, back := s.cost[cluster], s.cost[cluster-1], s.backtrack[cluster]

	cost[i] = prev[i-1]
	back[i] = i

	jlow := cluster
	if iMin > cluster && back[iMin-1] > jlow {
		jlow = back[iMin-1]
	}
	if b := s.backtrack[cluster-1][i]; b > jlow {
		jlow = b
	}
	jhigh := i - 1
	if iMax < len(cost)-1 && back[iMax+1] < jhigh {
		jhigh = back[iMax+1]
	}

	for j := jhigh; j >= jlow; j-- {
		sji := s.ssq(j, i)
		if sji+prev[jlow-1] >= cost[i] {
			break
		}

		if c := s.ssq(jlow, i) + prev[jlow-1]; c < cost[i] {
			cost[i] = c
			back[i] = jlow
		}
		jlow++

		if c := sji + prev[j-1]; c < cost[i] {
			cost[i] = c
			back[i] = j
		}
	}

	s.fillColumn(iMin, i-1, cluster)
	s.fillColumn(i+1, iMax, cluster)
}
