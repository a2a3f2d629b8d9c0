package binning

import (
	"fmt"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datacontainer/pkg/datatype"
)

func BenchmarkBinKD(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	for _, dims := range []int{1, 2, 3} {
		for _, rows := range []int{1000, 10000} {
			columns := make([][]interface{}, dims)
			ranges := make([][]datatype.Interval, dims)
			for d := range columns {
				columns[d] = make([]interface{}, rows)
				for r := range columns[d] {
					columns[d][r] = rng.Float64() * 100
				}
				ranges[d] = PairRanges([]float64{0, 20, 40, 60, 80, 100})
			}

			b.Run(fmt.Sprintf("dims_%d_rows_%d", dims, rows), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := BinKD(columns, ranges, zap.NewNop()); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
