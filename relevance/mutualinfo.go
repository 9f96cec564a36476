package relevance

import (
	"math"

	"github.com/gainpen/gainpen/core/parallel"
	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
)

// DefaultBins is the number of equal-width bins used to discretize a numeric
// feature before estimating mutual information.
const DefaultBins = 10

// FromMutualInfo returns the information-theoretic raw relevance for every
// feature of ds: the empirical mutual information between the equal-width
// discretized feature and the target label, in nats.
func FromMutualInfo(ds *dataset.Dataset, bins int) ([]float64, error) {
	if bins < 2 {
		return nil, errors.NewValidationError("bins", "must be >= 2", bins)
	}

	y := ds.Labels()
	nClasses := len(ds.Classes())

	rel := make([]float64, ds.NumFeatures())
	parallel.ParallelizeWithThreshold(len(rel), 32, func(start, end int) {
		for j := start; j < end; j++ {
			col := ds.Column(j)
			rel[j] = MutualInfo(Discretize(col, bins), y, bins, nClasses)
		}
	})
	return rel, nil
}

// Discretize maps each value to an equal-width bin index in [0, bins).
// A constant column maps everything to bin 0.
func Discretize(col []float64, bins int) []int {
	min, max := col[0], col[0]
	for _, v := range col {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]int, len(col))
	width := (max - min) / float64(bins)
	if width == 0 {
		return out
	}

	for i, v := range col {
		b := int((v - min) / width)
		if b >= bins {
			b = bins - 1 // v == max lands on the upper edge
		}
		out[i] = b
	}
	return out
}

// MutualInfo computes the empirical mutual information (in nats) between a
// discretized feature x and label column y:
//
//	I(X;Y) = Σ p(x,y) · log( p(x,y) / (p(x)·p(y)) )
//
// The estimate is nonnegative up to floating point rounding.
func MutualInfo(x []int, y []int, bins, nClasses int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	joint := make([]float64, bins*nClasses)
	px := make([]float64, bins)
	py := make([]float64, nClasses)

	inc := 1.0 / float64(n)
	for i := range x {
		joint[x[i]*nClasses+y[i]] += inc
		px[x[i]] += inc
		py[y[i]] += inc
	}

	mi := 0.0
	for b := 0; b < bins; b++ {
		for c := 0; c < nClasses; c++ {
			pxy := joint[b*nClasses+c]
			if pxy > 0 {
				mi += pxy * math.Log(pxy/(px[b]*py[c]))
			}
		}
	}

	if mi < 0 {
		mi = 0 // rounding
	}
	return mi
}
