package dataset

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// MakeClassification generates a synthetic binary classification dataset
// with nInformative features that carry the class signal and
// nFeatures-nInformative pure-noise features. Feature names are x1..xN.
// Deterministic for a fixed seed.
func MakeClassification(nSamples, nFeatures, nInformative int, seed int64) *Dataset {
	if nInformative > nFeatures {
		nInformative = nFeatures
	}

	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	x := mat.NewDense(nSamples, nFeatures, nil)
	labels := make([]string, nSamples)

	for i := 0; i < nSamples; i++ {
		class := i % 2
		if class == 0 {
			labels[i] = "neg"
		} else {
			labels[i] = "pos"
		}

		for j := 0; j < nFeatures; j++ {
			v := r.NormFloat64()
			if j < nInformative {
				// shift informative features by class
				v += float64(class)*2.0 - 1.0
			}
			x.Set(i, j, v)
		}
	}

	names := make([]string, nFeatures)
	for j := range names {
		names[j] = fmt.Sprintf("x%d", j+1)
	}

	ds, err := New(x, labels, names)
	if err != nil {
		// both classes are always present for nSamples >= 2
		panic(err)
	}
	return ds
}
