package dataset

import (
	"math/rand/v2"
)

// Fold is one train/test partition of a dataset. Train and Test are disjoint
// row index sets whose union covers every row exactly once.
type Fold struct {
	Train []int
	Test  []int
}

// KFold is a seeded, shuffled k-fold cross-validation splitter.
type KFold struct {
	NSplits int
	Seed    int64
}

// NewKFold creates a new k-fold splitter.
func NewKFold(nSplits int, seed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits: nSplits,
		Seed:    seed,
	}
}

// Split generates train/test indices for each fold over n samples. For a
// fixed seed the partition is reproducible.
func (kf *KFold) Split(n int) []Fold {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	r := rand.New(rand.NewPCG(uint64(kf.Seed), uint64(kf.Seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		// Train indices: everything outside the test window, in shuffled order.
		trainIndices := make([]int, 0, n-testSize)
		trainIndices = append(trainIndices, indices[:currentIdx]...)
		trainIndices = append(trainIndices, indices[currentIdx+testSize:]...)

		folds[i] = Fold{
			Train: trainIndices,
			Test:  testIndices,
		}

		currentIdx += testSize
	}

	return folds
}
