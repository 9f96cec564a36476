// Package forest implements a random forest classifier with a per-feature
// gain-penalization hook: every candidate split's impurity decrease is
// multiplied by the feature's penalization coefficient before it competes
// with the other candidates and with the no-split baseline. The tree and
// ensemble algorithms follow Louppe, G. (2014) "Understanding Random
// Forests: From Theory to Practice", chapters 3 and 4; the penalized gain
// rule follows Deng & Runger's regularized random forests.
package forest

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/gainpen/gainpen/core/model"
	"github.com/gainpen/gainpen/core/parallel"
	"github.com/gainpen/gainpen/pkg/errors"
)

// Classifier is a bagged ensemble of penalized CART trees. Configure it with
// NewClassifier and the With* options; a zero-value Classifier is not usable.
type Classifier struct {
	model.BaseEstimator

	numTrees    int
	maxFeatures int // -1 means √(nFeatures)
	minSplit    int
	minLeaf     int
	maxDepth    int
	numWorkers  int
	seed        int64
	gainPenalty []float64

	trees       []*treeClassifier
	nFeatures   int
	nClasses    int
	importances []float64
	oobError    float64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithNumTrees sets the ensemble size.
func WithNumTrees(n int) Option {
	return func(c *Classifier) { c.numTrees = n }
}

// WithMaxFeatures sets the number of features considered per split.
// -1 selects √(nFeatures) at fit time.
func WithMaxFeatures(n int) Option {
	return func(c *Classifier) { c.maxFeatures = n }
}

// WithMinSplit sets the minimum node size eligible for splitting.
func WithMinSplit(n int) Option {
	return func(c *Classifier) { c.minSplit = n }
}

// WithMinLeaf sets the minimum size of a child node for a threshold to be
// considered.
func WithMinLeaf(n int) Option {
	return func(c *Classifier) { c.minLeaf = n }
}

// WithMaxDepth limits tree depth; -1 grows full trees.
func WithMaxDepth(n int) Option {
	return func(c *Classifier) { c.maxDepth = n }
}

// WithNumWorkers sets the number of goroutines used to fit trees.
func WithNumWorkers(n int) Option {
	return func(c *Classifier) { c.numWorkers = n }
}

// WithSeed sets the random seed. Tree i derives its generator from seed+i,
// so a fitted forest is reproducible regardless of worker scheduling.
func WithSeed(seed int64) Option {
	return func(c *Classifier) { c.seed = seed }
}

// WithGainPenalty sets the per-feature penalization coefficients. Each value
// must lie in [0, 1]; 1 leaves the feature's gain untouched and 0 bars the
// feature from ever winning a split. Passing nil is equivalent to all ones.
func WithGainPenalty(penalty []float64) Option {
	return func(c *Classifier) { c.gainPenalty = penalty }
}

// NewClassifier returns a configured classifier. With no options it is
// equivalent to:
//
//	clf := NewClassifier(WithNumTrees(100), WithMaxFeatures(-1),
//		WithMinSplit(2), WithMinLeaf(1), WithMaxDepth(-1), WithNumWorkers(1))
func NewClassifier(options ...Option) *Classifier {
	c := &Classifier{
		numTrees:    100,
		maxFeatures: -1,
		minSplit:    2,
		minLeaf:     1,
		maxDepth:    -1,
		numWorkers:  1,
		seed:        1,
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Fit grows the ensemble on feature matrix X and class ids y. y must contain
// ids in [0, nClasses). Each tree is grown on a bootstrap sample; out-of-bag
// rows provide the in-sample error estimate.
func (c *Classifier) Fit(X mat.Matrix, y []int) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.ErrEmptyData
	}
	if len(y) != nSamples {
		return errors.NewDimensionError("forest.Fit", nSamples, len(y), 0)
	}
	if c.numTrees < 1 {
		return errors.NewValidationError("numTrees", "must be >= 1", c.numTrees)
	}

	nClasses := 0
	for _, v := range y {
		if v < 0 {
			return errors.NewValidationError("y", "class ids must be >= 0", v)
		}
		if v+1 > nClasses {
			nClasses = v + 1
		}
	}

	maxFeatures := c.maxFeatures
	if maxFeatures < 0 {
		maxFeatures = int(math.Sqrt(float64(nFeatures)))
	}
	if maxFeatures < 1 {
		return errors.NewInvalidHyperparameterError("maxFeatures", float64(c.maxFeatures),
			"fewer than 1 usable feature per split")
	}

	if c.gainPenalty != nil {
		if len(c.gainPenalty) != nFeatures {
			return errors.NewDimensionError("forest.Fit", nFeatures, len(c.gainPenalty), 1)
		}
		for j, p := range c.gainPenalty {
			if p < 0 || p > 1 {
				return errors.NewValidationError("gainPenalty",
					"coefficients must lie in [0, 1]", map[string]interface{}{"feature": j, "value": p})
			}
		}
	}

	// copy into plain rows once; the splitter sorts column buffers in place
	rows := make([][]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		row := make([]float64, nFeatures)
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}
		rows[i] = row
	}

	c.nFeatures = nFeatures
	c.nClasses = nClasses
	c.trees = make([]*treeClassifier, c.numTrees)
	inBags := make([][]bool, c.numTrees)

	nWorkers := c.numWorkers
	if nWorkers < 1 {
		nWorkers = 1
	}

	// each tree index carries its own derived seed, so results do not depend
	// on goroutine scheduling
	fitRange := func(start, end int) {
		for i := start; i < end; i++ {
			treeSeed := c.seed + int64(i)
			r := rand.New(rand.NewPCG(uint64(treeSeed), uint64(treeSeed)^0x9e3779b97f4a7c15))

			inx := make([]int, nSamples)
			inBag := make([]bool, nSamples)
			for k := range inx {
				id := r.IntN(nSamples)
				inx[k] = id
				inBag[id] = true
			}

			t := newTreeClassifier(c.minSplit, c.minLeaf, c.maxDepth, maxFeatures, c.gainPenalty, treeSeed)
			t.fit(rows, y, inx, nClasses)

			c.trees[i] = t
			inBags[i] = inBag
		}
	}
	if nWorkers == 1 {
		fitRange(0, c.numTrees)
	} else {
		parallel.Parallelize(c.numTrees, fitRange)
	}

	c.aggregateImportances()
	c.computeOOB(rows, y, inBags)
	c.SetFitted()

	return nil
}

// aggregateImportances averages the per-tree mean decrease in impurity.
func (c *Classifier) aggregateImportances() {
	imp := make([]float64, c.nFeatures)
	for _, t := range c.trees {
		for j, v := range t.varImp() {
			imp[j] += v
		}
	}
	for j := range imp {
		imp[j] /= float64(len(c.trees))
	}
	c.importances = imp
}

// computeOOB estimates the in-sample error from out-of-bag votes.
func (c *Classifier) computeOOB(rows [][]float64, y []int, inBags [][]bool) {
	votes := make([][]int, len(rows))
	for i := range votes {
		votes[i] = make([]int, c.nClasses)
	}

	for ti, t := range c.trees {
		for i := range rows {
			if !inBags[ti][i] {
				votes[i][t.predictOne(rows[i])]++
			}
		}
	}

	voted, wrong := 0, 0
	for i, v := range votes {
		maxCt, maxC, total := 0, 0, 0
		for class, ct := range v {
			total += ct
			if ct > maxCt {
				maxCt = ct
				maxC = class
			}
		}
		if total == 0 {
			continue // never out of bag
		}
		voted++
		if maxC != y[i] {
			wrong++
		}
	}

	if voted == 0 {
		c.oobError = 0
		return
	}
	c.oobError = float64(wrong) / float64(voted)
}

// Predict returns the majority-vote class id for each row of X.
func (c *Classifier) Predict(X mat.Matrix) ([]int, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("forest.Classifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != c.nFeatures {
		return nil, errors.NewDimensionError("forest.Predict", c.nFeatures, nFeatures, 1)
	}

	preds := make([]int, nSamples)
	row := make([]float64, nFeatures)
	votes := make([]int, c.nClasses)

	for i := 0; i < nSamples; i++ {
		for j := 0; j < nFeatures; j++ {
			row[j] = X.At(i, j)
		}

		for k := range votes {
			votes[k] = 0
		}
		for _, t := range c.trees {
			votes[t.predictOne(row)]++
		}

		maxCt, maxC := 0, 0
		for class, ct := range votes {
			if ct > maxCt {
				maxCt = ct
				maxC = class
			}
		}
		preds[i] = maxC
	}

	return preds, nil
}

// Score returns the accuracy of the fitted ensemble on (X, y).
func (c *Classifier) Score(X mat.Matrix, y []int) (float64, error) {
	preds, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(y) != len(preds) {
		return 0, errors.NewDimensionError("forest.Score", len(preds), len(y), 0)
	}

	correct := 0
	for i, p := range preds {
		if p == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}

// FeatureImportances returns the mean decrease in impurity per feature,
// averaged over the ensemble. A feature never used for an accepted split has
// importance exactly 0.
func (c *Classifier) FeatureImportances() ([]float64, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("forest.Classifier", "FeatureImportances")
	}
	out := make([]float64, len(c.importances))
	copy(out, c.importances)
	return out, nil
}

// OOBError returns the out-of-bag misclassification rate estimated during
// Fit.
func (c *Classifier) OOBError() (float64, error) {
	if !c.IsFitted() {
		return 0, errors.NewNotFittedError("forest.Classifier", "OOBError")
	}
	return c.oobError, nil
}
