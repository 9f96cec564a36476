package selection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/forest"
	"github.com/gainpen/gainpen/pkg/errors"
)

// Scorer computes accuracy on a labeled matrix. Satisfied by
// *forest.Classifier.
type Scorer interface {
	Score(X mat.Matrix, y []int) (float64, error)
}

// FittedModel is the result of one training call: the learned importance
// mapping, the in-sample error estimate, and a handle for scoring held-out
// data. Immutable after creation.
type FittedModel struct {
	FeatureNames []string
	Importances  []float64
	TrainError   float64

	scorer Scorer
}

// NewFittedModel wraps a fitted scorer with its importance mapping. Intended
// for Trainer implementations.
func NewFittedModel(names []string, importances []float64, trainError float64, scorer Scorer) *FittedModel {
	return &FittedModel{
		FeatureNames: names,
		Importances:  importances,
		TrainError:   trainError,
		scorer:       scorer,
	}
}

// TrainAccuracy returns 1 minus the in-sample error estimate.
func (m *FittedModel) TrainAccuracy() float64 {
	return 1 - m.TrainError
}

// Score returns the model's accuracy on ds.
func (m *FittedModel) Score(ds *dataset.Dataset) (float64, error) {
	return m.scorer.Score(ds.X(), ds.Labels())
}

// SelectedFeatures returns the names of features with nonzero importance, in
// column order. A feature never used for an accepted split is not selected.
func (m *FittedModel) SelectedFeatures() []string {
	var out []string
	for i, imp := range m.Importances {
		if imp > 0 {
			out = append(out, m.FeatureNames[i])
		}
	}
	return out
}

// Trainer is the capability boundary around the model-fitting engine. The
// engine must honor the gain-penalization contract: a candidate split's
// impurity gain is multiplied by the feature's coefficient before any
// comparison, including against the no-split baseline.
//
// fraction is the share of features considered per split; fraction <= 0
// selects the engine default (√ of the feature count). penalty may be nil
// for an unpenalized fit. Implementations must be deterministic for a fixed
// seed.
type Trainer interface {
	FitPenalized(train *dataset.Dataset, fraction float64, penalty []float64, seed int64) (*FittedModel, error)
}

// ForestTrainer fits the in-repo penalized random forest.
type ForestTrainer struct {
	NumTrees   int
	MinLeaf    int
	NumWorkers int
}

// NewForestTrainer returns a trainer with the defaults used throughout the
// pipeline: 100 trees, single worker.
func NewForestTrainer() *ForestTrainer {
	return &ForestTrainer{NumTrees: 100, MinLeaf: 1, NumWorkers: 1}
}

// FitPenalized implements Trainer on top of forest.Classifier.
func (t *ForestTrainer) FitPenalized(train *dataset.Dataset, fraction float64, penalty []float64, seed int64) (*FittedModel, error) {
	maxFeatures := -1
	if fraction > 0 {
		maxFeatures = int(fraction * float64(train.NumFeatures()))
		if maxFeatures < 1 {
			return nil, errors.NewInvalidHyperparameterError("fraction", fraction,
				"yields fewer than 1 usable feature per split")
		}
	}

	clf := forest.NewClassifier(
		forest.WithNumTrees(t.NumTrees),
		forest.WithMaxFeatures(maxFeatures),
		forest.WithMinLeaf(t.MinLeaf),
		forest.WithNumWorkers(t.NumWorkers),
		forest.WithSeed(seed),
		forest.WithGainPenalty(penalty),
	)

	if err := clf.Fit(train.X(), train.Labels()); err != nil {
		return nil, errors.Wrap(err, "fitting penalized forest")
	}

	importances, err := clf.FeatureImportances()
	if err != nil {
		return nil, err
	}
	oob, err := clf.OOBError()
	if err != nil {
		return nil, err
	}

	return NewFittedModel(train.FeatureNames(), importances, oob, clf), nil
}
