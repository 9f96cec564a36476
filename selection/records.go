// Package selection implements the three-stage gain-penalization
// feature-selection pipeline: a penalized-forest hyperparameter sweep, a
// resampled re-evaluation of the top-ranked feature sets, and a final
// consolidated model over the most frequently selected features.
package selection

import (
	"fmt"
	"sort"
)

// CoefficientSource identifies where the relevance scores behind a
// penalization vector came from.
type CoefficientSource int

const (
	// SourceImportance derives relevance from the importance scores of an
	// unpenalized guide model fitted on the same training fold.
	SourceImportance CoefficientSource = iota
	// SourceMutualInfo derives relevance from the mutual information between
	// each discretized feature and the target.
	SourceMutualInfo
)

func (s CoefficientSource) String() string {
	switch s {
	case SourceImportance:
		return "importance"
	case SourceMutualInfo:
		return "mutual_info"
	default:
		return fmt.Sprintf("CoefficientSource(%d)", int(s))
	}
}

// Combination is one hyperparameter tuple of the sweep grid.
type Combination struct {
	Fraction float64 // fraction of features considered per split
	Lambda0  float64 // baseline regularization λ₀
	Gamma    float64 // mixing weight γ
}

// Grid enumerates the cross product of the sweep hyperparameters.
type Grid struct {
	Fractions []float64
	Lambda0s  []float64
	Gammas    []float64
}

// Combinations returns the full cross product in deterministic order:
// fractions outermost, gammas innermost.
func (g Grid) Combinations() []Combination {
	out := make([]Combination, 0, len(g.Fractions)*len(g.Lambda0s)*len(g.Gammas))
	for _, f := range g.Fractions {
		for _, l := range g.Lambda0s {
			for _, gm := range g.Gammas {
				out = append(out, Combination{Fraction: f, Lambda0: l, Gamma: gm})
			}
		}
	}
	return out
}

// EvaluationRecord is the outcome of fitting one model on one fold. It is
// immutable once produced and only ever consumed by ranking and tallying.
type EvaluationRecord struct {
	Fold          int
	Combination   Combination
	Source        CoefficientSource
	TestAccuracy  float64
	TrainAccuracy float64
	Features      []string // features with nonzero importance, column order
}

// NumFeatures is the selected-feature count, the model-simplicity proxy used
// as the final ranking key.
func (r EvaluationRecord) NumFeatures() int {
	return len(r.Features)
}

// RankRecords orders records by the composite key: descending test accuracy,
// then descending training accuracy, then ascending feature count. The sort
// is stable, so records with fully equal keys keep their input order and
// repeated calls produce identical output.
func RankRecords(records []EvaluationRecord) []EvaluationRecord {
	out := make([]EvaluationRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TestAccuracy != out[j].TestAccuracy {
			return out[i].TestAccuracy > out[j].TestAccuracy
		}
		if out[i].TrainAccuracy != out[j].TrainAccuracy {
			return out[i].TrainAccuracy > out[j].TrainAccuracy
		}
		return out[i].NumFeatures() < out[j].NumFeatures()
	})

	return out
}

// SkippedElement reports one sweep or re-evaluation element that failed
// locally. Failures never abort the surrounding stage.
type SkippedElement struct {
	Fold        int
	Combination Combination
	Source      CoefficientSource
	Err         error
}
