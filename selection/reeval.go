package selection

import (
	"log/slog"

	"github.com/gainpen/gainpen/core/parallel"
	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
	gplog "github.com/gainpen/gainpen/pkg/log"
)

// Reevaluate takes the top-K records of every fold's sweep ranking and refits
// each one's feature set without penalization, restricted to exactly those
// features, on every fold. A candidate with an empty feature set is skipped
// with an EmptyFeatureSetError. Each surviving (candidate, fold) pair yields
// one EvaluationRecord whose Combination and Source trace back to the sweep
// element that produced the feature set.
func Reevaluate(trainer Trainer, ds *dataset.Dataset, folds []dataset.Fold,
	records []EvaluationRecord, topK int, seed int64) (*SweepResult, error) {

	if trainer == nil {
		return nil, errors.NewValidationError("trainer", "must not be nil", nil)
	}
	if topK < 1 {
		return nil, errors.NewValidationError("topK", "must be >= 1", topK)
	}
	if len(folds) == 0 {
		return nil, errors.NewValidationError("folds", "must not be empty", folds)
	}

	byFold := make(map[int][]EvaluationRecord)
	maxFold := -1
	for _, r := range records {
		byFold[r.Fold] = append(byFold[r.Fold], r)
		if r.Fold > maxFold {
			maxFold = r.Fold
		}
	}

	result := &SweepResult{}

	// candidates, in fold order then rank order
	var candidates []EvaluationRecord
	for fold := 0; fold <= maxFold; fold++ {
		ranked := RankRecords(byFold[fold])
		k := topK
		if k > len(ranked) {
			k = len(ranked)
		}
		for _, cand := range ranked[:k] {
			if cand.NumFeatures() == 0 {
				err := errors.NewEmptyFeatureSetError(cand.Fold)
				errors.Warn(err)
				result.Skipped = append(result.Skipped, SkippedElement{
					Fold:        cand.Fold,
					Combination: cand.Combination,
					Source:      cand.Source,
					Err:         err,
				})
				continue
			}
			candidates = append(candidates, cand)
		}
	}

	slog.Info("re-evaluating top-ranked feature sets",
		gplog.StageKey, "reeval",
		"candidates", len(candidates),
		"folds", len(folds),
		gplog.RandomSeedKey, seed,
	)

	type element struct {
		cand EvaluationRecord
		fold int
	}
	var elements []element
	for _, cand := range candidates {
		for fold := range folds {
			elements = append(elements, element{cand: cand, fold: fold})
		}
	}

	type outcome struct {
		record  EvaluationRecord
		skipped *SkippedElement
	}
	outcomes := make([]outcome, len(elements))

	parallel.Parallelize(len(elements), func(start, end int) {
		for idx := start; idx < end; idx++ {
			el := elements[idx]

			restricted, err := ds.Select(el.cand.Features)
			if err == nil {
				var model *FittedModel
				train := restricted.Subset(folds[el.fold].Train)
				model, err = trainer.FitPenalized(train, 0, nil, seed+int64(idx))
				if err == nil {
					var testAcc float64
					testAcc, err = model.Score(restricted.Subset(folds[el.fold].Test))
					if err == nil {
						outcomes[idx] = outcome{record: EvaluationRecord{
							Fold:          el.fold,
							Combination:   el.cand.Combination,
							Source:        el.cand.Source,
							TestAccuracy:  testAcc,
							TrainAccuracy: model.TrainAccuracy(),
							Features:      model.SelectedFeatures(),
						}}
						continue
					}
				}
			}
			outcomes[idx] = outcome{skipped: &SkippedElement{
				Fold:        el.fold,
				Combination: el.cand.Combination,
				Source:      el.cand.Source,
				Err:         err,
			}}
		}
	})

	for _, o := range outcomes {
		if o.skipped != nil {
			slog.Warn("re-evaluation element skipped",
				gplog.FoldKey, o.skipped.Fold,
				gplog.SourceKey, o.skipped.Source.String(),
				gplog.ErrAttr(o.skipped.Err),
			)
			result.Skipped = append(result.Skipped, *o.skipped)
			continue
		}
		result.Records = append(result.Records, o.record)
	}

	slog.Info("re-evaluation finished",
		gplog.StageKey, "reeval",
		"records", len(result.Records),
		"skipped", len(result.Skipped),
	)

	return result, nil
}
