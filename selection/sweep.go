package selection

import (
	"log/slog"

	"github.com/gainpen/gainpen/core/parallel"
	"github.com/gainpen/gainpen/dataset"
	gplog "github.com/gainpen/gainpen/pkg/log"
	"github.com/gainpen/gainpen/relevance"

	"github.com/gainpen/gainpen/pkg/errors"
)

// Config drives the hyperparameter sweep.
type Config struct {
	Grid    Grid
	Sources []CoefficientSource // defaults to both sources
	MIBins  int                 // defaults to relevance.DefaultBins
	Seed    int64
	Trainer Trainer
}

// SweepResult holds one EvaluationRecord per successful
// (fold, combination, source) triple, plus the elements that failed locally.
type SweepResult struct {
	Records []EvaluationRecord
	Skipped []SkippedElement
}

// sweepElement is one (fold, combination, source) unit of work.
type sweepElement struct {
	fold   int
	combo  Combination
	source CoefficientSource
}

// foldRelevance carries the per-(fold, source) normalized relevance computed
// once and shared by every combination on that fold.
type foldRelevance struct {
	norm       []float64
	degenerate bool  // all-zero relevance; elements fall back to Constant(λ₀)
	err        error // non-recoverable: elements on this pair are skipped
}

// Sweep fits one penalized forest per (fold, combination, coefficient-source)
// triple and scores it on the fold's held-out rows. Elements are independent
// and run in parallel; a failed element is skipped and reported in
// SweepResult.Skipped without aborting the sweep. For a fixed Config.Seed the
// result set is reproducible.
func Sweep(cfg Config, ds *dataset.Dataset, folds []dataset.Fold) (*SweepResult, error) {
	if cfg.Trainer == nil {
		return nil, errors.NewValidationError("Trainer", "must not be nil", nil)
	}
	combos := cfg.Grid.Combinations()
	if len(combos) == 0 {
		return nil, errors.NewValidationError("Grid", "must enumerate at least one combination", cfg.Grid)
	}
	if len(folds) == 0 {
		return nil, errors.NewValidationError("folds", "must not be empty", folds)
	}

	sources := cfg.Sources
	if len(sources) == 0 {
		sources = []CoefficientSource{SourceImportance, SourceMutualInfo}
	}
	bins := cfg.MIBins
	if bins == 0 {
		bins = relevance.DefaultBins
	}

	slog.Info("starting hyperparameter sweep",
		gplog.StageKey, "sweep",
		gplog.SamplesKey, ds.NumSamples(),
		gplog.FeaturesKey, ds.NumFeatures(),
		"folds", len(folds),
		"combinations", len(combos),
		"sources", len(sources),
		gplog.RandomSeedKey, cfg.Seed,
	)

	trainSubs := make([]*dataset.Dataset, len(folds))
	testSubs := make([]*dataset.Dataset, len(folds))
	for i, fold := range folds {
		trainSubs[i] = ds.Subset(fold.Train)
		testSubs[i] = ds.Subset(fold.Test)
	}

	// Relevance is a pure function of (fold, source): compute it once up
	// front. The guide models for the importance source are unpenalized fits
	// with derived seeds.
	rels := make(map[CoefficientSource][]foldRelevance, len(sources))
	for _, src := range sources {
		perFold := make([]foldRelevance, len(folds))
		for i := range folds {
			raw, err := rawRelevance(cfg.Trainer, trainSubs[i], src, bins, cfg.Seed+int64(i))
			if err != nil {
				perFold[i] = foldRelevance{err: err}
				continue
			}

			norm, err := relevance.Normalize(raw, src.String())
			if err != nil {
				var degenerate *errors.DegenerateRelevanceError
				if errors.As(err, &degenerate) {
					errors.Warn(err)
					slog.Warn("degenerate relevance, falling back to constant baseline",
						gplog.FoldKey, i,
						gplog.SourceKey, src.String(),
						gplog.ErrAttr(err),
					)
					perFold[i] = foldRelevance{degenerate: true}
					continue
				}
				perFold[i] = foldRelevance{err: err}
				continue
			}
			perFold[i] = foldRelevance{norm: norm}
		}
		rels[src] = perFold
	}

	var elements []sweepElement
	for i := range folds {
		for _, combo := range combos {
			for _, src := range sources {
				elements = append(elements, sweepElement{fold: i, combo: combo, source: src})
			}
		}
	}

	type outcome struct {
		record  EvaluationRecord
		skipped *SkippedElement
	}
	outcomes := make([]outcome, len(elements))

	// element seeds start past the guide-model seeds so every fit in the
	// sweep draws from its own stream
	seedBase := cfg.Seed + int64(len(folds))

	parallel.Parallelize(len(elements), func(start, end int) {
		for idx := start; idx < end; idx++ {
			el := elements[idx]
			rec, err := runElement(cfg.Trainer, trainSubs[el.fold], testSubs[el.fold],
				el, rels[el.source][el.fold], seedBase+int64(idx))
			if err != nil {
				outcomes[idx] = outcome{skipped: &SkippedElement{
					Fold:        el.fold,
					Combination: el.combo,
					Source:      el.source,
					Err:         err,
				}}
				continue
			}
			outcomes[idx] = outcome{record: rec}
		}
	})

	result := &SweepResult{}
	for _, o := range outcomes {
		if o.skipped != nil {
			slog.Warn("sweep element skipped",
				gplog.FoldKey, o.skipped.Fold,
				gplog.FractionKey, o.skipped.Combination.Fraction,
				gplog.Lambda0Key, o.skipped.Combination.Lambda0,
				gplog.GammaKey, o.skipped.Combination.Gamma,
				gplog.SourceKey, o.skipped.Source.String(),
				gplog.ErrAttr(o.skipped.Err),
			)
			result.Skipped = append(result.Skipped, *o.skipped)
			continue
		}
		result.Records = append(result.Records, o.record)
	}

	slog.Info("sweep finished",
		gplog.StageKey, "sweep",
		"records", len(result.Records),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

// rawRelevance produces the unnormalized relevance scores for one
// (fold, source) pair.
func rawRelevance(trainer Trainer, train *dataset.Dataset, src CoefficientSource, bins int, seed int64) ([]float64, error) {
	switch src {
	case SourceImportance:
		guide, err := trainer.FitPenalized(train, 0, nil, seed)
		if err != nil {
			return nil, errors.Wrap(err, "fitting unpenalized guide model")
		}
		return relevance.FromImportance(guide.Importances), nil
	case SourceMutualInfo:
		return relevance.FromMutualInfo(train, bins)
	default:
		return nil, errors.NewValidationError("source", "unknown coefficient source", src)
	}
}

// runElement fits and scores a single sweep element.
func runElement(trainer Trainer, train, test *dataset.Dataset,
	el sweepElement, rel foldRelevance, seed int64) (EvaluationRecord, error) {

	if rel.err != nil {
		return EvaluationRecord{}, rel.err
	}

	var penalty []float64
	if rel.degenerate {
		penalty = relevance.Constant(el.combo.Lambda0, train.NumFeatures())
	} else {
		var err error
		penalty, err = relevance.Mix(el.combo.Lambda0, el.combo.Gamma, rel.norm)
		if err != nil {
			return EvaluationRecord{}, err
		}
	}

	model, err := trainer.FitPenalized(train, el.combo.Fraction, penalty, seed)
	if err != nil {
		return EvaluationRecord{}, err
	}

	testAcc, err := model.Score(test)
	if err != nil {
		return EvaluationRecord{}, err
	}

	return EvaluationRecord{
		Fold:          el.fold,
		Combination:   el.combo,
		Source:        el.source,
		TestAccuracy:  testAcc,
		TrainAccuracy: model.TrainAccuracy(),
		Features:      model.SelectedFeatures(),
	}, nil
}
