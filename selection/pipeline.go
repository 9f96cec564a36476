package selection

import (
	"log/slog"

	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
	gplog "github.com/gainpen/gainpen/pkg/log"
)

// PipelineConfig configures a full run of the three-stage pipeline. Zero
// values select the defaults used throughout the package.
type PipelineConfig struct {
	Grid    Grid
	Sources []CoefficientSource
	MIBins  int

	Folds      int // cross-validation folds for sweep and re-evaluation
	TopK       int // candidates kept per fold after the sweep
	TopM       int // re-evaluation records tallied
	TopF       int // features kept in the final set
	FinalFolds int // folds of the consolidation cross-validation

	Seed    int64
	Trainer Trainer
}

// DefaultGrid returns the sweep grid used when PipelineConfig.Grid is empty:
// split fractions 0.15 through 0.85 in steps of 0.10, λ₀ and γ each 0.1
// through 0.9 in steps of 0.1.
func DefaultGrid() Grid {
	var g Grid
	for f := 0.15; f < 0.90; f += 0.10 {
		g.Fractions = append(g.Fractions, f)
	}
	for v := 0.1; v < 0.95; v += 0.1 {
		g.Lambda0s = append(g.Lambda0s, v)
		g.Gammas = append(g.Gammas, v)
	}
	return g
}

func (c *PipelineConfig) applyDefaults() {
	if len(c.Grid.Combinations()) == 0 {
		c.Grid = DefaultGrid()
	}
	if c.Folds == 0 {
		c.Folds = 5
	}
	if c.TopK == 0 {
		c.TopK = 3
	}
	if c.TopM == 0 {
		c.TopM = 30
	}
	if c.TopF == 0 {
		c.TopF = 15
	}
	if c.FinalFolds == 0 {
		c.FinalFolds = 20
	}
	if c.Trainer == nil {
		c.Trainer = NewForestTrainer()
	}
}

// PipelineResult bundles the outputs of the three stages.
type PipelineResult struct {
	Sweep  *SweepResult
	Reeval *SweepResult
	Final  *ConsolidationResult
}

// Run executes sweep, re-evaluation and consolidation on ds with a single
// seeded fold split shared by the first two stages.
func Run(cfg PipelineConfig, ds *dataset.Dataset) (*PipelineResult, error) {
	cfg.applyDefaults()

	slog.Info("running feature selection pipeline",
		gplog.SamplesKey, ds.NumSamples(),
		gplog.FeaturesKey, ds.NumFeatures(),
		gplog.RandomSeedKey, cfg.Seed,
	)

	kf := dataset.NewKFold(cfg.Folds, cfg.Seed)
	folds := kf.Split(ds.NumSamples())

	sweep, err := Sweep(Config{
		Grid:    cfg.Grid,
		Sources: cfg.Sources,
		MIBins:  cfg.MIBins,
		Seed:    cfg.Seed,
		Trainer: cfg.Trainer,
	}, ds, folds)
	if err != nil {
		return nil, errors.Wrap(err, "sweep stage")
	}

	// later stages draw from their own seed ranges
	reevalSeed := cfg.Seed + 1_000_000
	reeval, err := Reevaluate(cfg.Trainer, ds, folds, sweep.Records, cfg.TopK, reevalSeed)
	if err != nil {
		return nil, errors.Wrap(err, "re-evaluation stage")
	}

	finalSeed := cfg.Seed + 2_000_000
	final, err := Consolidate(cfg.Trainer, ds, reeval.Records, cfg.TopM, cfg.TopF, cfg.FinalFolds, finalSeed)
	if err != nil {
		return nil, errors.Wrap(err, "consolidation stage")
	}

	return &PipelineResult{Sweep: sweep, Reeval: reeval, Final: final}, nil
}
