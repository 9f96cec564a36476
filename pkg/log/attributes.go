// Package log defines standard attribute keys for the selection pipeline.
//
// Using these keys consistently across sweep, re-evaluation and consolidation
// stages keeps the structured logs filterable by fold, hyperparameter
// combination and pipeline stage.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model being fitted.
	// Examples: "forest.Classifier"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// StageKey indicates the pipeline stage.
	// Examples: "sweep", "reevaluate", "consolidate"
	StageKey = "pipeline.stage"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Sweep element context.
const (
	// FoldKey identifies the cross-validation fold an element runs on.
	FoldKey = "sweep.fold"

	// FractionKey records the per-split feature subsampling fraction.
	FractionKey = "sweep.fraction"

	// Lambda0Key records the baseline regularization λ₀.
	Lambda0Key = "sweep.lambda0"

	// GammaKey records the mixing weight γ.
	GammaKey = "sweep.gamma"

	// SourceKey records the relevance source of the penalization vector.
	// Values: "importance", "mutual_info"
	SourceKey = "sweep.source"
)

// Metrics.
const (
	// TestAccuracyKey records held-out accuracy for an evaluation record.
	TestAccuracyKey = "metrics.test_accuracy"

	// TrainAccuracyKey records training accuracy for an evaluation record.
	TrainAccuracyKey = "metrics.train_accuracy"

	// NumSelectedKey records the count of features with nonzero importance.
	NumSelectedKey = "metrics.num_selected"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)
