package selection

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
	gplog "github.com/gainpen/gainpen/pkg/log"
)

// FeatureCount is one tallied feature with the number of top-ranked records
// that selected it.
type FeatureCount struct {
	Name  string
	Count int
}

// ConsolidationResult is the output of the final pipeline stage: the chosen
// feature set with its tally, and cross-validated accuracy statistics for the
// consolidated model fitted on exactly those features.
type ConsolidationResult struct {
	Features []FeatureCount

	TestAccuracies  []float64 // one per final fold
	TrainAccuracies []float64

	MeanTestAccuracy    float64
	MedianTestAccuracy  float64
	MeanTrainAccuracy   float64
	MedianTrainAccuracy float64
}

// TallyFeatures counts how often each feature appears across the top topM
// ranked records. The returned slice is ordered by descending count; counts
// tie toward the feature first encountered in the ranked traversal.
func TallyFeatures(records []EvaluationRecord, topM int) []FeatureCount {
	ranked := RankRecords(records)
	if topM < len(ranked) {
		ranked = ranked[:topM]
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, rec := range ranked {
		for _, f := range rec.Features {
			if _, ok := firstSeen[f]; !ok {
				firstSeen[f] = order
				order++
			}
			counts[f]++
		}
	}

	out := make([]FeatureCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, FeatureCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Name] < firstSeen[out[j].Name]
	})
	return out
}

// Consolidate ranks the re-evaluation records, tallies feature occurrences
// across the top topM of them, keeps the topF most frequent features, and
// cross-validates an unpenalized model on that feature set with finalFolds
// folds. Fewer than topF distinct tallied features is an
// InsufficientFeaturesError.
func Consolidate(trainer Trainer, ds *dataset.Dataset, records []EvaluationRecord,
	topM, topF, finalFolds int, seed int64) (*ConsolidationResult, error) {

	if trainer == nil {
		return nil, errors.NewValidationError("trainer", "must not be nil", nil)
	}
	if topM < 1 || topF < 1 {
		return nil, errors.NewValidationError("topM/topF", "must be >= 1", [2]int{topM, topF})
	}
	if finalFolds < 2 {
		return nil, errors.NewValidationError("finalFolds", "must be >= 2", finalFolds)
	}

	tally := TallyFeatures(records, topM)
	if len(tally) < topF {
		return nil, errors.NewInsufficientFeaturesError(topF, len(tally))
	}
	tally = tally[:topF]

	names := make([]string, len(tally))
	for i, fc := range tally {
		names[i] = fc.Name
	}

	slog.Info("consolidating final feature set",
		gplog.StageKey, "consolidate",
		gplog.NumSelectedKey, len(names),
		"final_folds", finalFolds,
		gplog.RandomSeedKey, seed,
	)

	restricted, err := ds.Select(names)
	if err != nil {
		return nil, err
	}

	kf := dataset.NewKFold(finalFolds, seed)
	folds := kf.Split(restricted.NumSamples())

	result := &ConsolidationResult{Features: tally}
	for i, fold := range folds {
		model, err := trainer.FitPenalized(restricted.Subset(fold.Train), 0, nil, seed+int64(i))
		if err != nil {
			return nil, errors.Wrapf(err, "fitting consolidated model on fold %d", i)
		}
		testAcc, err := model.Score(restricted.Subset(fold.Test))
		if err != nil {
			return nil, errors.Wrapf(err, "scoring consolidated model on fold %d", i)
		}
		result.TestAccuracies = append(result.TestAccuracies, testAcc)
		result.TrainAccuracies = append(result.TrainAccuracies, model.TrainAccuracy())
	}

	result.MeanTestAccuracy = stat.Mean(result.TestAccuracies, nil)
	result.MeanTrainAccuracy = stat.Mean(result.TrainAccuracies, nil)
	result.MedianTestAccuracy = median(result.TestAccuracies)
	result.MedianTrainAccuracy = median(result.TrainAccuracies)

	slog.Info("consolidation finished",
		gplog.StageKey, "consolidate",
		gplog.TestAccuracyKey, result.MeanTestAccuracy,
		gplog.TrainAccuracyKey, result.MeanTrainAccuracy,
	)

	return result, nil
}

func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
