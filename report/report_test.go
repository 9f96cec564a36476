package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gainpen/gainpen/selection"
)

func sampleResult() *selection.PipelineResult {
	records := []selection.EvaluationRecord{
		{Fold: 0, Combination: selection.Combination{Fraction: 0.5, Lambda0: 0.3, Gamma: 0.7},
			Source: selection.SourceImportance, TestAccuracy: 0.91, TrainAccuracy: 0.95,
			Features: []string{"x1", "x2"}},
		{Fold: 1, Combination: selection.Combination{Fraction: 0.25, Lambda0: 0.5, Gamma: 0.5},
			Source: selection.SourceMutualInfo, TestAccuracy: 0.84, TrainAccuracy: 0.90,
			Features: []string{"x1", "x3", "x4"}},
	}

	return &selection.PipelineResult{
		Sweep:  &selection.SweepResult{Records: records},
		Reeval: &selection.SweepResult{Records: records},
		Final: &selection.ConsolidationResult{
			Features: []selection.FeatureCount{
				{Name: "x1", Count: 2},
				{Name: "x2", Count: 1},
			},
			TestAccuracies:      []float64{0.9, 0.85},
			TrainAccuracies:     []float64{0.95, 0.92},
			MeanTestAccuracy:    0.875,
			MedianTestAccuracy:  0.875,
			MeanTrainAccuracy:   0.935,
			MedianTrainAccuracy: 0.935,
		},
	}
}

func TestWriteSummary(t *testing.T) {
	var sb strings.Builder
	if err := WriteSummary(&sb, sampleResult()); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := sb.String()
	for _, want := range []string{"top sweep records", "x1", "importance", "mutual_info", "0.8750"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_RejectsIncompleteRun(t *testing.T) {
	var sb strings.Builder
	if err := WriteSummary(&sb, nil); err == nil {
		t.Fatal("expected error for nil result")
	}
	if err := WriteSummary(&sb, &selection.PipelineResult{}); err == nil {
		t.Fatal("expected error for run without consolidation")
	}
}

func TestSaveAccuracyHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acc.png")

	if err := SaveAccuracyHistogram(path, sampleResult().Sweep.Records); err != nil {
		t.Fatalf("SaveAccuracyHistogram failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}
