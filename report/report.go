// Package report renders pipeline results for humans: a plain-text summary
// and an accuracy-distribution plot.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gainpen/gainpen/pkg/errors"
	"github.com/gainpen/gainpen/selection"
)

// WriteSummary writes a tabular run summary: the best sweep records, the
// consolidated feature tally, and the final cross-validated accuracies.
func WriteSummary(w io.Writer, result *selection.PipelineResult) error {
	if result == nil || result.Final == nil {
		return errors.NewValidationError("result", "must hold a completed run", result)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "== top sweep records ==")
	fmt.Fprintln(tw, "rank\tfold\tfraction\tlambda0\tgamma\tsource\ttest_acc\ttrain_acc\tfeatures")
	ranked := selection.RankRecords(result.Sweep.Records)
	n := 10
	if n > len(ranked) {
		n = len(ranked)
	}
	for i, rec := range ranked[:n] {
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%.2f\t%.2f\t%s\t%.4f\t%.4f\t%d\n",
			i+1, rec.Fold,
			rec.Combination.Fraction, rec.Combination.Lambda0, rec.Combination.Gamma,
			rec.Source, rec.TestAccuracy, rec.TrainAccuracy, rec.NumFeatures())
	}

	fmt.Fprintln(tw, "\n== consolidated feature set ==")
	fmt.Fprintln(tw, "feature\tcount")
	for _, fc := range result.Final.Features {
		fmt.Fprintf(tw, "%s\t%d\n", fc.Name, fc.Count)
	}

	fmt.Fprintln(tw, "\n== final cross-validation ==")
	fmt.Fprintf(tw, "mean test accuracy\t%.4f\n", result.Final.MeanTestAccuracy)
	fmt.Fprintf(tw, "median test accuracy\t%.4f\n", result.Final.MedianTestAccuracy)
	fmt.Fprintf(tw, "mean train accuracy\t%.4f\n", result.Final.MeanTrainAccuracy)
	fmt.Fprintf(tw, "median train accuracy\t%.4f\n", result.Final.MedianTrainAccuracy)

	if len(result.Sweep.Skipped)+len(result.Reeval.Skipped) > 0 {
		fmt.Fprintf(tw, "\nskipped elements\t%d (sweep) + %d (re-evaluation)\n",
			len(result.Sweep.Skipped), len(result.Reeval.Skipped))
	}

	return tw.Flush()
}

// SaveAccuracyHistogram plots the distribution of test accuracies across the
// given records and writes it to path as a PNG.
func SaveAccuracyHistogram(path string, records []selection.EvaluationRecord) error {
	if len(records) == 0 {
		return errors.NewValidationError("records", "must not be empty", records)
	}

	vals := make(plotter.Values, len(records))
	for i, rec := range records {
		vals[i] = rec.TestAccuracy
	}

	p := plot.New()
	p.Title.Text = "Test accuracy distribution"
	p.X.Label.Text = "accuracy"
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(vals, 16)
	if err != nil {
		return errors.Wrap(err, "building accuracy histogram")
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "saving accuracy histogram")
	}
	return nil
}
