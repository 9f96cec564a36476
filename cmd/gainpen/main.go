// Command gainpen runs the gain-penalization feature-selection pipeline on a
// CSV dataset and writes a summary report.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gainpen/gainpen/dataset"
	"github.com/gainpen/gainpen/pkg/errors"
	gplog "github.com/gainpen/gainpen/pkg/log"
	"github.com/gainpen/gainpen/report"
	"github.com/gainpen/gainpen/selection"
)

// runConfig is the YAML shape of --config. Every field is optional; zero
// values fall back to the pipeline defaults.
type runConfig struct {
	Fractions []float64 `yaml:"fractions"`
	Lambda0s  []float64 `yaml:"lambda0s"`
	Gammas    []float64 `yaml:"gammas"`
	Sources   []string  `yaml:"sources"`

	Folds      int `yaml:"folds"`
	TopK       int `yaml:"top_k"`
	TopM       int `yaml:"top_m"`
	TopF       int `yaml:"top_f"`
	FinalFolds int `yaml:"final_folds"`

	NumTrees   int `yaml:"num_trees"`
	NumWorkers int `yaml:"num_workers"`
	MIBins     int `yaml:"mi_bins"`
}

var (
	rootCmd = &cobra.Command{
		Use:   "gainpen",
		Short: "Gain-penalized random forest feature selection",
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the sweep, re-evaluation and consolidation stages on a CSV dataset",
		RunE:  runPipeline,
	}

	dataPath   string
	targetCol  string
	configPath string
	outDir     string
	seed       int64
	logLevel   string
)

func init() {
	runCmd.Flags().StringVar(&dataPath, "data", "", "path to the input CSV (required)")
	runCmd.Flags().StringVar(&targetCol, "target", "", "name of the target column (required)")
	runCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config for grid and stage parameters")
	runCmd.Flags().StringVar(&outDir, "out", "report", "output directory for the summary and plot")
	runCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	_ = runCmd.MarkFlagRequired("data")
	_ = runCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(_ *cobra.Command, _ []string) error {
	if err := gplog.SetupLogger(logLevel); err != nil {
		return err
	}

	warnLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn().Err(w).Msg("pipeline warning")
	})

	f, err := os.Open(dataPath)
	if err != nil {
		return errors.Wrap(err, "opening data file")
	}
	defer f.Close()

	ds, err := dataset.FromCSV(f, targetCol)
	if err != nil {
		return errors.Wrap(err, "reading data file")
	}

	cfg, err := buildConfig(configPath, seed)
	if err != nil {
		return err
	}

	slog.Info("loaded dataset",
		gplog.SamplesKey, ds.NumSamples(),
		gplog.FeaturesKey, ds.NumFeatures(),
		"target", targetCol,
	)

	result, err := selection.Run(cfg, ds)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	summaryPath := filepath.Join(outDir, "summary.txt")
	out, err := os.Create(summaryPath)
	if err != nil {
		return errors.Wrap(err, "creating summary file")
	}
	defer out.Close()

	if err := report.WriteSummary(out, result); err != nil {
		return err
	}
	if err := report.WriteSummary(os.Stdout, result); err != nil {
		return err
	}

	plotPath := filepath.Join(outDir, "accuracy.png")
	if err := report.SaveAccuracyHistogram(plotPath, result.Sweep.Records); err != nil {
		return err
	}

	slog.Info("report written", "summary", summaryPath, "plot", plotPath)
	return nil
}

// buildConfig merges the optional YAML file with the CLI seed.
func buildConfig(path string, seed int64) (selection.PipelineConfig, error) {
	cfg := selection.PipelineConfig{Seed: seed}

	trainer := selection.NewForestTrainer()
	cfg.Trainer = trainer

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	var rc runConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return cfg, errors.Wrap(err, "parsing config file")
	}

	cfg.Grid = selection.Grid{
		Fractions: rc.Fractions,
		Lambda0s:  rc.Lambda0s,
		Gammas:    rc.Gammas,
	}
	cfg.Folds = rc.Folds
	cfg.TopK = rc.TopK
	cfg.TopM = rc.TopM
	cfg.TopF = rc.TopF
	cfg.FinalFolds = rc.FinalFolds
	cfg.MIBins = rc.MIBins

	for _, s := range rc.Sources {
		switch s {
		case "importance":
			cfg.Sources = append(cfg.Sources, selection.SourceImportance)
		case "mutual_info":
			cfg.Sources = append(cfg.Sources, selection.SourceMutualInfo)
		default:
			return cfg, errors.NewValidationError("sources",
				`must be "importance" or "mutual_info"`, s)
		}
	}

	if rc.NumTrees > 0 {
		trainer.NumTrees = rc.NumTrees
	}
	if rc.NumWorkers > 0 {
		trainer.NumWorkers = rc.NumWorkers
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
