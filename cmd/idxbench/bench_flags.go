package main

import (
	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/bench"
	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// benchFlags 是 run 與 replay 共用的參數；只有在命令列、環境變數或設定檔出現時才覆蓋 plan
type benchFlags struct {
	plan       string
	sizes      []int
	keyMin     int64
	keyMax     int64
	maxLevel   int
	p          float64
	runs       int
	seed       int64
	impls      string
	datasetDir string
	outDir     string
}

func addBenchFlags(cmd *cobra.Command, f *benchFlags, withDatasets bool) {
	def := bench.DefaultConfig()
	cmd.Flags().StringVar(&f.plan, "plan", "", "experiment plan YAML (fields not given fall back to defaults)")
	cmd.Flags().IntVar(&f.maxLevel, "max-level", def.MaxLevel, "skip list max level")
	cmd.Flags().Float64Var(&f.p, "p", def.P, "skip list promotion probability")
	cmd.Flags().IntVar(&f.runs, "runs", def.Runs, "how many times to repeat each measurement")
	cmd.Flags().Int64Var(&f.seed, "seed", def.Seed, "seed for datasets and skip list levels")
	cmd.Flags().StringVar(&f.impls, "impl", "all", "implementations to run: all or comma list (bst,dsw,skiplist)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", def.OutputDir, "directory for CSV/YAML results, empty to skip saving")
	if withDatasets {
		cmd.Flags().IntSliceVar(&f.sizes, "sizes", def.Sizes, "dataset sizes")
		cmd.Flags().Int64Var(&f.keyMin, "key-min", def.KeyMin, "smallest generated key")
		cmd.Flags().Int64Var(&f.keyMax, "key-max", def.KeyMax, "largest generated key")
		cmd.Flags().StringVar(&f.datasetDir, "dataset-dir", def.DatasetDir, "directory holding dataset_<n>.txt")
	}
}

// config 以 plan（或預設值）為底，套用有被設定的 flag
func (f *benchFlags) config(cmd *cobra.Command) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if f.plan != "" {
		var err error
		if cfg, err = bench.LoadConfig(f.plan); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("sizes") {
		cfg.Sizes = f.sizes
	}
	if changed("key-min") {
		cfg.KeyMin = index.K(f.keyMin)
	}
	if changed("key-max") {
		cfg.KeyMax = index.K(f.keyMax)
	}
	if changed("max-level") {
		cfg.MaxLevel = f.maxLevel
	}
	if changed("p") {
		cfg.P = f.p
	}
	if changed("runs") {
		cfg.Runs = f.runs
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("impl") {
		impls, err := bench.ParseImpls(f.impls)
		if err != nil {
			return cfg, err
		}
		cfg.Impls = impls
	}
	if changed("dataset-dir") {
		cfg.DatasetDir = f.datasetDir
	}
	if changed("out-dir") {
		cfg.OutputDir = f.outDir
	}
	return cfg, cfg.Validate()
}
