package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/bench"
	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/index"
)

func newGenCmd(base *baseConfiguration) *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generates datasets and operation streams",
	}
	genCmd.AddCommand(newGenDatasetsCmd(base))
	genCmd.AddCommand(newGenStreamCmd(base))
	genCmd.AddCommand(newGenDistCmd(base))
	return genCmd
}

type genDatasetsConfig struct {
	dir    string
	sizes  []int
	keyMin int64
	keyMax int64
	seed   int64
}

func newGenDatasetsCmd(base *baseConfiguration) *cobra.Command {
	def := bench.DefaultConfig()
	config := &genDatasetsConfig{}
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "Writes dataset_<n>.txt files of uniformly random keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := datastream.WriteDatasets(config.dir, config.sizes, index.K(config.keyMin), index.K(config.keyMax), config.seed, base.Logger())
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&config.dir, "dir", def.DatasetDir, "output directory")
	cmd.Flags().IntSliceVar(&config.sizes, "sizes", def.Sizes, "dataset sizes")
	cmd.Flags().Int64Var(&config.keyMin, "key-min", def.KeyMin, "smallest key")
	cmd.Flags().Int64Var(&config.keyMax, "key-max", def.KeyMax, "largest key")
	cmd.Flags().Int64Var(&config.seed, "seed", def.Seed, "seed of the first dataset, the i-th uses seed+i")
	return cmd
}

type genStreamConfig struct {
	out string
	wl  datastream.WorkloadConfig
}

func newGenStreamCmd(base *baseConfiguration) *cobra.Command {
	config := &genStreamConfig{}
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Writes an IDXBENCH operation stream file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := datastream.GenerateWorkload(config.wl)
			if err != nil {
				return err
			}
			if err := datastream.WriteStreamFile(config.out, sf); err != nil {
				return err
			}

			counts := map[datastream.OperationType]int{}
			for _, op := range sf.Ops {
				counts[op.Type]++
			}
			log := base.Logger()
			log.Info().
				Str("file", config.out).
				Int("keys", len(sf.Dist)).
				Int("ops", len(sf.Ops)).
				Float64("entropy", sf.Entropy()).
				Int("insert", counts[datastream.OpInsert]).
				Int("query", counts[datastream.OpQuery]).
				Int("delete", counts[datastream.OpDelete]).
				Int("range", counts[datastream.OpRange]).
				Msg("generated stream")
			fmt.Fprintln(cmd.OutOrStdout(), config.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.out, "out", "o", "", "output file (required)")
	cmd.Flags().IntVar(&config.wl.N, "n", 1000, "number of distinct keys")
	cmd.Flags().Float64Var(&config.wl.S, "s", 1.07, "Zipf s (> 1), 0 for uniform")
	cmd.Flags().Float64Var(&config.wl.V, "v", 1.0, "Zipf v (>= 1)")
	cmd.Flags().Uint64Var(&config.wl.Seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&config.wl.Ops, "ops", 100000, "number of operations (>= n)")
	cmd.Flags().Float64Var(&config.wl.Phase1Ratio, "phase1-ratio", 0.5, "share of operations in the covering phase")
	cmd.Flags().Float64Var(&config.wl.DeleteRatio, "delete-ratio", 0.1, "chance of deleting a present key")
	cmd.Flags().Float64Var(&config.wl.RangeRatio, "range-ratio", 0.05, "chance of a range query from a present key")
	cmd.Flags().Int64Var(&config.wl.RangeWidth, "range-width", 100, "width of range queries")
	cmd.Flags().BoolVar(&config.wl.SimpleKey, "simple-key", false, "use keys 0..n-1 instead of random uint32 keys")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

type genDistConfig struct {
	out  string
	n    int
	s, v float64
	seed int64
}

func newGenDistCmd(base *baseConfiguration) *cobra.Command {
	config := &genDistConfig{}
	cmd := &cobra.Command{
		Use:   "dist",
		Short: "Writes a key distribution (Zipf or uniform) as CSV rows key/prob",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.n <= 0 {
				return fmt.Errorf("invalid n: %d", config.n)
			}
			var gen datastream.DataStream
			if config.s == 0 {
				gen = datastream.NewUniformDataGenerator(config.n, config.seed)
			} else {
				gen = datastream.NewZipfDataGenerator(config.n, config.s, config.v, config.seed)
			}
			defer gen.Close()

			f, err := os.Create(config.out)
			if err != nil {
				return err
			}
			w := csv.NewWriter(f)
			if err := gen.DistributeToCSV(w); err != nil {
				f.Close()
				return fmt.Errorf("%s: %w", config.out, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			log := base.Logger()
			log.Info().
				Str("file", config.out).
				Int("keys", config.n).
				Float64("entropy", gen.Entropy()).
				Msg("generated distribution")
			fmt.Fprintln(cmd.OutOrStdout(), config.out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.out, "out", "o", "", "output CSV file (required)")
	cmd.Flags().IntVar(&config.n, "n", 1000, "number of keys")
	cmd.Flags().Float64Var(&config.s, "s", 1.07, "Zipf exponent, 0 for uniform")
	cmd.Flags().Float64Var(&config.v, "v", 1.0, "Zipf offset")
	cmd.Flags().Int64Var(&config.seed, "seed", 1, "seed for shuffling Zipf weights")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
