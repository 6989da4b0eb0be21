package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/bench"
	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/saalgo"
)

const (
	tuneGrid   = "grid"
	tuneAnneal = "anneal"
)

type tuneConfig struct {
	streams    replayConfig
	method     string
	bounds     bench.TuneBounds
	seed       int64
	top        int
	csvPath    string
	iterations int
	startLevel int
	startP     float64
}

func newTuneCmd(base *baseConfiguration) *cobra.Command {
	config := &tuneConfig{}
	def := bench.DefaultTuneBounds()
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Searches skip list max level and p minimizing the weighted average search steps of operation streams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(cmd, base, config)
		},
	}
	cmd.Flags().StringVar(&config.streams.file, "file", "", "stream file")
	cmd.Flags().StringVar(&config.streams.dir, "dir", "", "directory of .bin stream files (takes precedence over --file)")
	cmd.Flags().StringVar(&config.method, "method", tuneGrid, "search method: grid or anneal")
	cmd.Flags().IntVar(&config.bounds.LevelMin, "level-min", def.LevelMin, "smallest max level")
	cmd.Flags().IntVar(&config.bounds.LevelMax, "level-max", def.LevelMax, "largest max level")
	cmd.Flags().Float64Var(&config.bounds.PMin, "p-min", def.PMin, "smallest p")
	cmd.Flags().Float64Var(&config.bounds.PMax, "p-max", def.PMax, "largest p")
	cmd.Flags().Float64Var(&config.bounds.PStep, "p-step", def.PStep, "p step")
	cmd.Flags().Int64Var(&config.seed, "seed", 1, "skip list seed, also the annealing seed")
	cmd.Flags().IntVar(&config.top, "top", 10, "grid: how many best points to print, 0 for all")
	cmd.Flags().StringVar(&config.csvPath, "csv", "", "grid: write every point to this CSV file")
	cmd.Flags().IntVar(&config.iterations, "iterations", saalgo.DefaultConfig().MaxIterations, "anneal: maximum iterations")
	cmd.Flags().IntVar(&config.startLevel, "start-level", 4, "anneal: starting max level")
	cmd.Flags().Float64Var(&config.startP, "start-p", 0.5, "anneal: starting p")
	return cmd
}

func runTune(cmd *cobra.Command, base *baseConfiguration, config *tuneConfig) error {
	log := base.Logger()
	paths, err := config.streams.paths()
	if err != nil {
		return err
	}
	streams := make([]*datastream.StreamFile, 0, len(paths))
	for _, path := range paths {
		sf, err := datastream.ReadStreamFile(path)
		if err != nil {
			return err
		}
		log.Info().Str("file", path).Int("ops", len(sf.Ops)).Msg("stream loaded")
		streams = append(streams, sf)
	}

	out := cmd.OutOrStdout()
	switch config.method {
	case tuneGrid:
		points, best, err := bench.GridSearch(cmd.Context(), streams, config.bounds, config.seed, log)
		if err != nil {
			return err
		}
		if config.csvPath != "" {
			if err := writeTuneCSV(config.csvPath, points); err != nil {
				return err
			}
			log.Info().Str("file", config.csvPath).Msg("grid saved")
		}
		bench.SortPoints(points)
		bench.RenderTunePoints(out, points, config.top)
		fmt.Fprintf(out, "best: max_level=%d p=%.4f avg_steps=%.4f\n", best.MaxLevel, best.P, best.Cost)
	case tuneAnneal:
		sa := saalgo.DefaultConfig()
		sa.MaxIterations = config.iterations
		sa.RandomSeed = config.seed
		sa.ProgressInterval = max(config.iterations/10, 1)
		start := bench.TunePoint{MaxLevel: config.startLevel, P: config.startP}
		best, err := bench.Anneal(cmd.Context(), streams, config.bounds, start, sa, config.seed, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "best: max_level=%d p=%.4f avg_steps=%.4f\n", best.MaxLevel, best.P, best.Cost)
	default:
		return fmt.Errorf("unknown tune method %q", config.method)
	}
	return nil
}

func writeTuneCSV(path string, points []bench.TunePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bench.WriteTuneCSV(f, points); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
