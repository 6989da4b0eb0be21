package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/bench"
	"github.com/Hakuto4838/OrderedIndex.git/datastream"
)

type replayConfig struct {
	file string
	dir  string
}

func newReplayCmd(base *baseConfiguration) *cobra.Command {
	config := &replayConfig{}
	flags := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replays IDXBENCH operation streams against each implementation",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.paths()
			if err != nil {
				return err
			}
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			log := base.Logger()
			runner, err := bench.NewRunner(cfg, log)
			if err != nil {
				return err
			}

			report := &bench.Report{}
			for i, path := range paths {
				sf, err := datastream.ReadStreamFile(path)
				if err != nil {
					return err
				}
				log.Info().
					Str("file", path).
					Int("ops", len(sf.Ops)).
					Float64("entropy", sf.Entropy()).
					Msgf("[%d/%d] replaying", i+1, len(paths))

				stats, err := runner.ReplayStream(cmd.Context(), sf)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "bench_file: %s\n", path)
				(&bench.Report{Replays: stats}).RenderTable(cmd.OutOrStdout())
				report.Replays = append(report.Replays, stats...)
			}
			return saveReport(base, report, cfg.OutputDir)
		},
	}
	cmd.Flags().StringVar(&config.file, "file", "", "stream file to replay")
	cmd.Flags().StringVar(&config.dir, "dir", "", "directory of .bin stream files (takes precedence over --file)")
	addBenchFlags(cmd, flags, false)
	return cmd
}

func (c *replayConfig) paths() ([]string, error) {
	if c.dir != "" {
		files, err := collectStreamFiles(c.dir)
		if err != nil {
			return nil, fmt.Errorf("scan directory %s: %w", c.dir, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .bin files found in directory: %s", c.dir)
		}
		return files, nil
	}
	if c.file == "" {
		return nil, errors.New("either --file or --dir must be provided")
	}
	return []string{c.file}, nil
}

// collectStreamFiles 收集目錄下所有 .bin 檔並排序
func collectStreamFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
