package main

import (
	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/bench"
)

func newRunCmd(base *baseConfiguration) *cobra.Command {
	flags := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs insert/search/delete/range experiments on every dataset size",
		Long: `For each dataset size the keys are loaded from dataset_<n>.txt (generated when missing) and, per implementation,
four experiments are measured: inserting all keys, searching the last key, deleting the last key and a range search over [min, max].
Every measurement uses a fresh structure; "dsw" balances once after inserting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			log := base.Logger()
			runner, err := bench.NewRunner(cfg, log)
			if err != nil {
				return err
			}
			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			report.RenderTable(cmd.OutOrStdout())
			return saveReport(base, report, cfg.OutputDir)
		},
	}
	addBenchFlags(cmd, flags, true)
	return cmd
}

func saveReport(base *baseConfiguration, report *bench.Report, dir string) error {
	if dir == "" {
		return nil
	}
	files, err := report.Save(dir)
	if err != nil {
		return err
	}
	log := base.Logger()
	log.Info().Strs("files", files).Msg("results saved")
	return nil
}
