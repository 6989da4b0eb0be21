package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/index"
	"github.com/Hakuto4838/OrderedIndex.git/index/dsw"
	"github.com/Hakuto4838/OrderedIndex.git/index/skiplist"
	"github.com/Hakuto4838/OrderedIndex.git/render"
)

type renderConfig struct {
	dir      string
	keys     []int64
	maxLevel int
	p        float64
	seed     int64
}

func newRenderCmd(base *baseConfiguration) *cobra.Command {
	config := &renderConfig{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Writes Graphviz DOT snapshots of the tree before DSW, its backbone, the balanced tree and a skip list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderSnapshots(cmd, base, config)
		},
	}
	cmd.Flags().StringVar(&config.dir, "dir", "graphs", "output directory")
	cmd.Flags().Int64SliceVar(&config.keys, "keys", []int64{10, 5, 3, 2, 1, 15, 20}, "keys to insert, in order")
	cmd.Flags().IntVar(&config.maxLevel, "max-level", 4, "skip list max level")
	cmd.Flags().Float64Var(&config.p, "p", 0.5, "skip list promotion probability")
	cmd.Flags().Int64Var(&config.seed, "seed", 1, "skip list seed")
	return cmd
}

func renderSnapshots(cmd *cobra.Command, base *baseConfiguration, config *renderConfig) error {
	tree := dsw.New[index.K]()
	sl, err := skiplist.New[index.K](config.maxLevel, config.p, skiplist.WithSeed(config.seed))
	if err != nil {
		return err
	}
	for _, k := range config.keys {
		tree.Insert(k)
		sl.Insert(k)
	}

	snapshots := []struct {
		name string
		step func()
		g    func() index.Graph
	}{
		{"tree_before_dsw", func() {}, tree.Graph},
		{"backbone", tree.Backbone, tree.Graph},
		{"balanced_tree", tree.Balance, tree.Graph},
		{"skiplist", func() {}, sl.Graph},
	}
	log := base.Logger()
	for _, s := range snapshots {
		s.step()
		path, err := render.WriteDOT(config.dir, s.name, s.g())
		if err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("snapshot written")
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
