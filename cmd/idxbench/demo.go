package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedIndex.git/index"
	"github.com/Hakuto4838/OrderedIndex.git/index/analyTool"
	"github.com/Hakuto4838/OrderedIndex.git/index/dsw"
	"github.com/Hakuto4838/OrderedIndex.git/index/skiplist"
)

type demoConfig struct {
	treeKeys []int64
	listKeys []int64
	target   int64
	low      int64
	high     int64
	maxLevel int
	p        float64
	seed     int64
}

func newDemoCmd(base *baseConfiguration) *cobra.Command {
	config := &demoConfig{}
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walks through DSW balancing and skip list operations on small key sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			treeDemo(out, config.treeKeys)
			return listDemo(out, config)
		},
	}
	cmd.Flags().Int64SliceVar(&config.treeKeys, "tree-keys", []int64{10, 5, 3, 2, 1, 15, 20}, "keys inserted into the tree")
	cmd.Flags().Int64SliceVar(&config.listKeys, "list-keys", []int64{3, 6, 7, 9, 12, 19, 17, 26, 21}, "keys inserted into the skip list")
	cmd.Flags().Int64Var(&config.target, "target", 19, "key searched for and then deleted")
	cmd.Flags().Int64Var(&config.low, "low", 6, "range search lower bound")
	cmd.Flags().Int64Var(&config.high, "high", 21, "range search upper bound")
	cmd.Flags().IntVar(&config.maxLevel, "max-level", 4, "skip list max level")
	cmd.Flags().Float64Var(&config.p, "p", 0.5, "skip list promotion probability")
	cmd.Flags().Int64Var(&config.seed, "seed", 1, "skip list seed")
	return cmd
}

func treeDemo(out io.Writer, keys []int64) {
	tree := dsw.New[index.K]()
	for _, k := range keys {
		tree.Insert(k)
	}
	fmt.Fprintf(out, "Tree before DSW (size %d, height %d):\n", tree.Size(), tree.Height())
	analyTool.PrintTree(out, tree)

	tree.Backbone()
	fmt.Fprintf(out, "\nBackbone created (height %d):\n", tree.Height())
	analyTool.PrintTree(out, tree)

	tree.Balance()
	fmt.Fprintf(out, "\nBalanced tree (height %d):\n", tree.Height())
	analyTool.PrintTree(out, tree)
	if err := analyTool.CheckTree(tree); err != nil {
		fmt.Fprintf(out, "structure check failed: %v\n", err)
	}
}

func listDemo(out io.Writer, config *demoConfig) error {
	sl, err := skiplist.New[index.K](config.maxLevel, config.p, skiplist.WithSeed(config.seed))
	if err != nil {
		return err
	}
	for _, k := range config.listKeys {
		sl.Insert(k)
	}
	fmt.Fprintln(out, "\nSkip List:")
	analyTool.PrintSkipList[index.K](out, sl, config.maxLevel, len(config.listKeys))
	analyTool.PrintLevelCount[index.K](out, sl)

	target := config.target
	found := "Not Found"
	if sl.Contains(target) {
		found = "Found"
	}
	fmt.Fprintf(out, "\nSearching for %d: %s\n", target, found)

	fmt.Fprintf(out, "\nDeleting %d\n", target)
	sl.Delete(target)
	analyTool.PrintSkipList[index.K](out, sl, config.maxLevel, len(config.listKeys))
	if err := analyTool.CheckStruct[index.K](sl); err != nil {
		return fmt.Errorf("skip list structure: %w", err)
	}

	fmt.Fprintf(out, "\nRange search [%d, %d]: %v\n", config.low, config.high, sl.RangeSearch(config.low, config.high))
	return nil
}
