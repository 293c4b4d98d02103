package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kstoi/arbor/feature"
	"github.com/kstoi/arbor/tree"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput string
	stats     bool
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a tree",
		Long:  `Show a tree as text, or the stats of its shape`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			t, err := config.loadTree(config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if config.stats {
				fmt.Printf("Tree for %s: %v\n", t.Label, t.Stats())
				return
			}
			fmt.Print(t)
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", treeFlagUsage+" (required)")
	cmd.Flags().BoolVarP(&(config.stats), "stats", "s", false, "show the depth and the number of nodes and leaves of the tree instead of the tree")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
treeFeatures returns a feature for every feature tested on the tree, in the
order of the features of the tree: continuous for those tested on numeric
splits and discrete accepting any value for the rest.
*/
func treeFeatures(ctx context.Context, t *tree.Tree) ([]feature.Feature, error) {
	numeric := make(map[string]bool)
	tested := make(map[string]bool)
	err := t.Traverse(ctx, false, func(_ context.Context, n tree.Node, _ int) error {
		switch n := n.(type) {
		case *tree.NumericSplit:
			numeric[n.Feature] = true
			tested[n.Feature] = true
		case *tree.CategoricalSplit:
			tested[n.Feature] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var features []feature.Feature
	for _, name := range t.Features {
		if !tested[name] {
			continue
		}
		if numeric[name] {
			features = append(features, feature.NewContinuousFeature(name))
		} else {
			features = append(features, feature.NewDiscreteFeature(name, nil))
		}
	}
	return features, nil
}
