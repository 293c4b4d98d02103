package main

import (
	"fmt"
	"os"

	"github.com/kstoi/arbor"
	"github.com/kstoi/arbor/feature"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	datasetFlags
	builderFlags
	output string
}

/*
builderFlags holds the flags that override the configured way trees are
grown.
*/
type builderFlags struct {
	maxDepth        int
	minSamplesSplit int
	minGain         float64
	unpruned        bool
	pruner          string
	concurrency     int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			ds, features, err := config.loadDataset(&config.datasetFlags)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			b, err := config.builder(cmd, &config.builderFlags, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Growing tree from a set with %d samples and %d features to predict %s ...", ds.Count(), len(ds.FeatureNames()), ds.Label())
			t, err := b.Grow(config.Context(), ds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = config.outputTree(config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
		},
	}
	addDatasetFlags(cmd, &config.datasetFlags)
	addBuilderFlags(cmd, &config.builderFlags)
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT), or redis:NAME to store it on the configured redis DB")
	return cmd
}

func addDatasetFlags(cmd *cobra.Command, df *datasetFlags) {
	cmd.Flags().StringVarP(&(df.input), "input", "i", "", inputFlagUsage)
	cmd.Flags().StringVarP(&(df.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the different features available on the input (optional, features are probed from the data otherwise)")
	cmd.Flags().StringVarP(&(df.label), "class-feature", "c", "", "name of the feature the tree should predict (defaults to the configured or the last one)")
	cmd.Flags().StringSliceVarP(&(df.exclude), "exclude", "x", nil, "names of features to ignore")
	cmd.Flags().StringVar(&(df.missing), "missing", "", "value replacing undefined ('?') values (defaults to the configured one, -1)")
}

func addBuilderFlags(cmd *cobra.Command, bf *builderFlags) {
	cmd.Flags().IntVar(&(bf.maxDepth), "max-depth", 0, "depth at which nodes become leaves (overrides configuration)")
	cmd.Flags().IntVar(&(bf.minSamplesSplit), "min-samples-split", 0, "minimum number of samples a node needs to be split (overrides configuration)")
	cmd.Flags().Float64Var(&(bf.minGain), "min-gain", 0, "minimum information gain a split must achieve (overrides configuration)")
	cmd.Flags().BoolVar(&(bf.unpruned), "unpruned", false, "grow the tree limited only by the features available")
	cmd.Flags().StringVarP(&(bf.pruner), "prune", "p", "", "pruner to apply on top of the hyperparameters: none or mdl (overrides configuration)")
	cmd.Flags().IntVarP(&(bf.concurrency), "concurrency", "j", 0, "number of goroutines used to grow the tree, lower than 1 means one per CPU (overrides configuration)")
}

/*
builder returns an arbor.Builder with the configured settings overridden by
the flags set on the command.
*/
func (rcc *rootCmdConfig) builder(cmd *cobra.Command, bf *builderFlags, features []feature.Feature) (*arbor.Builder, error) {
	cfg := *rcc.Config()
	flags := cmd.Flags()
	h := cfg.BuildHyperparameters()
	if flags.Changed("unpruned") {
		cfg.Unpruned = bf.unpruned
		h = cfg.BuildHyperparameters()
	}
	if !cfg.Unpruned {
		if flags.Changed("max-depth") {
			h.MaxDepth = bf.maxDepth
		}
		if flags.Changed("min-samples-split") {
			h.MinSamplesSplit = bf.minSamplesSplit
		}
		if flags.Changed("min-gain") {
			h.MinGain = bf.minGain
		}
	}
	if flags.Changed("prune") {
		cfg.Pruner = bf.pruner
	}
	concurrency := cfg.Concurrency
	if flags.Changed("concurrency") {
		concurrency = bf.concurrency
	}
	pruner, err := cfg.BuildPruner()
	if err != nil {
		return nil, err
	}
	options := []arbor.Option{
		arbor.WithPruner(pruner),
		arbor.Concurrency(concurrency),
		arbor.WithLogger(logger(rcc.verbose)),
	}
	if len(features) > 0 {
		options = append(options, arbor.WithFeatures(features))
	}
	return arbor.New(h, options...)
}
