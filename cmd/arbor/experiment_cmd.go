package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kstoi/arbor"
	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/evaluation"
	"github.com/spf13/cobra"
)

type experimentCmdConfig struct {
	*rootCmdConfig
	datasetFlags
	builderFlags
	positive string
}

/*
trial is a tree grown with a builder from a training set and tested
against a testing set.
*/
type trial struct {
	name     string
	builder  *arbor.Builder
	training *dataset.Dataset
	testing  *dataset.Dataset
}

func experimentCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &experimentCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Compare pruned and unpruned trees",
		Long: `Grow a pruned and an unpruned tree from a set and test them against it, then
grow them again from the first half of the set and test them against the second half`,
		Run: func(cmd *cobra.Command, args []string) {
			ds, features, err := config.loadDataset(&config.datasetFlags)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			pruned, err := config.builder(cmd, &config.builderFlags, features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			options := []arbor.Option{arbor.Concurrency(config.Config().Concurrency), arbor.WithLogger(logger(config.verbose))}
			if len(features) > 0 {
				options = append(options, arbor.WithFeatures(features))
			}
			unpruned, err := arbor.New(arbor.Unpruned(), options...)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			halves, err := ds.Partition(2)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			positive := config.positive
			if positive == "" {
				positive = config.Config().Positive
			}
			trials := []*trial{
				{"Pruned tree on the whole set", pruned, ds, ds},
				{"Unpruned tree on the whole set", unpruned, ds, ds},
				{"Pruned tree grown on the first half, tested on the second", pruned, halves[0], halves[1]},
				{"Unpruned tree grown on the first half, tested on the second", unpruned, halves[0], halves[1]},
			}
			err = runTrials(config.Context(), os.Stdout, trials, positive, logger(config.verbose))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
		},
	}
	addDatasetFlags(cmd, &config.datasetFlags)
	addBuilderFlags(cmd, &config.builderFlags)
	cmd.Flags().StringVar(&(config.positive), "positive", "", "label value counted as positive (defaults to the configured one, 1)")
	return cmd
}

/*
runTrials grows and tests the tree of every trial in turn, writing a report
of each one to w.
*/
func runTrials(ctx context.Context, w io.Writer, trials []*trial, positive string, l arbor.Logger) error {
	for _, tr := range trials {
		l.Logf("%s: growing with hyperparameters %v from %d samples...", tr.name, tr.builder.Hyperparameters(), tr.training.Count())
		t, err := tr.builder.Grow(ctx, tr.training)
		if err != nil {
			return fmt.Errorf("%s: %v", tr.name, err)
		}
		c, err := evaluation.Evaluate(ctx, t, tr.testing, positive)
		if err != nil {
			return fmt.Errorf("%s: %v", tr.name, err)
		}
		fmt.Fprint(w, c.Report(fmt.Sprintf("%s %v (%v)", tr.name, tr.builder.Hyperparameters(), t.Stats())))
		fmt.Fprintln(w)
	}
	return nil
}
