package main

import (
	"fmt"
	"os"

	"github.com/kstoi/arbor/evaluation"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	*rootCmdConfig
	datasetFlags
	treeInput string
	positive  string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
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
			if config.label == "" {
				config.label = t.Label
			}
			testingSet, _, err := config.loadDataset(&config.datasetFlags)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			positive := config.positive
			if positive == "" {
				positive = config.Config().Positive
			}
			config.Logf("Testing tree against testset with %d samples...", testingSet.Count())
			c, err := evaluation.Evaluate(config.Context(), t, testingSet, positive)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			fmt.Print(c.Report(fmt.Sprintf("Tree for %s tested against %d samples", t.Label, testingSet.Count())))
		},
	}
	addDatasetFlags(cmd, &config.datasetFlags)
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", treeFlagUsage+" (required)")
	cmd.Flags().StringVar(&(config.positive), "positive", "", "label value counted as positive (defaults to the configured one, 1)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}
