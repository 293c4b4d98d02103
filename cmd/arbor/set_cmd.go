package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	datasetFlags
	setOutput string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Manage sets of data: dump a set into another format, with the label last and without the excluded features`,
		Run: func(cmd *cobra.Command, args []string) {
			ds, _, err := config.loadDataset(&config.datasetFlags)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			n, err := config.writeDataset(config.setOutput, ds)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done, %d samples dumped", n)
		},
	}
	addDatasetFlags(cmd, &config.datasetFlags)
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", outputFlagUsage)
	cmd.AddCommand(splitCmd(rootConfig))
	return cmd
}
