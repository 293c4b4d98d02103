package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kstoi/arbor/config"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose    bool
	configPath string
	cfg        *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "arbor is a tool to grow decision trees",
		Long:  `A tool to grow classification trees from your data, test them, and use them to make predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.PersistentFlags().StringVar(&(config.configPath), "config", "", "path to a YAML configuration file")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		testCmd(config),
		predictCmd(config),
		treeCmd(config),
		setCmd(config),
		experimentCmd(config),
	)
	return rootCmd
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	logger(rcc.verbose).Logf(format, a...)
}

// Config returns the configuration loaded from the file given with the
// config flag, exiting if it cannot be loaded.
func (rcc *rootCmdConfig) Config() *config.Config {
	if rcc.cfg == nil {
		cfg, err := config.Load(rcc.configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		rcc.cfg = cfg
	}
	return rcc.cfg
}

func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = context.WithCancel(context.Background())
	}
}
