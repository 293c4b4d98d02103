package main

import (
	"fmt"
	"os"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/dataset/inputsample"
	"github.com/kstoi/arbor/feature"
	"github.com/kstoi/arbor/feature/yaml"
	"github.com/kstoi/arbor/tree"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	metadataInput string
	missing       string
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a value for a sample answering questions",
		Long:  `Use the loaded tree to predict the class feature value for a sample answering a reduced set of question about its features`,
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
			features, err := config.features(t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			missing := config.missing
			if missing == "" {
				missing = config.Config().Missing
			}
			sample := inputsample.New(os.Stdin, features, stdoutFeatureValueRequester(dataset.UndefinedValue), missing)
			prediction, err := t.PredictDistribution(config.Context(), sample)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			fmt.Printf("Predicted %s = %s with probabilities %v\n", t.Label, prediction.Label(), prediction.Probabilities())
		},
	}
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features of the tree (optional, features tested on numeric splits are read as numbers and the rest as any value otherwise)")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", treeFlagUsage+" (required)")
	cmd.Flags().StringVar(&(config.missing), "missing", "", "value an undefined ('?') answer stands for (defaults to the configured one, -1)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return nil
}

/*
features returns the features values are asked for: those declared on the
metadata file or, without one, those derived from the splits of the tree.
*/
func (pcc *predictCmdConfig) features(t *tree.Tree) ([]feature.Feature, error) {
	metadataInput := pcc.metadataInput
	if metadataInput == "" {
		metadataInput = pcc.Config().Metadata
	}
	if metadataInput != "" {
		md, err := yaml.ReadFeaturesFromFile(metadataInput)
		if err != nil {
			return nil, err
		}
		return md.Features, nil
	}
	return treeFeatures(pcc.Context(), t)
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		if len(f.AvailableValues()) == 0 {
			fmt.Printf("Please provide the sample's %s:\n(any value is valid, %s if undefined)\n", f.Name(), string(sfvr))
			return nil
		}
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
