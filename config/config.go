/*
Package config reads the YAML configuration file of the arbor command,
holding the way trees are grown, the datasets are read and the trees are
stored.

A configuration file looks like this:

	hyperparameters:
	  maxDepth: 4
	  minSamplesSplit: 5
	  minGain: 0.01
	pruner: mdl
	concurrency: 4
	missing: "-1"
	label: decision
	exclude:
	  - decision_o
	positive: "1"
	metadata: features.yml
	redis:
	  addr: localhost:6379
	  prefix: arbor

Setting unpruned to true ignores the hyperparameters and grows trees
limited only by their attributes.
*/
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/kstoi/arbor"
	"github.com/kstoi/arbor/dataset"
	yaml "gopkg.in/yaml.v2"
)

const (
	// NoPrunerName selects no pruner on top of the hyperparameters
	NoPrunerName = "none"
	// MDLPrunerName selects the minimum description length pruner
	MDLPrunerName = "mdl"
)

/*
Config holds the settings of the arbor command
*/
type Config struct {
	Hyperparameters *arbor.Hyperparameters `yaml:"hyperparameters"`
	Unpruned        bool                   `yaml:"unpruned"`
	Pruner          string                 `yaml:"pruner"`
	Concurrency     int                    `yaml:"concurrency"`
	Missing         string                 `yaml:"missing"`
	Label           string                 `yaml:"label"`
	Exclude         []string               `yaml:"exclude"`
	Positive        string                 `yaml:"positive"`
	Metadata        string                 `yaml:"metadata"`
	Redis           *Redis                 `yaml:"redis"`
}

/*
Redis holds the settings of the redis DB trees are stored on
*/
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DefaultHyperparameters are the hyperparameters of pruned trees when the
// configuration names none: a depth of 4, 5 rows to split and a 0.01 gain.
var DefaultHyperparameters = arbor.Hyperparameters{MaxDepth: 4, MinSamplesSplit: 5, MinGain: 0.01}

/*
Default returns the configuration used when no file is given
*/
func Default() *Config {
	h := DefaultHyperparameters
	return &Config{
		Hyperparameters: &h,
		Pruner:          NoPrunerName,
		Concurrency:     1,
		Missing:         dataset.DefaultMissingValue,
		Positive:        "1",
	}
}

/*
Read takes a slice of bytes with a configuration in YAML and returns it on
top of the default configuration, or an error if it cannot be parsed or is
invalid.
*/
func Read(data []byte) (*Config, error) {
	c := Default()
	err := yaml.Unmarshal(data, c)
	if err != nil {
		return nil, fmt.Errorf("parsing configuration: %v", err)
	}
	if c.Hyperparameters == nil {
		h := DefaultHyperparameters
		c.Hyperparameters = &h
	}
	if c.Missing == "" {
		c.Missing = dataset.DefaultMissingValue
	}
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return c, nil
}

/*
Load takes the path to a configuration file and returns the configuration
read from it, or the default configuration if the path is empty.
*/
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %s: %v", path, err)
	}
	c, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("loading configuration file %s: %v", path, err)
	}
	return c, nil
}

/*
Validate returns an error if the hyperparameters are invalid or the pruner
is unknown.
*/
func (c *Config) Validate() error {
	if err := c.BuildHyperparameters().Validate(); err != nil {
		return err
	}
	if _, err := c.BuildPruner(); err != nil {
		return err
	}
	return nil
}

/*
BuildHyperparameters returns the hyperparameters trees must be grown with:
arbor.Unpruned() for unpruned trees, the configured ones otherwise.
*/
func (c *Config) BuildHyperparameters() arbor.Hyperparameters {
	if c.Unpruned {
		return arbor.Unpruned()
	}
	if c.Hyperparameters == nil {
		return DefaultHyperparameters
	}
	return *c.Hyperparameters
}

/*
BuildPruner returns the pruner named on the configuration or an error if the
name is unknown. An empty name is the same as NoPrunerName.
*/
func (c *Config) BuildPruner() (arbor.Pruner, error) {
	switch c.Pruner {
	case "", NoPrunerName:
		return arbor.NoPruner(), nil
	case MDLPrunerName:
		return arbor.MDLPruner(), nil
	}
	return nil, fmt.Errorf("unknown pruner %q, valid ones are %s and %s", c.Pruner, NoPrunerName, MDLPrunerName)
}
