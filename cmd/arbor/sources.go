package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/dataset/arff"
	"github.com/kstoi/arbor/dataset/csv"
	"github.com/kstoi/arbor/dataset/mongodataset"
	"github.com/kstoi/arbor/dataset/sqldataset"
	"github.com/kstoi/arbor/dataset/sqldataset/pgadapter"
	"github.com/kstoi/arbor/dataset/sqldataset/sqlite3adapter"
	"github.com/kstoi/arbor/feature"
	"github.com/kstoi/arbor/feature/yaml"
	"github.com/kstoi/arbor/tree"
	"github.com/kstoi/arbor/tree/json"
	"github.com/kstoi/arbor/tree/redisstore"
	redis "gopkg.in/redis.v5"
)

const (
	inputFlagUsage  = "path to an input CSV (.csv), ARFF (.arff) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL (defaults to STDIN, interpreted as CSV)"
	outputFlagUsage = "path to an output CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL (defaults to STDOUT in CSV)"
	treeFlagUsage   = "path to a file with a tree in JSON, or redis:NAME for a tree stored on the configured redis DB"
	redisTreePrefix = "redis:"
)

/*
datasetFlags holds the flags that select the dataset a command works on and
the attributes of it that are used.
*/
type datasetFlags struct {
	input         string
	metadataInput string
	label         string
	exclude       []string
	missing       string
}

func isPostgreSQL(location string) bool {
	return strings.HasPrefix(location, "postgresql://") || strings.HasPrefix(location, "postgres://")
}

func isMongoDB(location string) bool {
	return strings.HasPrefix(location, "mongodb://")
}

/*
loadDataset reads the dataset at the input of the given flags, with the
configuration defaults for what the flags leave unset. The dataset is
returned with the label as its last attribute and without the excluded
attributes, along with the features declared for it on a metadata file or
ARFF header (nil if none were).
*/
func (rcc *rootCmdConfig) loadDataset(df *datasetFlags) (*dataset.Dataset, []feature.Feature, error) {
	cfg := rcc.Config()
	missing := df.missing
	if missing == "" {
		missing = cfg.Missing
	}
	label := df.label
	if label == "" {
		label = cfg.Label
	}
	exclude := append(append([]string{}, cfg.Exclude...), df.exclude...)
	metadataInput := df.metadataInput
	if metadataInput == "" {
		metadataInput = cfg.Metadata
	}
	var features []feature.Feature
	if metadataInput != "" {
		rcc.Logf("Reading features from metadata at %s...", metadataInput)
		md, err := yaml.ReadFeaturesFromFile(metadataInput)
		if err != nil {
			return nil, nil, err
		}
		features = md.Features
		if label == "" {
			label = md.Label
		}
	}
	ds, arffFeatures, err := rcc.readDataset(df.input, missing)
	if err != nil {
		return nil, nil, err
	}
	if features == nil {
		features = arffFeatures
	}
	if label != "" {
		ds, err = ds.WithLabel(label)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(exclude) > 0 {
		ds, err = ds.Without(presentAttributes(ds, exclude)...)
		if err != nil {
			return nil, nil, err
		}
	}
	rcc.Logf("Read dataset %v", ds)
	return ds, features, nil
}

func presentAttributes(ds *dataset.Dataset, names []string) []string {
	present := make(map[string]bool, len(ds.Attributes()))
	for _, a := range ds.Attributes() {
		present[a] = true
	}
	var result []string
	for _, n := range names {
		if present[n] {
			result = append(result, n)
		}
	}
	return result
}

func (rcc *rootCmdConfig) readDataset(input, missing string) (*dataset.Dataset, []feature.Feature, error) {
	ctx := rcc.Context()
	switch {
	case input == "":
		rcc.Logf("Reading dataset from STDIN...")
		ds, err := csv.ReadDataset(os.Stdin, missing)
		return ds, nil, err
	case isPostgreSQL(input):
		rcc.Logf("Creating PostgreSQL adapter for url %s to read dataset...", input)
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, nil, err
		}
		defer adapter.Close()
		ds, err := sqldataset.Read(ctx, adapter, missing)
		return ds, nil, err
	case isMongoDB(input):
		rcc.Logf("Connecting to MongoDB at %s to read dataset...", input)
		store, err := mongodataset.Dial(input)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()
		ds, err := store.Read(ctx, missing)
		return ds, nil, err
	case strings.HasSuffix(input, ".db"):
		rcc.Logf("Creating SQLite3 adapter for file %s to read dataset...", input)
		adapter, err := sqlite3adapter.New(input)
		if err != nil {
			return nil, nil, err
		}
		defer adapter.Close()
		ds, err := sqldataset.Read(ctx, adapter, missing)
		return ds, nil, err
	case strings.HasSuffix(input, ".arff"):
		rcc.Logf("Reading ARFF relation from %s...", input)
		r, err := arff.ReadFromFilePath(input, missing)
		if err != nil {
			return nil, nil, err
		}
		return r.Dataset, r.Features, nil
	}
	rcc.Logf("Reading CSV dataset from %s...", input)
	ds, err := csv.ReadDatasetFromFilePath(input, missing)
	return ds, nil, err
}

/*
writeDataset writes the given dataset to the given output, returning the
number of rows written.
*/
func (rcc *rootCmdConfig) writeDataset(output string, ds *dataset.Dataset) (int, error) {
	ctx := rcc.Context()
	switch {
	case output == "":
		rcc.Logf("Using STDOUT to dump dataset...")
		return ds.Count(), csv.WriteCSVDataset(ctx, os.Stdout, ds)
	case isPostgreSQL(output):
		rcc.Logf("Creating PostgreSQL adapter for url %s to dump dataset...", output)
		adapter, err := pgadapter.New(output)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.Write(ctx, adapter, ds)
	case isMongoDB(output):
		rcc.Logf("Connecting to MongoDB at %s to dump dataset...", output)
		store, err := mongodataset.Dial(output)
		if err != nil {
			return 0, err
		}
		defer store.Close()
		return store.Write(ctx, ds)
	case strings.HasSuffix(output, ".db"):
		rcc.Logf("Creating SQLite3 adapter for file %s to dump dataset...", output)
		adapter, err := sqlite3adapter.New(output)
		if err != nil {
			return 0, err
		}
		defer adapter.Close()
		return sqldataset.Write(ctx, adapter, ds)
	case strings.HasSuffix(output, ".arff"):
		return 0, fmt.Errorf("writing ARFF documents is not supported, use CSV instead")
	}
	rcc.Logf("Creating %s to dump dataset...", output)
	f, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ds.Count(), csv.WriteCSVDataset(ctx, f, ds)
}

func (rcc *rootCmdConfig) treeStore() (tree.Store, error) {
	r := rcc.Config().Redis
	if r == nil || r.Addr == "" {
		return nil, fmt.Errorf("no redis DB configured to store trees on")
	}
	prefix := r.Prefix
	if prefix == "" {
		prefix = "arbor"
	}
	rc := redis.NewClient(&redis.Options{Addr: r.Addr, Password: r.Password, DB: r.DB})
	return redisstore.New(rc, prefix, json.NewTreeEncodeDecoder()), nil
}

/*
loadTree reads the tree at the given location: a JSON file or a tree
stored on redis when prefixed with redis:.
*/
func (rcc *rootCmdConfig) loadTree(location string) (*tree.Tree, error) {
	ctx := rcc.Context()
	if strings.HasPrefix(location, redisTreePrefix) {
		name := strings.TrimPrefix(location, redisTreePrefix)
		store, err := rcc.treeStore()
		if err != nil {
			return nil, err
		}
		defer store.Close(ctx)
		rcc.Logf("Loading tree %s from redis...", name)
		t, err := store.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("no tree named %s found on redis", name)
		}
		return t, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", location, err)
	}
	defer f.Close()
	t, err := json.ReadJSONTree(ctx, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", location, err)
	}
	return t, err
}

/*
outputTree writes the tree to the given location: a JSON file (STDOUT if
empty) or redis when prefixed with redis:.
*/
func (rcc *rootCmdConfig) outputTree(location string, t *tree.Tree) error {
	ctx := rcc.Context()
	if strings.HasPrefix(location, redisTreePrefix) {
		name := strings.TrimPrefix(location, redisTreePrefix)
		store, err := rcc.treeStore()
		if err != nil {
			return err
		}
		defer store.Close(ctx)
		rcc.Logf("Saving tree %s on redis...", name)
		return store.Save(ctx, name, t)
	}
	var f *os.File
	var err error
	if location == "" {
		f = os.Stdout
	} else {
		f, err = os.Create(location)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return json.WriteJSONTree(ctx, t, f)
}
