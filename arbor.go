/*
Package arbor grows classification trees from labeled rows.

A tree is grown by recursively partitioning the rows of a dataset on the
feature whose split achieves the highest information gain on the label:
a multi-way split on the values of a discrete feature or a binary split on
a threshold of a continuous one. Growth stops at a node when its rows
share a label, no features are left, or the hyperparameters or a Pruner
prune the best split found.
*/
package arbor

import (
	"context"
	"runtime"
	"sync"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
	"github.com/kstoi/arbor/tree"
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"golang.org/x/exp/slices"
)

// BuildError represents an error related with growing trees
type BuildError string

/*
ErrEmptyDataset is the error returned when trying to grow a tree
from a dataset without rows.
*/
const ErrEmptyDataset = BuildError("cannot grow a tree from an empty dataset")

func (be BuildError) Error() string {
	return string(be)
}

/*
Logger is an interface for objects the Builder can report its progress to
*/
type Logger interface {
	Logf(format string, args ...interface{})
}

/*
Builder grows trees with fixed hyperparameters.
*/
type Builder struct {
	hyperparameters Hyperparameters
	pruner          Pruner
	features        []feature.Feature
	concurrency     int
	logger          Logger
}

/*
Option configures a Builder
*/
type Option func(*Builder)

/*
WithPruner returns an Option that makes the builder consult the given
Pruner on every split that passes the hyperparameters.
*/
func WithPruner(p Pruner) Option {
	return func(b *Builder) {
		b.pruner = p
	}
}

/*
WithFeatures returns an Option that fixes the kind of the features with the
names of the given ones instead of probing the values of the dataset.
*/
func WithFeatures(features []feature.Feature) Option {
	return func(b *Builder) {
		b.features = features
	}
}

/*
Concurrency returns an Option that sets the number of goroutines used to
grow a tree. A value lower than 1 means as many as GOMAXPROCS. The trees
grown are the same regardless of the concurrency.
*/
func Concurrency(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		b.concurrency = n
	}
}

/*
WithLogger returns an Option that makes the builder report its progress
to the given Logger.
*/
func WithLogger(l Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

/*
New takes hyperparameters and options and returns a Builder or an error if
the hyperparameters are not valid.
*/
func New(h Hyperparameters, options ...Option) (*Builder, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		hyperparameters: h,
		pruner:          NoPruner(),
		concurrency:     1,
	}
	for _, o := range options {
		o(b)
	}
	return b, nil
}

/*
Hyperparameters returns the hyperparameters of the builder
*/
func (b *Builder) Hyperparameters() Hyperparameters {
	return b.hyperparameters
}

/*
Grow takes a context and a dataset and returns a tree that predicts the
label of the dataset from the rest of its attributes.

The kind of every feature is fixed before growing starts, from the features
given with WithFeatures or by probing the dataset (see
dataset.Dataset.ProbeFeatures).

It returns ErrEmptyDataset if the dataset has no rows, the context error if
it is cancelled and a wrapped *feature.MalformedValueError if a value of a
continuous feature cannot be parsed.
*/
func (b *Builder) Grow(ctx context.Context, ds *dataset.Dataset) (*tree.Tree, error) {
	if ds == nil || ds.Count() == 0 {
		return nil, ErrEmptyDataset
	}
	features, err := b.featuresFor(ds)
	if err != nil {
		return nil, errors.Wrap(err, "growing tree")
	}
	b.logf("Growing tree to predict %s from %d rows and %d features with hyperparameters %v", ds.Label(), ds.Count(), len(features), b.hyperparameters)
	g := &grower{
		Builder: b,
		label:   ds.Label(),
		slots:   make(chan struct{}, b.concurrency-1),
	}
	root, err := g.develop(ctx, ds.Rows(), features, 0)
	if err != nil {
		return nil, errors.Wrap(err, "growing tree")
	}
	t := tree.New(root, ds.Label(), ds.FeatureNames())
	b.logf("Grown tree with %v", t.Stats())
	return t, nil
}

func (b *Builder) featuresFor(ds *dataset.Dataset) ([]feature.Feature, error) {
	probed := ds.ProbeFeatures()
	if len(b.features) == 0 {
		return probed, nil
	}
	features := make([]feature.Feature, 0, len(probed))
	for _, p := range probed {
		f := p
		for _, declared := range b.features {
			if declared.Name() == p.Name() {
				f = declared
				break
			}
		}
		for _, r := range ds.Rows() {
			if _, err := f.Valid(r[f.Name()]); err != nil {
				return nil, err
			}
		}
		features = append(features, f)
	}
	return features, nil
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Logf(format, args...)
	}
}

type grower struct {
	*Builder
	label string
	slots chan struct{}
}

func (g *grower) develop(ctx context.Context, rows []dataset.Row, features []feature.Feature, depth int) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := countValues(dataset.Column(rows, g.label))
	prediction := tree.NewPrediction(MajorityLabel(counts), counts)
	leaf := &tree.Leaf{Prediction: prediction}
	if len(counts) <= 1 {
		g.logf("Depth %d: %d rows with a single label %s", depth, len(rows), prediction.Label())
		return leaf, nil
	}
	h := g.hyperparameters
	if len(features) == 0 || depth >= h.MaxDepth || len(rows) < h.MinSamplesSplit {
		g.logf("Depth %d: %d rows not to be split with %d features available", depth, len(rows), len(features))
		return leaf, nil
	}
	index, s, err := g.bestSplit(ctx, rows, features)
	if err != nil {
		return nil, err
	}
	if s == nil {
		g.logf("Depth %d: %d rows without a split with positive gain", depth, len(rows))
		return leaf, nil
	}
	for _, p := range []Pruner{MinimumGainPruner(h.MinGain), g.pruner} {
		prune, err := p.Prune(ctx, rows, s, g.label)
		if err != nil {
			return nil, err
		}
		if prune {
			g.logf("Depth %d: pruned split on %s with gain %g", depth, s.Feature.Name(), s.Gain)
			return leaf, nil
		}
	}
	g.logf("Depth %d: splitting %d rows on %s with gain %g", depth, len(rows), s.Feature.Name(), s.Gain)
	remaining := slices.Delete(slices.Clone(features), index, index+1)
	children, err := g.developAll(ctx, s.Subsets, remaining, depth+1)
	if err != nil {
		return nil, err
	}
	if feature.IsNumeric(s.Feature) {
		return &tree.NumericSplit{
			Feature:    s.Feature.Name(),
			Threshold:  s.Threshold,
			Prediction: prediction,
			Left:       children[0],
			Right:      children[1],
		}, nil
	}
	cs := &tree.CategoricalSplit{
		Feature:    s.Feature.Name(),
		Prediction: prediction,
		Children:   make(map[string]tree.Node, len(s.Values)),
	}
	for i, v := range s.Values {
		cs.Children[v] = children[i]
	}
	return cs, nil
}

// bestSplit computes the gain of every feature, concurrently, and returns
// the index and split of the first feature with the greatest positive
// gain, or a nil split if no feature has positive gain.
func (g *grower) bestSplit(ctx context.Context, rows []dataset.Row, features []feature.Feature) (int, *Split, error) {
	gains := make([]float64, len(features))
	thresholds := make([]float64, len(features))
	errs := make([]error, len(features))
	essentials.ConcurrentMap(g.concurrency, len(features), func(i int) {
		gains[i], thresholds[i], errs[i] = gainFor(rows, features[i], g.label)
	})
	best := -1
	var bestGain float64
	for i, gain := range gains {
		if errs[i] != nil {
			return 0, nil, errs[i]
		}
		if improves(gain, bestGain) {
			best = i
			bestGain = gain
		}
	}
	if best < 0 {
		return 0, nil, nil
	}
	s, err := newSplit(ctx, rows, features[best], bestGain, thresholds[best])
	if err != nil {
		return 0, nil, err
	}
	return best, s, nil
}

// developAll develops a node for every subset. Subsets are developed on a
// new goroutine while the concurrency allows it and on the calling one
// otherwise. Nodes are returned in subset order.
func (g *grower) developAll(ctx context.Context, subsets [][]dataset.Row, features []feature.Feature, depth int) ([]tree.Node, error) {
	nodes := make([]tree.Node, len(subsets))
	errs := make([]error, len(subsets))
	var wg sync.WaitGroup
	for i, subset := range subsets {
		i, subset := i, subset
		develop := func() {
			nodes[i], errs[i] = g.develop(ctx, subset, features, depth)
		}
		select {
		case g.slots <- struct{}{}:
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-g.slots }()
				develop()
			}()
		default:
			develop()
		}
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return nodes, nil
}
