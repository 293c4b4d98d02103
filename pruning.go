package arbor

import (
	"context"
	"fmt"
	"math"

	"github.com/kstoi/arbor/dataset"
	"github.com/pkg/errors"
)

/*
Hyperparameters holds the stopping criteria that prune a tree while it is
being grown:
 * MaxDepth is the depth at which nodes become leaves (the root has depth 0)
 * MinSamplesSplit is the minimum number of rows a node needs to be split
 * MinGain is the minimum information gain a split must achieve
*/
type Hyperparameters struct {
	MaxDepth        int     `yaml:"maxDepth"`
	MinSamplesSplit int     `yaml:"minSamplesSplit"`
	MinGain         float64 `yaml:"minGain"`
}

// ErrInvalidHyperparameters is returned, wrapped, when hyperparameters
// fail validation.
const ErrInvalidHyperparameters = BuildError("invalid hyperparameters")

/*
Unpruned returns the hyperparameters of a tree that is only limited by the
attributes available: no depth limit, any node with rows can be split and
any positive gain is enough.
*/
func Unpruned() Hyperparameters {
	return Hyperparameters{MaxDepth: math.MaxInt32, MinSamplesSplit: 1, MinGain: 0}
}

/*
Validate returns an error wrapping ErrInvalidHyperparameters if MaxDepth is
negative, MinSamplesSplit is lower than 1 or MinGain is negative or not a
number, and nil otherwise.
*/
func (h Hyperparameters) Validate() error {
	if h.MaxDepth < 0 {
		return errors.Wrapf(ErrInvalidHyperparameters, "maxDepth must be non-negative, got %d", h.MaxDepth)
	}
	if h.MinSamplesSplit < 1 {
		return errors.Wrapf(ErrInvalidHyperparameters, "minSamplesSplit must be positive, got %d", h.MinSamplesSplit)
	}
	if h.MinGain < 0 || math.IsNaN(h.MinGain) {
		return errors.Wrapf(ErrInvalidHyperparameters, "minGain must be non-negative, got %v", h.MinGain)
	}
	return nil
}

func (h Hyperparameters) String() string {
	if h == Unpruned() {
		return "{unpruned}"
	}
	return fmt.Sprintf("{maxDepth: %d, minSamplesSplit: %d, minGain: %g}", h.MaxDepth, h.MinSamplesSplit, h.MinGain)
}

/*
Pruner is an interface wrapping the Prune method, that can be used
to decide whether a split is good enough to become part of a tree
or if it must be pruned instead.

The Prune method takes a context, the rows of the node being split, the
best split found for them and the name of the label attribute and returns
a boolean: true to indicate the split must be pruned, turning the node into
a leaf, false to allow its adding to the tree and further development.

Pruners are consulted after the hyperparameters, so they can only prune
further.
*/
type Pruner interface {
	Prune(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error)
}

/*
PrunerFunc wraps a function with the Prune method signature to implement
the Pruner interface
*/
type PrunerFunc func(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error)

/*
Prune takes a context.Context, a slice of rows, a split and the name of the
label and invokes the PrunerFunc with those parameters to return its boolean
result.
*/
func (pf PrunerFunc) Prune(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error) {
	return pf(ctx, rows, s, label)
}

/*
MDLPruner returns a Pruner whose Prune method evaluates a minimum information
gain for the split and returns true if the split information gain is below
this minimum and false otherwise.
This minimum, in bits, is calculated as
(1/N) x log2(N-1) + (1/N) x [ log2 (3^k-2) - (k x Entropy(S) – k1 x Entropy(S1) – k2 x Entropy(S2) ... - ki x Entropy(Si)]
with
 * N being the number of rows
 * k being the number of different labels on the rows
 * k1, k2, ... ki being the number of different labels on the subset 1, 2, ... i
 * S1, S2, ... Si being the subset 1, 2, ... i of the split
*/
func MDLPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error) {
		n := float64(len(rows))
		if n < 2 {
			return true, nil
		}
		counts := countValues(dataset.Column(rows, label))
		k := float64(len(counts))
		minimum := math.Log2(n-1.0) + math.Log2(math.Pow(3.0, k)-2) - k*entropyOf(counts, len(rows))
		for _, subset := range s.Subsets {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			subsetCounts := countValues(dataset.Column(subset, label))
			minimum += float64(len(subsetCounts)) * entropyOf(subsetCounts, len(subset))
		}
		minimum = minimum / n
		return minimum > s.Gain, nil
	})
}

/*
MinimumGainPruner takes a minimum information gain and returns a Pruner whose
Prune method returns whether the received split's information gain is lower
than the minimum.
*/
func MinimumGainPruner(minGain float64) Pruner {
	return PrunerFunc(func(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error) {
		return s.Gain < minGain, nil
	})
}

/*
NoPruner returns a Pruner whose Prune method always returns false, that is,
never prunes.
*/
func NoPruner() Pruner {
	return PrunerFunc(func(ctx context.Context, rows []dataset.Row, s *Split, label string) (bool, error) {
		return false, nil
	})
}
