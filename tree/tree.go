/*
Package tree provides the decision trees grown by arbor, the way samples
are routed through them to obtain predictions and the stores where they
can be kept.
*/
package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/kstoi/arbor/feature"
	"github.com/pkg/errors"
)

// Tree represents a classification tree. It is composed of
// its root node, the name of the label it is able to predict
// and the names of the features it was grown with.
type Tree struct {
	Root     Node
	Label    string
	Features []string
}

/*
Stats holds the shape of a tree: its depth (the number of edges on the
longest path from the root to a leaf), its number of nodes and its number
of leaves.
*/
type Stats struct {
	Depth  int
	Nodes  int
	Leaves int
}

// New takes the root Node, the name of a label and the names of the
// features it can test and returns a tree.
func New(root Node, label string, features []string) *Tree {
	return &Tree{root, label, features}
}

// Predict takes a sample and returns the label the tree predicts for it
// or an error if the prediction could not be made.
//
// Samples are routed from the root until a leaf is reached or a node
// cannot send them any further: the sample has no value for the feature
// the node tests, the value was never seen while growing a categorical
// node or the branch is absent. The label of that node is returned
// then. A value that cannot be parsed for a numeric split is an error
// (a *feature.MalformedValueError).
func (t *Tree) Predict(ctx context.Context, s feature.Sample) (string, error) {
	p, err := t.PredictDistribution(ctx, s)
	if err != nil {
		return "", err
	}
	return p.Label(), nil
}

// PredictDistribution works like Predict but returns the whole
// prediction of the node reached, with the distribution of labels
// of the training rows behind it.
func (t *Tree) PredictDistribution(ctx context.Context, s feature.Sample) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, ErrCannotPredictWithEmptyTree
	}
	n, err := Reach(ctx, t.Root, s)
	if err != nil {
		return nil, errors.Wrap(err, "predicting sample")
	}
	return n.Outcome(), nil
}

// Reach takes a node and a sample and returns the node at which the
// sample stops descending from the given one.
func Reach(ctx context.Context, n Node, s feature.Sample) (Node, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var next Node
		switch node := n.(type) {
		case *NumericSplit:
			_, ok, err := s.ValueFor(ctx, node.Feature)
			if err != nil {
				return nil, err
			}
			if !ok {
				return n, nil
			}
			c := feature.NewThresholdCriterion(feature.NewContinuousFeature(node.Feature), node.Threshold)
			lower, err := c.SatisfiedBy(ctx, s)
			if err != nil {
				return nil, err
			}
			if lower && node.Left != nil {
				next = node.Left
			} else if node.Right != nil {
				next = node.Right
			}
		case *CategoricalSplit:
			v, ok, err := s.ValueFor(ctx, node.Feature)
			if err != nil {
				return nil, err
			}
			if ok {
				next = node.Children[v]
			}
		}
		if next == nil {
			return n, nil
		}
		n = next
	}
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context, a node
// and its depth as parameters, and goes through the tree
// running the function with the context and every traversed
// node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Children
// are visited in the order given by Children.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node, int) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, 0, bottomup, f)
}

func traverse(ctx context.Context, n Node, depth int, bottomup bool, f func(context.Context, Node, int) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n, depth)
		if err != nil {
			return err
		}
	}
	for _, c := range Children(n) {
		err = traverse(ctx, c, depth+1, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n, depth)
	}
	return nil
}

// Stats returns the depth and the number of nodes and leaves of the tree
func (t *Tree) Stats() Stats {
	var s Stats
	t.Traverse(context.Background(), false, func(_ context.Context, n Node, depth int) error {
		s.Nodes++
		if _, ok := n.(*Leaf); ok {
			s.Leaves++
		}
		if depth > s.Depth {
			s.Depth = depth
		}
		return nil
	})
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("depth %d, %d nodes, %d leaves", s.Depth, s.Nodes, s.Leaves)
}

func (t *Tree) String() string {
	if t.Root == nil {
		return "[empty]\n"
	}
	return subtreeString(t.Root, "")
}

func subtreeString(n Node, criterion string) string {
	result := ""
	if criterion != "" {
		result = fmt.Sprintf("{ %s }\n", criterion)
	}
	result = fmt.Sprintf("%s{ %v }\n", result, n.Outcome())
	var criteria []string
	var children []Node
	switch n := n.(type) {
	case *NumericSplit:
		if n.Left != nil {
			criteria = append(criteria, fmt.Sprintf("%s <= %g", n.Feature, n.Threshold))
			children = append(children, n.Left)
		}
		if n.Right != nil {
			criteria = append(criteria, fmt.Sprintf("%s > %g", n.Feature, n.Threshold))
			children = append(children, n.Right)
		}
	case *CategoricalSplit:
		for _, v := range n.Values() {
			criteria = append(criteria, fmt.Sprintf("%s is %s", n.Feature, v))
			children = append(children, n.Children[v])
		}
	}
	if len(children) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, c := range children {
		for j, line := range strings.Split(subtreeString(c, criteria[i]), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(children)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
