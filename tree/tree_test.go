package tree

import (
	"context"
	"strings"
	"testing"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
	"github.com/pkg/errors"
)

func leaf(label string, counts map[string]int) *Leaf {
	return &Leaf{NewPrediction(label, counts)}
}

// sampleTree tests a numeric feature v at 2.5 and, on the right, a
// categorical feature c with values blue and red.
func sampleTree() *Tree {
	return New(&NumericSplit{
		Feature:    "v",
		Threshold:  2.5,
		Prediction: NewPrediction("0", map[string]int{"0": 3, "1": 2}),
		Left:       leaf("0", map[string]int{"0": 2}),
		Right: &CategoricalSplit{
			Feature:    "c",
			Prediction: NewPrediction("1", map[string]int{"0": 1, "1": 2}),
			Children: map[string]Node{
				"red":  leaf("1", map[string]int{"1": 2}),
				"blue": leaf("0", map[string]int{"0": 1}),
			},
		},
	}, "y", []string{"v", "c"})
}

func TestPredict(t *testing.T) {
	ctx := context.Background()
	tr := sampleTree()
	cases := []struct {
		row      dataset.Row
		expected string
	}{
		{dataset.Row{"v": "1", "c": "red"}, "0"},
		{dataset.Row{"v": "2.5", "c": "red"}, "0"},
		{dataset.Row{"v": "3", "c": "red"}, "1"},
		{dataset.Row{"v": "3", "c": "blue"}, "0"},
		{dataset.Row{"v": "3", "c": "green"}, "1"},
		{dataset.Row{"v": "3"}, "1"},
		{dataset.Row{"c": "blue"}, "0"},
	}
	for _, c := range cases {
		l, err := tr.Predict(ctx, c.row)
		if err != nil {
			t.Errorf("predicting %v: unexpected error %v", c.row, err)
			continue
		}
		if l != c.expected {
			t.Errorf("predicting %v: expected %q, got %q", c.row, c.expected, l)
		}
	}
}

func TestPredictWithAbsentBranch(t *testing.T) {
	ctx := context.Background()
	tr := New(&NumericSplit{
		Feature:    "v",
		Threshold:  2.5,
		Prediction: NewPrediction("0", map[string]int{"0": 1}),
		Right:      leaf("1", map[string]int{"1": 1}),
	}, "y", []string{"v"})
	l, err := tr.Predict(ctx, dataset.Row{"v": "1"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if l != "1" {
		t.Errorf("expected a sample without a left branch to go right, got %q", l)
	}
	tr.Root.(*NumericSplit).Right = nil
	l, err = tr.Predict(ctx, dataset.Row{"v": "1"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if l != "0" {
		t.Errorf("expected the node label without branches, got %q", l)
	}
}

func TestPredictMalformedValue(t *testing.T) {
	_, err := sampleTree().Predict(context.Background(), dataset.Row{"v": "high"})
	if _, ok := errors.Cause(err).(*feature.MalformedValueError); !ok {
		t.Errorf("expected a *feature.MalformedValueError, got %v", err)
	}
}

func TestPredictEmptyTree(t *testing.T) {
	var tr *Tree
	if _, err := tr.Predict(context.Background(), dataset.Row{}); err != ErrCannotPredictWithEmptyTree {
		t.Errorf("expected ErrCannotPredictWithEmptyTree, got %v", err)
	}
}

func TestPredictDistribution(t *testing.T) {
	p, err := sampleTree().PredictDistribution(context.Background(), dataset.Row{"v": "3", "c": "green"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if p.Label() != "1" || p.Weight() != 3 || p.ProbabilityOf("1") != 2.0/3.0 || p.ProbabilityOf("2") != 0 {
		t.Errorf("unexpected prediction %v", p)
	}
}

func TestTraverse(t *testing.T) {
	tr := sampleTree()
	var topdown, bottomup []string
	record := func(labels *[]string) func(context.Context, Node, int) error {
		return func(_ context.Context, n Node, depth int) error {
			*labels = append(*labels, strings.Repeat(">", depth)+n.Outcome().String())
			return nil
		}
	}
	if err := tr.Traverse(context.Background(), false, record(&topdown)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := tr.Traverse(context.Background(), true, record(&bottomup)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	expectedTopdown := []string{"0 [0:3 1:2]", ">0 [0:2]", ">1 [0:1 1:2]", ">>0 [0:1]", ">>1 [1:2]"}
	expectedBottomup := []string{">0 [0:2]", ">>0 [0:1]", ">>1 [1:2]", ">1 [0:1 1:2]", "0 [0:3 1:2]"}
	if strings.Join(topdown, ",") != strings.Join(expectedTopdown, ",") {
		t.Errorf("expected top-down traversal %v, got %v", expectedTopdown, topdown)
	}
	if strings.Join(bottomup, ",") != strings.Join(expectedBottomup, ",") {
		t.Errorf("expected bottom-up traversal %v, got %v", expectedBottomup, bottomup)
	}
}

func TestTraverseAborts(t *testing.T) {
	stop := errors.New("stop")
	var visited int
	err := sampleTree().Traverse(context.Background(), false, func(context.Context, Node, int) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	if err != stop || visited != 2 {
		t.Errorf("expected traversal to stop at the second node, got %v after %d nodes", err, visited)
	}
}

func TestStats(t *testing.T) {
	s := sampleTree().Stats()
	if s != (Stats{Depth: 2, Nodes: 5, Leaves: 3}) {
		t.Errorf("unexpected stats %v", s)
	}
	s = New(leaf("1", map[string]int{"1": 4}), "y", nil).Stats()
	if s != (Stats{Depth: 0, Nodes: 1, Leaves: 1}) {
		t.Errorf("unexpected stats for a single leaf %v", s)
	}
}

func TestString(t *testing.T) {
	expected := `{ 0 [0:3 1:2] }
|
|__{ v <= 2.5 }
|  { 0 [0:2] }
|   
|__{ v > 2.5 }
   { 1 [0:1 1:2] }
   |
   |__{ c is blue }
   |  { 0 [0:1] }
   |   
   |__{ c is red }
      { 1 [1:2] }
       
`
	if s := sampleTree().String(); s != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, s)
	}
}
