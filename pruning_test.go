package arbor

import (
	"context"
	"testing"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
	"github.com/pkg/errors"
)

func TestHyperparametersValidate(t *testing.T) {
	valid := []Hyperparameters{
		Unpruned(),
		{MaxDepth: 0, MinSamplesSplit: 1},
		{MaxDepth: 4, MinSamplesSplit: 5, MinGain: 0.01},
	}
	for _, h := range valid {
		if err := h.Validate(); err != nil {
			t.Errorf("expected %v to be valid, got %v", h, err)
		}
	}
	invalid := []Hyperparameters{
		{MaxDepth: -1, MinSamplesSplit: 1},
		{MaxDepth: 1, MinSamplesSplit: 0},
		{MaxDepth: 1, MinSamplesSplit: 1, MinGain: -1},
	}
	for _, h := range invalid {
		if err := h.Validate(); errors.Cause(err) != ErrInvalidHyperparameters {
			t.Errorf("expected %v to be invalid, got %v", h, err)
		}
	}
}

func TestHyperparametersString(t *testing.T) {
	if s := Unpruned().String(); s != "{unpruned}" {
		t.Errorf("unexpected string for unpruned hyperparameters: %s", s)
	}
	h := Hyperparameters{MaxDepth: 4, MinSamplesSplit: 5, MinGain: 0.01}
	if s := h.String(); s != "{maxDepth: 4, minSamplesSplit: 5, minGain: 0.01}" {
		t.Errorf("unexpected string for %#v: %s", h, s)
	}
}

func TestPruners(t *testing.T) {
	ctx := context.Background()
	rows := []dataset.Row{
		{"a": "x", "y": "0"},
		{"a": "z", "y": "1"},
	}
	s := NewDiscreteSplit(rows, feature.NewDiscreteFeature("a", nil), InformationGain(rows, "a", "y"))
	cases := []struct {
		name     string
		pruner   Pruner
		expected bool
	}{
		{"no pruner", NoPruner(), false},
		{"lower minimum gain", MinimumGainPruner(0.5), false},
		{"higher minimum gain", MinimumGainPruner(1.5), true},
		{"mdl", MDLPruner(), false},
	}
	for _, c := range cases {
		prune, err := c.pruner.Prune(ctx, rows, s, "y")
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if prune != c.expected {
			t.Errorf("%s: expected prune to be %v, got %v", c.name, c.expected, prune)
		}
	}
}

func TestMDLPrunerPrunesWeakSplits(t *testing.T) {
	rows := []dataset.Row{
		{"a": "x", "y": "0"},
		{"a": "x", "y": "1"},
		{"a": "z", "y": "0"},
		{"a": "z", "y": "0"},
	}
	s := NewDiscreteSplit(rows, feature.NewDiscreteFeature("a", nil), InformationGain(rows, "a", "y"))
	prune, err := MDLPruner().Prune(context.Background(), rows, s, "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !prune {
		t.Errorf("expected a split gaining %v on 4 rows to be pruned", s.Gain)
	}
}

func TestMDLPrunerKeepsInformativeSplits(t *testing.T) {
	var rows []dataset.Row
	for i := 0; i < 100; i++ {
		a, y := "x", "0"
		if i%2 == 1 {
			a, y = "z", "1"
		}
		rows = append(rows, dataset.Row{"a": a, "y": y})
	}
	s := NewDiscreteSplit(rows, feature.NewDiscreteFeature("a", nil), InformationGain(rows, "a", "y"))
	prune, err := MDLPruner().Prune(context.Background(), rows, s, "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prune {
		t.Errorf("expected a perfect split of 100 rows not to be pruned")
	}
}
