package arbor

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
	"github.com/pkg/errors"
)

func numericRows(values []string, labels []string) []dataset.Row {
	rows := make([]dataset.Row, len(values))
	for i := range values {
		rows[i] = dataset.Row{"v": values[i], "y": labels[i]}
	}
	return rows
}

func TestBestThreshold(t *testing.T) {
	rows := numericRows([]string{"3", "1", "4", "2"}, []string{"1", "0", "1", "0"})
	gain, threshold, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threshold != 2.5 {
		t.Errorf("expected threshold 2.5, got %v", threshold)
	}
	if math.Abs(gain-1) > tolerance {
		t.Errorf("expected gain 1, got %v", gain)
	}
}

func TestBestThresholdKeepsFirstOnTies(t *testing.T) {
	// Both 1.5 and 3.5 isolate a single row of label 1.
	rows := numericRows([]string{"1", "2", "3", "4"}, []string{"1", "0", "0", "1"})
	gain, threshold, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threshold != 1.5 {
		t.Errorf("expected threshold 1.5, got %v with gain %v", threshold, gain)
	}
}

func TestBestThresholdKeepsFirstOnRoundedTies(t *testing.T) {
	// 1.5 and 4.5 leave the same weighted entropy, (15·log2(3)-10)/16, but
	// the sweep computes gains a few ULPs apart for them.
	rows := numericRows(
		[]string{"1", "0", "3", "1", "2", "4", "0", "1", "5", "3", "3", "4", "4", "0", "0", "3"},
		[]string{"1", "1", "1", "1", "0", "0", "0", "0", "0", "0", "0", "0", "1", "0", "0", "0"},
	)
	gain, threshold, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threshold != 1.5 {
		t.Errorf("expected threshold 1.5, got %v with gain %v", threshold, gain)
	}
	if math.Abs(gain-0.0351358881084735) > tolerance {
		t.Errorf("expected gain 0.0351358881084735, got %v", gain)
	}
}

func TestBestThresholdSkipsRepeatedValues(t *testing.T) {
	rows := numericRows([]string{"1", "1", "1", "5", "5"}, []string{"0", "0", "1", "1", "1"})
	_, threshold, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threshold != 3 {
		t.Errorf("expected threshold 3, got %v", threshold)
	}
}

func TestBestThresholdWithoutCandidates(t *testing.T) {
	for _, values := range [][]string{{}, {"7"}, {"2", "2", "2"}} {
		labels := make([]string, len(values))
		for i := range labels {
			labels[i] = strconv.Itoa(i % 2)
		}
		gain, threshold, err := BestThreshold(numericRows(values, labels), feature.NewContinuousFeature("v"), "y")
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", values, err)
		}
		if gain != 0 || threshold != 0 {
			t.Errorf("expected 0, 0 for %v, got %v, %v", values, gain, threshold)
		}
	}
}

func TestBestThresholdWithNaN(t *testing.T) {
	rows := numericRows([]string{"1", "NaN", "3"}, []string{"0", "1", "1"})
	_, _, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if _, ok := errors.Cause(err).(*feature.MalformedValueError); !ok {
		t.Fatalf("expected a *feature.MalformedValueError, got %v", err)
	}
}

func TestBestThresholdWithMalformedValue(t *testing.T) {
	rows := numericRows([]string{"1", "two", "3"}, []string{"0", "1", "1"})
	_, _, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
	if err == nil {
		t.Fatalf("expected an error")
	}
	mve, ok := errors.Cause(err).(*feature.MalformedValueError)
	if !ok {
		t.Fatalf("expected a *feature.MalformedValueError, got %T: %v", errors.Cause(err), err)
	}
	if mve.Feature != "v" || mve.Value != "two" {
		t.Errorf("unexpected error details: %+v", mve)
	}
}

// bruteForceThreshold evaluates every candidate threshold partitioning the
// rows from scratch.
func bruteForceThreshold(rows []dataset.Row) (float64, float64) {
	var bestGain, bestThreshold float64
	labels := dataset.Column(rows, "y")
	base := Entropy(labels)
	var values []float64
	for _, r := range rows {
		v, _ := strconv.ParseFloat(r["v"], 64)
		values = append(values, v)
	}
	sorted := append([]float64(nil), values...)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j] < sorted[i] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			continue
		}
		threshold := (sorted[i-1] + sorted[i]) / 2
		var left, right []string
		for k, v := range values {
			if v <= threshold {
				left = append(left, labels[k])
			} else {
				right = append(right, labels[k])
			}
		}
		n := float64(len(rows))
		gain := cleanGain(base - (float64(len(left))*Entropy(left)+float64(len(right))*Entropy(right))/n)
		if improves(gain, bestGain) {
			bestGain = gain
			bestThreshold = threshold
		}
	}
	return bestGain, bestThreshold
}

func TestBestThresholdMatchesExhaustiveSearch(t *testing.T) {
	var values, labels []string
	for i := 0; i < 60; i++ {
		values = append(values, strconv.Itoa((i*37)%23))
		labels = append(labels, strconv.Itoa(((i*11)%7)%3))
		rows := numericRows(values, labels)
		gain, threshold, err := BestThreshold(rows, feature.NewContinuousFeature("v"), "y")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		eGain, eThreshold := bruteForceThreshold(rows)
		if gain != eGain || threshold != eThreshold {
			t.Fatalf("with %d rows expected %v at %v, got %v at %v", len(rows), eGain, eThreshold, gain, threshold)
		}
	}
}

func TestNewDiscreteSplit(t *testing.T) {
	rows := []dataset.Row{
		{"a": "z", "y": "1"},
		{"a": "x", "y": "0"},
		{"a": "z", "y": "0"},
	}
	s := NewDiscreteSplit(rows, feature.NewDiscreteFeature("a", nil), 0.5)
	if len(s.Values) != 2 || s.Values[0] != "x" || s.Values[1] != "z" {
		t.Fatalf("expected values [x z], got %v", s.Values)
	}
	if len(s.Subsets[0]) != 1 || len(s.Subsets[1]) != 2 {
		t.Errorf("unexpected subsets %v", s.Subsets)
	}
}

func TestNewContinuousSplit(t *testing.T) {
	rows := numericRows([]string{"3", "1", "4", "2"}, []string{"1", "0", "1", "0"})
	s, err := NewContinuousSplit(context.Background(), rows, feature.NewContinuousFeature("v"), 2.5, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Subsets) != 2 {
		t.Fatalf("expected 2 subsets, got %d", len(s.Subsets))
	}
	for _, r := range s.Subsets[0] {
		if r["y"] != "0" {
			t.Errorf("unexpected row %v on the left", r)
		}
	}
	for _, r := range s.Subsets[1] {
		if r["y"] != "1" {
			t.Errorf("unexpected row %v on the right", r)
		}
	}
}
