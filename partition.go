package arbor

import (
	"context"
	"sort"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

/*
Split represents a candidate partition of a set of rows on a feature, with
the information gain it achieves to predict the label.

For continuous features, Subsets holds the rows with a value lower than or
equal to Threshold followed by the rest. For discrete features, Values holds
the distinct values found in the rows, sorted, and Subsets the rows for
each of them.
*/
type Split struct {
	Feature   feature.Feature
	Threshold float64
	Gain      float64
	Values    []string
	Subsets   [][]dataset.Row
}

type valuedLabel struct {
	value float64
	label string
}

/*
BestThreshold takes a slice of rows, a continuous feature and the name of the
target attribute and returns the information gain and threshold of the best
binary split of the rows on the feature.

Candidate thresholds are the midpoints between adjacent distinct values once
sorted. Rows with a value lower than or equal to a threshold go to the left
side, the rest to the right. A threshold only replaces the best one found so
far if its gain is greater by more than rounding noise, starting from a gain
of 0, so the first of several equally good thresholds wins. If the rows hold fewer than 2
distinct values, 0, 0 is returned.

Class counts are accumulated while sweeping the sorted values, so the search
takes O(n log n) time plus the cost of computing the entropy of both sides
at every candidate.

A *feature.MalformedValueError is returned, wrapped, if any value cannot be
parsed as a number.
*/
func BestThreshold(rows []dataset.Row, f *feature.ContinuousFeature, target string) (float64, float64, error) {
	values := make([]valuedLabel, len(rows))
	right := make(map[string]int)
	for i, r := range rows {
		v, err := f.Parse(r[f.Name()])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "searching threshold for feature %s", f.Name())
		}
		values[i] = valuedLabel{v, r[target]}
		right[r[target]]++
	}
	slices.SortStableFunc(values, func(a, b valuedLabel) bool {
		return a.value < b.value
	})
	total := len(values)
	base := entropyOf(right, total)
	left := make(map[string]int)
	var bestGain, bestThreshold float64
	var j int
	for i := 1; i < total; i++ {
		prev, curr := values[i-1].value, values[i].value
		if prev == curr {
			continue
		}
		threshold := (prev + curr) / 2.0
		for j < total && values[j].value <= threshold {
			left[values[j].label]++
			right[values[j].label]--
			j++
		}
		weighted := (float64(j)*entropyOf(left, j) + float64(total-j)*entropyOf(right, total-j)) / float64(total)
		gain := cleanGain(base - weighted)
		if improves(gain, bestGain) {
			bestGain = gain
			bestThreshold = threshold
		}
	}
	return bestGain, bestThreshold, nil
}

/*
NewContinuousSplit takes a context, a slice of rows, a continuous feature,
a threshold and a gain and returns the Split of the rows on the feature at
the threshold.
*/
func NewContinuousSplit(ctx context.Context, rows []dataset.Row, f *feature.ContinuousFeature, threshold, gain float64) (*Split, error) {
	left, right, err := dataset.SubsetWith(ctx, rows, feature.NewThresholdCriterion(f, threshold))
	if err != nil {
		return nil, errors.Wrapf(err, "splitting on feature %s", f.Name())
	}
	return &Split{
		Feature:   f,
		Threshold: threshold,
		Gain:      gain,
		Subsets:   [][]dataset.Row{left, right},
	}, nil
}

/*
NewDiscreteSplit takes a slice of rows, a discrete feature and a gain and
returns the Split of the rows on the values of the feature present in them.
*/
func NewDiscreteSplit(rows []dataset.Row, f *feature.DiscreteFeature, gain float64) *Split {
	values, groups := dataset.GroupBy(rows, f.Name())
	sort.Strings(values)
	subsets := make([][]dataset.Row, 0, len(values))
	for _, v := range values {
		subsets = append(subsets, groups[v])
	}
	return &Split{
		Feature: f,
		Gain:    gain,
		Values:  values,
		Subsets: subsets,
	}
}

// gainFor returns the information gain of the best split of the rows
// on the given feature and the threshold for continuous features.
func gainFor(rows []dataset.Row, f feature.Feature, target string) (float64, float64, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		return BestThreshold(rows, f, target)
	case *feature.DiscreteFeature:
		return InformationGain(rows, f.Name(), target), 0, nil
	default:
		return 0, 0, errors.Errorf("unknown feature type %T for feature %v", f, f.Name())
	}
}

// newSplit builds the Split for a feature selected with gainFor.
func newSplit(ctx context.Context, rows []dataset.Row, f feature.Feature, gain, threshold float64) (*Split, error) {
	switch f := f.(type) {
	case *feature.ContinuousFeature:
		return NewContinuousSplit(ctx, rows, f, threshold, gain)
	case *feature.DiscreteFeature:
		return NewDiscreteSplit(rows, f, gain), nil
	default:
		return nil, errors.Errorf("unknown feature type %T for feature %v", f, f.Name())
	}
}
