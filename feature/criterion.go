package feature

import (
	"context"
	"fmt"
)

/*
Criterion represents a constraint on a feature

Its SatisfiedBy method takes a sample and returns a boolean indicating if
the value the sample holds for the feature satisfies the criterion.

Its Feature method returns the feature on which the criterion is applied.
*/
type Criterion interface {
	Feature() Feature
	SatisfiedBy(ctx context.Context, sample Sample) (bool, error)
}

/*
ThresholdCriterion represents a constraint on a continuous feature: its value
must be lower than or equal to a threshold.
*/
type ThresholdCriterion interface {
	Criterion
	Threshold() float64
}

type thresholdCriterion struct {
	feature   *ContinuousFeature
	threshold float64
}

/*
NewThresholdCriterion takes a ContinuousFeature and a threshold and returns
a ThresholdCriterion satisfied by samples whose value for the feature is
lower than or equal to the threshold.
*/
func NewThresholdCriterion(feature *ContinuousFeature, threshold float64) ThresholdCriterion {
	return &thresholdCriterion{feature, threshold}
}

/*
Feature returns the feature to which the constraint applies.
*/
func (tc *thresholdCriterion) Feature() Feature {
	return tc.feature
}

/*
SatisfiedBy receives a sample as parameter and returns a boolean indicating if the
sample satisfies the criterion. Specifically, it returns false if the sample does
not define a value for the feature, an error if the value cannot be parsed as a
number, and whether the value is lower than or equal to the threshold otherwise.
*/
func (tc *thresholdCriterion) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	v, ok, err := sample.ValueFor(ctx, tc.feature.Name())
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	f, err := tc.feature.Parse(v)
	if err != nil {
		return false, err
	}
	return f <= tc.threshold, nil
}

func (tc *thresholdCriterion) Threshold() float64 {
	return tc.threshold
}

func (tc *thresholdCriterion) String() string {
	return fmt.Sprintf("%s <= %g", tc.feature.Name(), tc.threshold)
}
