/*
Package feature defines the attributes a tree can test on, whether they
are numeric (continuous) or categorical (discrete), and the criteria that
route samples through a tree.
*/
package feature

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

var errNotFinite = errors.New("not a finite number")

/*
Feature represents a property that can be observed on a sample
*/
type Feature interface {
	Name() string
	Valid(value string) (bool, error)
}

/*
Sample is an interface for something that can satisfy a Criterion.

Its ValueFor method returns the string value the sample holds for the
attribute with the given name, a boolean indicating whether the sample
defines the attribute at all and an error if the value could not be
obtained.
*/
type Sample interface {
	ValueFor(ctx context.Context, attribute string) (string, bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite set. A DiscreteFeature with no available values
accepts any value.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
ContinuousFeature represents a property that can be observed and that takes
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
MalformedValueError is returned when a value for a continuous feature
cannot be parsed as a float64 number.
*/
type MalformedValueError struct {
	Feature string
	Value   string
	Err     error
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed numeric value %q for feature %s: %v", e.Value, e.Feature, e.Err)
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives a value and returns a boolean and an error. When the feature
declares no available values, or the value is among them, the method returns
true and nil. Otherwise it returns false and an error describing the reason.
*/
func (df *DiscreteFeature) Valid(value string) (bool, error) {
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == value {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), value)
}

/*
AvailableValues returns a string slice with the values declared for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

/*
Valid receives a value and returns true and nil when it can be parsed as a
float64, false and a *MalformedValueError otherwise.
*/
func (cf *ContinuousFeature) Valid(value string) (bool, error) {
	_, err := cf.Parse(value)
	if err != nil {
		return false, err
	}
	return true, nil
}

/*
Parse takes a value and returns it parsed as a float64 or a
*MalformedValueError.
*/
func (cf *ContinuousFeature) Parse(value string) (float64, error) {
	return ParseNumeric(cf.name, value)
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}

/*
ParseNumeric takes the name of an attribute and a value for it and returns
the value parsed as a float64 number, or a *MalformedValueError if it is
not a valid decimal floating point number. NaN and infinite values are
malformed: they cannot be ordered against thresholds.
*/
func ParseNumeric(attribute, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &MalformedValueError{Feature: attribute, Value: value, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedValueError{Feature: attribute, Value: value, Err: errNotFinite}
	}
	return f, nil
}

/*
Classify takes the name of an attribute and the values it takes on a set of
rows and returns a ContinuousFeature if strictly more than half of the values
parse as numbers, or a DiscreteFeature otherwise. An empty column is
classified as discrete.
*/
func Classify(name string, values []string) Feature {
	var numeric int
	for _, v := range values {
		if _, err := ParseNumeric(name, v); err == nil {
			numeric++
		}
	}
	if numeric*2 > len(values) {
		return NewContinuousFeature(name)
	}
	return NewDiscreteFeature(name, nil)
}

/*
IsNumeric returns whether the given feature is a continuous one
*/
func IsNumeric(f Feature) bool {
	_, ok := f.(*ContinuousFeature)
	return ok
}
