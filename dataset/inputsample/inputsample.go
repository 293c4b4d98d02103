/*
Package inputsample provides an implementation of feature.Sample whose values
are read from an io.Reader as they are needed.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
)

/*
readSample represents a sample whose feature values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type readSample struct {
	obtainedValues        map[string]string
	missingValue          string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              map[string]feature.Feature
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
New takes an io.Reader, a slice of features, a
FeatureValueRequester and a missing value and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Values are read once:
later calls for the same feature return the value already read.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. A line with the undefined
value '?' is read as the missing value (or
dataset.DefaultMissingValue if it is empty).

Lines are read from the reader until one holding a valid value
for the feature is found (see feature.Feature's Valid method).
Non accepted values are rejected with the FeatureValueRequester's
RejectValueFor method.

Attempting to obtain a value for a feature not in the given
features slice returns no value, as if the sample did not define it.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester, missingValue string) feature.Sample {
	if missingValue == "" {
		missingValue = dataset.DefaultMissingValue
	}
	fs := make(map[string]feature.Feature, len(features))
	for _, f := range features {
		fs[f.Name()] = f
	}
	return &readSample{make(map[string]string), missingValue, bufio.NewScanner(r), featureValueRequester, fs}
}

func (rs *readSample) ValueFor(ctx context.Context, attribute string) (string, bool, error) {
	value, ok := rs.obtainedValues[attribute]
	if ok {
		return value, true, nil
	}
	f, ok := rs.features[attribute]
	if !ok {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	err := rs.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return "", false, err
	}
	value, err = rs.readValue(f)
	if err != nil {
		return "", false, err
	}
	rs.obtainedValues[attribute] = value
	return value, true, nil
}

func (rs *readSample) readValue(f feature.Feature) (string, error) {
	var err error
	for rs.scanner.Scan() {
		line := rs.scanner.Text()
		if line == dataset.UndefinedValue {
			return rs.missingValue, nil
		}
		if ok, _ := f.Valid(line); ok {
			return line, nil
		}
		err = rs.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return "", err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return "", err
	}
	return "", fmt.Errorf("EOF when requesting value for %s", f.Name())
}
