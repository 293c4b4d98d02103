/*
Package dataset provides the rows trees are grown from and tested against.

A Dataset is an ordered collection of rows together with an ordered list of
attribute names, the last of which is the label: the attribute trees predict.
*/
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/kstoi/arbor/feature"
)

const (
	// UndefinedValue is the string that represents a missing value
	// on the sources datasets are read from.
	UndefinedValue = "?"
	// DefaultMissingValue is the sentinel that replaces undefined
	// values when rows are loaded. It is an ordinary value for
	// trees, both as a category and as a number.
	DefaultMissingValue = "-1"
)

/*
Dataset represents a collection of rows with a value for every one of its
attributes.
*/
type Dataset struct {
	attributes []string
	rows       []Row
}

/*
New takes a slice of attribute names and a slice of rows and returns a
dataset with them or an error if there are fewer than 2 attributes, an
attribute is repeated or a row lacks a value for any of the attributes.
*/
func New(attributes []string, rows []Row) (*Dataset, error) {
	if len(attributes) < 2 {
		return nil, fmt.Errorf("a dataset needs at least one feature and a label, got %d attributes", len(attributes))
	}
	seen := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		if seen[a] {
			return nil, fmt.Errorf("attribute %s is defined more than once", a)
		}
		seen[a] = true
	}
	for i, r := range rows {
		for _, a := range attributes {
			if _, ok := r[a]; !ok {
				return nil, fmt.Errorf("row %d has no value for attribute %s", i, a)
			}
		}
	}
	return &Dataset{attributes: attributes, rows: rows}, nil
}

/*
Attributes returns the names of the attributes of the dataset, with the
label last.
*/
func (d *Dataset) Attributes() []string {
	return d.attributes
}

/*
Label returns the name of the attribute to predict: the last one.
*/
func (d *Dataset) Label() string {
	return d.attributes[len(d.attributes)-1]
}

/*
FeatureNames returns the names of all attributes but the label.
*/
func (d *Dataset) FeatureNames() []string {
	return d.attributes[:len(d.attributes)-1]
}

/*
Rows returns the rows of the dataset.
*/
func (d *Dataset) Rows() []Row {
	return d.rows
}

/*
Count returns the number of rows in the dataset.
*/
func (d *Dataset) Count() int {
	return len(d.rows)
}

/*
Column returns the values the rows hold for the given attribute, in row order.
*/
func (d *Dataset) Column(attribute string) []string {
	return Column(d.rows, attribute)
}

/*
ProbeFeatures classifies every attribute but the label as continuous or
discrete by majority vote over its whole column (see feature.Classify). The
classification is fixed for the lifetime of a tree build.
*/
func (d *Dataset) ProbeFeatures() []feature.Feature {
	features := make([]feature.Feature, 0, len(d.attributes)-1)
	for _, a := range d.FeatureNames() {
		features = append(features, feature.Classify(a, d.Column(a)))
	}
	return features
}

/*
WithLabel returns a dataset with the same rows in which the given attribute
has been moved to the last position to become the label, or an error if the
dataset has no such attribute.
*/
func (d *Dataset) WithLabel(label string) (*Dataset, error) {
	attributes := make([]string, 0, len(d.attributes))
	var found bool
	for _, a := range d.attributes {
		if a == label {
			found = true
			continue
		}
		attributes = append(attributes, a)
	}
	if !found {
		return nil, fmt.Errorf("label %s is not an attribute of the dataset", label)
	}
	return &Dataset{attributes: append(attributes, label), rows: d.rows}, nil
}

/*
Without returns a dataset with the same rows that ignores the given
attributes. The label cannot be removed.
*/
func (d *Dataset) Without(names ...string) (*Dataset, error) {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		if n == d.Label() {
			return nil, fmt.Errorf("cannot exclude label %s", n)
		}
		excluded[n] = true
	}
	attributes := make([]string, 0, len(d.attributes))
	for _, a := range d.attributes {
		if !excluded[a] {
			attributes = append(attributes, a)
		}
	}
	return New(attributes, d.rows)
}

/*
Partition takes a number n and splits the dataset into n datasets of
consecutive rows with the same size. Rows left over by the integer division
are not assigned to any partition.
*/
func (d *Dataset) Partition(n int) ([]*Dataset, error) {
	if n < 1 {
		return nil, fmt.Errorf("cannot partition a dataset in %d parts", n)
	}
	size := len(d.rows) / n
	result := make([]*Dataset, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, &Dataset{attributes: d.attributes, rows: d.rows[i*size : (i+1)*size]})
	}
	return result, nil
}

/*
Split takes a source of randomness and a probability in [0, 1] and returns
two datasets: the rows kept and the rows assigned to the split, each row
being assigned to the split with the given probability.
*/
func (d *Dataset) Split(r *rand.Rand, probability float64) (*Dataset, *Dataset) {
	var kept, split []Row
	for _, row := range d.rows {
		if r.Float64() < probability {
			split = append(split, row)
		} else {
			kept = append(kept, row)
		}
	}
	return &Dataset{attributes: d.attributes, rows: kept}, &Dataset{attributes: d.attributes, rows: split}
}

func (d *Dataset) String() string {
	return fmt.Sprintf("[ %d rows x %v ]", len(d.rows), d.attributes)
}
