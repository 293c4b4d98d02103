package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Prediction represents the outcome a node of a Tree predicts: the majority
label of the training rows that reached the node together with the number
of rows for each label.
*/
type Prediction struct {
	label  string
	counts map[string]int
	weight int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictWithEmptyTree is the error returned by the Predict method of
a tree with no root node.
*/
const ErrCannotPredictWithEmptyTree = PredictionError("cannot predict with an empty tree")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a label and a map with the number of training rows
for every label and returns a prediction of the given label with the
distribution the counts describe.
*/
func NewPrediction(label string, counts map[string]int) *Prediction {
	var weight int
	for _, c := range counts {
		weight += c
	}
	return &Prediction{label: label, counts: counts, weight: weight}
}

/*
Label returns the predicted label
*/
func (p *Prediction) Label() string {
	return p.label
}

/*
Counts returns a map with the number of training rows for each label
*/
func (p *Prediction) Counts() map[string]int {
	return p.counts
}

/*
Weight returns the weight of the prediction: an
int equal to the number of rows in the dataset from which
the prediction was made
*/
func (p *Prediction) Weight() int {
	return p.weight
}

/*
ProbabilityOf takes a string value and returns the float64 probability of that
value according to the prediction.
*/
func (p *Prediction) ProbabilityOf(value string) float64 {
	if p.weight == 0 {
		return 0
	}
	return float64(p.counts[value]) / float64(p.weight)
}

/*
Probabilities returns a map of string to float64 containing
the probabilities of each available value
*/
func (p *Prediction) Probabilities() map[string]float64 {
	probs := make(map[string]float64, len(p.counts))
	for v := range p.counts {
		probs[v] = p.ProbabilityOf(v)
	}
	return probs
}

func (p *Prediction) String() string {
	values := make([]string, 0, len(p.counts))
	for v := range p.counts {
		values = append(values, v)
	}
	sort.Strings(values)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s:%d", v, p.counts[v]))
	}
	return fmt.Sprintf("%s [%s]", p.label, strings.Join(parts, " "))
}
