/*
Package evaluation measures how well a tree predicts the label of the rows
of a dataset, counting true and false positives and negatives for a
positive label.
*/
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/tree"
	"github.com/pkg/errors"
)

// DefaultPositiveLabel is the label counted as positive when none is given
const DefaultPositiveLabel = "1"

/*
Confusion holds the counts of a binary confusion matrix: true positives,
true negatives, false positives and false negatives.
*/
type Confusion struct {
	TP int
	TN int
	FP int
	FN int
}

/*
Add takes an actual label, the label predicted for it and the positive label
and counts the pair on the confusion matrix. Every label but the positive
one is a negative.
*/
func (c *Confusion) Add(actual, predicted, positive string) {
	switch {
	case actual == positive && predicted == positive:
		c.TP++
	case actual == positive:
		c.FN++
	case predicted == positive:
		c.FP++
	default:
		c.TN++
	}
}

// Total returns the number of pairs counted
func (c *Confusion) Total() int {
	return c.TP + c.TN + c.FP + c.FN
}

// Accuracy returns (TP+TN)/(TP+TN+FP+FN), or 0 if nothing was counted
func (c *Confusion) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.Total())
}

// Precision returns TP/(TP+FP), or 0 if nothing was predicted positive
func (c *Confusion) Precision() float64 {
	return ratio(c.TP, c.TP+c.FP)
}

// Recall returns TP/(TP+FN), or 0 if nothing was actually positive
func (c *Confusion) Recall() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

// Specificity returns TN/(TN+FP), or 0 if nothing was actually negative
func (c *Confusion) Specificity() float64 {
	return ratio(c.TN, c.TN+c.FP)
}

func (c *Confusion) String() string {
	return fmt.Sprintf("TP: %d, TN: %d, FP: %d, FN: %d", c.TP, c.TN, c.FP, c.FN)
}

/*
Report returns a multiline text with the counts of the confusion matrix and
the ratios derived from them, under the given title.
*/
func (c *Confusion) Report(title string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%s\n", title)
	}
	fmt.Fprintf(&b, "True positives: %d\n", c.TP)
	fmt.Fprintf(&b, "True negatives: %d\n", c.TN)
	fmt.Fprintf(&b, "False positives: %d\n", c.FP)
	fmt.Fprintf(&b, "False negatives: %d\n", c.FN)
	fmt.Fprintf(&b, "Accuracy: %.4f\n", c.Accuracy())
	fmt.Fprintf(&b, "Precision: %.4f\n", c.Precision())
	fmt.Fprintf(&b, "Recall: %.4f\n", c.Recall())
	fmt.Fprintf(&b, "Specificity: %.4f\n", c.Specificity())
	return b.String()
}

/*
Evaluate takes a context, a tree, a dataset and a positive label (or
DefaultPositiveLabel if empty) and returns the confusion matrix of the
predictions of the tree for the rows of the dataset against the values they
hold for the label of the tree. An error is returned if a prediction fails
or a row has no value for the label.
*/
func Evaluate(ctx context.Context, t *tree.Tree, ds *dataset.Dataset, positive string) (*Confusion, error) {
	if positive == "" {
		positive = DefaultPositiveLabel
	}
	if t == nil {
		return nil, tree.ErrCannotPredictWithEmptyTree
	}
	c := &Confusion{}
	for i, r := range ds.Rows() {
		actual, ok := r[t.Label]
		if !ok {
			return nil, fmt.Errorf("row %d has no value for label %s", i, t.Label)
		}
		predicted, err := t.Predict(ctx, r)
		if err != nil {
			return nil, errors.Wrapf(err, "evaluating row %d", i)
		}
		c.Add(actual, predicted, positive)
	}
	return c, nil
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
