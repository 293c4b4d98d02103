package dataset

import (
	"context"
	"fmt"

	"github.com/kstoi/arbor/feature"
)

/*
Row maps attribute names to their values for a single item to process or
from which to learn how to process them.
*/
type Row map[string]string

/*
ValueFor returns the value of the row for the given attribute and whether
the row defines it. It never fails.
*/
func (r Row) ValueFor(_ context.Context, attribute string) (string, bool, error) {
	v, ok := r[attribute]
	return v, ok, nil
}

func (r Row) String() string {
	return fmt.Sprintf("[%v]", map[string]string(r))
}

/*
Column returns the values the given rows hold for the given attribute, in
row order.
*/
func Column(rows []Row, attribute string) []string {
	column := make([]string, len(rows))
	for i, r := range rows {
		column[i] = r[attribute]
	}
	return column
}

/*
SubsetWith takes a context, a slice of rows and a feature.Criterion and
returns the rows that satisfy the criterion and the rows that do not, both
in their original order, or the error returned by the criterion.
*/
func SubsetWith(ctx context.Context, rows []Row, c feature.Criterion) ([]Row, []Row, error) {
	var satisfying, rest []Row
	for _, r := range rows {
		ok, err := c.SatisfiedBy(ctx, r)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			satisfying = append(satisfying, r)
		} else {
			rest = append(rest, r)
		}
	}
	return satisfying, rest, nil
}

/*
GroupBy partitions the given rows by the value they hold for the given
attribute. It returns the distinct values in order of first appearance and
the rows for each of them, in their original order.
*/
func GroupBy(rows []Row, attribute string) ([]string, map[string][]Row) {
	var values []string
	groups := make(map[string][]Row)
	for _, r := range rows {
		v := r[attribute]
		if _, ok := groups[v]; !ok {
			values = append(values, v)
		}
		groups[v] = append(groups[v], r)
	}
	return values, groups
}
