package sqldataset

import (
	"context"
	"fmt"

	"github.com/kstoi/arbor/dataset"
)

/*
Read takes a context, an Adapter and a missing value and returns the
dataset kept on the adapter's database, with its columns as attributes and
NULL values replaced by the missing value (or dataset.DefaultMissingValue if
it is empty).
*/
func Read(ctx context.Context, a Adapter, missing string) (*dataset.Dataset, error) {
	if missing == "" {
		missing = dataset.DefaultMissingValue
	}
	columns, err := a.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading columns: %v", err)
	}
	var rows []dataset.Row
	if count, err := a.CountSamples(ctx); err == nil {
		rows = make([]dataset.Row, 0, count)
	}
	err = a.IterateOnSamples(ctx, columns, func(_ int, values []*string) (bool, error) {
		row := make(dataset.Row, len(columns))
		for i, c := range columns {
			if values[i] == nil || *values[i] == dataset.UndefinedValue {
				row[c] = missing
			} else {
				row[c] = *values[i]
			}
		}
		rows = append(rows, row)
		return ctx.Err() == nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	return dataset.New(columns, rows)
}

/*
Write takes a context, an Adapter and a dataset, ensures the samples table
exists with a column for every attribute of the dataset and inserts its
rows. It returns the number of rows written and an error if not all of them
could be.
*/
func Write(ctx context.Context, a Adapter, ds *dataset.Dataset) (int, error) {
	columns := make([]string, 0, len(ds.Attributes()))
	for _, attr := range ds.Attributes() {
		c, err := a.ColumnName(attr)
		if err != nil {
			return 0, err
		}
		columns = append(columns, c)
	}
	err := a.CreateSampleTable(ctx, columns)
	if err != nil {
		return 0, err
	}
	values := make([][]string, 0, ds.Count())
	for _, r := range ds.Rows() {
		v := make([]string, 0, len(columns))
		for _, attr := range ds.Attributes() {
			v = append(v, r[attr])
		}
		values = append(values, v)
	}
	return a.AddSamples(ctx, columns, values)
}
