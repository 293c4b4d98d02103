/*
Package csv reads datasets from and writes them to CSV streams. The first
record of a stream holds the names of the attributes, the label last.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/kstoi/arbor/dataset"
)

/*
Writer is an interface for a dataset to which rows
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given
	// rows and will return the actually written
	// number of rows and an error (if not all rows
	// could be written)
	Write(context.Context, []dataset.Row) (int, error)
	// Count returns the total number of rows written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count      int
	attributes []string
	w          *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream and a missing value and
returns the dataset parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the
names of the attributes. The rest of the rows should have a value for every
attribute, with the '?' string indicating an undefined value that is
replaced by the given missing value (or dataset.DefaultMissingValue if it is
empty).
*/
func ReadDataset(reader io.Reader, missing string) (*dataset.Dataset, error) {
	var rows []dataset.Row
	attributes, err := ReadDatasetByRow(reader, missing, func(_ int, r dataset.Row) (bool, error) {
		rows = append(rows, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.New(attributes, rows)
}

/*
ReadDatasetByRow takes an io.Reader for a CSV stream, a missing value and a
lambda function on an integer and a dataset.Row that returns a boolean
value. It parses the rows from the reader and for each it calls the lambda
function with the row and its index as parameters. If the lambda function
returns true, it will continue processing the next row, otherwise it will
stop. It returns the attribute names read from the header, or an error if
something goes wrong when reading the stream.
*/
func ReadDatasetByRow(reader io.Reader, missing string, lambda func(int, dataset.Row) (bool, error)) ([]string, error) {
	if missing == "" {
		missing = dataset.DefaultMissingValue
	}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %v", err)
		}
		row := make(dataset.Row, len(header))
		for i, a := range header {
			v := record[i]
			if v == dataset.UndefinedValue {
				v = missing
			}
			row[a] = v
		}
		ok, err := lambda(l-2, row)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return header, nil
}

/*
ReadDatasetFromFilePath takes a filepath string and a missing value, opens
the file to which the filepath points to (os.Stdin if it is "") and uses
ReadDataset to return a dataset or an error read from it.
*/
func ReadDatasetFromFilePath(filepath string, missing string) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	ds, err := ReadDataset(f, missing)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
NewWriter takes an io.Writer and a slice of attribute names and
returns a Writer that will write any rows on the io.Writer.
*/
func NewWriter(writer io.Writer, attributes []string) (Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(attributes)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{attributes: attributes, w: w}, nil
}

/*
WriteCSVDataset takes a writer and a dataset and dumps to the writer the
dataset in CSV format. It returns an error if something went wrong when
writing to the writer.
*/
func WriteCSVDataset(ctx context.Context, writer io.Writer, ds *dataset.Dataset) error {
	cw, err := NewWriter(writer, ds.Attributes())
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, ds.Rows())
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, rows []dataset.Row) (int, error) {
	for n, r := range rows {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := cw.writeRow(r)
		if err != nil {
			return n, err
		}
	}
	return len(rows), nil
}

func (cw *csvWriter) writeRow(r dataset.Row) error {
	record := make([]string, len(cw.attributes))
	for j, a := range cw.attributes {
		v, ok := r[a]
		if !ok {
			v = dataset.UndefinedValue
		}
		record[j] = v
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for row %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
