/*
Package arff reads datasets from ARFF documents: a @relation line, one
@attribute line per attribute and the rows after a @data line, with '%'
starting comments. The last attribute not excluded is the label.
*/
package arff

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
)

/*
Relation holds what is read from an ARFF document: the name of the
relation, the features declared for its attributes and its dataset.
*/
type Relation struct {
	Name     string
	Features []feature.Feature
	Dataset  *dataset.Dataset
}

type attribute struct {
	name     string
	feature  feature.Feature
	excluded bool
}

/*
Read takes an io.Reader for an ARFF document, a missing value and the names
of attributes to exclude and returns the relation read from it or an error.

Undefined values ('?') are replaced by the missing value (or
dataset.DefaultMissingValue if it is empty). Attributes declared as numeric,
real or integer become continuous features, those declared with a set of
values become discrete features accepting those values and the missing
value, and any other attribute becomes a discrete feature accepting any
value.
*/
func Read(r io.Reader, missing string, exclude ...string) (*Relation, error) {
	if missing == "" {
		missing = dataset.DefaultMissingValue
	}
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}
	rel := &Relation{}
	var attributes []*attribute
	var rows []dataset.Row
	var inData bool
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for l := 1; scanner.Scan(); l++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if inData {
			row, err := parseRow(line, attributes, missing)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: %v", l, err)
			}
			rows = append(rows, row)
			continue
		}
		keyword, rest := splitKeyword(line)
		switch strings.ToLower(keyword) {
		case "@relation":
			rel.Name = unquote(rest)
		case "@attribute":
			a, err := parseAttribute(rest, missing)
			if err != nil {
				return nil, fmt.Errorf("parsing line %d: %v", l, err)
			}
			a.excluded = excluded[a.name]
			attributes = append(attributes, a)
		case "@data":
			inData = true
		default:
			return nil, fmt.Errorf("parsing line %d: unexpected %q before @data", l, keyword)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ARFF: %v", err)
	}
	if !inData {
		return nil, fmt.Errorf("no @data section found")
	}
	var names []string
	for _, a := range attributes {
		if !a.excluded {
			names = append(names, a.name)
			rel.Features = append(rel.Features, a.feature)
		}
	}
	ds, err := dataset.New(names, rows)
	if err != nil {
		return nil, err
	}
	rel.Dataset = ds
	return rel, nil
}

/*
ReadFromFilePath takes a filepath string, a missing value and the names of
attributes to exclude, opens the file to which the filepath points to
(os.Stdin if it is "") and uses Read to return the relation in it or an
error.
*/
func ReadFromFilePath(filepath, missing string, exclude ...string) (*Relation, error) {
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
	rel, err := Read(f, missing, exclude...)
	if err != nil {
		err = fmt.Errorf("parsing ARFF file %s: %v", filepath, err)
	}
	return rel, err
}

func splitKeyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func parseAttribute(declaration, missing string) (*attribute, error) {
	var name, kind string
	if strings.HasPrefix(declaration, "'") || strings.HasPrefix(declaration, "\"") {
		end := strings.IndexByte(declaration[1:], declaration[0])
		if end < 0 {
			return nil, fmt.Errorf("unterminated attribute name in %q", declaration)
		}
		name = declaration[1 : end+1]
		kind = strings.TrimSpace(declaration[end+2:])
	} else {
		name, kind = splitKeyword(declaration)
	}
	if name == "" {
		return nil, fmt.Errorf("attribute without name")
	}
	a := &attribute{name: name}
	switch {
	case strings.HasPrefix(kind, "{"):
		if !strings.HasSuffix(kind, "}") {
			return nil, fmt.Errorf("unterminated values for attribute %s", name)
		}
		values, err := parseValues(strings.TrimSuffix(strings.TrimPrefix(kind, "{"), "}"))
		if err != nil {
			return nil, fmt.Errorf("parsing values for attribute %s: %v", name, err)
		}
		a.feature = feature.NewDiscreteFeature(name, append(values, missing))
	case strings.EqualFold(kind, "numeric"), strings.EqualFold(kind, "real"), strings.EqualFold(kind, "integer"):
		a.feature = feature.NewContinuousFeature(name)
	default:
		a.feature = feature.NewDiscreteFeature(name, nil)
	}
	return a, nil
}

func parseValues(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	values, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		values[i] = unquote(strings.TrimSpace(v))
	}
	return values, nil
}

func parseRow(line string, attributes []*attribute, missing string) (dataset.Row, error) {
	values, err := parseValues(line)
	if err != nil {
		return nil, err
	}
	if len(values) != len(attributes) {
		return nil, fmt.Errorf("expected %d values, got %d", len(attributes), len(values))
	}
	row := make(dataset.Row, len(attributes))
	for i, a := range attributes {
		if a.excluded {
			continue
		}
		v := values[i]
		if v == dataset.UndefinedValue {
			v = missing
		}
		row[a.name] = v
	}
	return row, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
