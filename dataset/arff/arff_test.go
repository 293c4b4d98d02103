package arff

import (
	"strings"
	"testing"

	"github.com/kstoi/arbor/dataset"
	"github.com/kstoi/arbor/feature"
)

const speedDating = `% speed dating sample
@relation 'speed dating'

@attribute age numeric
@attribute race {asian,european,'latino american'}
@attribute field string
@attribute decision {0,1}
@attribute match {0,1}

@data
21,asian,Law,1,0
?,'latino american',?,0,0
27,european,Economics,1,1
`

func TestRead(t *testing.T) {
	rel, err := Read(strings.NewReader(speedDating), "", "decision")
	if err != nil {
		t.Fatalf("reading relation: %v", err)
	}
	if rel.Name != "speed dating" {
		t.Errorf("unexpected relation name %q", rel.Name)
	}
	ds := rel.Dataset
	if strings.Join(ds.Attributes(), ",") != "age,race,field,match" {
		t.Errorf("unexpected attributes %v", ds.Attributes())
	}
	if ds.Label() != "match" || ds.Count() != 3 {
		t.Errorf("unexpected label %s or count %d", ds.Label(), ds.Count())
	}
	second := ds.Rows()[1]
	if second["age"] != dataset.DefaultMissingValue || second["field"] != dataset.DefaultMissingValue || second["race"] != "latino american" {
		t.Errorf("unexpected second row %v", second)
	}
	if _, ok := second["decision"]; ok {
		t.Errorf("excluded attribute present on %v", second)
	}
	if len(rel.Features) != 4 {
		t.Fatalf("expected 4 features, got %v", rel.Features)
	}
	if !feature.IsNumeric(rel.Features[0]) || feature.IsNumeric(rel.Features[1]) {
		t.Errorf("unexpected feature kinds %v", rel.Features)
	}
	race := rel.Features[1].(*feature.DiscreteFeature)
	if ok, _ := race.Valid(dataset.DefaultMissingValue); !ok {
		t.Errorf("expected the missing value to be valid for race")
	}
	if ok, _ := race.Valid("martian"); ok {
		t.Errorf("expected an undeclared value to be invalid for race")
	}
	if ok, _ := rel.Features[2].Valid("Anything"); !ok {
		t.Errorf("expected any value to be valid for a string attribute")
	}
}

func TestReadErrors(t *testing.T) {
	for _, doc := range []string{
		"@relation r\n@attribute a numeric\n@attribute y {0,1}\n",
		"@relation r\n@attribute a numeric\n@attribute y {0,1}\n@data\n1,0,1\n",
		"@relation r\n@attribute a numeric\n@attribute y {0,1\n@data\n",
		"@relation r\n@attribute 'a numeric\n@data\n",
		"@relation r\n@something a\n@data\n",
		"@relation r\n@attribute y {0,1}\n@data\n1\n",
	} {
		if _, err := Read(strings.NewReader(doc), ""); err == nil {
			t.Errorf("expected an error reading %q", doc)
		}
	}
}
