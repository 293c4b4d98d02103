package mongodataset

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/kstoi/arbor/dataset"
	"gopkg.in/mgo.v2/bson"
)

func TestRowFrom(t *testing.T) {
	doc := bson.D{
		{Name: "_id", Value: bson.NewObjectId()},
		{Name: "age", Value: 31.5},
		{Name: "color", Value: nil},
		{Name: "city", Value: "?"},
		{Name: "y", Value: "1"},
		{Name: "_n", Value: 0},
	}
	attributes := AttributesOf(doc)
	if strings.Join(attributes, ",") != "age,color,city,y" {
		t.Fatalf("unexpected attributes %v", attributes)
	}
	row := RowFrom(doc, append(attributes, "absent"), "")
	expected := dataset.Row{"age": "31.5", "color": "-1", "city": "-1", "y": "1", "absent": "-1"}
	for k, v := range expected {
		if row[k] != v {
			t.Errorf("expected %s to be %q, got %q", k, v, row[k])
		}
	}
}

func TestValidateAttributeName(t *testing.T) {
	for _, name := range []string{"age", "match_o"} {
		if err := ValidateAttributeName(name); err != nil {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}
	for _, name := range []string{"", "_id", "_n", "a.b", "$where"} {
		if err := ValidateAttributeName(name); err == nil {
			t.Errorf("expected %q to be invalid", name)
		}
	}
}

// TestStore runs against the MongoDB database at ARBOR_TEST_MONGO_URL and
// is skipped when it is not set. The samples collection is dropped.
func TestStore(t *testing.T) {
	url := os.Getenv("ARBOR_TEST_MONGO_URL")
	if url == "" {
		t.Skip("ARBOR_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	s, err := Dial(url)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer s.Close()
	s.samplesCollection().DropCollection()
	ds, err := dataset.New([]string{"a", "y"}, []dataset.Row{
		{"a": "x", "y": "0"},
		{"a": "z", "y": "1"},
	})
	if err != nil {
		t.Fatalf("building dataset: %v", err)
	}
	if n, err := s.Write(ctx, ds); err != nil || n != 2 {
		t.Fatalf("expected 2 rows written, got %d, %v", n, err)
	}
	read, err := s.Read(ctx, "")
	if err != nil {
		t.Fatalf("reading: %v", err)
	}
	if read.String() != ds.String() || read.Rows()[1]["a"] != "z" {
		t.Errorf("expected %v, got %v", ds, read)
	}
}
