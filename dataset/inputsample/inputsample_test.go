package inputsample

import (
	"context"
	"strings"
	"testing"

	"github.com/kstoi/arbor/feature"
)

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f feature.Feature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f feature.Feature, v string) error {
	rr.rejected = append(rr.rejected, f.Name()+"="+v)
	return nil
}

func TestValueFor(t *testing.T) {
	ctx := context.Background()
	features := []feature.Feature{
		feature.NewContinuousFeature("age"),
		feature.NewDiscreteFeature("color", []string{"red", "blue"}),
		feature.NewDiscreteFeature("city", nil),
	}
	rr := &recordingRequester{}
	s := New(strings.NewReader("old\n42.5\ngreen\nblue\n?\n"), features, rr, "")

	testCases := []struct {
		attribute string
		value     string
		ok        bool
	}{
		{"age", "42.5", true},
		{"color", "blue", true},
		{"age", "42.5", true},
		{"city", "-1", true},
		{"unknown", "", false},
	}
	for _, tc := range testCases {
		v, ok, err := s.ValueFor(ctx, tc.attribute)
		if err != nil {
			t.Fatalf("reading %s: %v", tc.attribute, err)
		}
		if v != tc.value || ok != tc.ok {
			t.Errorf("expected %s to be %q, %v, got %q, %v", tc.attribute, tc.value, tc.ok, v, ok)
		}
	}
	if strings.Join(rr.requested, ",") != "age,color,city" {
		t.Errorf("unexpected requests %v", rr.requested)
	}
	if strings.Join(rr.rejected, ",") != "age=old,color=green" {
		t.Errorf("unexpected rejections %v", rr.rejected)
	}
}

func TestValueForEOF(t *testing.T) {
	s := New(strings.NewReader(""), []feature.Feature{feature.NewContinuousFeature("age")}, &recordingRequester{}, "")
	if _, _, err := s.ValueFor(context.Background(), "age"); err == nil {
		t.Errorf("expected an error at EOF")
	}
}
