package arbor

import (
	"math"
	"testing"

	"github.com/kstoi/arbor/dataset"
)

const tolerance = 1e-9

func TestEntropy(t *testing.T) {
	cases := []struct {
		labels   []string
		expected float64
	}{
		{nil, 0},
		{[]string{"1"}, 0},
		{[]string{"0", "0", "0", "0", "0"}, 0},
		{[]string{"0", "1"}, 1},
		{[]string{"0", "1", "1", "0", "0", "1"}, 1},
		{[]string{"a", "b", "c", "d"}, 2},
		{[]string{"a", "b", "c"}, math.Log2(3)},
		{[]string{"0", "0", "0", "1"}, 0.8112781244591328},
	}
	for _, c := range cases {
		if e := Entropy(c.labels); math.Abs(e-c.expected) > tolerance {
			t.Errorf("entropy of %v: expected %v, got %v", c.labels, c.expected, e)
		}
	}
}

func TestInformationGain(t *testing.T) {
	rows := []dataset.Row{
		{"a": "x", "b": "p", "y": "0"},
		{"a": "x", "b": "q", "y": "0"},
		{"a": "z", "b": "p", "y": "1"},
		{"a": "z", "b": "q", "y": "1"},
	}
	if g := InformationGain(rows, "a", "y"); math.Abs(g-1) > tolerance {
		t.Errorf("expected a perfect split on a to gain 1, got %v", g)
	}
	if g := InformationGain(rows, "b", "y"); g != 0 {
		t.Errorf("expected an uninformative split on b to gain 0, got %v", g)
	}
	if g := InformationGain(nil, "a", "y"); g != 0 {
		t.Errorf("expected no rows to gain 0, got %v", g)
	}
}

func TestInformationGainIsNeverNegative(t *testing.T) {
	values := []string{"r", "s", "t"}
	labels := []string{"0", "1", "1", "0", "1"}
	var rows []dataset.Row
	for i := 0; i < 40; i++ {
		rows = append(rows, dataset.Row{
			"a": values[(i*7)%len(values)],
			"y": labels[(i*3)%len(labels)],
		})
		if g := InformationGain(rows, "a", "y"); g < 0 {
			t.Fatalf("negative gain %v with %d rows", g, len(rows))
		}
	}
}

func TestMajorityLabel(t *testing.T) {
	cases := []struct {
		counts   map[string]int
		expected string
	}{
		{map[string]int{}, ""},
		{map[string]int{"1": 3}, "1"},
		{map[string]int{"0": 2, "1": 3}, "1"},
		{map[string]int{"1": 2, "0": 2}, "0"},
		{map[string]int{"b": 4, "c": 4, "a": 1}, "b"},
	}
	for _, c := range cases {
		if l := MajorityLabel(c.counts); l != c.expected {
			t.Errorf("majority label of %v: expected %q, got %q", c.counts, c.expected, l)
		}
	}
}
