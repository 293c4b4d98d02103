package arbor

import (
	"math"
	"sort"

	"github.com/kstoi/arbor/dataset"
	"gonum.org/v1/gonum/stat"
)

// gainTolerance is the magnitude under which an information gain
// is considered to be exactly 0.
const gainTolerance = 1e-12

/*
Entropy takes a slice of labels and returns the entropy in bits of their
distribution: the sum of -p·log2(p) over the relative frequency p of every
distinct label. It is 0 for an empty slice or a slice with a single distinct
label and log2(k) for k equally frequent labels.
*/
func Entropy(labels []string) float64 {
	return entropyOf(countValues(labels), len(labels))
}

/*
InformationGain takes a slice of rows, the name of a categorical attribute
and the name of the target attribute and returns the reduction in entropy
of the target achieved by partitioning the rows by the distinct values of
the attribute. It returns 0 for an empty slice of rows.
*/
func InformationGain(rows []dataset.Row, attribute, target string) float64 {
	if len(rows) == 0 {
		return 0
	}
	values, groups := dataset.GroupBy(rows, attribute)
	sort.Strings(values)
	total := float64(len(rows))
	var weighted float64
	for _, v := range values {
		subset := groups[v]
		weighted += float64(len(subset)) / total * entropyOf(countValues(dataset.Column(subset, target)), len(subset))
	}
	base := entropyOf(countValues(dataset.Column(rows, target)), len(rows))
	return cleanGain(base - weighted)
}

/*
MajorityLabel takes a map of label counts and returns the label with the
highest count. Ties are broken in favour of the lexicographically smallest
label. It returns "" for an empty map.
*/
func MajorityLabel(counts map[string]int) string {
	var label string
	best := -1
	for _, l := range sortedKeys(counts) {
		if counts[l] > best {
			label = l
			best = counts[l]
		}
	}
	return label
}

// entropyOf computes the entropy of a distribution given as counts over a
// total. Labels are visited in lexicographic order so that equal
// distributions always produce bitwise equal entropies.
func entropyOf(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	labels := sortedKeys(counts)
	p := make([]float64, 0, len(labels))
	for _, l := range labels {
		p = append(p, float64(counts[l])/float64(total))
	}
	return stat.Entropy(p) / math.Ln2
}

func countValues(values []string) map[string]int {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	return counts
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// improves returns whether gain beats best by more than float noise, so
// that gains equal up to rounding keep the first one found.
func improves(gain, best float64) bool {
	return gain > best+gainTolerance
}

func cleanGain(gain float64) float64 {
	if math.Abs(gain) < gainTolerance {
		return 0
	}
	return gain
}
