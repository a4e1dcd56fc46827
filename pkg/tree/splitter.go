package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"id3/pkg/model"
)

// NoGain is reported for a continuous attribute that offers no threshold,
// i.e. every row shares the same value.
const NoGain = -math.MaxFloat64

// Split describes the best way found to partition rows on one attribute.
type Split struct {
	Attribute model.AttributeID
	Gain      float64
	// Threshold is only meaningful for continuous attributes
	Threshold float64
}

// Entropy returns the Shannon entropy, in bits, of the label distribution given by counts.
// Empty or all-zero input has entropy 0.
func Entropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	// stat.Entropy skips zero probabilities and works in nats
	return stat.Entropy(p) / math.Ln2
}

func labelCounts(rows []model.Row, target *model.Attribute) []int {
	counts := make([]int, target.Domain.Size())
	for _, r := range rows {
		counts[r.Label(target.ID)]++
	}
	return counts
}

// DiscreteGain returns the information gain of partitioning rows on every category of attribute.
func DiscreteGain(rows []model.Row, attribute, target *model.Attribute) float64 {
	return discreteGain(rows, attribute, target, Entropy(labelCounts(rows, target)))
}

func discreteGain(rows []model.Row, attribute, target *model.Attribute, baseEntropy float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	counts := make([][]int, attribute.Domain.Size())
	sizes := make([]int, attribute.Domain.Size())
	for i := range counts {
		counts[i] = make([]int, target.Domain.Size())
	}
	for _, r := range rows {
		v := int(r.Value(attribute.ID))
		counts[v][r.Label(target.ID)]++
		sizes[v]++
	}

	gain := baseEntropy
	for v := range counts {
		gain -= float64(sizes[v]) / float64(len(rows)) * Entropy(counts[v])
	}
	return gain
}

// ContinuousGain returns the best information gain achievable by a single threshold on
// attribute, together with that threshold. Thresholds are midpoints between adjacent
// distinct values; ties keep the lowest threshold. When all rows share one value the
// gain is NoGain.
func ContinuousGain(rows []model.Row, attribute, target *model.Attribute) (float64, float64) {
	return continuousGain(rows, attribute, target, Entropy(labelCounts(rows, target)))
}

func continuousGain(rows []model.Row, attribute, target *model.Attribute, baseEntropy float64) (float64, float64) {
	sorted := make([]model.Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(attribute.ID) < sorted[j].Value(attribute.ID)
	})

	below := make([]int, target.Domain.Size())
	above := labelCounts(sorted, target)
	numBelow, numAbove := 0, len(sorted)
	total := float64(len(sorted))

	bestGain, bestThreshold := NoGain, 0.0
	for i := 0; i < len(sorted)-1; i++ {
		label := sorted[i].Label(target.ID)
		below[label]++
		above[label]--
		numBelow++
		numAbove--

		// A threshold is only tried once the last row of a run of equal values has moved
		// below, even when the labels change inside the run.
		current, next := sorted[i].Value(attribute.ID), sorted[i+1].Value(attribute.ID)
		if current == next {
			continue
		}

		gain := baseEntropy -
			float64(numBelow)/total*Entropy(below) -
			float64(numAbove)/total*Entropy(above)
		if gain > bestGain {
			bestGain = gain
			bestThreshold = midpoint(current, next)
		}
	}
	return bestGain, bestThreshold
}

// midpoint returns a threshold t with lower <= t < upper, so lower always falls on the
// low side and upper on the high side even for adjacent floats.
func midpoint(lower, upper float64) float64 {
	t := lower + (upper-lower)/2
	if t >= upper {
		return lower
	}
	return t
}
