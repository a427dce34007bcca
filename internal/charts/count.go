package charts

import (
	"cmp"
	"iter"
	"slices"
)

// topN is the length of the ranked bar charts.
const topN = 10

// tally counts labels and remembers the order they were first seen in.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, ok := t.counts[label]; !ok {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *tally) addAll(labels iter.Seq[string]) *tally {
	for l := range labels {
		t.add(l)
	}
	return t
}

// ranked returns the labels by count, highest first. Equal counts keep the
// order in which the labels were first seen.
func (t *tally) ranked() []Point {
	points := t.points()
	slices.SortStableFunc(points, func(a, b Point) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return points
}

func (t *tally) points() []Point {
	points := make([]Point, len(t.order))
	for i, l := range t.order {
		points[i] = Point{Label: l, Value: float64(t.counts[l])}
	}
	return points
}

func top(points []Point, n int) []Point {
	if len(points) > n {
		return points[:n]
	}
	return points
}

// yearTally counts rows per year, reported in ascending year order.
type yearTally map[float64]int

func (y yearTally) points() []Point {
	years := make([]float64, 0, len(y))
	for yr := range y {
		years = append(years, yr)
	}
	slices.Sort(years)

	points := make([]Point, len(years))
	for i, yr := range years {
		points[i] = Point{Label: yearLabel(yr), Value: float64(y[yr])}
	}
	return points
}
