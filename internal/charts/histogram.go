package charts

import (
	"math"

	"github.com/go-gota/gota/series"
)

const (
	histogramBins = 20
	densityPoints = 200
)

// histogram bins values into equal-width bins spanning [min, max] and
// overlays a Gaussian kernel density estimate scaled to counts.
func histogram(values []float64, bins int) *Histogram {
	h := &Histogram{Bins: []Bin{}}
	if len(values) == 0 {
		return h
	}

	s := series.Floats(values)
	lo, hi := s.Min(), s.Max()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	h.Bins = make([]Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = Bin{Lower: lo + float64(i)*width, Upper: lo + float64(i+1)*width}
	}
	h.Bins[bins-1].Upper = hi

	for _, v := range values {
		i := int((v - lo) / width)
		i = max(0, min(i, bins-1))
		h.Bins[i].Count++
	}

	h.Density = density(values, s.StdDev(), s.Min(), s.Max(), float64(len(values))*width)
	return h
}

// density evaluates a Gaussian KDE with Scott's bandwidth on an even grid
// over [lo, hi], multiplied by scale. It needs at least two distinct values.
func density(values []float64, std, lo, hi, scale float64) []Sample {
	n := float64(len(values))
	if len(values) < 2 || std == 0 || math.IsNaN(std) {
		return nil
	}
	bw := std * math.Pow(n, -1.0/5)
	norm := 1 / (n * bw * math.Sqrt(2*math.Pi))

	step := (hi - lo) / float64(densityPoints-1)
	out := make([]Sample, densityPoints)
	for i := range out {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range values {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = Sample{X: x, Y: sum * norm * scale}
	}
	out[densityPoints-1].X = hi
	return out
}
