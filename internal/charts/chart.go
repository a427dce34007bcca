package charts

// Mark is how a chart's data is meant to be drawn.
type Mark string

const (
	MarkBar           Mark = "bar"
	MarkHorizontalBar Mark = "barh"
	MarkLine          Mark = "line"
	MarkHistogram     Mark = "histogram"
)

// Chart is the data behind one rendered chart.
type Chart struct {
	Kind      Kind       `json:"kind"`
	Title     string     `json:"title"`
	Mark      Mark       `json:"mark"`
	XLabel    string     `json:"x_label"`
	YLabel    string     `json:"y_label"`
	Series    []Series   `json:"series"`
	Histogram *Histogram `json:"histogram,omitempty"`
}

// Series is a named sequence of labelled values.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Point is a category or x position and its count.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Histogram holds equal-width bins and an optional smoothed density curve
// scaled to the bin counts.
type Histogram struct {
	Bins    []Bin    `json:"bins"`
	Density []Sample `json:"density,omitempty"`
}

// Bin covers [Lower, Upper); the last bin also includes Upper.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Sample is one point of the density curve.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Total sums the values of every series, plus the bin counts of a
// histogram.
func (c *Chart) Total() float64 {
	var total float64
	for _, s := range c.Series {
		for _, p := range s.Points {
			total += p.Value
		}
	}
	if c.Histogram != nil {
		for _, b := range c.Histogram.Bins {
			total += float64(b.Count)
		}
	}
	return total
}
