package charts

import (
	"math"

	"support-chart/internal/dataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Violin is the kernel density estimate of one channel, evaluated on an
// evenly spaced support grid.
type Violin struct {
	Channel   string
	Support   []float64
	Density   []float64
	Bandwidth float64
	Summary   dataset.ChannelSummary
}

// ScottBandwidth is the Gaussian kernel width sd * n^(-1/5).
func ScottBandwidth(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
}

// EstimateViolin evaluates a Gaussian KDE on gridSize points spanning the data
// extended by cut bandwidths on both sides. Constant or single-valued input
// yields a single-point support with zero density.
func EstimateViolin(channel string, values []float64, gridSize int, cut float64) Violin {
	v := Violin{
		Channel: channel,
		Summary: dataset.SummarizeValues(channel, values),
	}
	if len(values) == 0 {
		return v
	}

	bw := ScottBandwidth(values)
	if bw <= 0 || math.IsNaN(bw) || gridSize < 2 {
		v.Support = []float64{v.Summary.Min}
		v.Density = []float64{0}
		return v
	}
	v.Bandwidth = bw

	lo := v.Summary.Min - cut*bw
	hi := v.Summary.Max + cut*bw
	v.Support = floats.Span(make([]float64, gridSize), lo, hi)
	v.Density = make([]float64, gridSize)

	norm := 1 / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
	for i, y := range v.Support {
		var sum float64
		for _, x := range values {
			z := (y - x) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		v.Density[i] = sum * norm
	}
	return v
}

// MaxDensity is the peak of the estimate, 0 for an empty violin.
func (v Violin) MaxDensity() float64 {
	if len(v.Density) == 0 {
		return 0
	}
	return floats.Max(v.Density)
}

// DensityAt linearly interpolates the estimate at y; 0 outside the support.
func (v Violin) DensityAt(y float64) float64 {
	n := len(v.Support)
	if n < 2 || y < v.Support[0] || y > v.Support[n-1] {
		return 0
	}
	step := (v.Support[n-1] - v.Support[0]) / float64(n-1)
	pos := (y - v.Support[0]) / step
	i := int(pos)
	if i >= n-1 {
		return v.Density[n-1]
	}
	t := pos - float64(i)
	return v.Density[i]*(1-t) + v.Density[i+1]*t
}

// Degenerate reports whether the violin has no drawable area.
func (v Violin) Degenerate() bool {
	return len(v.Support) < 2
}

// EstimateViolins builds one violin per channel, in channel order.
func EstimateViolins(ds *dataset.Dataset, theme Theme) []Violin {
	out := make([]Violin, 0, len(ds.Channels))
	for _, ch := range ds.Channels {
		out = append(out, EstimateViolin(ch, ds.Values(ch), theme.GridSize, theme.Cut))
	}
	return out
}

// widthScale converts density into half-width in category slot units, so the
// densest violin overall spans ViolinWidth of its slot.
func widthScale(violins []Violin, violinWidth float64) float64 {
	var peak float64
	for _, v := range violins {
		peak = math.Max(peak, v.MaxDensity())
	}
	if peak == 0 {
		return 0
	}
	return violinWidth / 2 / peak
}

// valueRange spans every violin support and data point.
func valueRange(violins []Violin) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range violins {
		if v.Summary.Count == 0 {
			continue
		}
		lo = math.Min(lo, math.Min(v.Summary.Min, v.Support[0]))
		hi = math.Max(hi, math.Max(v.Summary.Max, v.Support[len(v.Support)-1]))
	}
	if math.IsInf(lo, 1) {
		return 0, 1, false
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi, true
}
