package charts

import (
	"math"
	"testing"

	"support-chart/internal/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trapezoid(xs, ys []float64) float64 {
	var area float64
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	return area
}

func TestScottBandwidth(t *testing.T) {
	assert.Equal(t, 0.0, ScottBandwidth(nil))
	assert.Equal(t, 0.0, ScottBandwidth([]float64{3}))

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	want := math.Sqrt(32.0/7.0) * math.Pow(8, -0.2)
	assert.InDelta(t, want, ScottBandwidth(values), 1e-12)
}

func TestEstimateViolin_DensityIntegratesToOne(t *testing.T) {
	ds, err := dataset.Generate(dataset.Options{
		Channels: dataset.DefaultChannels,
		Total:    400,
		Seed:     42,
		Floor:    1,
	})
	require.NoError(t, err)

	for _, ch := range ds.Channels {
		v := EstimateViolin(ch, ds.Values(ch), 100, 2)
		require.Len(t, v.Support, 100)
		require.Len(t, v.Density, 100)
		assert.Greater(t, v.Bandwidth, 0.0)

		// cut=2 leaves about 2.3% of each edge kernel outside the grid
		area := trapezoid(v.Support, v.Density)
		assert.InDelta(t, 1.0, area, 0.03, "channel %s", ch)

		assert.InDelta(t, v.Summary.Min-2*v.Bandwidth, v.Support[0], 1e-9)
		assert.InDelta(t, v.Summary.Max+2*v.Bandwidth, v.Support[99], 1e-9)
		for _, d := range v.Density {
			assert.GreaterOrEqual(t, d, 0.0)
		}
	}
}

func TestEstimateViolin_Degenerate(t *testing.T) {
	v := EstimateViolin("flat", []float64{5, 5, 5}, 100, 2)
	assert.True(t, v.Degenerate())
	assert.Equal(t, []float64{5}, v.Support)
	assert.Equal(t, 0.0, v.MaxDensity())
	assert.Equal(t, 3, v.Summary.Count)

	empty := EstimateViolin("none", nil, 100, 2)
	assert.True(t, empty.Degenerate())
	assert.Equal(t, 0, empty.Summary.Count)
}

func TestViolin_DensityAt(t *testing.T) {
	v := Violin{
		Support: []float64{0, 1, 2},
		Density: []float64{0, 1, 0.5},
	}

	assert.Equal(t, 0.0, v.DensityAt(-0.1))
	assert.Equal(t, 0.0, v.DensityAt(2.1))
	assert.InDelta(t, 0.5, v.DensityAt(0.5), 1e-12)
	assert.InDelta(t, 1.0, v.DensityAt(1), 1e-12)
	assert.InDelta(t, 0.75, v.DensityAt(1.5), 1e-12)
	assert.InDelta(t, 0.5, v.DensityAt(2), 1e-12)
}

func TestWidthScale(t *testing.T) {
	violins := []Violin{
		{Density: []float64{0.1, 0.4}},
		{Density: []float64{0.2, 0.1}},
	}
	// densest violin spans 0.8 of its slot
	assert.InDelta(t, 1.0, widthScale(violins, 0.8), 1e-12)
	assert.Equal(t, 0.0, widthScale(nil, 0.8))
}

func TestValueRange(t *testing.T) {
	violins := []Violin{
		{Support: []float64{-1, 10}, Summary: dataset.ChannelSummary{Count: 2, Min: 1, Max: 8}},
		{Support: []float64{3}, Summary: dataset.ChannelSummary{Count: 1, Min: 3, Max: 3}},
		{Summary: dataset.ChannelSummary{}},
	}
	lo, hi, ok := valueRange(violins)
	assert.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 10.0, hi)

	_, _, ok = valueRange(nil)
	assert.False(t, ok)

	lo, hi, ok = valueRange(violins[1:2])
	assert.True(t, ok)
	assert.Equal(t, 2.5, lo)
	assert.Equal(t, 3.5, hi)
}
