package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ChannelSummary holds descriptive statistics for one channel.
type ChannelSummary struct {
	Channel string  `json:"channel"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// Summarize returns one summary per channel, in channel order.
func Summarize(d *Dataset) []ChannelSummary {
	out := make([]ChannelSummary, 0, len(d.Channels))
	for _, ch := range d.Channels {
		out = append(out, SummarizeValues(ch, d.Values(ch)))
	}
	return out
}

// SummarizeValues computes statistics over values without modifying them.
func SummarizeValues(channel string, values []float64) ChannelSummary {
	s := ChannelSummary{Channel: channel, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	s.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	s.Q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return s
}
