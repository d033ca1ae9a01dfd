package dataset

// Synthetic response-time dataset for the support channel chart
// Each channel gets an equal block of normally distributed samples
// Values are clamped to a floor after generation

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrNoChannels    = errors.New("no channels configured")
	ErrUnevenSamples = errors.New("sample count is not divisible by channel count")
)

// ChannelParams describes the response-time distribution of one support channel.
type ChannelParams struct {
	Name   string  `json:"name" mapstructure:"name"`
	Mean   float64 `json:"mean" mapstructure:"mean"`
	StdDev float64 `json:"stddev" mapstructure:"stddev"`
}

// DefaultChannels - Email slowest, Chat fastest
var DefaultChannels = []ChannelParams{
	{Name: "Email", Mean: 20, StdDev: 5},
	{Name: "Phone", Mean: 10, StdDev: 3},
	{Name: "Chat", Mean: 5, StdDev: 2},
	{Name: "Social Media", Mean: 15, StdDev: 4},
}

const (
	DefaultSamples = 400
	DefaultSeed    = 42
	DefaultFloor   = 1.0
)

type Sample struct {
	Channel      string  `json:"channel"`
	ResponseTime float64 `json:"response_time"`
}

// Dataset keeps samples in channel blocks, in the order of Channels.
type Dataset struct {
	Channels []string `json:"channels"`
	Samples  []Sample `json:"samples"`
	Seed     uint64   `json:"seed"`
	Floor    float64  `json:"floor"`
}

type Options struct {
	Channels []ChannelParams
	Total    int
	Seed     uint64
	Floor    float64
}

// Generate draws Total/len(Channels) values per channel and clamps them to Floor.
func Generate(opts Options) (*Dataset, error) {
	if len(opts.Channels) == 0 {
		return nil, ErrNoChannels
	}
	if opts.Total <= 0 || opts.Total%len(opts.Channels) != 0 {
		return nil, fmt.Errorf("%w: %d samples over %d channels", ErrUnevenSamples, opts.Total, len(opts.Channels))
	}

	perChannel := opts.Total / len(opts.Channels)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	ds := &Dataset{
		Channels: make([]string, 0, len(opts.Channels)),
		Samples:  make([]Sample, 0, opts.Total),
		Seed:     opts.Seed,
		Floor:    opts.Floor,
	}

	for _, ch := range opts.Channels {
		if ch.StdDev < 0 {
			return nil, fmt.Errorf("channel %q: negative stddev %v", ch.Name, ch.StdDev)
		}
		ds.Channels = append(ds.Channels, ch.Name)
		for i := 0; i < perChannel; i++ {
			ds.Samples = append(ds.Samples, Sample{
				Channel:      ch.Name,
				ResponseTime: rng.NormFloat64()*ch.StdDev + ch.Mean,
			})
		}
	}

	ds.clamp()
	return ds, nil
}

func (d *Dataset) clamp() {
	for i := range d.Samples {
		if d.Samples[i].ResponseTime < d.Floor {
			d.Samples[i].ResponseTime = d.Floor
		}
	}
}

// Values returns the response times of one channel in generation order.
func (d *Dataset) Values(channel string) []float64 {
	var out []float64
	for _, s := range d.Samples {
		if s.Channel == channel {
			out = append(out, s.ResponseTime)
		}
	}
	return out
}

// Counts maps channel name to number of samples.
func (d *Dataset) Counts() map[string]int {
	counts := make(map[string]int, len(d.Channels))
	for _, s := range d.Samples {
		counts[s.Channel]++
	}
	return counts
}

func (d *Dataset) Len() int { return len(d.Samples) }
