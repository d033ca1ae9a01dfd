package charts

import (
	"fmt"
	"time"

	"support-chart/internal/dataset"
	"support-chart/internal/infra/fs"
	logging "support-chart/internal/infra/log"

	"go.uber.org/zap"
)

// SuccessMessage is printed once the chart file is written.
const SuccessMessage = "Chart generated successfully with violin plot!"

const (
	DefaultOutput       = "chart.png"
	DefaultSize         = 512
	DefaultDPI          = 64.0
	DefaultFigureInches = 8.0
	DefaultTitle        = "Customer Support Response Time Distribution\nby Channel"
	DefaultXLabel       = "Support Channel"
	DefaultYLabel       = "Response Time (minutes)"
)

type Options struct {
	Output       string
	Size         int     // final square edge in pixels
	DPI          float64 // render resolution
	FigureInches float64 // square figure edge before export
	Title        string  // lines separated by \n
	XLabel       string
	YLabel       string
	FontPath     string // optional TTF replacing the embedded fonts
	Theme        Theme
}

// DefaultOptions is the fixed chart: 8in at 64 DPI exported to 512x512 chart.png.
func DefaultOptions() Options {
	return Options{
		Output:       DefaultOutput,
		Size:         DefaultSize,
		DPI:          DefaultDPI,
		FigureInches: DefaultFigureInches,
		Title:        DefaultTitle,
		XLabel:       DefaultXLabel,
		YLabel:       DefaultYLabel,
		Theme:        WhiteGridTalk(),
	}
}

func (o Options) withDefaults() Options {
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.FigureInches <= 0 {
		o.FigureInches = DefaultFigureInches
	}
	if o.Theme.GridSize == 0 {
		o.Theme = WhiteGridTalk()
	}
	return o
}

// GenerateResponseTimeChart renders ds as a violin chart and writes the PNG to
// opts.Output. The output directory must exist.
func GenerateResponseTimeChart(ds *dataset.Dataset, opts Options) (string, error) {
	start := time.Now()
	opts = opts.withDefaults()

	img, err := Render(ds, opts)
	if err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	data, err := Export(img, opts)
	if err != nil {
		return "", fmt.Errorf("failed to export chart: %w", err)
	}

	fileSize, err := fs.WriteFile(opts.Output, data)
	if err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	logging.LogInfo("Response time chart generated",
		zap.String("filename", opts.Output),
		zap.Int64("fileSize", fileSize),
		zap.Int("size", opts.Size),
		zap.Int("channels", len(ds.Channels)),
		zap.Int("samples", ds.Len()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))

	return opts.Output, nil
}
