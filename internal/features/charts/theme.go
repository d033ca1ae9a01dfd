package charts

import (
	"image/color"
	"math"
)

// Theme holds every visual constant of the chart. Sizes are in points and
// are converted to pixels with the figure DPI.
type Theme struct {
	Background color.Color
	Grid       color.Color
	Spine      color.Color
	Text       color.Color
	Edge       color.Color // violin outline and quartile lines
	Palette    []color.Color

	TitleSizePt float64
	LabelSizePt float64
	TickSizePt  float64
	LineSpacing float64 // multiple of font height between title lines

	LineWidthPt  float64
	GridWidthPt  float64
	SpineWidthPt float64

	FigurePadPt float64
	TitlePadPt  float64
	LabelPadPt  float64
	TickPadPt   float64
	RightPadPt  float64

	QuartileDashPt []float64
	MedianDashPt   []float64

	ViolinWidth float64 // share of a category slot used by the widest violin
	GridSize    int     // KDE evaluation points
	Cut         float64 // support extends this many bandwidths past the data
}

const talkScale = 1.5

// Set2 qualitative palette
var set2 = []color.RGBA{
	{102, 194, 165, 255},
	{252, 141, 98, 255},
	{141, 160, 203, 255},
	{231, 138, 195, 255},
	{166, 216, 84, 255},
	{255, 217, 47, 255},
	{229, 196, 148, 255},
	{179, 179, 179, 255},
}

// WhiteGridTalk is a white background with horizontal light gray grid lines,
// fonts and lines scaled up for presentation, and a softened Set2 palette.
func WhiteGridTalk() Theme {
	palette := make([]color.Color, len(set2))
	for i, c := range set2 {
		palette[i] = desaturate(c, 0.75)
	}

	return Theme{
		Background: color.White,
		Grid:       color.RGBA{204, 204, 204, 255},
		Spine:      color.RGBA{204, 204, 204, 255},
		Text:       color.RGBA{38, 38, 38, 255},
		Edge:       color.RGBA{66, 66, 66, 255},
		Palette:    palette,

		TitleSizePt: 16,
		LabelSizePt: 14,
		TickSizePt:  11 * talkScale,
		LineSpacing: 1.2,

		LineWidthPt:  1.2 * talkScale,
		GridWidthPt:  1 * talkScale,
		SpineWidthPt: 1.25 * talkScale,

		FigurePadPt: 7.2, // 0.1in
		TitlePadPt:  20,
		LabelPadPt:  4 * talkScale,
		TickPadPt:   3.5 * talkScale,
		RightPadPt:  10,

		QuartileDashPt: []float64{1.5, 3},
		MedianDashPt:   []float64{6, 3},

		ViolinWidth: 0.8,
		GridSize:    100,
		Cut:         2,
	}
}

// PaletteColor cycles through the palette.
func (t Theme) PaletteColor(i int) color.Color {
	if len(t.Palette) == 0 {
		return t.Edge
	}
	return t.Palette[i%len(t.Palette)]
}

// desaturate scales the HLS saturation of c by prop.
func desaturate(c color.RGBA, prop float64) color.RGBA {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	h, l, s := rgbToHLS(r, g, b)
	r, g, b = hlsToRGB(h, l, s*prop)
	return color.RGBA{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: c.A,
	}
}

func rgbToHLS(r, g, b float64) (h, l, s float64) {
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	l = (minc + maxc) / 2
	if maxc == minc {
		return 0, l, 0
	}
	d := maxc - minc
	if l <= 0.5 {
		s = d / (maxc + minc)
	} else {
		s = d / (2 - maxc - minc)
	}
	rc := (maxc - r) / d
	gc := (maxc - g) / d
	bc := (maxc - b) / d
	switch maxc {
	case r:
		h = bc - gc
	case g:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h = math.Mod(h/6, 1)
	if h < 0 {
		h++
	}
	return h, l, s
}

func hlsToRGB(h, l, s float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return hueChannel(m1, m2, h+1.0/3), hueChannel(m1, m2, h), hueChannel(m1, m2, h-1.0/3)
}

func hueChannel(m1, m2, h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	switch {
	case h < 1.0/6:
		return m1 + (m2-m1)*h*6
	case h < 0.5:
		return m2
	case h < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-h)*6
	}
	return m1
}
