package charts

import (
	"fmt"
	"image"
	"math"
	"strings"

	"support-chart/internal/dataset"

	"github.com/fogleman/gg"
)

const yTickTarget = 6

// plotArea is the axes rectangle in pixels together with its value range.
type plotArea struct {
	left, right, top, bottom float64
	yMin, yMax               float64
	slots                    int
}

func (a plotArea) slotWidth() float64 {
	return (a.right - a.left) / float64(a.slots)
}

// xCenter is the horizontal center of category i.
func (a plotArea) xCenter(i int) float64 {
	return a.left + (float64(i)+0.5)*a.slotWidth()
}

// yPixel maps a value onto the vertical pixel axis.
func (a plotArea) yPixel(v float64) float64 {
	return a.bottom - (v-a.yMin)/(a.yMax-a.yMin)*(a.bottom-a.top)
}

// Render draws the violin chart of ds onto a square canvas of
// FigureInches*DPI pixels and returns the raster.
func Render(ds *dataset.Dataset, opts Options) (image.Image, error) {
	if ds == nil || len(ds.Channels) == 0 {
		return nil, fmt.Errorf("no channels to render")
	}
	opts = opts.withDefaults()
	theme := opts.Theme
	px := func(pt float64) float64 { return pt * opts.DPI / 72 }

	side := int(math.Round(opts.FigureInches * opts.DPI))
	if side <= 0 {
		return nil, fmt.Errorf("figure size %vin at %v DPI is empty", opts.FigureInches, opts.DPI)
	}

	ff, err := loadFaces(opts.FontPath, opts.DPI, theme)
	if err != nil {
		return nil, err
	}

	violins := EstimateViolins(ds, theme)
	lo, hi, _ := valueRange(violins)
	yMin, yMax := paddedRange(lo, hi)
	ticks, step := niceTicks(yMin, yMax, yTickTarget)
	tickLabels := make([]string, len(ticks))
	for i, v := range ticks {
		tickLabels[i] = formatTick(v, step)
	}

	dc := gg.NewContext(side, side)
	dc.SetColor(theme.Background)
	dc.Clear()

	// Measure every text block first so the axes take whatever is left.
	pad := px(theme.FigurePadPt)
	titleLines := strings.Split(opts.Title, "\n")

	dc.SetFontFace(ff.title)
	titleLineHeight := dc.FontHeight() * theme.LineSpacing
	titleHeight := titleLineHeight * float64(len(titleLines))

	dc.SetFontFace(ff.label)
	labelHeight := dc.FontHeight()

	dc.SetFontFace(ff.tick)
	tickHeight := dc.FontHeight()
	var maxTickWidth float64
	for _, s := range tickLabels {
		w, _ := dc.MeasureString(s)
		maxTickWidth = math.Max(maxTickWidth, w)
	}

	area := plotArea{
		left:   pad + labelHeight + px(theme.LabelPadPt) + maxTickWidth + px(theme.TickPadPt),
		right:  float64(side) - pad - px(theme.RightPadPt),
		top:    pad + titleHeight + px(theme.TitlePadPt),
		bottom: float64(side) - pad - labelHeight - px(theme.LabelPadPt) - tickHeight - px(theme.TickPadPt),
		yMin:   yMin,
		yMax:   yMax,
		slots:  len(violins),
	}
	if area.right <= area.left || area.bottom <= area.top {
		return nil, fmt.Errorf("figure too small for labels: %dx%d px", side, side)
	}

	dc.SetLineCap(gg.LineCapButt)

	// Grid runs along the value axis only.
	dc.SetColor(theme.Grid)
	dc.SetLineWidth(px(theme.GridWidthPt))
	for _, v := range ticks {
		y := area.yPixel(v)
		dc.DrawLine(area.left, y, area.right, y)
		dc.Stroke()
	}

	scale := widthScale(violins, theme.ViolinWidth) * area.slotWidth()
	for i, v := range violins {
		drawViolin(dc, area, v, i, scale, theme, px)
	}

	// Top and right spines are left out.
	dc.SetDash()
	dc.SetColor(theme.Spine)
	dc.SetLineWidth(px(theme.SpineWidthPt))
	dc.DrawLine(area.left, area.top, area.left, area.bottom)
	dc.Stroke()
	dc.DrawLine(area.left, area.bottom, area.right, area.bottom)
	dc.Stroke()

	dc.SetColor(theme.Text)
	dc.SetFontFace(ff.tick)
	for i, s := range tickLabels {
		dc.DrawStringAnchored(s, area.left-px(theme.TickPadPt), area.yPixel(ticks[i]), 1, 0.35)
	}
	for i, v := range violins {
		dc.DrawStringAnchored(v.Channel, area.xCenter(i), area.bottom+px(theme.TickPadPt), 0.5, 0.8)
	}

	dc.SetFontFace(ff.label)
	dc.DrawStringAnchored(opts.XLabel, (area.left+area.right)/2,
		area.bottom+px(theme.TickPadPt)+tickHeight+px(theme.LabelPadPt), 0.5, 0.8)

	yLabelX := pad
	yLabelY := (area.top + area.bottom) / 2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), yLabelX, yLabelY)
	dc.DrawStringAnchored(opts.YLabel, yLabelX, yLabelY, 0.5, 0.8)
	dc.Pop()

	dc.SetFontFace(ff.title)
	centerX := (area.left + area.right) / 2
	for i, line := range titleLines {
		dc.DrawStringAnchored(line, centerX, pad+float64(i)*titleLineHeight, 0.5, 0.8)
	}

	return dc.Image(), nil
}

func drawViolin(dc *gg.Context, area plotArea, v Violin, i int, scale float64, theme Theme, px func(float64) float64) {
	if v.Summary.Count == 0 {
		return
	}
	cx := area.xCenter(i)

	if !v.Degenerate() && scale > 0 {
		dc.NewSubPath()
		for j, y := range v.Support {
			x := cx + v.Density[j]*scale
			if j == 0 {
				dc.MoveTo(x, area.yPixel(y))
			} else {
				dc.LineTo(x, area.yPixel(y))
			}
		}
		for j := len(v.Support) - 1; j >= 0; j-- {
			dc.LineTo(cx-v.Density[j]*scale, area.yPixel(v.Support[j]))
		}
		dc.ClosePath()

		dc.SetColor(theme.PaletteColor(i))
		dc.FillPreserve()
		dc.SetColor(theme.Edge)
		dc.SetLineWidth(px(theme.LineWidthPt))
		dc.SetDash()
		dc.Stroke()
	}

	// Quartile markers span the violin at their value.
	dc.SetColor(theme.Edge)
	dc.SetLineWidth(px(theme.LineWidthPt))
	quartiles := []struct {
		value float64
		dash  []float64
	}{
		{v.Summary.Q1, theme.QuartileDashPt},
		{v.Summary.Median, theme.MedianDashPt},
		{v.Summary.Q3, theme.QuartileDashPt},
	}
	for _, q := range quartiles {
		half := v.DensityAt(q.value) * scale
		if v.Degenerate() {
			half = theme.ViolinWidth / 4 * area.slotWidth()
		}
		dashes := make([]float64, len(q.dash))
		for k, d := range q.dash {
			dashes[k] = px(d)
		}
		dc.SetDash(dashes...)
		y := area.yPixel(q.value)
		dc.DrawLine(cx-half, y, cx+half, y)
		dc.Stroke()
	}
	dc.SetDash()
}
