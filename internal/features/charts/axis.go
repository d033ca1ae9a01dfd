package charts

import (
	"math"
	"strconv"
)

// axisMargin pads the data range on both ends before picking ticks.
const axisMargin = 0.05

// niceSteps are the allowed tick step mantissas.
var niceSteps = []float64{1, 2, 2.5, 5, 10}

// niceTicks returns evenly spaced round tick values inside [lo, hi], aiming
// for about target ticks, and the step between them.
func niceTicks(lo, hi float64, target int) ([]float64, float64) {
	if target < 1 {
		target = 1
	}
	if hi <= lo {
		return []float64{lo}, 0
	}

	raw := (hi - lo) / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := niceSteps[len(niceSteps)-1] * mag
	for _, s := range niceSteps {
		if s*mag >= raw {
			step = s * mag
			break
		}
	}

	eps := step * 1e-9
	var ticks []float64
	for k := math.Ceil(lo/step - 1e-9); k*step <= hi+eps; k++ {
		v := k * step
		if math.Abs(v) < eps {
			v = 0
		}
		ticks = append(ticks, v)
	}
	return ticks, step
}

// paddedRange widens [lo, hi] by axisMargin of its span on both sides.
func paddedRange(lo, hi float64) (float64, float64) {
	span := hi - lo
	return lo - span*axisMargin, hi + span*axisMargin
}

// formatTick prints v with just enough decimals for step.
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
		if math.Abs(step*math.Pow(10, float64(decimals))-math.Round(step*math.Pow(10, float64(decimals)))) > 1e-9 {
			decimals++
		}
	} else if step > 0 && math.Abs(step-math.Round(step)) > 1e-9 {
		decimals = 1
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		s = "0"
	}
	return s
}
