package ui

import (
	"math"
	"strconv"

	"atmos-ca/internal/core"
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusLine     = 16
	sectionGap     = 14
	swatchSize     = 10
	defaultStep    = 0.05
)

// statusTop is the baseline of the first status line.
func statusTop() int {
	return panelPadding + headerBaseline + statusLine
}

// controlsTop is where the first control row starts below n status lines.
func controlsTop(n int) int {
	return statusTop() + max(n-1, 0)*statusLine + sectionGap
}

// legendTop is the baseline of the legend title below n status lines and c
// control rows.
func legendTop(n, c int) int {
	return controlsTop(n) + c*lineHeight + sectionGap
}

// controlStep returns the value one click moves ctrl to from current, clamped
// to its bounds, and whether the click changes anything.
func controlStep(ctrl core.ParameterControl, current float64, direction int) (float64, bool) {
	if direction == 0 {
		return current, false
	}
	switch ctrl.Type {
	case core.ParamTypeInt:
		step := math.Round(ctrl.Step)
		if step <= 0 {
			step = 1
		}
		target := current + float64(direction)*step
		if ctrl.HasMin {
			target = math.Max(target, math.Round(ctrl.Min))
		}
		if ctrl.HasMax {
			target = math.Min(target, math.Round(ctrl.Max))
		}
		return target, target != current
	case core.ParamTypeFloat:
		step := ctrl.Step
		if step <= 0 {
			step = defaultStep
		}
		target := current + float64(direction)*step
		if ctrl.HasMin {
			target = math.Max(target, ctrl.Min)
		}
		if ctrl.HasMax {
			target = math.Min(target, ctrl.Max)
		}
		return target, math.Abs(target-current) >= 1e-9
	default:
		return current, false
	}
}

// parseControlValue reads a snapshot value for ctrl.
func parseControlValue(ctrl core.ParameterControl, raw string) (float64, bool) {
	switch ctrl.Type {
	case core.ParamTypeInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// formatControlValue prints v with a precision that follows the step size.
func formatControlValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = defaultStep
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// statusText joins a status line, wrapped to width characters.
func statusText(line core.StatusLine, width int) []string {
	return wrapText(line.Label+": "+line.Value, width)
}
