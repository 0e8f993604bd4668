// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

import (
	"fmt"
	"math"
	"strconv"
)

// casesRamp runs from deep purple to deep orange.
var casesRamp = []string{"#4a148c", "#7b1fa2", "#9c27b0", "#e91e63", "#f44336", "#ff5722"}

var viridisRamp = []string{
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// interpolate returns the color at position v in [0, 1] along ramp, blending
// linearly between neighbouring stops.
func interpolate(ramp []string, v float64) string {
	segments := len(ramp) - 1
	if segments <= 0 {
		return ramp[0]
	}
	if math.IsNaN(v) || v <= 0 {
		return ramp[0]
	}
	pos := v * float64(segments)
	i := int(pos)
	if i >= segments {
		return ramp[segments]
	}
	t := pos - float64(i)

	r1, g1, b1 := hexRGB(ramp[i])
	r2, g2, b2 := hexRGB(ramp[i+1])
	return fmt.Sprintf("#%02x%02x%02x", lerp(r1, r2, t), lerp(g1, g2, t), lerp(b1, b2, t))
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

func hexRGB(hex string) (r, g, b uint8) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// stops samples ramp at n evenly spaced positions.
func stops(ramp []string, n int) ColorScale {
	if n < 2 {
		n = 2
	}
	scale := make(ColorScale, n)
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n-1)
		scale[i] = [2]any{pos, interpolate(ramp, pos)}
	}
	return scale
}
