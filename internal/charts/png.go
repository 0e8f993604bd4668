// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

import (
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tomtom215/pandemicpulse/internal/analytics"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

const (
	pngWidth  = 1024
	pngHeight = 512
)

// RenderBarPNG writes a PNG bar chart of the n countries with the most cases.
func RenderBarPNG(w io.Writer, table []models.CountryRecord, n int, theme Theme) error {
	top := analytics.TopN(table, n)
	if len(top) == 0 {
		return renderErr("bar", "no countries to plot")
	}

	var maxCases int64
	for _, r := range top {
		if r.Cases > maxCases {
			maxCases = r.Cases
		}
	}
	if maxCases == 0 {
		return renderErr("bar", "all case counts are zero")
	}

	p := theme.Palette()
	bars := make([]chart.Value, 0, len(top))
	for _, r := range top {
		fill := drawing.ColorFromHex(interpolate(viridisRamp, float64(r.Cases)/float64(maxCases))[1:])
		bars = append(bars, chart.Value{
			Label: r.Name,
			Value: float64(r.Cases),
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	bc := chart.BarChart{
		Title:      "Top Countries by Total Cases",
		TitleStyle: chart.Style{FontColor: textColor(p)},
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   pngWidth / (len(bars) * 2),
		Background: chart.Style{
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
			FillColor: backgroundColor(p),
		},
		Canvas: chart.Style{FillColor: backgroundColor(p)},
		XAxis:  chart.Style{FontColor: textColor(p), StrokeColor: textColor(p)},
		// Zero-based; go-chart otherwise starts the axis at the smallest bar.
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: textColor(p), StrokeColor: textColor(p)},
			ValueFormatter: abbreviate,
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(maxCases)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return &RenderError{Chart: "bar", Reason: "png encoding failed", Err: err}
	}
	return nil
}

// RenderDonutPNG writes a PNG donut of the case distribution.
func RenderDonutPNG(w io.Writer, d models.Distribution, theme Theme) error {
	if d.ActivePercent+d.RecoveredPercent+d.DeathsPercent <= 0 {
		return renderErr("donut", "distribution is empty")
	}
	if _, err := BuildDonut(d, theme); err != nil {
		return err
	}

	p := theme.Palette()
	slice := func(label, hex string, v float64) chart.Value {
		c := drawing.ColorFromHex(hex[1:])
		return chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: c, StrokeColor: backgroundColor(p), FontColor: textColor(p)},
		}
	}

	dc := chart.DonutChart{
		Title:      "Case Distribution",
		TitleStyle: chart.Style{FontColor: textColor(p)},
		Width:      pngHeight,
		Height:     pngHeight,
		Background: chart.Style{FillColor: backgroundColor(p)},
		Canvas:     chart.Style{FillColor: backgroundColor(p)},
		Values: []chart.Value{
			slice("Active", p.Warning, d.ActivePercent),
			slice("Recovered", p.Success, d.RecoveredPercent),
			slice("Deaths", p.Danger, d.DeathsPercent),
		},
	}
	if err := dc.Render(chart.PNG, w); err != nil {
		return &RenderError{Chart: "donut", Reason: "png encoding failed", Err: err}
	}
	return nil
}

func backgroundColor(p Palette) drawing.Color {
	return drawing.ColorFromHex(p.Background[1:])
}

func textColor(p Palette) drawing.Color {
	return drawing.ColorFromHex(p.Text[1:])
}

// abbreviate formats axis values as 12M, 340K and so on.
func abbreviate(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	switch {
	case f >= 1e9:
		return chart.FloatValueFormatterWithFormat(f/1e9, "%.1fB")
	case f >= 1e6:
		return chart.FloatValueFormatterWithFormat(f/1e6, "%.0fM")
	case f >= 1e3:
		return chart.FloatValueFormatterWithFormat(f/1e3, "%.0fK")
	default:
		return chart.FloatValueFormatterWithFormat(f, "%.0f")
	}
}
