// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

import (
	"fmt"
	"math"

	"github.com/tomtom215/pandemicpulse/internal/analytics"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

const (
	traceChoropleth = "choropleth"
	traceBar        = "bar"
	tracePie        = "pie"

	donutHole = 0.4
)

// caseBreaks are the fixed colorbar ticks; the maximum is appended at build time.
var caseBreaks = []int64{0, 20_000_000, 40_000_000, 60_000_000, 80_000_000, 100_000_000}

// Charts groups the three dashboard figures.
type Charts struct {
	Map   *Figure `json:"map"`
	Bar   *Figure `json:"bar"`
	Donut *Figure `json:"donut"`
}

// BuildAll builds every figure for dataset. topN bounds the bar chart.
func BuildAll(dataset *models.Dataset, theme Theme, topN int) (*Charts, error) {
	if dataset == nil {
		return nil, renderErr("dashboard", "no dataset")
	}

	m, err := BuildMap(dataset.Countries, theme)
	if err != nil {
		return nil, err
	}
	bar, err := BuildBar(dataset.Countries, topN, theme)
	if err != nil {
		return nil, err
	}
	donut, err := BuildDonut(dataset.Distribution, theme)
	if err != nil {
		return nil, err
	}
	return &Charts{Map: m, Bar: bar, Donut: donut}, nil
}

// BuildMap builds a choropleth of total cases keyed by ISO-3 code. Records
// without a code cannot be placed on the map and are skipped.
func BuildMap(table []models.CountryRecord, theme Theme) (*Figure, error) {
	trace := Trace{
		Type:         traceChoropleth,
		LocationMode: "ISO-3",
		HoverTemplate: "<b>%{hovertext}</b><br>" +
			"Total Cases: %{z:,.0f}<br>" +
			"Cases per Million: %{customdata[0]:,.0f}<extra></extra>",
	}

	var maxCases int64
	for _, r := range table {
		if r.CountryCode == "" {
			continue
		}
		if r.Cases < 0 {
			return nil, renderErr("map", fmt.Sprintf("negative case count for %s", r.Name))
		}
		trace.Locations = append(trace.Locations, r.CountryCode)
		trace.Z = append(trace.Z, r.Cases)
		trace.HoverText = append(trace.HoverText, r.Name)
		trace.CustomData = append(trace.CustomData, []any{math.Round(analytics.PerMillion(r.Cases, r.Population))})
		if r.Cases > maxCases {
			maxCases = r.Cases
		}
	}
	if len(trace.Locations) == 0 {
		return nil, renderErr("map", "no country has a location code")
	}

	tickVals, tickText := colorbarTicks(maxCases)
	zmin, zmax := 0.0, math.Max(float64(maxCases), 1)
	trace.ZMin, trace.ZMax = &zmin, &zmax
	trace.ColorScale = stops(casesRamp, len(caseBreaks)+1)
	trace.ColorBar = &ColorBar{
		Title:     &Title{Text: "Total Cases", Side: "right"},
		TickMode:  "array",
		TickVals:  tickVals,
		TickText:  tickText,
		Thickness: 20,
		Len:       300,
		LenMode:   "pixels",
	}

	fig := &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Margin: &Margin{L: 20, R: 20, T: 20, B: 20},
			Geo: &Geo{
				ProjectionType: "equirectangular",
				ShowFrame:      true,
				ShowCoastlines: true,
				ShowLand:       true,
				ShowOcean:      true,
				ShowCountries:  true,
				CountryWidth:   0.5,
			},
		},
	}
	ApplyTheme(fig, theme)
	return fig, nil
}

// colorbarTicks returns the fixed breaks followed by maxCases, labelled in
// millions. Plotly hides ticks that fall outside [0, maxCases].
func colorbarTicks(maxCases int64) ([]float64, []string) {
	vals := make([]float64, 0, len(caseBreaks)+1)
	text := make([]string, 0, len(caseBreaks)+1)
	for _, b := range caseBreaks {
		vals = append(vals, float64(b))
		text = append(text, millions(b))
	}
	vals = append(vals, float64(maxCases))
	text = append(text, millions(maxCases))
	return vals, text
}

func millions(v int64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%dM", v/1_000_000)
}

// BuildBar builds a bar chart of the n countries with the most cases. table
// must already be ordered by cases.
func BuildBar(table []models.CountryRecord, n int, theme Theme) (*Figure, error) {
	top := analytics.TopN(table, n)
	if len(top) == 0 {
		return nil, renderErr("bar", "no countries to plot")
	}

	trace := Trace{
		Type: traceBar,
		HoverTemplate: "<b>%{x}</b><br>" +
			"Total Cases: %{y:,.0f}<br>" +
			"Cases per Million: %{customdata[0]:,.0f}<extra></extra>",
		Marker: &Marker{ColorScale: stops(viridisRamp, len(viridisRamp))},
	}
	for _, r := range top {
		if r.Name == "" {
			return nil, renderErr("bar", "country without a name")
		}
		trace.X = append(trace.X, r.Name)
		trace.Y = append(trace.Y, r.Cases)
		trace.Marker.Color = append(trace.Marker.Color, r.Cases)
		trace.CustomData = append(trace.CustomData, []any{math.Round(analytics.PerMillion(r.Cases, r.Population))})
	}

	fig := &Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Margin: &Margin{L: 40, R: 20, T: 40, B: 0},
			XAxis:  &Axis{TickAngle: -45},
			YAxis:  &Axis{Title: &Title{Text: "Total Cases"}},
		},
	}
	ApplyTheme(fig, theme)
	return fig, nil
}

// BuildDonut builds the case distribution donut.
func BuildDonut(d models.Distribution, theme Theme) (*Figure, error) {
	values := []float64{d.ActivePercent, d.RecoveredPercent, d.DeathsPercent}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, renderErr("donut", "distribution is not a finite number")
		}
		if v < 0 || v > 100 {
			return nil, renderErr("donut", fmt.Sprintf("percentage %.2f outside [0, 100]", v))
		}
	}

	fig := &Figure{
		Data: []Trace{{
			Type:      tracePie,
			Labels:    []string{"Active", "Recovered", "Deaths"},
			Values:    values,
			Hole:      donutHole,
			TextInfo:  "percent",
			HoverInfo: "label+percent",
			Marker:    &Marker{},
		}},
		Layout: Layout{
			ShowLegend: true,
			Margin:     &Margin{L: 20, R: 20, T: 40, B: 20},
			Legend:     &Legend{Orientation: "h", X: 1, Y: 1.02, XAnchor: "right", YAnchor: "bottom"},
		},
	}
	ApplyTheme(fig, theme)
	return fig, nil
}

// ApplyTheme rewrites the style fields of fig for theme. Data fields are left
// untouched, so a figure may be restyled repeatedly.
func ApplyTheme(fig *Figure, theme Theme) {
	if fig == nil {
		return
	}
	p := theme.Palette()

	l := &fig.Layout
	l.PaperBGColor = "rgba(0,0,0,0)"
	l.PlotBGColor = "rgba(0,0,0,0)"
	l.Font = &Font{Color: p.Text}
	l.HoverLabel = &HoverLabel{BGColor: p.Hover, Font: &Font{Size: 12, Family: "Arial"}}
	if l.Legend != nil {
		l.Legend.Font = &Font{Color: p.Text}
	}
	if l.Geo != nil {
		l.Geo.FrameColor = p.Muted
		l.Geo.CoastlineColor = p.Text
		l.Geo.LandColor = p.Background
		l.Geo.OceanColor = p.Background
		l.Geo.CountryColor = p.Muted
		l.Geo.BGColor = "rgba(0,0,0,0)"
	}
	for _, axis := range []*Axis{l.XAxis, l.YAxis} {
		if axis != nil {
			axis.GridColor = p.Hover
			axis.TickFont = &Font{Color: p.Text}
		}
	}

	for i := range fig.Data {
		tr := &fig.Data[i]
		switch tr.Type {
		case traceChoropleth:
			if tr.ColorBar != nil {
				tr.ColorBar.BGColor = "rgba(0,0,0,0)"
				tr.ColorBar.TickColor = p.Text
				tr.ColorBar.TickFont = &Font{Color: p.Text}
				if tr.ColorBar.Title != nil {
					tr.ColorBar.Title.Font = &Font{Color: p.Text}
				}
			}
		case tracePie:
			if tr.Marker == nil {
				tr.Marker = &Marker{}
			}
			tr.Marker.Colors = []string{p.Warning, p.Success, p.Danger}
			tr.Marker.Line = &Line{Color: p.Background, Width: 1}
			tr.TextFont = &Font{Color: p.Text}
		}
	}
}
