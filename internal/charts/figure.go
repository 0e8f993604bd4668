// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

// Figure is a Plotly figure. Only the attributes the dashboard uses are
// modelled.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly trace. Which fields are set depends on Type.
type Trace struct {
	Type          string     `json:"type"`
	Name          string     `json:"name,omitempty"`
	Locations     []string   `json:"locations,omitempty"`
	LocationMode  string     `json:"locationmode,omitempty"`
	Z             []int64    `json:"z,omitempty"`
	ZMin          *float64   `json:"zmin,omitempty"`
	ZMax          *float64   `json:"zmax,omitempty"`
	X             []string   `json:"x,omitempty"`
	Y             []int64    `json:"y,omitempty"`
	Labels        []string   `json:"labels,omitempty"`
	Values        []float64  `json:"values,omitempty"`
	Hole          float64    `json:"hole,omitempty"`
	HoverText     []string   `json:"hovertext,omitempty"`
	CustomData    [][]any    `json:"customdata,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	TextInfo      string     `json:"textinfo,omitempty"`
	HoverInfo     string     `json:"hoverinfo,omitempty"`
	ColorScale    ColorScale `json:"colorscale,omitempty"`
	ColorBar      *ColorBar  `json:"colorbar,omitempty"`
	Marker        *Marker    `json:"marker,omitempty"`
	TextFont      *Font      `json:"textfont,omitempty"`
}

// ColorScale is a list of [position, color] stops with positions in [0, 1].
type ColorScale [][2]any

// Marker styles bars and pie slices.
type Marker struct {
	Color      []int64    `json:"color,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	ColorScale ColorScale `json:"colorscale,omitempty"`
	Line       *Line      `json:"line,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Font struct {
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
	Family string `json:"family,omitempty"`
}

// ColorBar describes the choropleth legend.
type ColorBar struct {
	Title     *Title    `json:"title,omitempty"`
	TickMode  string    `json:"tickmode,omitempty"`
	TickVals  []float64 `json:"tickvals,omitempty"`
	TickText  []string  `json:"ticktext,omitempty"`
	Thickness int       `json:"thickness,omitempty"`
	Len       int       `json:"len,omitempty"`
	LenMode   string    `json:"lenmode,omitempty"`
	BGColor   string    `json:"bgcolor,omitempty"`
	TickColor string    `json:"tickcolor,omitempty"`
	TickFont  *Font     `json:"tickfont,omitempty"`
}

type Title struct {
	Text string `json:"text,omitempty"`
	Side string `json:"side,omitempty"`
	Font *Font  `json:"font,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Title     *Title `json:"title,omitempty"`
	TickAngle int    `json:"tickangle,omitempty"`
	GridColor string `json:"gridcolor,omitempty"`
	TickFont  *Font  `json:"tickfont,omitempty"`
}

// Geo configures the map projection of a choropleth.
type Geo struct {
	ProjectionType string  `json:"projection_type,omitempty"`
	ShowFrame      bool    `json:"showframe"`
	FrameColor     string  `json:"framecolor,omitempty"`
	ShowCoastlines bool    `json:"showcoastlines"`
	CoastlineColor string  `json:"coastlinecolor,omitempty"`
	ShowLand       bool    `json:"showland"`
	LandColor      string  `json:"landcolor,omitempty"`
	ShowOcean      bool    `json:"showocean"`
	OceanColor     string  `json:"oceancolor,omitempty"`
	ShowCountries  bool    `json:"showcountries"`
	CountryColor   string  `json:"countrycolor,omitempty"`
	CountryWidth   float64 `json:"countrywidth,omitempty"`
	BGColor        string  `json:"bgcolor,omitempty"`
}

type HoverLabel struct {
	BGColor string `json:"bgcolor,omitempty"`
	Font    *Font  `json:"font,omitempty"`
}

type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	Font        *Font   `json:"font,omitempty"`
}

// Layout is the figure-level Plotly configuration.
type Layout struct {
	Title        *Title      `json:"title,omitempty"`
	ShowLegend   bool        `json:"showlegend"`
	PaperBGColor string      `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string      `json:"plot_bgcolor,omitempty"`
	Font         *Font       `json:"font,omitempty"`
	Margin       *Margin     `json:"margin,omitempty"`
	Geo          *Geo        `json:"geo,omitempty"`
	XAxis        *Axis       `json:"xaxis,omitempty"`
	YAxis        *Axis       `json:"yaxis,omitempty"`
	HoverLabel   *HoverLabel `json:"hoverlabel,omitempty"`
	Legend       *Legend     `json:"legend,omitempty"`
}
