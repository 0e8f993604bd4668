// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package charts builds the declarative chart descriptions rendered by the
dashboard page.

Figures are Plotly-compatible JSON documents ({"data": [...], "layout": {...}})
that the browser hands straight to Plotly.newPlot. Three figures exist:

  - BuildMap: choropleth keyed by ISO-3 code, colored by total cases
  - BuildBar: top-N countries by total cases
  - BuildDonut: active/recovered/deaths distribution

Data fields (locations, z, x, y, labels, values) are set once by the builders.
Style fields (colors, fonts, backgrounds) are owned by ApplyTheme, which can be
called any number of times to switch between light and dark without touching
the data.

RenderBarPNG and RenderDonutPNG produce static images of the same charts with
go-chart for embedding outside the browser.
*/
package charts
