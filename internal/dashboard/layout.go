// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "COVID-19 Analytics Dashboard"

const (
	unavailableMessage = "Data unavailable"
	loadingMessage     = "Loading data..."
	lastUpdatedLayout  = "2006-01-02 15:04:05"
	cardBorderRadius   = "10px"
)

// Color roles map to palette entries.
const (
	RolePrimary = "primary"
	RoleSuccess = "success"
	RoleWarning = "warning"
	RoleDanger  = "danger"
	RoleInfo    = "info"
)

// Options are the page settings that come from configuration.
type Options struct {
	Title string
	TopN  int
}

// Page is the complete dashboard layout for one theme.
type Page struct {
	Title       string               `json:"title"`
	Theme       charts.Theme         `json:"theme"`
	Style       Style                `json:"style"`
	Cards       []Card               `json:"cards"`
	Charts      *charts.Charts       `json:"charts,omitempty"`
	LastUpdated string               `json:"last_updated,omitempty"`
	Banner      *Banner              `json:"banner,omitempty"`
	Status      models.RefreshStatus `json:"status"`
}

// Style holds the page-level colors for the active theme.
type Style struct {
	Stylesheet     string `json:"stylesheet"`
	Background     string `json:"background"`
	Text           string `json:"text"`
	Muted          string `json:"muted"`
	CardBackground string `json:"card_background"`
	ChartBG        string `json:"chart_background"`
	BorderRadius   string `json:"border_radius"`
	ToggleIcon     string `json:"toggle_icon"`
	ToggleTheme    string `json:"toggle_theme"`
}

// Card is one summary statistic.
type Card struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Value    int64       `json:"value"`
	Display  string      `json:"display"`
	Subtitle string      `json:"subtitle"`
	Role     string      `json:"role"`
	Color    string      `json:"color"`
	Trend    *TrendBadge `json:"trend,omitempty"`
}

// TrendBadge is the day-over-day change shown under a card value.
type TrendBadge struct {
	Percent float64 `json:"percent"`
	Text    string  `json:"text"`
	Up      bool    `json:"up"`
	Role    string  `json:"role"`
	Color   string  `json:"color"`
}

// Banner is shown while the page is serving stale or no data.
type Banner struct {
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Since   time.Time `json:"since,omitempty"`
}

type cardSpec struct {
	id       string
	title    string
	subtitle string
	role     string
	value    func(*models.StatSnapshot) int64
	trend    func(models.Trends) float64
}

var cardSpecs = []cardSpec{
	{"total-cases", "Total Cases", "Cumulative cases worldwide", RolePrimary,
		func(s *models.StatSnapshot) int64 { return s.TotalCases },
		func(t models.Trends) float64 { return t.Cases }},
	{"active-cases", "Active Cases", "Currently infected patients", RoleWarning,
		func(s *models.StatSnapshot) int64 { return s.ActiveCases }, nil},
	{"recovered", "Recovered", "Total recovered patients", RoleSuccess,
		func(s *models.StatSnapshot) int64 { return s.Recovered },
		func(t models.Trends) float64 { return t.Recovered }},
	{"deaths", "Deaths", "Total fatalities", RoleDanger,
		func(s *models.StatSnapshot) int64 { return s.Deaths },
		func(t models.Trends) float64 { return t.Deaths }},
	{"new-cases", "New Cases", "Cases reported today", RoleInfo,
		func(s *models.StatSnapshot) int64 { return s.TodayCases }, nil},
	{"new-recoveries", "New Recoveries", "Recoveries reported today", RoleSuccess,
		func(s *models.StatSnapshot) int64 { return s.TodayRecovered }, nil},
	{"new-deaths", "New Deaths", "Deaths reported today", RoleDanger,
		func(s *models.StatSnapshot) int64 { return s.TodayDeaths }, nil},
}

// Build assembles the page. A nil dataset yields the empty layout: zeroed
// cards, no figures and a banner. Figures are only built from a committed
// Dataset, which the scheduler has already rendered once.
func Build(ds *models.Dataset, status models.RefreshStatus, theme charts.Theme, opts Options) (*Page, error) {
	page := &Page{
		Title:  opts.Title,
		Status: status,
	}
	if page.Title == "" {
		page.Title = DefaultTitle
	}

	var snapshot models.StatSnapshot
	if ds != nil {
		snapshot = ds.Snapshot
		figs, err := charts.BuildAll(ds, theme, opts.TopN)
		if err != nil {
			return nil, err
		}
		page.Charts = figs
		page.LastUpdated = fmt.Sprintf("Last Updated: %s UTC", dataTimestamp(ds).UTC().Format(lastUpdatedLayout))
	}

	page.Cards = make([]Card, 0, len(cardSpecs))
	for _, spec := range cardSpecs {
		v := spec.value(&snapshot)
		card := Card{
			ID:       spec.id,
			Title:    spec.title,
			Value:    v,
			Display:  humanize.Comma(v),
			Subtitle: spec.subtitle,
			Role:     spec.role,
		}
		if spec.trend != nil && ds != nil && ds.Yesterday != nil {
			card.Trend = newTrendBadge(spec.trend(ds.Trends))
		}
		page.Cards = append(page.Cards, card)
	}

	switch {
	case status.Unavailable:
		page.Banner = &Banner{Message: unavailableMessage, Detail: status.LastError}
		if ds != nil {
			page.Banner.Since = ds.FetchedAt
		}
	case ds == nil:
		page.Banner = &Banner{Message: loadingMessage}
	}

	Restyle(page, theme)
	return page, nil
}

// dataTimestamp is the upstream "updated" time, or the fetch time when the
// source did not report one.
func dataTimestamp(ds *models.Dataset) time.Time {
	if !ds.Snapshot.UpdatedAt.IsZero() {
		return ds.Snapshot.UpdatedAt
	}
	return ds.FetchedAt
}

func newTrendBadge(pct float64) *TrendBadge {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	up := pct >= 0
	arrow, role := "↑", RoleSuccess
	if !up {
		arrow, role = "↓", RoleDanger
	}
	return &TrendBadge{
		Percent: pct,
		Text:    fmt.Sprintf("%s %.1f%%", arrow, math.Abs(pct)),
		Up:      up,
		Role:    role,
	}
}

// Restyle switches page to theme in place. Only style fields change.
func Restyle(page *Page, theme charts.Theme) *Page {
	if page == nil {
		return nil
	}
	p := theme.Palette()

	page.Theme = theme
	page.Style = styleFor(theme)

	for i := range page.Cards {
		c := &page.Cards[i]
		c.Color = roleColor(p, c.Role)
		if c.Trend != nil {
			c.Trend.Color = roleColor(p, c.Trend.Role)
		}
	}

	if page.Charts != nil {
		charts.ApplyTheme(page.Charts.Map, theme)
		charts.ApplyTheme(page.Charts.Bar, theme)
		charts.ApplyTheme(page.Charts.Donut, theme)
	}
	return page
}

func styleFor(theme charts.Theme) Style {
	p := theme.Palette()
	return Style{
		Stylesheet:     p.Stylesheet,
		Background:     p.Background,
		Text:           p.Text,
		Muted:          p.Muted,
		CardBackground: p.Card,
		ChartBG:        p.ChartBG,
		BorderRadius:   cardBorderRadius,
		ToggleIcon:     p.Icon,
		ToggleTheme:    theme.Toggle().String(),
	}
}

// ThemeStyle is everything the browser needs to restyle an already loaded
// page without fetching it again.
type ThemeStyle struct {
	Style   Style          `json:"style"`
	Palette charts.Palette `json:"palette"`
}

// Themes returns the style set of every theme, keyed by theme name.
func Themes() map[charts.Theme]ThemeStyle {
	out := make(map[charts.Theme]ThemeStyle, 2)
	for _, t := range []charts.Theme{charts.ThemeDark, charts.ThemeLight} {
		out[t] = ThemeStyle{Style: styleFor(t), Palette: t.Palette()}
	}
	return out
}

func roleColor(p charts.Palette, role string) string {
	switch role {
	case RolePrimary:
		return p.Primary
	case RoleSuccess:
		return p.Success
	case RoleWarning:
		return p.Warning
	case RoleDanger:
		return p.Danger
	case RoleInfo:
		return p.Info
	default:
		return p.Text
	}
}
