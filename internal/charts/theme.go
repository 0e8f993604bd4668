// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package charts

import (
	"fmt"
	"strings"
)

// Theme selects one of the two style sets.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Palette is the set of colors a theme applies to cards and figures.
type Palette struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Muted      string `json:"muted"`
	Card       string `json:"card"`
	Primary    string `json:"primary"`
	Success    string `json:"success"`
	Warning    string `json:"warning"`
	Danger     string `json:"danger"`
	Info       string `json:"info"`
	ChartBG    string `json:"chart_bg"`
	Hover      string `json:"hover"`
	Icon       string `json:"icon"`
	Stylesheet string `json:"stylesheet"`
}

var palettes = map[Theme]Palette{
	ThemeDark: {
		Name:       "darkly",
		Background: "#303030",
		Text:       "#ffffff",
		Muted:      "#888888",
		Card:       "#444444",
		Primary:    "#375a7f",
		Success:    "#00bc8c",
		Warning:    "#f39c12",
		Danger:     "#e74c3c",
		Info:       "#3498db",
		ChartBG:    "rgba(48, 48, 48, 0.8)",
		Hover:      "rgba(255, 255, 255, 0.1)",
		Icon:       "fas fa-sun",
		Stylesheet: "https://cdn.jsdelivr.net/npm/bootswatch@5.3.3/dist/darkly/bootstrap.min.css",
	},
	ThemeLight: {
		Name:       "flatly",
		Background: "#ffffff",
		Text:       "#2c3e50",
		Muted:      "#95a5a6",
		Card:       "#f8f9fa",
		Primary:    "#2c3e50",
		Success:    "#18bc9c",
		Warning:    "#f39c12",
		Danger:     "#e74c3c",
		Info:       "#3498db",
		ChartBG:    "rgba(255, 255, 255, 0.8)",
		Hover:      "rgba(0, 0, 0, 0.05)",
		Icon:       "fas fa-moon",
		Stylesheet: "https://cdn.jsdelivr.net/npm/bootswatch@5.3.3/dist/flatly/bootstrap.min.css",
	},
}

// ParseTheme accepts "light", "dark" and the Bootswatch names "flatly" and
// "darkly", case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "flatly":
		return ThemeLight, nil
	case "dark", "darkly":
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (expected light or dark)", s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Palette returns the theme's colors. Unknown themes fall back to dark.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeDark]
}

func (t Theme) String() string {
	return string(t)
}
