// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package models

import "time"

// StatSnapshot holds the global totals reported by the statistics API.
// It is immutable once fetched.
type StatSnapshot struct {
	TotalCases        int64     `json:"total_cases" validate:"gte=0"`
	ActiveCases       int64     `json:"active_cases" validate:"gte=0"`
	Recovered         int64     `json:"recovered" validate:"gte=0"`
	Deaths            int64     `json:"deaths" validate:"gte=0"`
	TodayCases        int64     `json:"today_cases" validate:"gte=0"`
	TodayDeaths       int64     `json:"today_deaths" validate:"gte=0"`
	TodayRecovered    int64     `json:"today_recovered" validate:"gte=0"`
	AffectedCountries int       `json:"affected_countries" validate:"gte=0"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// CountryRecord holds per-country counts. CountryCode is the ISO-3166
// alpha-3 code used as the choropleth location key; it may be empty for
// territories the API does not map.
type CountryRecord struct {
	Name        string      `json:"name" validate:"required,max=128"`
	CountryCode string      `json:"country_code" validate:"omitempty,len=3,alpha"`
	ISO2        string      `json:"iso2,omitempty" validate:"omitempty,len=2,alpha"`
	Cases       int64       `json:"cases" validate:"gte=0"`
	Deaths      int64       `json:"deaths" validate:"gte=0"`
	Recovered   int64       `json:"recovered" validate:"gte=0"`
	Active      int64       `json:"active" validate:"gte=0"`
	Tests       int64       `json:"tests" validate:"gte=0"`
	Population  int64       `json:"population" validate:"gte=0"`
	Flag        string      `json:"flag,omitempty" validate:"omitempty,url"`
	Coordinates Coordinates `json:"coordinates"`
}

// Distribution is the share of total cases in each outcome, in percent.
type Distribution struct {
	ActivePercent    float64 `json:"active_percent"`
	RecoveredPercent float64 `json:"recovered_percent"`
	DeathsPercent    float64 `json:"deaths_percent"`
}

// Trends is the day-over-day percentage change of the headline totals.
type Trends struct {
	Cases     float64 `json:"cases"`
	Recovered float64 `json:"recovered"`
	Deaths    float64 `json:"deaths"`
}
