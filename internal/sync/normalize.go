// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package sync

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tomtom215/pandemicpulse/internal/analytics"
	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/models"
	"github.com/tomtom215/pandemicpulse/internal/validation"
)

// Upstream payloads. Every count is a pointer: the API sends null for
// unknown values and we need to tell that apart from zero.

type globalPayload struct {
	Updated           *float64 `json:"updated"`
	Cases             *float64 `json:"cases"`
	TodayCases        *float64 `json:"todayCases"`
	Deaths            *float64 `json:"deaths"`
	TodayDeaths       *float64 `json:"todayDeaths"`
	Recovered         *float64 `json:"recovered"`
	TodayRecovered    *float64 `json:"todayRecovered"`
	Active            *float64 `json:"active"`
	AffectedCountries *float64 `json:"affectedCountries"`
}

type countryInfo struct {
	ISO2 *string  `json:"iso2"`
	ISO3 *string  `json:"iso3"`
	Lat  *float64 `json:"lat"`
	Long *float64 `json:"long"`
	Flag *string  `json:"flag"`
}

type countryPayload struct {
	Country     *string      `json:"country"`
	CountryInfo *countryInfo `json:"countryInfo"`
	Cases       *float64     `json:"cases"`
	Deaths      *float64     `json:"deaths"`
	Recovered   *float64     `json:"recovered"`
	Active      *float64     `json:"active"`
	Tests       *float64     `json:"tests"`
	Population  *float64     `json:"population"`
}

var errNoCases = errors.New(`missing "cases" field`)

// decodeGlobal turns the /all payload into a StatSnapshot. Totals are the
// dashboard's headline numbers, so a negative or missing case count rejects
// the whole payload instead of being silently repaired.
func decodeGlobal(body []byte) (*models.StatSnapshot, error) {
	var p globalPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if p.Cases == nil {
		return nil, errNoCases
	}

	fields := []struct {
		name string
		v    *float64
	}{
		{"cases", p.Cases},
		{"deaths", p.Deaths},
		{"recovered", p.Recovered},
		{"active", p.Active},
		{"todayCases", p.TodayCases},
		{"todayDeaths", p.TodayDeaths},
		{"todayRecovered", p.TodayRecovered},
	}
	for _, f := range fields {
		if f.v != nil && (*f.v < 0 || math.IsNaN(*f.v)) {
			return nil, fmt.Errorf("field %q is negative: %v", f.name, *f.v)
		}
	}

	s := &models.StatSnapshot{
		TotalCases:        count(p.Cases),
		Deaths:            count(p.Deaths),
		Recovered:         count(p.Recovered),
		ActiveCases:       count(p.Active),
		TodayCases:        count(p.TodayCases),
		TodayDeaths:       count(p.TodayDeaths),
		TodayRecovered:    count(p.TodayRecovered),
		AffectedCountries: int(count(p.AffectedCountries)),
		UpdatedAt:         unixMillis(p.Updated),
	}
	if p.Active == nil {
		s.ActiveCases = analytics.DeriveActive(s.TotalCases, s.Deaths, s.Recovered)
	}

	if verr := validation.ValidateStruct(s); verr != nil {
		return nil, verr
	}
	return s, nil
}

// decodeCountries turns the /countries payload into records. Individual rows
// are repaired where possible (negative counts clamp to zero, missing active
// is derived) and dropped otherwise. Only a payload that is not a JSON array,
// or that yields no usable row, is an error.
func decodeCountries(body []byte, sanitizer *bluemonday.Policy) ([]models.CountryRecord, error) {
	var rows []countryPayload
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	records := make([]models.CountryRecord, 0, len(rows))
	dropped := 0
	for i := range rows {
		rec, ok := normalizeCountry(&rows[i], sanitizer)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		logging.Debug().Int("dropped", dropped).Int("kept", len(records)).Msg("Dropped unusable country rows")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no usable country rows in %d received", len(rows))
	}
	return records, nil
}

func normalizeCountry(row *countryPayload, sanitizer *bluemonday.Policy) (models.CountryRecord, bool) {
	if row.Country == nil {
		return models.CountryRecord{}, false
	}
	// StrictPolicy escapes entities; undo that so "Bosnia & Herzegovina"
	// survives while markup is still stripped.
	name := strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(*row.Country)))
	if name == "" {
		return models.CountryRecord{}, false
	}

	rec := models.CountryRecord{
		Name:       name,
		Cases:      clampCount(row.Cases),
		Deaths:     clampCount(row.Deaths),
		Recovered:  clampCount(row.Recovered),
		Active:     clampCount(row.Active),
		Tests:      clampCount(row.Tests),
		Population: clampCount(row.Population),
	}
	if row.Active == nil {
		rec.Active = analytics.DeriveActive(rec.Cases, rec.Deaths, rec.Recovered)
	}

	if info := row.CountryInfo; info != nil {
		rec.CountryCode = strings.ToUpper(deref(info.ISO3))
		rec.ISO2 = strings.ToUpper(deref(info.ISO2))
		rec.Flag = deref(info.Flag)
		if info.Lat != nil {
			rec.Coordinates.Lat = *info.Lat
		}
		if info.Long != nil {
			rec.Coordinates.Lon = *info.Long
		}
	}

	if verr := validation.ValidateStruct(&rec); verr != nil {
		// Bad codes or coordinates only cost the map placement.
		rec.CountryCode, rec.ISO2, rec.Flag = "", "", ""
		rec.Coordinates = models.Coordinates{}
		if validation.ValidateStruct(&rec) != nil {
			return models.CountryRecord{}, false
		}
	}
	return rec, true
}

func count(v *float64) int64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return int64(math.Round(*v))
}

func clampCount(v *float64) int64 {
	n := count(v)
	if n < 0 {
		return 0
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func unixMillis(v *float64) time.Time {
	if v == nil || *v <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(*v)).UTC()
}
