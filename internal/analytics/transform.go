// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/models"
)

// ToTable returns a copy of records ordered by Cases descending. Records with
// equal case counts keep their input order.
func ToTable(records []models.CountryRecord) []models.CountryRecord {
	table := make([]models.CountryRecord, len(records))
	copy(table, records)
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Cases > table[j].Cases
	})
	return table
}

// TopN returns the first min(n, len(table)) rows of table. The result never
// aliases table. n <= 0 yields an empty, non-nil slice.
func TopN(table []models.CountryRecord, n int) []models.CountryRecord {
	if n <= 0 {
		return []models.CountryRecord{}
	}
	if n > len(table) {
		n = len(table)
	}
	top := make([]models.CountryRecord, n)
	copy(top, table[:n])
	return top
}

// ComputeDistribution returns each outcome as a percentage of TotalCases,
// clamped to [0, 100]. A zero total yields all zeros.
func ComputeDistribution(s models.StatSnapshot) models.Distribution {
	if s.TotalCases <= 0 {
		return models.Distribution{}
	}
	total := float64(s.TotalCases)
	return models.Distribution{
		ActivePercent:    percent(float64(s.ActiveCases), total),
		RecoveredPercent: percent(float64(s.Recovered), total),
		DeathsPercent:    percent(float64(s.Deaths), total),
	}
}

func percent(part, total float64) float64 {
	return clamp(part/total*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// DeriveActive computes cases - deaths - recovered, floored at zero.
func DeriveActive(cases, deaths, recovered int64) int64 {
	active := cases - deaths - recovered
	if active < 0 {
		return 0
	}
	return active
}

// Trend is the percentage change from previous to current. A zero previous
// value yields 0 rather than an infinity.
func Trend(current, previous int64) float64 {
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// ComputeTrends compares two snapshots. A nil previous yields zero trends.
func ComputeTrends(current models.StatSnapshot, previous *models.StatSnapshot) models.Trends {
	if previous == nil {
		return models.Trends{}
	}
	return models.Trends{
		Cases:     Trend(current.TotalCases, previous.TotalCases),
		Recovered: Trend(current.Recovered, previous.Recovered),
		Deaths:    Trend(current.Deaths, previous.Deaths),
	}
}

// PerMillion normalizes value by population. A non-positive population
// yields 0.
func PerMillion(value, population int64) float64 {
	if population <= 0 {
		return 0
	}
	return float64(value) / float64(population) * 1e6
}

// Build assembles the Dataset for one refresh cycle. The snapshot is taken
// as decoded; a missing active count is filled in at the fetch boundary.
func Build(snapshot models.StatSnapshot, yesterday *models.StatSnapshot, records []models.CountryRecord, fetchedAt time.Time) *models.Dataset {
	var prev *models.StatSnapshot
	if yesterday != nil {
		y := *yesterday
		prev = &y
	}

	return &models.Dataset{
		Snapshot:     snapshot,
		Yesterday:    prev,
		Countries:    ToTable(records),
		Distribution: ComputeDistribution(snapshot),
		Trends:       ComputeTrends(snapshot, prev),
		FetchedAt:    fetchedAt,
	}
}
