// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/models"
)

func rec(name string, cases int64) models.CountryRecord {
	return models.CountryRecord{Name: name, Cases: cases}
}

func names(records []models.CountryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestToTable_SortsByCasesDescending(t *testing.T) {
	t.Parallel()

	input := []models.CountryRecord{rec("A", 50), rec("B", 200), rec("C", 10)}
	got := names(ToTable(input))
	want := []string{"B", "A", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToTable order = %v, want %v", got, want)
	}

	if input[0].Name != "A" {
		t.Error("ToTable must not reorder its input")
	}
}

func TestToTable_StableOnTies(t *testing.T) {
	t.Parallel()

	input := []models.CountryRecord{
		rec("first", 10), rec("big", 99), rec("second", 10), rec("third", 10),
	}
	got := names(ToTable(input))
	want := []string{"big", "first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToTable tie order = %v, want %v", got, want)
	}
}

func TestTopN(t *testing.T) {
	t.Parallel()

	table := ToTable([]models.CountryRecord{rec("A", 50), rec("B", 200), rec("C", 10)})

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"top two", 2, []string{"B", "A"}},
		{"exact length", 3, []string{"B", "A", "C"}},
		{"more than available", 10, []string{"B", "A", "C"}},
		{"zero", 0, []string{}},
		{"negative", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TopN(table, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len(TopN(%d)) = %d, want %d", tt.n, len(got), len(tt.want))
			}
			if !reflect.DeepEqual(names(got), tt.want) {
				t.Errorf("TopN(%d) = %v, want %v", tt.n, names(got), tt.want)
			}
		})
	}
}

func TestTopN_DoesNotAlias(t *testing.T) {
	t.Parallel()

	table := []models.CountryRecord{rec("A", 3), rec("B", 2)}
	top := TopN(table, 1)
	top[0].Name = "mutated"
	if table[0].Name != "A" {
		t.Error("TopN result aliases its input")
	}
}

func TestComputeDistribution_Scenario(t *testing.T) {
	t.Parallel()

	s := models.StatSnapshot{TotalCases: 100, Deaths: 10, Recovered: 60}
	s.ActiveCases = DeriveActive(s.TotalCases, s.Deaths, s.Recovered)
	if s.ActiveCases != 30 {
		t.Fatalf("active = %d, want 30", s.ActiveCases)
	}

	d := ComputeDistribution(s)
	if !approx(d.ActivePercent, 30) || !approx(d.RecoveredPercent, 60) || !approx(d.DeathsPercent, 10) {
		t.Errorf("distribution = %+v, want {30 60 10}", d)
	}
}

func TestComputeDistribution_SumsToHundred(t *testing.T) {
	t.Parallel()

	snapshots := []models.StatSnapshot{
		{TotalCases: 704753890, Deaths: 7010681, Recovered: 675619811},
		{TotalCases: 3, Deaths: 1, Recovered: 1},
		{TotalCases: 1, Deaths: 0, Recovered: 1},
		{TotalCases: 977, Deaths: 13, Recovered: 0},
	}
	for _, s := range snapshots {
		s.ActiveCases = DeriveActive(s.TotalCases, s.Deaths, s.Recovered)
		d := ComputeDistribution(s)
		sum := d.ActivePercent + d.RecoveredPercent + d.DeathsPercent
		if math.Abs(sum-100) > 0.01 {
			t.Errorf("distribution of %+v sums to %f", s, sum)
		}
	}
}

func TestComputeDistribution_ZeroTotal(t *testing.T) {
	t.Parallel()

	d := ComputeDistribution(models.StatSnapshot{})
	if d != (models.Distribution{}) {
		t.Errorf("zero total distribution = %+v, want all zeros", d)
	}

	d = ComputeDistribution(models.StatSnapshot{TotalCases: 0, Deaths: 5})
	if d != (models.Distribution{}) {
		t.Errorf("zero total with deaths = %+v, want all zeros", d)
	}
}

func TestComputeDistribution_Clamped(t *testing.T) {
	t.Parallel()

	// Upstream counts are not guaranteed consistent.
	d := ComputeDistribution(models.StatSnapshot{TotalCases: 10, Recovered: 25, ActiveCases: 3})
	if d.RecoveredPercent != 100 {
		t.Errorf("RecoveredPercent = %f, want clamp to 100", d.RecoveredPercent)
	}
	if d.ActivePercent < 0 || d.DeathsPercent < 0 {
		t.Errorf("percentages must not be negative: %+v", d)
	}
}

func TestTrend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cur, prev int64
		want      float64
	}{
		{110, 100, 10},
		{90, 100, -10},
		{100, 100, 0},
		{50, 0, 0},
	}
	for _, tt := range tests {
		if got := Trend(tt.cur, tt.prev); !approx(got, tt.want) {
			t.Errorf("Trend(%d, %d) = %f, want %f", tt.cur, tt.prev, got, tt.want)
		}
	}
}

func TestComputeTrends_NilPrevious(t *testing.T) {
	t.Parallel()

	if got := ComputeTrends(models.StatSnapshot{TotalCases: 5}, nil); got != (models.Trends{}) {
		t.Errorf("ComputeTrends(nil) = %+v, want zero", got)
	}
}

func TestPerMillion(t *testing.T) {
	t.Parallel()

	if got := PerMillion(50, 1_000_000); !approx(got, 50) {
		t.Errorf("PerMillion(50, 1e6) = %f, want 50", got)
	}
	if got := PerMillion(7, 0); got != 0 {
		t.Errorf("PerMillion with zero population = %f, want 0", got)
	}
}

func TestBuild_IsIdempotent(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := models.StatSnapshot{TotalCases: 100, ActiveCases: 30, Deaths: 10, Recovered: 60}
	yesterday := &models.StatSnapshot{TotalCases: 80, Deaths: 8, Recovered: 50}
	records := []models.CountryRecord{rec("A", 50), rec("B", 200), rec("C", 10)}

	first := Build(snap, yesterday, records, at)
	second := Build(snap, yesterday, records, at)
	if !reflect.DeepEqual(first, second) {
		t.Error("Build is not idempotent")
	}

	if !approx(first.Distribution.ActivePercent, 30) {
		t.Errorf("active percent = %f, want 30", first.Distribution.ActivePercent)
	}
	if !approx(first.Trends.Cases, 25) {
		t.Errorf("cases trend = %f, want 25", first.Trends.Cases)
	}
	if first.Yesterday == yesterday {
		t.Error("Build must copy the previous snapshot")
	}
	if names(first.Countries)[0] != "B" {
		t.Errorf("countries not sorted: %v", names(first.Countries))
	}
}

func TestBuild_KeepsExplicitZeroActive(t *testing.T) {
	t.Parallel()

	snap := models.StatSnapshot{TotalCases: 100, ActiveCases: 0, Deaths: 10, Recovered: 60}
	ds := Build(snap, nil, nil, time.Time{})
	if ds.Snapshot.ActiveCases != 0 {
		t.Errorf("active = %d, want upstream value 0", ds.Snapshot.ActiveCases)
	}
	if ds.Distribution.ActivePercent != 0 {
		t.Errorf("active percent = %f, want 0", ds.Distribution.ActivePercent)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
