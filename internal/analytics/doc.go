// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package analytics turns fetched statistics into the tables and derived figures
the dashboard displays.

Every function here is pure: no I/O, no shared state, and inputs are never
mutated. Calling any of them twice on the same input returns equal output.

Operations:

  - ToTable: country records sorted by cases, descending, stable on ties
  - TopN: the first min(n, len) rows of a table
  - ComputeDistribution: active/recovered/deaths share of total cases
  - Trend, ComputeTrends: day-over-day percentage change
  - PerMillion: a count normalized by population
  - Build: assembles a models.Dataset from one refresh's inputs
*/
package analytics
