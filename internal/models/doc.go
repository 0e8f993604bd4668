// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

/*
Package models defines the data structures shared across PandemicPulse.

Key Components:

  - StatSnapshot: global totals as of one refresh
  - CountryRecord: per-country counts and map coordinates
  - Dataset: the immutable output of one refresh cycle
  - RefreshStatus: scheduler state exposed to the page
  - APIResponse: standard HTTP response envelope

Values in this package are produced by the fetch boundary and never mutated
afterwards. A refresh builds a new Dataset and swaps it in whole.
*/
package models
