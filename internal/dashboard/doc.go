// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

// Package dashboard owns the current Dataset and turns it into a themed page.
//
// Store is the single-writer cell shared by the refresh scheduler (writer)
// and the HTTP handlers (readers). Build assembles the page layout: summary
// cards, the three chart figures, the last-updated label and the
// "data unavailable" banner. Restyle switches an existing page between the
// light and dark themes without touching any data field.
package dashboard
