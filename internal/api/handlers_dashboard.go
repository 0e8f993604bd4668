// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/dashboard"
	"github.com/tomtom215/pandemicpulse/internal/logging"
	"github.com/tomtom215/pandemicpulse/internal/models"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Chart export names.
const (
	ChartBar   = "bar"
	ChartDonut = "donut"
)

// indexData is the template input for the page shell.
type indexData struct {
	Page            *dashboard.Page
	Themes          map[charts.Theme]dashboard.ThemeStyle
	RefreshInterval int64
}

// Index renders the dashboard page for the default or requested theme.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	theme, err := h.themeParam(r)
	if err != nil {
		theme = h.defaultTheme()
	}

	ds, status := h.store.Snapshot()
	page, err := dashboard.Build(ds, status, theme, h.pageOptions())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to build dashboard page")
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	data := indexData{
		Page:            page,
		Themes:          dashboard.Themes(),
		RefreshInterval: int64(h.config.Refresh.Interval / time.Millisecond),
	}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to execute index template")
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write index page")
	}
}

// Dashboard returns the page layout for ?theme=. Switching theme only
// changes the style fields of the response.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	theme, err := h.themeParam(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}

	ds, status := h.store.Snapshot()
	page, err := dashboard.Build(ds, status, theme, h.pageOptions())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeRenderError, "Failed to build dashboard", err)
		return
	}

	respondSuccess(w, r, http.StatusOK, page, datasetMeta(ds, status, time.Now()))
}

// CountriesResponse is the countries endpoint payload.
type CountriesResponse struct {
	Countries []models.CountryRecord `json:"countries"`
	Total     int                    `json:"total"`
}

// Countries returns the country table sorted by cases, limited by ?limit=.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	limit, ok := getIntParam(r, "limit", 0)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer", nil)
		return
	}
	req := CountriesRequest{Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ds, status := h.store.Snapshot()
	if ds == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "No data loaded yet", nil)
		return
	}

	countries := ds.Countries
	if req.Limit > 0 && req.Limit < len(countries) {
		countries = countries[:req.Limit]
	}
	respondSuccess(w, r, http.StatusOK, CountriesResponse{
		Countries: countries,
		Total:     len(ds.Countries),
	}, datasetMeta(ds, status, time.Now()))
}

// ChartPNG returns a handler exporting the named chart as a PNG image.
func (h *Handler) ChartPNG(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := h.themeParam(r)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
			return
		}

		ds, err := h.store.Dataset()
		if err != nil {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "No data loaded yet", nil)
			return
		}

		key := fmt.Sprintf("%s:%s:%d", name, theme, ds.FetchedAt.UnixNano())
		img, ok := h.images.Get(key)
		if !ok {
			var buf bytes.Buffer
			if err := h.renderChart(&buf, name, ds, theme); err != nil {
				var renderErr *charts.RenderError
				if errors.As(err, &renderErr) {
					respondError(w, r, http.StatusInternalServerError, ErrCodeRenderError, "Chart could not be rendered", err)
					return
				}
				respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown chart", err)
				return
			}
			img = buf.Bytes()
			h.images.Set(key, img)
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s-%s.png"`, name, theme))
		if _, err := w.Write(img); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write chart image")
		}
	}
}

func (h *Handler) renderChart(w io.Writer, name string, ds *models.Dataset, theme charts.Theme) error {
	switch name {
	case ChartBar:
		return charts.RenderBarPNG(w, ds.Countries, h.config.Dashboard.TopN, theme)
	case ChartDonut:
		return charts.RenderDonutPNG(w, ds.Distribution, theme)
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}
