// PandemicPulse - COVID-19 Statistics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pandemicpulse

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/pandemicpulse/internal/charts"
	"github.com/tomtom215/pandemicpulse/internal/models"
	"github.com/tomtom215/pandemicpulse/internal/validation"
)

// maxCountriesLimit bounds ?limit= on the countries endpoint.
const maxCountriesLimit = 500

// CountriesRequest holds the countries endpoint query. Limit 0 means all.
type CountriesRequest struct {
	Limit int `json:"limit" validate:"gte=0,lte=500"`
}

// validateRequest runs the shared validator and converts failures to the
// API error shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// respondValidationError writes a 400 carrying the validator's details.
func respondValidationError(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{},
		Error:    apiErr,
	})
}

// getIntParam returns the integer query parameter key. ok is false when
// the value is present but not an integer.
func getIntParam(r *http.Request, key string, defaultValue int) (value int, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue, false
	}
	return v, true
}

// themeParam reads ?theme=, falling back to the configured default.
func (h *Handler) themeParam(r *http.Request) (charts.Theme, error) {
	raw := r.URL.Query().Get("theme")
	if raw == "" {
		return h.defaultTheme(), nil
	}
	return charts.ParseTheme(raw)
}
