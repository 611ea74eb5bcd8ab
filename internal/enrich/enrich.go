// Package enrich loads display-only extras for a scored city: a background photo,
// current weather, an encyclopedic summary and population. Every failure here is
// logged and reported as a missing value.
package enrich

import "errors"

// Common errors for enrichment adapters.
var (
	ErrNoResults = errors.New("provider returned no results")
	ErrEmptyCity = errors.New("city name is required")
)
