// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mapchat/mapchat/spatial"
)

const (
	nominatimProvider = "nominatim"
	nominatimBaseURL  = "https://nominatim.openstreetmap.org"
)

// NominatimGeocoder uses the OpenStreetMap Nominatim search API.
// API Docs: https://nominatim.org/release-docs/develop/api/Search/
type NominatimGeocoder struct {
	opts options
}

// NewNominatimGeocoder creates a new Nominatim geocoder. The usage policy
// requires an identifying User-Agent, see WithUserAgent.
func NewNominatimGeocoder(opts ...Option) *NominatimGeocoder {
	return &NominatimGeocoder{opts: newOptions(nominatimBaseURL, opts)}
}

type nominatimResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	if g.opts.region != "" {
		params.Set("countrycodes", g.opts.region)
	}

	reqURL := g.opts.baseURL + "/search?" + params.Encode()

	var results []nominatimResult
	if err := g.opts.getJSON(ctx, nominatimProvider, reqURL, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, notFound(place)
	}

	point, err := spatial.ParsePair(results[0].Lat, results[0].Lon)
	if err != nil {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("nominatim returned an unusable location for %q", place),
			Err:     err,
		}
	}

	confidence := "low"

	switch {
	case results[0].Importance >= 0.6:
		confidence = "high"
	case results[0].Importance >= 0.3:
		confidence = "medium"
	}

	return &Result{
		Point:       point,
		Confidence:  confidence,
		Provider:    nominatimProvider,
		DisplayName: results[0].DisplayName,
	}, nil
}
