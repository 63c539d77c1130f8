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
	googleProvider = "google_maps"
	googleBaseURL  = "https://maps.googleapis.com"
)

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey string
	opts   options
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string, opts ...Option) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{
		apiKey: apiKey,
		opts:   newOptions(googleBaseURL, opts),
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	params := url.Values{}
	params.Set("address", place)
	params.Set("key", g.apiKey)

	if g.opts.region != "" {
		params.Set("region", g.opts.region)
	}

	reqURL := g.opts.baseURL + "/maps/api/geocode/json?" + params.Encode()

	var gmResp googleMapsResponse
	if err := g.opts.getJSON(ctx, googleProvider, reqURL, &gmResp); err != nil {
		return nil, err
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, notFound(place)
	default:
		return nil, classifyGoogleStatus(gmResp.Status, gmResp.ErrorMessage)
	}

	if len(gmResp.Results) == 0 {
		return nil, notFound(place)
	}

	result := gmResp.Results[0]
	point := spatial.Point{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng}

	if !point.Valid() {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("google maps returned an unusable location for %q", place),
			Err:     spatial.ErrInvalidPoint,
		}
	}

	// Google Maps excels at intersections (RANGE_INTERPOLATED or GEOMETRIC_CENTER)
	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	}

	return &Result{
		Point:       point,
		Confidence:  confidence,
		Provider:    googleProvider,
		DisplayName: result.FormattedAddress,
	}, nil
}

func classifyGoogleStatus(status, message string) *GeocodingError {
	t := ErrorTypeUnknown

	switch status {
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		t = ErrorTypeQuotaExceeded
	case "REQUEST_DENIED", "INVALID_REQUEST":
		t = ErrorTypeInvalidRequest
	}

	msg := "google maps status: " + status
	if message != "" {
		msg += " (" + message + ")"
	}

	return &GeocodingError{Type: t, Message: msg}
}
