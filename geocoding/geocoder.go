// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding resolves place names to coordinates using third party
// geocoding services.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mapchat/mapchat/config"
	"github.com/mapchat/mapchat/spatial"
	"go.uber.org/zap"
)

// Result represents a geocoding result from any provider.
type Result struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Result, error)
}

// NewGeocoder returns the provider selected in cfg. The google provider falls
// back to Application Default Credentials when no key is configured.
func NewGeocoder(ctx context.Context, cfg config.GeocoderConfig, client *http.Client, logger *zap.SugaredLogger) (Geocoder, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "amap":
		return NewAMapGeocoder(cfg.APIKey,
			WithHTTPClient(client),
			WithBaseURL(cfg.BaseURL),
			WithCity(cfg.City),
		), nil

	case "google":
		apiKey := cfg.APIKey
		if apiKey == "" {
			logger.Info("GOOGLE_MAPS_API_KEY is not set, attempting to retrieve it via ADC")

			var err error

			apiKey, err = getAPIKeyFromADC(ctx, logger)
			if err != nil {
				return nil, fmt.Errorf("retrieving google maps api key: %w", err)
			}

			logger.Info("retrieved Google Maps API key via ADC")
		}

		return NewGoogleMapsGeocoder(apiKey,
			WithHTTPClient(client),
			WithBaseURL(cfg.BaseURL),
			WithRegion(cfg.Region),
		), nil

	case "nominatim", "osm", "openstreetmap":
		return NewNominatimGeocoder(
			WithHTTPClient(client),
			WithBaseURL(cfg.BaseURL),
			WithRegion(cfg.Region),
			WithUserAgent(cfg.UserAgent),
		), nil

	default:
		return nil, fmt.Errorf("unsupported geocoder provider: %s", cfg.Provider)
	}
}

// options shared by the HTTP based providers.
type options struct {
	httpClient *http.Client
	baseURL    string
	city       string
	region     string
	userAgent  string
}

// Option configures a provider.
type Option func(*options)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithBaseURL overrides the provider endpoint; empty keeps the default.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithCity restricts AMap lookups to a city.
func WithCity(city string) Option {
	return func(o *options) {
		o.city = city
	}
}

// WithRegion biases Google and Nominatim lookups to a country code.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

func newOptions(baseURL string, opts []Option) options {
	o := options{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// getJSON performs a GET and decodes the JSON body into v.
func (o options) getJSON(ctx context.Context, provider, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "building request", Err: err}
	}

	req.Header.Set("Accept", "application/json")

	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ClassifyHTTPError(resp.StatusCode, provider)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &GeocodingError{Type: ErrorTypeUnknown, Message: "decoding " + provider + " response", Err: err}
	}

	return nil
}
