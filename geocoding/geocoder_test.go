// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mapchat/mapchat/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeocoder(t *testing.T) {
	tests := []struct {
		provider string
		want     Geocoder
	}{
		{"", &AMapGeocoder{}},
		{"amap", &AMapGeocoder{}},
		{"AMap", &AMapGeocoder{}},
		{"google", &GoogleMapsGeocoder{}},
		{"nominatim", &NominatimGeocoder{}},
		{"osm", &NominatimGeocoder{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := config.GeocoderConfig{Provider: tt.provider, APIKey: "k", Timeout: time.Second}

			g, err := NewGeocoder(context.Background(), cfg, nil, nil)
			require.NoError(t, err)
			assert.IsType(t, tt.want, g)
		})
	}
}

func TestNewGeocoderUnknownProvider(t *testing.T) {
	_, err := NewGeocoder(context.Background(), config.GeocoderConfig{Provider: "bing"}, http.DefaultClient, nil)
	assert.ErrorContains(t, err, "unsupported geocoder provider: bing")
}

func TestNewGeocoderWiresConfig(t *testing.T) {
	srv, seen := jsonServer(t, `[]`)

	cfg := config.GeocoderConfig{
		Provider:  "nominatim",
		BaseURL:   srv.URL,
		Region:    "es",
		UserAgent: "mapchat/1.0",
	}

	g, err := NewGeocoder(context.Background(), cfg, srv.Client(), nil)
	require.NoError(t, err)

	_, err = g.Geocode(context.Background(), "Málaga")
	require.True(t, IsNotFound(err))

	assert.Equal(t, "es", seen.query.Get("countrycodes"))
	assert.Equal(t, "mapchat/1.0", seen.userAgent)
}
