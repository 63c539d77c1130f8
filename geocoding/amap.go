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
	amapProvider = "amap"
	amapBaseURL  = "https://restapi.amap.com"
)

// AMapGeocoder uses the AMap (Gaode) web service geocoding API.
type AMapGeocoder struct {
	apiKey string
	opts   options
}

// NewAMapGeocoder creates a new AMap geocoder.
func NewAMapGeocoder(apiKey string, opts ...Option) *AMapGeocoder {
	return &AMapGeocoder{
		apiKey: apiKey,
		opts:   newOptions(amapBaseURL, opts),
	}
}

// amapResponse only declares the fields we read. Several AMap fields switch
// between string and [] when empty, so they are left out.
type amapResponse struct {
	Status   string `json:"status"` // "1" success, "0" failure
	Info     string `json:"info"`
	Infocode string `json:"infocode"`
	Geocodes []struct {
		FormattedAddress any    `json:"formatted_address"`
		Location         string `json:"location"` // "lng,lat"
		Level            string `json:"level"`
	} `json:"geocodes"`
}

func (g *AMapGeocoder) Geocode(ctx context.Context, place string) (*Result, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("address", place)

	if g.opts.city != "" {
		params.Set("city", g.opts.city)
	}

	reqURL := g.opts.baseURL + "/v3/geocode/geo?" + params.Encode()

	var resp amapResponse
	if err := g.opts.getJSON(ctx, amapProvider, reqURL, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "1" {
		return nil, classifyAMapError(resp.Infocode, resp.Info)
	}

	if len(resp.Geocodes) == 0 {
		return nil, notFound(place)
	}

	result := resp.Geocodes[0]

	point, err := spatial.ParseLngLat(result.Location)
	if err != nil {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("amap returned an unusable location for %q", place),
			Err:     err,
		}
	}

	displayName, _ := result.FormattedAddress.(string)

	return &Result{
		Point:       point,
		Confidence:  amapConfidence(result.Level),
		Provider:    amapProvider,
		DisplayName: displayName,
	}, nil
}

// amapConfidence maps the match level to a confidence.
func amapConfidence(level string) string {
	switch level {
	case "门牌号", "兴趣点", "单元号", "楼层", "房间":
		return "high"
	case "道路", "道路交叉路口", "公交站台", "地铁站", "村庄", "乡镇", "热点商圈", "开发区":
		return "medium"
	default:
		return "low"
	}
}

// classifyAMapError maps AMap infocodes to error types.
// See https://lbs.amap.com/api/webservice/guide/tools/info
func classifyAMapError(infocode, info string) *GeocodingError {
	t := ErrorTypeUnknown

	switch infocode {
	case "10001", "10002", "10005", "10006", "10007", "10008", "10009", "10010", "10011", "10012":
		t = ErrorTypeInvalidRequest
	case "10003", "10044", "10045":
		t = ErrorTypeQuotaExceeded
	case "10004", "10014", "10015", "10019", "10020", "10021":
		t = ErrorTypeRateLimit
	case "20000", "20001", "20002", "20003":
		t = ErrorTypeInvalidRequest
	}

	return &GeocodingError{
		Type:    t,
		Message: fmt.Sprintf("amap status: %s (%s)", info, infocode),
	}
}
