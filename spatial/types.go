// Copyright 2025 The MapChat Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uber/h3-go/v4"
)

// ErrInvalidPoint is returned when a coordinate pair is out of range or malformed.
var ErrInvalidPoint = errors.New("spatial: invalid point")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Valid reports whether the point is within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// LngLat returns the point as a [longitude, latitude] pair of decimal strings,
// the shape map front ends expect.
func (p Point) LngLat() [2]string {
	return [2]string{
		strconv.FormatFloat(p.Lng, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64),
	}
}

// ParseLngLat parses "lng,lat" as returned by AMap.
func ParseLngLat(s string) (Point, error) {
	lng, lat, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, s)
	}

	return ParsePair(lat, lng)
}

// ParsePair parses latitude and longitude given as separate decimal strings.
func ParsePair(lat, lng string) (Point, error) {
	var (
		p   Point
		err error
	)

	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidPoint, lat)
	}

	if p.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidPoint, lng)
	}

	if !p.Valid() {
		return Point{}, fmt.Errorf("%w: %s out of range", ErrInvalidPoint, p)
	}

	return p, nil
}

// Cell returns the H3 index of the point at the given resolution. A resolution
// outside [1,15] returns an empty string.
func (p Point) Cell(res int) string {
	if res < 1 || res > 15 {
		return ""
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return ""
	}

	return cell.String()
}
