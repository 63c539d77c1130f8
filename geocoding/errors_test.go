// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkFunc(tt.err); got != tt.want {
				t.Errorf("checkFunc() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []errorCheckTestCase{
		{
			name: "rate limit error type",
			err:  &GeocodingError{Type: ErrorTypeRateLimit, Message: "slow down"},
			want: true,
		},
		{
			name: "wrapped rate limit error",
			err:  fmt.Errorf("geocoding 北京: %w", &GeocodingError{Type: ErrorTypeRateLimit}),
			want: true,
		},
		{
			name: "error message contains too many requests",
			err:  errors.New("too many requests"),
			want: true,
		},
		{
			name: "error message contains 429",
			err:  errors.New("nominatim returned status 429"),
			want: true,
		},
		{
			name: "typed error of another kind wins over message",
			err:  &GeocodingError{Type: ErrorTypeNotFound, Message: "rate limit"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}

	runErrorCheckTest(t, tests, IsRateLimitError)
}

func TestIsQuotaExceededError(t *testing.T) {
	tests := []errorCheckTestCase{
		{
			name: "quota exceeded error type",
			err:  &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded"},
			want: true,
		},
		{
			name: "error message contains over_query_limit",
			err:  errors.New("google maps status: OVER_QUERY_LIMIT"),
			want: true,
		},
		{
			name: "amap daily limit",
			err:  errors.New("amap status: DAILY_QUERY_OVER_LIMIT (10003)"),
			want: true,
		},
		{
			name: "other error type",
			err:  &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}

	runErrorCheckTest(t, tests, IsQuotaExceededError)
}

func TestIsTimeoutError(t *testing.T) {
	tests := []errorCheckTestCase{
		{
			name: "timeout error type",
			err:  &GeocodingError{Type: ErrorTypeTimeout, Message: "timeout"},
			want: true,
		},
		{
			name: "transport deadline",
			err:  transportError(context.DeadlineExceeded),
			want: true,
		},
		{
			name: "error message contains deadline exceeded",
			err:  errors.New("context deadline exceeded"),
			want: true,
		},
		{
			name: "transport failure",
			err:  transportError(errors.New("connection refused")),
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("some other error"),
			want: false,
		},
	}

	runErrorCheckTest(t, tests, IsTimeoutError)
}

func TestIsNotFound(t *testing.T) {
	tests := []errorCheckTestCase{
		{name: "not found helper", err: notFound("Atlantis"), want: true},
		{name: "wrapped", err: fmt.Errorf("x: %w", notFound("Atlantis")), want: true},
		{name: "message only", err: errors.New("no results found"), want: false},
		{name: "other type", err: &GeocodingError{Type: ErrorTypeUnknown}, want: false},
	}

	runErrorCheckTest(t, tests, IsNotFound)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantType   ErrorType
	}{
		{name: "429 too many requests", statusCode: 429, wantType: ErrorTypeRateLimit},
		{name: "403 forbidden", statusCode: 403, wantType: ErrorTypeQuotaExceeded},
		{name: "400 bad request", statusCode: 400, wantType: ErrorTypeInvalidRequest},
		{name: "401 unauthorized", statusCode: 401, wantType: ErrorTypeInvalidRequest},
		{name: "404 not found", statusCode: 404, wantType: ErrorTypeNotFound},
		{name: "503 service unavailable", statusCode: 503, wantType: ErrorTypeNetworkError},
		{name: "502 bad gateway", statusCode: 502, wantType: ErrorTypeNetworkError},
		{name: "504 gateway timeout", statusCode: 504, wantType: ErrorTypeNetworkError},
		{name: "500 internal server error", statusCode: 500, wantType: ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHTTPError(tt.statusCode, "amap")
			if got.Type != tt.wantType {
				t.Errorf("ClassifyHTTPError() type = %v, want %v", got.Type, tt.wantType)
			}
		})
	}
}

func TestGeocodingErrorUnwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	geoErr := &GeocodingError{
		Type:    ErrorTypeNotFound,
		Message: "location not found",
		Err:     innerErr,
	}

	if !errors.Is(geoErr, innerErr) {
		t.Error("errors.Is should find wrapped error")
	}

	if got, want := geoErr.Error(), "location not found: inner error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorTypeString(t *testing.T) {
	if got := ErrorTypeQuotaExceeded.String(); got != "quota_exceeded" {
		t.Errorf("String() = %q", got)
	}

	if got := ErrorType(42).String(); got != "ErrorType(42)" {
		t.Errorf("String() = %q", got)
	}
}
