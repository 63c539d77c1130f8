// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// GeocodingError represents a failure talking to a geocoding provider.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies geocoding errors.
type ErrorType int

const (
	// ErrorTypeUnknown unknown error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit the provider throttled us.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded the daily quota is exhausted or access was denied.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout the request timed out.
	ErrorTypeTimeout
	// ErrorTypeNotFound the place could not be resolved.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest the provider rejected the request (bad key, bad params).
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError the provider could not be reached.
	ErrorTypeNetworkError
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeUnknown:        "unknown",
	ErrorTypeRateLimit:      "rate_limit",
	ErrorTypeQuotaExceeded:  "quota_exceeded",
	ErrorTypeTimeout:        "timeout",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeInvalidRequest: "invalid_request",
	ErrorTypeNetworkError:   "network",
}

func (t ErrorType) String() string {
	if s, ok := errorTypeNames[t]; ok {
		return s
	}

	return fmt.Sprintf("ErrorType(%d)", int(t))
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

func notFound(place string) *GeocodingError {
	return &GeocodingError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("no results found for %q", place),
	}
}

// transportError wraps an error returned by the HTTP client.
func transportError(err error) *GeocodingError {
	t := ErrorTypeNetworkError

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		t = ErrorTypeTimeout
	}

	return &GeocodingError{
		Type:    t,
		Message: "geocoding request failed",
		Err:     err,
	}
}

func hasType(err error, t ErrorType) (found, is bool) {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return true, geoErr.Type == t
	}

	return false, false
}

// IsNotFound reports whether the place simply has no match.
func IsNotFound(err error) bool {
	_, is := hasType(err, ErrorTypeNotFound)

	return is
}

// IsRateLimitError checks whether the error comes from throttling.
func IsRateLimitError(err error) bool {
	if found, is := hasType(err, ErrorTypeRateLimit); found {
		return is
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError checks whether the error comes from an exhausted quota.
func IsQuotaExceededError(err error) bool {
	if found, is := hasType(err, ErrorTypeQuotaExceeded); found {
		return is
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "over_limit") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError checks whether the error is a timeout.
func IsTimeoutError(err error) bool {
	if found, is := hasType(err, ErrorTypeTimeout); found {
		return is
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// ClassifyHTTPError maps an HTTP status to a geocoding error.
func ClassifyHTTPError(statusCode int, provider string) *GeocodingError {
	switch statusCode {
	case http.StatusTooManyRequests: // 429
		return &GeocodingError{
			Type:    ErrorTypeRateLimit,
			Message: provider + ": rate limit reached",
		}
	case http.StatusForbidden: // 403
		return &GeocodingError{
			Type:    ErrorTypeQuotaExceeded,
			Message: provider + ": quota exceeded or access denied",
		}
	case http.StatusBadRequest, http.StatusUnauthorized: // 400, 401
		return &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: provider + ": invalid request",
		}
	case http.StatusNotFound: // 404
		return &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: provider + ": location not found",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &GeocodingError{
			Type:    ErrorTypeNetworkError,
			Message: fmt.Sprintf("%s: service unavailable (status %d)", provider, statusCode),
		}
	default:
		return &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("%s: HTTP error %d", provider, statusCode),
		}
	}
}
