// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package locate turns free text into a list of geocoded places: a chat model
// extracts the place names and a geocoder resolves each one.
package locate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mapchat/mapchat/geocoding"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyInput is returned when there is no text to process.
	ErrEmptyInput = errors.New("empty input")
	// ErrExtraction wraps failures of the place extractor.
	ErrExtraction = errors.New("place extraction failed")
)

// DefaultConcurrency is the number of geocoding calls in flight per request.
const DefaultConcurrency = 4

// PlaceExtractor returns the place names mentioned in a text.
type PlaceExtractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Location is a resolved place as sent to the map front end.
type Location struct {
	Name     string    `json:"name"`
	Location [2]string `json:"location"` // [lng, lat]
	Address  string    `json:"address,omitempty"`
	Provider string    `json:"provider,omitempty"`
	Cell     string    `json:"cell,omitempty"`
}

// Result is the response of a Locate call.
type Result struct {
	Locations []Location `json:"locations"`
}

// Names returns the names of the resolved locations.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Locations))
	for _, l := range r.Locations {
		names = append(names, l.Name)
	}

	return names
}

// Service runs the extract then geocode pipeline.
type Service struct {
	extractor    PlaceExtractor
	geocoder     geocoding.Geocoder
	logger       *zap.SugaredLogger
	concurrency  int
	maxPlaces    int
	h3Resolution int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConcurrency bounds the geocoding calls in flight. Values below 1 use
// DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMaxPlaces keeps only the first n extracted names; 0 keeps all.
func WithMaxPlaces(n int) Option {
	return func(s *Service) {
		s.maxPlaces = max(n, 0)
	}
}

// WithH3Resolution annotates every location with its H3 cell; 0 disables it.
func WithH3Resolution(res int) Option {
	return func(s *Service) {
		s.h3Resolution = res
	}
}

// NewService creates a new Service.
func NewService(extractor PlaceExtractor, geocoder geocoding.Geocoder, opts ...Option) *Service {
	s := &Service{
		extractor:   extractor,
		geocoder:    geocoder,
		logger:      zap.NewNop().Sugar(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Locate extracts the places mentioned in text and geocodes them. Places
// that cannot be resolved are left out; the output keeps the extractor order.
func (s *Service) Locate(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	places, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if s.maxPlaces > 0 && len(places) > s.maxPlaces {
		s.logger.Infow("truncating extracted places", "extracted", len(places), "max", s.maxPlaces)
		places = places[:s.maxPlaces]
	}

	return s.Geocode(ctx, places), nil
}

// Geocode resolves names concurrently. Names that fail are logged and dropped.
func (s *Service) Geocode(ctx context.Context, names []string) *Result {
	resolved := make([]*Location, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		g.Go(func() error {
			resolved[i] = s.geocode(gctx, name)

			return nil
		})
	}

	_ = g.Wait()

	result := &Result{Locations: make([]Location, 0, len(names))}

	for _, loc := range resolved {
		if loc != nil {
			result.Locations = append(result.Locations, *loc)
		}
	}

	s.logger.Infow("places located", "extracted", len(names), "located", len(result.Locations))

	return result
}

func (s *Service) geocode(ctx context.Context, name string) *Location {
	res, err := s.geocoder.Geocode(ctx, name)

	switch {
	case err != nil && geocoding.IsNotFound(err):
		s.logger.Infow("place not found", "place", name)

		return nil
	case err != nil:
		s.logger.Warnw("geocoding failed", "place", name, "error", err)

		return nil
	case res == nil || !res.Point.Valid():
		s.logger.Warnw("geocoder returned no usable point", "place", name)

		return nil
	}

	return &Location{
		Name:     name,
		Location: res.Point.LngLat(),
		Address:  res.DisplayName,
		Provider: res.Provider,
		Cell:     res.Point.Cell(s.h3Resolution),
	}
}
