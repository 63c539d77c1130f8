// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mapchat/mapchat/config"
	"github.com/mapchat/mapchat/extraction"
	"github.com/mapchat/mapchat/geocoding"
	"github.com/mapchat/mapchat/llm"
	"github.com/mapchat/mapchat/locate"
	"github.com/mapchat/mapchat/utils/httputils"
	"go.uber.org/zap"
)

// app holds the components wired from the configuration.
type app struct {
	cfg       *config.Config
	logger    *zap.SugaredLogger
	extractor *extraction.Extractor
	geocoder  geocoding.Geocoder
	service   *locate.Service
}

func userAgent() string {
	return fmt.Sprintf("mapchat/%s (+https://github.com/mapchat/mapchat)", Version)
}

func traceWriter() io.Writer {
	if globals.TraceHTTP || globals.TraceBody {
		return os.Stderr
	}

	return nil
}

func newHTTPClient(timeout time.Duration, ua string) *http.Client {
	opts := httputils.ClientOptions{
		Timeout:   timeout,
		Trace:     traceWriter(),
		TraceBody: globals.TraceBody,
	}
	if ua != "" {
		opts.Headers = map[string]string{"User-Agent": ua}
	}

	return httputils.NewClient(opts)
}

// newApp wires the LLM, the geocoder and the pipeline.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*app, error) {
	extractor, err := newExtractor(cfg, logger)
	if err != nil {
		return nil, err
	}

	geocoder, err := newGeocoder(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor,
		geocoder:  geocoder,
		service:   newService(cfg, extractor, geocoder, logger),
	}, nil
}

func newFetchClient() *http.Client {
	return newHTTPClient(30*time.Second, userAgent())
}

func newExtractor(cfg *config.Config, logger *zap.SugaredLogger) (*extraction.Extractor, error) {
	model, err := llm.NewModel(cfg.LLM, newHTTPClient(cfg.LLM.Timeout, ""))
	if err != nil {
		return nil, fmt.Errorf("creating llm: %w", err)
	}

	return extraction.NewExtractor(model, logger), nil
}

func newGeocoder(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (geocoding.Geocoder, error) {
	ua := cfg.Geocoder.UserAgent
	if ua == "" {
		ua = userAgent()
	}

	geocoder, err := geocoding.NewGeocoder(ctx, cfg.Geocoder, newHTTPClient(cfg.Geocoder.Timeout, ua), logger)
	if err != nil {
		return nil, fmt.Errorf("creating geocoder: %w", err)
	}

	return geocoder, nil
}

func newService(
	cfg *config.Config,
	extractor locate.PlaceExtractor,
	geocoder geocoding.Geocoder,
	logger *zap.SugaredLogger,
) *locate.Service {
	return locate.NewService(extractor, geocoder,
		locate.WithLogger(logger),
		locate.WithConcurrency(cfg.Pipeline.Concurrency),
		locate.WithMaxPlaces(cfg.Pipeline.MaxPlaces),
		locate.WithH3Resolution(cfg.Spatial.H3Resolution),
	)
}
