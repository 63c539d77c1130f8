// Copyright 2025 The MapChat Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the application configuration from .env files,
// an optional config.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingKeys is returned by Validate when required credentials are absent.
var ErrMissingKeys = errors.New("missing required configuration")

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Geocoder GeocoderConfig `mapstructure:"geocoder"`
	Map      MapConfig      `mapstructure:"map"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Spatial  SpatialConfig  `mapstructure:"spatial"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	GinMode string `mapstructure:"ginmode"` // debug, release, test
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LLMConfig selects and configures the chat model used for place extraction.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // openai, ollama
	APIKey   string        `mapstructure:"apikey"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"baseurl"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GeocoderConfig selects and configures the geocoding provider.
type GeocoderConfig struct {
	Provider  string        `mapstructure:"provider"` // amap, google, nominatim
	APIKey    string        `mapstructure:"apikey"`
	BaseURL   string        `mapstructure:"baseurl"`
	City      string        `mapstructure:"city"`
	Region    string        `mapstructure:"region"`
	UserAgent string        `mapstructure:"useragent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// MapConfig holds the credentials handed to the browser map widget.
type MapConfig struct {
	JSKey        string `mapstructure:"jskey"`
	SecurityCode string `mapstructure:"securitycode"`
}

type PipelineConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxPlaces   int `mapstructure:"maxplaces"`
}

type SpatialConfig struct {
	H3Resolution int `mapstructure:"h3resolution"`
}

// Options tweak how Load finds its sources.
type Options struct {
	ConfigFile string   // explicit config file, skips the search path
	EnvFiles   []string // dotenv files, defaults to ".env"
}

// geocoderKeyEnv names the credential variable of each geocoding provider.
// It is read only for the selected provider so a key is never sent to
// another service.
var geocoderKeyEnv = map[string]string{
	"amap":   "AMAP_API_KEY",
	"google": "GOOGLE_MAPS_API_KEY",
}

// envAliases binds the well known variable names to their config keys.
var envAliases = map[string][]string{
	"llm.apikey":           {"OPENAI_API_KEY"},
	"llm.baseurl":          {"OPENAI_BASE_URL"},
	"map.jskey":            {"AMAP_JS_API_KEY"},
	"map.securitycode":     {"AMAP_JS_API_PWD"},
	"server.addr":          {"MAPCHAT_ADDR"},
	"pipeline.maxplaces":   {"MAPCHAT_MAX_PLACES"},
	"spatial.h3resolution": {"MAPCHAT_H3_RESOLUTION"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.apikey", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.baseurl", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("geocoder.provider", "amap")
	v.SetDefault("geocoder.apikey", "")
	v.SetDefault("geocoder.baseurl", "")
	v.SetDefault("geocoder.city", "")
	v.SetDefault("geocoder.region", "")
	v.SetDefault("geocoder.timeout", 10*time.Second)
	v.SetDefault("geocoder.useragent", "mapchat/1.0")
	v.SetDefault("map.jskey", "")
	v.SetDefault("map.securitycode", "")
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.maxplaces", 0)
	v.SetDefault("spatial.h3resolution", 0)
}

// Load reads configuration from dotenv files, config file and environment variables.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		// godotenv never overrides variables already present in the environment.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.mapchat")
	}

	v.SetEnvPrefix("MAPCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Geocoder.Provider = strings.ToLower(cfg.Geocoder.Provider)

	// an explicit geocoder.apikey wins over the provider variable
	if cfg.Geocoder.APIKey == "" {
		if name, ok := geocoderKeyEnv[cfg.Geocoder.Provider]; ok {
			cfg.Geocoder.APIKey = os.Getenv(name)
		}
	}

	return &cfg, nil
}

// MissingKeys lists the environment variables that the selected providers
// need but are not set.
func (c *Config) MissingKeys() []string {
	var missing []string

	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}

	if c.Geocoder.Provider == "amap" && c.Geocoder.APIKey == "" {
		missing = append(missing, geocoderKeyEnv["amap"])
	}

	return missing
}

// Validate fails with ErrMissingKeys if MissingKeys is not empty.
func (c *Config) Validate() error {
	if missing := c.MissingKeys(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingKeys, strings.Join(missing, ", "))
	}

	return nil
}
