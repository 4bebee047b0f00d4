// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

// Package config provides layered configuration loading for Cartoshare.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (CARTOSHARE_* prefix)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the Cartoshare client.
type Config struct {
	Gallery GalleryConfig `koanf:"gallery"`
	Logging LoggingConfig `koanf:"logging"`
}

// GalleryConfig holds connection settings for the map gallery service.
type GalleryConfig struct {
	// URL is the gallery base URL. A trailing slash is optional; the client
	// normalizes the URL to end with exactly one.
	URL string `koanf:"url"`

	// Username and Password are exchanged for a bearer token at the gallery
	// token endpoint. They are never sent to any other endpoint.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Timeout applies to each individual HTTP request.
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Gallery: GalleryConfig{
			URL:      "",
			Username: "",
			Password: "",
			Timeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console", // Interactive tool - console output by default
			Caller: false,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return c.Gallery.Validate()
}

// Validate checks the gallery connection settings.
func (g *GalleryConfig) Validate() error {
	if g.URL == "" {
		return errors.New("gallery: URL is required")
	}
	if err := validateGalleryURL(g.URL); err != nil {
		return err
	}
	if g.Username == "" {
		return errors.New("gallery: username is required")
	}
	if g.Password == "" {
		return errors.New("gallery: password is required")
	}
	if g.Timeout <= 0 {
		return errors.New("gallery: timeout must be positive")
	}
	return nil
}

// validateGalleryURL validates that the gallery URL is a usable HTTP/HTTPS
// base URL. Paths are allowed (the gallery may be hosted under a prefix);
// query parameters are not.
func validateGalleryURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("gallery: failed to parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("gallery: URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return errors.New("gallery: URL host is required")
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("gallery: URL should not contain query parameters, remove: ?%s", parsedURL.RawQuery)
	}

	return nil
}
