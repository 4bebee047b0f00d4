// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

/*
client.go - Core Gallery API Client

This file provides the core Client struct and HTTP communication layer for
the hosted map gallery. The gallery exposes a small bearer-token API:

  - POST {base}token          - exchange credentials for a bearer token
  - POST {base}upload         - partial upload of one binary artifact
  - POST {base}publish        - publish map metadata referencing uploads
  - GET  {base}allcategories  - list gallery categories
  - GET  {base}allmaps        - list published maps

Related Files:
  - session.go: bearer token lifecycle (lazy renewal)
  - upload.go:  multipart partial uploads
  - publish.go: publish orchestration
  - lists.go:   category and map listings
*/

package gallery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cartoshare/internal/config"
	"github.com/tomtom215/cartoshare/internal/models"
)

// maxErrorBodySize limits the maximum amount of response body read for error
// reporting. Prevents unbounded memory allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// Publisher defines the operations of a map publishing backend.
//
// Client implements Publisher against the hosted gallery; mock
// implementations are used in tests, and alternative backends can be
// substituted without touching callers.
type Publisher interface {
	// Connect verifies the configured credentials by performing a token
	// exchange. It does not need to be called before Publish; every
	// protected call obtains a token on demand.
	Connect(ctx context.Context) error

	// Publish uploads the map's artifacts and publishes its metadata.
	// The returned result is never nil and no fault escapes the call:
	// transport, decode, authentication and image-processing failures all
	// surface as Success=false with a human-readable message.
	Publish(ctx context.Context, info *models.MapInfo) *models.PublishResult

	// GetAllCategories lists the gallery's map categories.
	GetAllCategories(ctx context.Context) ([]models.Category, error)

	// GetAllMaps lists the gallery's published maps.
	GetAllMaps(ctx context.Context) ([]models.MapListEntry, error)
}

// Ensure Client implements Publisher
var _ Publisher = (*Client)(nil)

// Client handles communication with the map gallery HTTP API.
//
// The zero value is not usable; construct with NewClient. The client holds
// the current bearer session and renews it lazily before protected calls
// (see session.go).
//
// Thread Safety: safe for concurrent use. Concurrent calls may each observe
// an expiring session and renew it independently; renewal is idempotent and
// the last successful exchange wins.
type Client struct {
	baseURL    string // Normalized to end with exactly one "/"
	creds      models.Credentials
	httpClient *http.Client
	validate   *validator.Validate

	mu      sync.Mutex // Guards session
	session session
}

// NewClient creates a gallery client from the provided configuration.
//
// The base URL is normalized to end with a single trailing slash, so
// "https://gallery.example.com" and "https://gallery.example.com/" yield
// identical endpoint URLs.
func NewClient(cfg *config.GalleryConfig) *Client {
	return &Client{
		baseURL: normalizeBaseURL(cfg.URL),
		creds: models.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		validate: validator.New(),
	}
}

// normalizeBaseURL ensures the base URL ends with exactly one trailing slash.
func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/"
}

// endpoint builds the absolute URL for a gallery endpoint path.
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
// Uses io.LimitReader to prevent unbounded memory allocation.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
