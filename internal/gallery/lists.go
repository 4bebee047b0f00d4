// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

/*
lists.go - Category and Map Listings

Simple request/response pass-throughs with no protocol logic beyond the
shared session check. Unlike Publish, these return Go errors: there is no
partial outcome to report, a listing either succeeds or fails.
*/

package gallery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/models"
)

// GetAllCategories retrieves the gallery's map categories.
func (c *Client) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getJSON(ctx, "allcategories", &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetAllMaps retrieves the gallery's published maps.
func (c *Client) GetAllMaps(ctx context.Context) ([]models.MapListEntry, error) {
	var maps []models.MapListEntry
	if err := c.getJSON(ctx, "allmaps", &maps); err != nil {
		return nil, fmt.Errorf("failed to list maps: %w", err)
	}
	return maps, nil
}

// getJSON performs an authenticated GET against a gallery endpoint and
// decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	token, err := c.ensureValidSession(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
