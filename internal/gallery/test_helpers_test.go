// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/config"
)

// newTestClient builds a client pointed at a test server with short timeouts.
func newTestClient(baseURL string) *Client {
	return NewClient(&config.GalleryConfig{
		URL:      baseURL,
		Username: "alice",
		Password: "s3cret",
		Timeout:  5 * time.Second,
	})
}

// writeTokenResponse writes a successful token exchange response with the
// given lifetime in seconds.
func writeTokenResponse(w http.ResponseWriter, expiresIn int) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "test-token",
		"expires_in":   expiresIn,
		"token_type":   "bearer",
	})
}

// writeUploadResponse writes a successful partial upload response assigning
// the given stored file name.
func writeUploadResponse(w http.ResponseWriter, fileName string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"file_name": fileName,
	})
}

// verifyBearer checks that the request carries the test token.
func verifyBearer(t *testing.T, r *http.Request) {
	t.Helper()
	checkStringEqual(t, "Authorization", r.Header.Get("Authorization"), "Bearer test-token")
}

// makePNG produces a solid-colored PNG of the given dimensions.
func makePNG(t *testing.T, width, height int, fill color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// parseUploadRequest extracts the multipart fields of one partial upload.
func parseUploadRequest(t *testing.T, r *http.Request) (fileName, extension string, fileBytes []byte) {
	t.Helper()
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	extension = r.FormValue("extension")

	file, header, err := r.FormFile("file")
	if err != nil {
		t.Fatalf("missing file part: %v", err)
	}
	defer func() { _ = file.Close() }()

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(file); err != nil {
		t.Fatalf("failed to read file part: %v", err)
	}
	return header.Filename, extension, buf.Bytes()
}
