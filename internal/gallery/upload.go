// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

/*
upload.go - Partial Artifact Uploads

Each binary artifact (map image, blank map image, derived thumbnail) is
uploaded individually to POST {base}upload before the final publish call,
which then references the artifact by the server-assigned file name instead
of re-sending its bytes.

The upload body is multipart/form-data with two parts:
  - "file":      the artifact bytes, filename "file.{extension}"
  - "extension": the bare extension string

A decodable response body is authoritative, whatever its Success flag says.
Transport failures, non-200 statuses and undecodable bodies are converted
locally into a failed UploadResult with a descriptive message; uploads never
return a Go error.
*/

package gallery

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/logging"
	"github.com/tomtom215/cartoshare/internal/metrics"
	"github.com/tomtom215/cartoshare/internal/models"
)

// Artifact kinds, used for logging and metrics labels.
const (
	artifactMap       = "map"
	artifactBlankMap  = "blank_map"
	artifactThumbnail = "thumbnail"
)

// uploadPartial uploads one artifact and returns its outcome. The session is
// checked (and renewed if needed) before the request is sent.
func (c *Client) uploadPartial(ctx context.Context, artifact string, data []byte, extension string) *models.UploadResult {
	start := time.Now()
	result := c.doUpload(ctx, data, extension)
	metrics.ObserveUpload(artifact, result.Success, time.Since(start))

	event := logging.Ctx(ctx).Debug()
	if !result.Success {
		event = logging.Ctx(ctx).Warn()
	}
	event.
		Str("artifact", artifact).
		Int("bytes", len(data)).
		Bool("success", result.Success).
		Msg("Partial upload finished")

	return result
}

// doUpload performs the multipart request and converts every failure mode
// into a failed UploadResult.
func (c *Client) doUpload(ctx context.Context, data []byte, extension string) *models.UploadResult {
	token, err := c.ensureValidSession(ctx)
	if err != nil {
		return models.FailedUpload(fmt.Sprintf("authentication failed: %v", err))
	}

	body, contentType, err := buildUploadBody(data, extension)
	if err != nil {
		return models.FailedUpload(fmt.Sprintf("failed to build upload request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), body)
	if err != nil {
		return models.FailedUpload(fmt.Sprintf("failed to create upload request: %v", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.FailedUpload(fmt.Sprintf("upload request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		return models.FailedUpload(fmt.Sprintf("upload failed with status %d: %s", resp.StatusCode, string(errBody)))
	}

	var result models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.FailedUpload(fmt.Sprintf("failed to decode upload response: %v", err))
	}

	// Decoded response is authoritative
	return &result
}

// buildUploadBody assembles the multipart body for one artifact. The file
// part is always named "file.{extension}"; the gallery assigns the real
// stored name and returns it in the response.
func buildUploadBody(data []byte, extension string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "file."+extension)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	if err := writer.WriteField("extension", extension); err != nil {
		return nil, "", fmt.Errorf("failed to write extension field: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}
