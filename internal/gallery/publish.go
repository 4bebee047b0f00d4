// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

/*
publish.go - Publish Orchestration

Publishing is a two-phase protocol:

 1. Partial uploads: the map image, the blank map image and the derived
    thumbnail are each uploaded individually (skipping artifacts whose source
    bytes are absent). Each upload is gated by its own session check.
 2. Publish: the map metadata is posted to {base}publish with the raw image
    byte fields cleared and the server-assigned file names of the successful
    uploads in their place.

The publish request is sent even when an attempted upload failed; the failed
artifact's file-name reference is simply omitted. The gallery then publishes
whatever arrived (best-effort). Skipped artifacts (absent source data) do not
count as failures.

Publish never returns a Go error and never panics outward: a top-level
recover boundary converts any fault into a failed PublishResult.
*/

package gallery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/logging"
	"github.com/tomtom215/cartoshare/internal/metrics"
	"github.com/tomtom215/cartoshare/internal/models"
	"github.com/tomtom215/cartoshare/internal/thumbnail"
)

// Publish uploads the map's artifacts and publishes its metadata to the
// gallery, returning the outcome. The caller's MapInfo is never mutated; the
// orchestrator works on an in-flight copy.
//
// The returned result is never nil. All failure modes - validation,
// thumbnail derivation, authentication, transport, response decoding and any
// unexpected runtime fault - surface as Success=false with a non-empty
// message.
func (c *Client) Publish(ctx context.Context, info *models.MapInfo) (result *models.PublishResult) {
	start := time.Now()
	ctx = logging.ContextWithNewCorrelationID(ctx)

	// Conversion boundary: no fault may escape Publish.
	defer func() {
		if r := recover(); r != nil {
			result = models.FailedPublish(fmt.Sprintf("unexpected fault during publish: %v", r))
		}
		metrics.ObservePublish(result.Success, time.Since(start))
	}()

	if info == nil {
		return models.FailedPublish("no map info provided")
	}
	if err := c.validate.Struct(info); err != nil {
		return models.FailedPublish(fmt.Sprintf("invalid map info: %v", err))
	}

	logging.Ctx(ctx).Info().
		Str("map", info.Name).
		Int("category_id", info.CategoryID).
		Msg("Publishing map")

	// In-flight copy: the byte fields are cleared here once uploaded, the
	// caller's MapInfo stays untouched.
	inflight := *info

	// The thumbnail is derived from the full map image, falling back to the
	// blank variant. With neither present there is no thumbnail and its
	// upload is skipped, not failed.
	thumbSource := inflight.MapImageData
	if len(thumbSource) == 0 {
		thumbSource = inflight.BlankMapImageData
	}
	thumbData, err := thumbnail.Derive(thumbSource)
	if err != nil {
		return models.FailedPublish(fmt.Sprintf("failed to derive thumbnail: %v", err))
	}

	request := models.PublishRequest{MapInfo: inflight}
	failedUploads := 0

	if len(inflight.MapImageData) > 0 {
		outcome := c.uploadPartial(ctx, artifactMap, inflight.MapImageData, inflight.ImageExtension)
		if outcome.Success {
			request.PreUploadedMapImageFileName = outcome.FileName
		} else {
			failedUploads++
		}
		request.MapImageData = nil
	}

	if len(inflight.BlankMapImageData) > 0 {
		outcome := c.uploadPartial(ctx, artifactBlankMap, inflight.BlankMapImageData, inflight.ImageExtension)
		if outcome.Success {
			request.PreUploadedBlankMapImageFileName = outcome.FileName
		} else {
			failedUploads++
		}
		request.BlankMapImageData = nil
	}

	if len(thumbData) > 0 {
		// The derived thumbnail is always JPEG, regardless of the source
		// image extension.
		outcome := c.uploadPartial(ctx, artifactThumbnail, thumbData, "jpg")
		if outcome.Success {
			request.PreUploadedThumbnailImageFileName = outcome.FileName
		} else {
			failedUploads++
		}
	}

	if failedUploads > 0 {
		// Best-effort: the publish request is still sent, without the failed
		// artifacts' file-name references.
		logging.Ctx(ctx).Warn().
			Int("failed_uploads", failedUploads).
			Msg("Proceeding with publish despite failed uploads")
	}

	result = c.sendPublishRequest(ctx, &request)

	event := logging.Ctx(ctx).Info()
	if !result.Success {
		event = logging.Ctx(ctx).Warn()
	}
	event.
		Str("map", info.Name).
		Bool("success", result.Success).
		Dur("elapsed", time.Since(start)).
		Msg("Publish finished")

	return result
}

// sendPublishRequest posts the assembled publish request and converts every
// failure mode into a failed PublishResult. A decodable response body is
// forwarded to the caller verbatim.
func (c *Client) sendPublishRequest(ctx context.Context, request *models.PublishRequest) *models.PublishResult {
	token, err := c.ensureValidSession(ctx)
	if err != nil {
		return models.FailedPublish(fmt.Sprintf("authentication failed: %v", err))
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return models.FailedPublish(fmt.Sprintf("failed to encode publish request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("publish"), bytes.NewReader(payload))
	if err != nil {
		return models.FailedPublish(fmt.Sprintf("failed to create publish request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.FailedPublish(fmt.Sprintf("publish request failed: %v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		errBody := readBodyForError(resp.Body)
		return models.FailedPublish(fmt.Sprintf("publish failed with status %d: %s", resp.StatusCode, string(errBody)))
	}

	var result models.PublishResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.FailedPublish(fmt.Sprintf("failed to decode publish response: %v", err))
	}

	return &result
}
