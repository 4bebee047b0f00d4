// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

// Package models defines the data structures exchanged with the map gallery
// service: map metadata, upload/publish outcomes, and listing payloads.
//
// Wire conventions: the gallery's response bodies use snake_case field names,
// while the publish request body uses PascalCase field names (the gallery
// server contract). Optional response fields are pointers with omitempty so
// absence and empty string remain distinguishable.
package models

// MapInfo carries the caller-supplied metadata and raw image data for one map
// to be published to the gallery.
//
// The image byte fields are optional: a map may be published with only the
// full image, only the blank variant, or neither. The publish flow uploads
// present image buffers individually and clears them in its in-flight copy so
// raw bytes are never duplicated into the publish request body.
//
// Callers retain ownership of MapInfo; the client never mutates the caller's
// value.
type MapInfo struct {
	// Name is the display name of the map in the gallery.
	Name string `json:"Name" validate:"required"`

	// Description is an optional free-text description.
	Description string `json:"Description"`

	// Author is the map creator's display name.
	Author string `json:"Author"`

	// CategoryID references a gallery category (see Category).
	CategoryID int `json:"CategoryId" validate:"gte=0"`

	// ImageExtension is the file-extension hint for the raw image buffers
	// (e.g. "png", "jpg"), without a leading dot.
	ImageExtension string `json:"ImageExtension"`

	// MapImageData holds the full-size map image bytes, if available.
	MapImageData []byte `json:"MapImageData,omitempty"`

	// BlankMapImageData holds the unannotated map variant bytes, if available.
	BlankMapImageData []byte `json:"BlankMapImageData,omitempty"`
}

// PublishRequest is the JSON body sent to the publish endpoint.
//
// It embeds the map metadata (with the raw byte fields cleared) and adds the
// server-assigned file names returned by the partial uploads. A nil file-name
// pointer means the artifact was not uploaded, either because its source data
// was absent or because its upload failed.
type PublishRequest struct {
	MapInfo

	PreUploadedMapImageFileName       *string `json:"PreUploadedMapImageFileName,omitempty"`
	PreUploadedBlankMapImageFileName  *string `json:"PreUploadedBlankMapImageFileName,omitempty"`
	PreUploadedThumbnailImageFileName *string `json:"PreUploadedThumbnailImageFileName,omitempty"`
}

// Credentials is the username/password pair used to obtain or renew a gallery
// session. Read-only; never sent anywhere except the token endpoint.
type Credentials struct {
	Username string
	Password string
}
