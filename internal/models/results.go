// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

package models

// TokenResponse is the body returned by the gallery token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // Lifetime in seconds from issuance
	TokenType   string `json:"token_type"`
}

// UploadResult is the outcome of one partial artifact upload.
//
// A decodable response body from the upload endpoint is authoritative: its
// Success flag is trusted as-is. Transport failures and undecodable bodies are
// converted locally into a failed UploadResult with a descriptive message.
// Transient: produced and consumed entirely within one publish call.
type UploadResult struct {
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`

	// FileName is the server-assigned name used to reference the uploaded
	// artifact in the final publish request.
	FileName *string `json:"file_name,omitempty"`
}

// PublishResult is the terminal outcome of a publish call, returned to the
// caller. Faults of any kind (transport, decode, authentication, image
// processing) surface here as Success=false with a human-readable message;
// they are never distinguished by type.
type PublishResult struct {
	Success      bool    `json:"success"`
	ErrorMessage *string `json:"error_message,omitempty"`

	// URL is the public gallery URL of the published map, when the gallery
	// reports one.
	URL *string `json:"url,omitempty"`
}

// FailedUpload builds an UploadResult for a locally detected failure.
func FailedUpload(message string) *UploadResult {
	return &UploadResult{Success: false, ErrorMessage: &message}
}

// FailedPublish builds a PublishResult for a locally detected failure.
func FailedPublish(message string) *PublishResult {
	return &PublishResult{Success: false, ErrorMessage: &message}
}

// Category is one entry of the all-categories listing.
type Category struct {
	ID   int    `json:"Id"`
	Name string `json:"Name"`
}

// MapListEntry is one entry of the all-maps listing.
type MapListEntry struct {
	ID         int    `json:"Id"`
	Name       string `json:"Name"`
	Author     string `json:"Author"`
	CategoryID int    `json:"CategoryId"`
	URL        string `json:"Url"`
}
