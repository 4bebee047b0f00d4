// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

package gallery

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartoshare/internal/logging"
	"github.com/tomtom215/cartoshare/internal/models"
)

// recordedUpload captures one partial upload received by the fake gallery.
type recordedUpload struct {
	FileName  string
	Extension string
	Size      int
}

// fakeGallery is an httptest-backed gallery implementing token, upload and
// publish endpoints. Uploads are numbered in arrival order; upload N is
// assigned the stored name "stored-N.{ext}" unless N is in failUploads.
type fakeGallery struct {
	t *testing.T

	mu           sync.Mutex
	uploads      []recordedUpload
	publishBody  []byte
	publishCalls int

	failUploads    map[int]bool // 1-based upload ordinal -> report failure
	publishStatus  int          // 0 means 200
	publishPayload string       // raw publish response; empty means success JSON

	server *httptest.Server
}

func newFakeGallery(t *testing.T) *fakeGallery {
	t.Helper()
	g := &fakeGallery{t: t, failUploads: map[int]bool{}}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGallery) handle(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/token":
		writeTokenResponse(w, 3600)

	case "/upload":
		verifyBearer(g.t, r)
		fileName, extension, fileBytes := parseUploadRequest(g.t, r)

		g.mu.Lock()
		g.uploads = append(g.uploads, recordedUpload{FileName: fileName, Extension: extension, Size: len(fileBytes)})
		ordinal := len(g.uploads)
		failed := g.failUploads[ordinal]
		g.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if failed {
			_, _ = w.Write([]byte(`{"success": false, "error_message": "upload rejected"}`))
			return
		}
		writeUploadResponse(w, fmt.Sprintf("stored-%d.%s", ordinal, extension))

	case "/publish":
		verifyBearer(g.t, r)
		body, err := io.ReadAll(r.Body)
		checkNoError(g.t, err)

		g.mu.Lock()
		g.publishBody = body
		g.publishCalls++
		g.mu.Unlock()

		if g.publishStatus != 0 {
			w.WriteHeader(g.publishStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if g.publishPayload != "" {
			_, _ = w.Write([]byte(g.publishPayload))
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "url": "https://gallery.example.com/maps/77"}`))

	default:
		g.t.Errorf("unexpected request path: %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

// decodedPublishBody decodes the captured publish request into a generic map
// for key presence checks.
func (g *fakeGallery) decodedPublishBody() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	decoded := map[string]interface{}{}
	if err := json.Unmarshal(g.publishBody, &decoded); err != nil {
		g.t.Fatalf("failed to decode captured publish body: %v", err)
	}
	return decoded
}

func testMapInfo() *models.MapInfo {
	return &models.MapInfo{
		Name:           "Ambush at Dusk",
		Description:    "Night-time river crossing",
		Author:         "alice",
		CategoryID:     3,
		ImageExtension: "png",
	}
}

// ============================================================================
// End-to-End Publish Scenarios
// ============================================================================

func TestPublishMapImageOnly(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	info := testMapInfo()
	info.MapImageData = makePNG(t, 900, 300, color.RGBA{R: 255, A: 255})

	result := client.Publish(context.Background(), info)

	checkTrue(t, "publish success", result.Success)
	checkStringPtrEqual(t, "URL", result.URL, "https://gallery.example.com/maps/77")

	// Exactly two partial uploads: the map image, then the derived thumbnail.
	// The blank variant was absent and never attempted.
	checkIntEqual(t, "upload count", len(gallery.uploads), 2)
	checkStringEqual(t, "map upload name", gallery.uploads[0].FileName, "file.png")
	checkStringEqual(t, "map upload extension", gallery.uploads[0].Extension, "png")
	checkStringEqual(t, "thumbnail upload name", gallery.uploads[1].FileName, "file.jpg")
	checkStringEqual(t, "thumbnail upload extension", gallery.uploads[1].Extension, "jpg")

	checkIntEqual(t, "publish calls", gallery.publishCalls, 1)
	body := gallery.decodedPublishBody()
	checkStringEqual(t, "PreUploadedMapImageFileName", body["PreUploadedMapImageFileName"].(string), "stored-1.png")
	checkStringEqual(t, "PreUploadedThumbnailImageFileName", body["PreUploadedThumbnailImageFileName"].(string), "stored-2.jpg")
	if _, present := body["PreUploadedBlankMapImageFileName"]; present {
		t.Error("PreUploadedBlankMapImageFileName should be unset")
	}

	// The publish body must not re-send raw image bytes.
	raw := string(gallery.publishBody)
	checkFalse(t, "raw map bytes in publish body", strings.Contains(raw, "MapImageData"))
	checkFalse(t, "raw blank bytes in publish body", strings.Contains(raw, "BlankMapImageData"))

	// Metadata travels unchanged.
	checkStringEqual(t, "Name", body["Name"].(string), "Ambush at Dusk")
	checkIntEqual(t, "CategoryId", int(body["CategoryId"].(float64)), 3)
}

func TestPublishBothImages(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	info := testMapInfo()
	info.MapImageData = makePNG(t, 900, 300, color.RGBA{R: 255, A: 255})
	info.BlankMapImageData = makePNG(t, 900, 300, color.RGBA{B: 255, A: 255})

	result := client.Publish(context.Background(), info)

	checkTrue(t, "publish success", result.Success)
	checkIntEqual(t, "upload count", len(gallery.uploads), 3)

	body := gallery.decodedPublishBody()
	checkStringEqual(t, "PreUploadedMapImageFileName", body["PreUploadedMapImageFileName"].(string), "stored-1.png")
	checkStringEqual(t, "PreUploadedBlankMapImageFileName", body["PreUploadedBlankMapImageFileName"].(string), "stored-2.png")
	checkStringEqual(t, "PreUploadedThumbnailImageFileName", body["PreUploadedThumbnailImageFileName"].(string), "stored-3.jpg")
}

func TestPublishBlankImageOnly(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	// With the full map image absent, the thumbnail is derived from the
	// blank variant.
	info := testMapInfo()
	info.BlankMapImageData = makePNG(t, 900, 300, color.RGBA{B: 255, A: 255})

	result := client.Publish(context.Background(), info)

	checkTrue(t, "publish success", result.Success)
	checkIntEqual(t, "upload count", len(gallery.uploads), 2)

	body := gallery.decodedPublishBody()
	if _, present := body["PreUploadedMapImageFileName"]; present {
		t.Error("PreUploadedMapImageFileName should be unset")
	}
	checkStringEqual(t, "PreUploadedBlankMapImageFileName", body["PreUploadedBlankMapImageFileName"].(string), "stored-1.png")
	checkStringEqual(t, "PreUploadedThumbnailImageFileName", body["PreUploadedThumbnailImageFileName"].(string), "stored-2.jpg")
}

func TestPublishWithoutImages(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	// No image buffers at all: no uploads, no thumbnail, straight to publish.
	result := client.Publish(context.Background(), testMapInfo())

	checkTrue(t, "publish success", result.Success)
	checkIntEqual(t, "upload count", len(gallery.uploads), 0)
	checkIntEqual(t, "publish calls", gallery.publishCalls, 1)

	body := gallery.decodedPublishBody()
	for _, key := range []string{
		"PreUploadedMapImageFileName",
		"PreUploadedBlankMapImageFileName",
		"PreUploadedThumbnailImageFileName",
	} {
		if _, present := body[key]; present {
			t.Errorf("%s should be unset", key)
		}
	}
}

func TestPublishProceedsAfterFailedUpload(t *testing.T) {
	gallery := newFakeGallery(t)
	gallery.failUploads[1] = true // the map image upload is rejected
	client := newTestClient(gallery.server.URL)

	var logBuf bytes.Buffer
	previous := logging.Logger()
	logging.SetLogger(logging.NewTestLogger(&logBuf))
	defer logging.SetLogger(previous)

	info := testMapInfo()
	info.MapImageData = makePNG(t, 900, 300, color.RGBA{G: 255, A: 255})

	result := client.Publish(context.Background(), info)

	// Best-effort: the publish request is still sent and the gallery's
	// verdict is what the caller sees. The degraded outcome is logged.
	checkIntEqual(t, "publish calls", gallery.publishCalls, 1)
	checkTrue(t, "publish success", result.Success)
	checkTrue(t, "failed uploads warned", strings.Contains(logBuf.String(), "Proceeding with publish despite failed uploads"))

	body := gallery.decodedPublishBody()
	if _, present := body["PreUploadedMapImageFileName"]; present {
		t.Error("PreUploadedMapImageFileName should be unset after failed upload")
	}
	checkStringEqual(t, "PreUploadedThumbnailImageFileName", body["PreUploadedThumbnailImageFileName"].(string), "stored-2.jpg")

	// Raw bytes stay out of the publish body even for the failed artifact.
	checkFalse(t, "raw map bytes in publish body", strings.Contains(string(gallery.publishBody), "MapImageData"))
}

// ============================================================================
// Publish Failure Modes
// ============================================================================

func TestPublishForwardsServerOutcomeVerbatim(t *testing.T) {
	gallery := newFakeGallery(t)
	gallery.publishPayload = `{"success": false, "error_message": "category does not exist"}`
	client := newTestClient(gallery.server.URL)

	result := client.Publish(context.Background(), testMapInfo())

	checkFalse(t, "publish success", result.Success)
	checkStringPtrEqual(t, "ErrorMessage", result.ErrorMessage, "category does not exist")
	checkStringPtrNil(t, "URL", result.URL)
}

func TestPublishTransportFailure(t *testing.T) {
	gallery := newFakeGallery(t)
	gallery.publishStatus = http.StatusBadGateway
	client := newTestClient(gallery.server.URL)

	result := client.Publish(context.Background(), testMapInfo())

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkTrue(t, "message mentions status", strings.Contains(*result.ErrorMessage, "status 502"))
}

func TestPublishUndecodableResponse(t *testing.T) {
	gallery := newFakeGallery(t)
	gallery.publishPayload = `<html>definitely not json</html>`
	client := newTestClient(gallery.server.URL)

	result := client.Publish(context.Background(), testMapInfo())

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkTrue(t, "message mentions decode", strings.Contains(*result.ErrorMessage, "decode"))
}

func TestPublishAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkStringEqual(t, "path", r.URL.Path, "/token")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Publish(context.Background(), testMapInfo())

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkTrue(t, "message mentions authentication", strings.Contains(*result.ErrorMessage, "authentication"))
}

func TestPublishCorruptImageData(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	info := testMapInfo()
	info.MapImageData = []byte("this is not an image")

	result := client.Publish(context.Background(), info)

	// Thumbnail derivation happens before any upload, so a corrupt source
	// fails the publish without a single network artifact call.
	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkTrue(t, "message mentions thumbnail", strings.Contains(*result.ErrorMessage, "thumbnail"))
	checkIntEqual(t, "upload count", len(gallery.uploads), 0)
	checkIntEqual(t, "publish calls", gallery.publishCalls, 0)
}

func TestPublishInvalidMapInfo(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	info := testMapInfo()
	info.Name = "" // required

	result := client.Publish(context.Background(), info)

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkIntEqual(t, "publish calls", gallery.publishCalls, 0)
	checkIntEqual(t, "upload count", len(gallery.uploads), 0)
}

// panicClient returns an http.Client whose transport panics with the given
// value on every request.
func panicClient(value string) *http.Client {
	return &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			panic(value)
		}),
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestPublishRecoversFromRuntimeFault(t *testing.T) {
	// A panic anywhere below Publish (here: inside the transport, which
	// propagates through http.Client.Do) must surface as a failed result,
	// never as an unhandled fault.
	client := newTestClient("http://gallery.invalid")
	client.httpClient = panicClient("transport exploded")

	result := client.Publish(context.Background(), testMapInfo())

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
	checkTrue(t, "message mentions unexpected fault", strings.Contains(*result.ErrorMessage, "unexpected fault during publish"))
	checkTrue(t, "message carries the fault value", strings.Contains(*result.ErrorMessage, "transport exploded"))
}

func TestPublishNilMapInfo(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	result := client.Publish(context.Background(), nil)

	checkFalse(t, "publish success", result.Success)
	checkNonEmptyStringPtr(t, "ErrorMessage", result.ErrorMessage)
}

func TestPublishDoesNotMutateCallerMapInfo(t *testing.T) {
	gallery := newFakeGallery(t)
	client := newTestClient(gallery.server.URL)

	info := testMapInfo()
	info.MapImageData = makePNG(t, 900, 300, color.RGBA{R: 255, A: 255})
	originalLen := len(info.MapImageData)

	result := client.Publish(context.Background(), info)

	checkTrue(t, "publish success", result.Success)
	checkIntEqual(t, "caller's MapImageData intact", len(info.MapImageData), originalLen)
}
