// Cartoshare - Map Gallery Publishing Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartoshare

// Package thumbnail derives the fixed-size gallery thumbnail from a full-size
// map image.
//
// The gallery displays every map with a 400x100 banner thumbnail. The deriver
// crops a 2x-sized window out of the center of the source image, scales it
// down by half with Catmull-Rom (bicubic) resampling, and centers the result
// on a white canvas, so undersized sources are letterboxed instead of
// stretched. The canvas is encoded as JPEG at quality 80.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	// canvasWidth and canvasHeight are the fixed thumbnail dimensions.
	canvasWidth  = 400
	canvasHeight = 100

	// cropScale is the ratio of thumbnail pixels to source pixels: the crop
	// window is canvas/cropScale source pixels and is scaled by cropScale
	// when drawn.
	cropScale = 0.5

	// jpegQuality is the encoder quality on a 0-100 scale.
	jpegQuality = 80
)

// Derive produces the gallery thumbnail for the given source image bytes.
//
// Returns (nil, nil) when src is empty: an absent source image is not an
// error, it simply yields no thumbnail. Any decode or encode failure is
// returned as an error.
//
// The crop window is nominally 800x200 centered on the source. On any axis
// where the source is smaller than the window, the window is clamped to the
// full source dimension and its origin resets to 0; the scaled result is then
// centered on the canvas, leaving white margins.
func Derive(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	bounds := img.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	// Centered crop window, clamped per axis to the source dimensions.
	cropW := int(float64(canvasWidth) / cropScale)
	cropH := int(float64(canvasHeight) / cropScale)
	cropX := (srcW - cropW) / 2
	cropY := (srcH - cropH) / 2
	if cropW > srcW {
		cropW = srcW
		cropX = 0
	}
	if cropH > srcH {
		cropH = srcH
		cropY = 0
	}

	cropped := imaging.Crop(img, image.Rect(cropX, cropY, cropX+cropW, cropY+cropH))

	// Destination rectangle: the crop scaled by cropScale, centered on the
	// canvas. Never below one pixel so Resize cannot fall back to
	// aspect-preserving mode.
	destW := int(float64(cropW) * cropScale)
	destH := int(float64(cropH) * cropScale)
	if destW < 1 {
		destW = 1
	}
	if destH < 1 {
		destH = 1
	}

	scaled := imaging.Resize(cropped, destW, destH, imaging.CatmullRom)

	canvas := imaging.New(canvasWidth, canvasHeight, color.White)
	destX := (canvasWidth - destW) / 2
	destY := (canvasHeight - destH) / 2
	canvas = imaging.Paste(canvas, scaled, image.Pt(destX, destY))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
