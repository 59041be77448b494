// Copyright (c) 2026 Northbeam Software
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/gif", true},
		{"image/webp", true},
		{"application/pdf", false},
		{"text/plain", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := IsImage(tt.mimeType); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	data := encodePNG(t, createTestImage(10, 10))
	if got := DetectMimeType(data); got != "image/png" {
		t.Errorf("DetectMimeType = %q, want image/png", got)
	}
	if got := DetectMimeType([]byte("just some text")); got == "image/png" {
		t.Errorf("plain text should not detect as an image, got %q", got)
	}
}

func TestProcessStoresImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodePNG(t, createTestImage(100, 80))
	result, err := p.Process(bytes.NewReader(data), "small.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", result.MimeType)
	}
	if result.FilePath != filepath.Join(dir, "small.png") {
		t.Errorf("FilePath = %q", result.FilePath)
	}
	info, err := os.Stat(result.FilePath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != result.Size {
		t.Errorf("Size = %d, file is %d", result.Size, info.Size())
	}
}

func TestProcessScalesDownLargeImages(t *testing.T) {
	p := NewProcessor(t.TempDir())

	data := encodePNG(t, createTestImage(2000, 1000))
	result, err := p.Process(bytes.NewReader(data), "wide.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if result.Width > WebWidth || result.Height > WebHeight {
		t.Errorf("dimensions = %dx%d, want at most %dx%d",
			result.Width, result.Height, WebWidth, WebHeight)
	}
	// Aspect ratio survives the fit.
	if result.Width != 1600 || result.Height != 800 {
		t.Errorf("dimensions = %dx%d, want 1600x800", result.Width, result.Height)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.Process(bytes.NewReader([]byte("definitely not an image")), "nope.png")
	if err == nil {
		t.Fatal("expected an error for non-image data")
	}
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodePNG(t, createTestImage(800, 600))
	original, err := p.Process(bytes.NewReader(data), "photo.png")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	thumb, err := p.Thumbnail(original.FilePath, "photo.png")
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if thumb.Width != ThumbWidth || thumb.Height != ThumbHeight {
		t.Errorf("dimensions = %dx%d, want %dx%d",
			thumb.Width, thumb.Height, ThumbWidth, ThumbHeight)
	}
	if filepath.Base(thumb.FilePath) != "thumb_photo.png" {
		t.Errorf("FilePath = %q, want a thumb_ prefix", thumb.FilePath)
	}
	if _, err := os.Stat(thumb.FilePath); err != nil {
		t.Errorf("stat thumbnail: %v", err)
	}
}
