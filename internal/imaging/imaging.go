// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging checks uploaded listing photos and shrinks oversized ones
// before they reach object storage.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxWidth is the widest photo kept as uploaded. Wider photos are
	// scaled down to it.
	MaxWidth = 1600

	// quality is the JPEG quality of re-encoded photos.
	quality = 82

	// maxPixels caps decoded size to refuse decompression bombs.
	maxPixels = 50_000_000
)

// ErrUnsupported is returned for content that is not a JPEG, PNG or WebP.
var ErrUnsupported = errors.New("unsupported image type")

// allowedTypes are the sniffed content types accepted as photos.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Photo is an image ready for upload.
type Photo struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Prepare validates data as a photo. Photos no wider than MaxWidth are
// returned unchanged; wider ones are scaled down, keeping the aspect
// ratio, and re-encoded as JPEG.
func Prepare(data []byte) (*Photo, error) {
	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode config: %v", ErrUnsupported, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}

	if cfg.Width <= MaxWidth {
		return &Photo{Data: data, ContentType: contentType, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	height := max(1, bounds.Dy()*MaxWidth/bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, MaxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return &Photo{Data: buf.Bytes(), ContentType: "image/jpeg", Ext: ".jpg", Width: MaxWidth, Height: height}, nil
}
