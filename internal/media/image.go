package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned when the bytes are not a decodable image.
var ErrUnsupportedImage = errors.New("media: unsupported image format")

// Defaults for Normalize.
const (
	DefaultMaxDimension = 1536
	DefaultQuality      = 85
	JPEGMIMEType        = "image/jpeg"
)

// Options controls Normalize.
type Options struct {
	// MaxDimension bounds the longer side in pixels. Zero keeps the original size.
	MaxDimension int
	// Quality is the JPEG quality, 1-100.
	Quality int
}

// DefaultOptions returns the options used by the HTTP layer.
func DefaultOptions() Options {
	return Options{MaxDimension: DefaultMaxDimension, Quality: DefaultQuality}
}

// Result is a normalized image.
type Result struct {
	Data   []byte
	Format string
	Width  int
	Height int
	Scaled bool
}

// Normalize decodes JPEG, PNG, GIF or WebP, shrinks the image to fit
// MaxDimension and re-encodes it as JPEG. EXIF orientation is applied.
func Normalize(data []byte, opts Options) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	scaled := false
	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, imaging.Lanczos)
			scaled = true
		}
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		Scaled: scaled,
	}, nil
}
