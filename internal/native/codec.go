// Package native reads, writes and smooths grayscale rasters without OpenCV.
package native

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"devignette/internal/pipeline"
)

// Codec implements pipeline.Codec with pure Go decoders.
type Codec struct {
	jpegQuality int
}

func NewCodec(jpegQuality int) *Codec {
	return &Codec{jpegQuality: jpegQuality}
}

// Load decodes path and converts it to 8-bit grayscale.
func (c *Codec) Load(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return ToGray(img), nil
}

// Save encodes img by the extension of path. Nothing is written if encoding fails.
func (c *Codec) Save(path string, img *image.Gray) error {
	format, err := pipeline.FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case pipeline.FormatPNG:
		err = png.Encode(&buf, img)
	case pipeline.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.jpegQuality})
	case pipeline.FormatBMP:
		err = bmp.Encode(&buf, img)
	case pipeline.FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ToGray returns img as *image.Gray with its origin at (0,0).
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}

	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
