// Package codec loads, saves and smooths grayscale rasters through OpenCV.
package codec

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"devignette/internal/opencv/safe"
	"devignette/internal/pipeline"
)

// Codec implements pipeline.Codec with gocv.
type Codec struct {
	jpegQuality int
}

func New(jpegQuality int) *Codec {
	return &Codec{jpegQuality: jpegQuality}
}

// Load reads path as single channel grayscale.
func (c *Codec) Load(path string) (*image.Gray, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	mat, err := safe.Adopt(gocv.IMRead(path, gocv.IMReadGrayScale), path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer mat.Close()

	return mat.ToGray()
}

// Save writes img, choosing the encoder from the extension of path.
func (c *Codec) Save(path string, img *image.Gray) error {
	format, err := pipeline.FormatFromPath(path)
	if err != nil {
		return err
	}

	mat, err := safe.FromGray(img, path)
	if err != nil {
		return err
	}
	defer mat.Close()

	var params []int
	if format == pipeline.FormatJPEG {
		params = []int{int(gocv.IMWriteJpegQuality), c.jpegQuality}
	}

	if ok := gocv.IMWriteWithParams(path, mat.GetMat(), params); !ok {
		return fmt.Errorf("failed to write %s", path)
	}
	return nil
}
