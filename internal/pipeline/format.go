package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an on-disk raster encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Lossless reports whether the encoding preserves every 8-bit sample.
func (f Format) Lossless() bool {
	return f != FormatJPEG
}

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
}
