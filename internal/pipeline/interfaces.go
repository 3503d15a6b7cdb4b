package pipeline

import (
	"image"

	"devignette/internal/illumination"
)

// Loader decodes a raster file into 8-bit grayscale.
type Loader interface {
	Load(path string) (*image.Gray, error)
}

// Saver encodes an 8-bit grayscale image to a file.
type Saver interface {
	Save(path string, img *image.Gray) error
}

// Codec is a complete image IO backend.
type Codec interface {
	Loader
	Saver
}

// Backend bundles the IO and smoothing implementations selected at startup.
type Backend struct {
	Name     string
	Codec    Codec
	Smoother illumination.Smoother
}
