package illumination

import "errors"

var (
	// ErrNoReferences is returned when a mask is requested from zero references.
	ErrNoReferences = errors.New("no reference images")

	// ErrDimensionMismatch is returned when two grids that must line up do not.
	ErrDimensionMismatch = errors.New("image dimensions do not match")

	// ErrDegenerateOutput is returned when the compensated image has no
	// positive finite value to rescale against.
	ErrDegenerateOutput = errors.New("compensated image has no positive finite values")

	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("image is empty")
)
