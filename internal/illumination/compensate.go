package illumination

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Result describes a compensation run.
type Result struct {
	// Sanitized counts quotients that were not finite and were replaced by 0.
	Sanitized int
	// Max is the largest finite quotient; the output is stretched so it maps to 255.
	Max float64
}

// Divide computes img / mask elementwise in float64 and replaces every
// non-finite quotient with 0. This substitution is lossy but deterministic.
func Divide(img, mask *image.Gray) (*mat.Dense, int, error) {
	if img == nil || mask == nil {
		return nil, 0, ErrEmptyImage
	}
	if ShapeOf(img) != ShapeOf(mask) {
		return nil, 0, fmt.Errorf("%w: image is %s, mask is %s", ErrDimensionMismatch, ShapeOf(img), ShapeOf(mask))
	}

	num, err := GrayToDense(img)
	if err != nil {
		return nil, 0, err
	}
	den, err := GrayToDense(mask)
	if err != nil {
		return nil, 0, err
	}

	var quotient mat.Dense
	quotient.DivElem(num, den)

	sanitized := 0
	quotient.Apply(func(_, _ int, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			sanitized++
			return 0
		}
		return v
	}, &quotient)

	return &quotient, sanitized, nil
}

// Compensate flattens illumination in img using mask and stretches the
// result so its maximum maps to 255. Brightness is therefore not comparable
// across separately compensated images.
func Compensate(img, mask *image.Gray) (*image.Gray, Result, error) {
	quotient, sanitized, err := Divide(img, mask)
	if err != nil {
		return nil, Result{}, err
	}

	peak := mat.Max(quotient)
	result := Result{Sanitized: sanitized, Max: peak}
	if !(peak > 0) {
		return nil, result, ErrDegenerateOutput
	}

	return ConvertScaleAbs(quotient, 255/peak), result, nil
}
