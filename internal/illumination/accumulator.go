package illumination

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"
)

// Smoother suppresses sensor noise in a reference capture before it is
// accumulated. A 1x1 kernel must return the input unchanged.
type Smoother interface {
	Smooth(img *image.Gray) (*image.Gray, error)
}

// Accumulator sums smoothed reference captures pixel by pixel.
type Accumulator struct {
	smoother Smoother
	shape    Shape
	sum      *mat.Dense
	count    int
}

// NewAccumulator starts an empty sum. A zero shape is fixed by the first
// reference added; smoother may be nil to skip smoothing.
func NewAccumulator(shape Shape, smoother Smoother) *Accumulator {
	a := &Accumulator{smoother: smoother, shape: shape}
	if shape.Rows > 0 && shape.Cols > 0 {
		a.sum = mat.NewDense(shape.Rows, shape.Cols, nil)
	}
	return a
}

// Add smooths img and adds it to the running sum.
func (a *Accumulator) Add(img *image.Gray) error {
	if img == nil {
		return ErrEmptyImage
	}

	if a.smoother != nil {
		smoothed, err := a.smoother.Smooth(img)
		if err != nil {
			return fmt.Errorf("smoothing failed: %w", err)
		}
		img = smoothed
	}

	frame, err := GrayToDense(img)
	if err != nil {
		return err
	}

	if a.sum == nil {
		a.shape = shapeOfDense(frame)
		a.sum = mat.NewDense(a.shape.Rows, a.shape.Cols, nil)
	}

	if got := shapeOfDense(frame); got != a.shape {
		return fmt.Errorf("%w: reference is %s, accumulator is %s", ErrDimensionMismatch, got, a.shape)
	}

	a.sum.Add(a.sum, frame)
	a.count++
	return nil
}

// Count is the number of references added so far.
func (a *Accumulator) Count() int {
	return a.count
}

// Shape is the accumulator's grid size; zero until fixed.
func (a *Accumulator) Shape() Shape {
	return a.shape
}

// Sum returns a copy of the unnormalized float sum.
func (a *Accumulator) Sum() (*mat.Dense, error) {
	if a.count == 0 {
		return nil, ErrNoReferences
	}
	return mat.DenseCopyOf(a.sum), nil
}
