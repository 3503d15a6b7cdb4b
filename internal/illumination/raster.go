package illumination

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Shape is the size of an image in rows and columns.
type Shape struct {
	Rows int
	Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Cols, s.Rows)
}

// ShapeOf reports the shape of a grayscale image.
func ShapeOf(img *image.Gray) Shape {
	b := img.Bounds()
	return Shape{Rows: b.Dy(), Cols: b.Dx()}
}

func shapeOfDense(m *mat.Dense) Shape {
	r, c := m.Dims()
	return Shape{Rows: r, Cols: c}
}

// GrayToDense copies an 8-bit image into a float64 matrix.
func GrayToDense(img *image.Gray) (*mat.Dense, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	shape := ShapeOf(img)
	if shape.Rows == 0 || shape.Cols == 0 {
		return nil, ErrEmptyImage
	}

	b := img.Bounds()
	data := make([]float64, shape.Rows*shape.Cols)
	for y := 0; y < shape.Rows; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		out := data[y*shape.Cols : (y+1)*shape.Cols]
		for x := range out {
			out[x] = float64(row[x])
		}
	}
	return mat.NewDense(shape.Rows, shape.Cols, data), nil
}

// ConvertScaleAbs maps every value v to saturate(round(|alpha*v|)) in an
// 8-bit image. Halves round to even. NaN maps to 0.
func ConvertScaleAbs(src *mat.Dense, alpha float64) *image.Gray {
	rows, cols := src.Dims()
	dst := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		out := dst.Pix[y*dst.Stride : y*dst.Stride+cols]
		for x := range out {
			out[x] = saturate(math.Abs(src.At(y, x) * alpha))
		}
	}
	return dst
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.RoundToEven(v))
	}
}
