package illumination

import (
	"image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultMaskScale leaves the mean intensity unscaled.
const DefaultMaskScale = 1.0

// MaskStats summarises a mean background grid before 8-bit conversion.
type MaskStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Mean divides an accumulated sum by its reference count.
func Mean(sum *mat.Dense, count int) (*mat.Dense, error) {
	if count <= 0 {
		return nil, ErrNoReferences
	}
	if sum == nil {
		return nil, ErrEmptyImage
	}

	var mean mat.Dense
	mean.Scale(1/float64(count), sum)
	return &mean, nil
}

// NormalizeMask turns an accumulated sum into an 8-bit illumination mask of
// the same shape. Values are scaled by scale and clamped into [0,255].
func NormalizeMask(sum *mat.Dense, count int, scale float64) (*image.Gray, MaskStats, error) {
	mean, err := Mean(sum, count)
	if err != nil {
		return nil, MaskStats{}, err
	}

	return ConvertScaleAbs(mean, scale), Stats(mean), nil
}

// FromAccumulator normalizes everything a has collected.
func FromAccumulator(a *Accumulator, scale float64) (*image.Gray, MaskStats, error) {
	sum, err := a.Sum()
	if err != nil {
		return nil, MaskStats{}, err
	}
	return NormalizeMask(sum, a.Count(), scale)
}

// Stats computes summary statistics over every element of m.
func Stats(m *mat.Dense) MaskStats {
	rows, cols := m.Dims()
	values := make([]float64, 0, rows*cols)
	for y := 0; y < rows; y++ {
		values = append(values, m.RawRowView(y)...)
	}
	if len(values) == 0 {
		return MaskStats{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	return MaskStats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}
