package native

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/gift"
)

// GaussianSmoother blurs with a square Gaussian kernel whose sigma is derived
// from the kernel size the same way OpenCV does when sigma is 0.
type GaussianSmoother struct {
	kernel int
	filter *gift.GIFT
}

func NewGaussianSmoother(kernel int) (*GaussianSmoother, error) {
	if kernel < 1 || kernel%2 == 0 {
		return nil, fmt.Errorf("kernel size must be a positive odd number, got %d", kernel)
	}

	s := &GaussianSmoother{kernel: kernel}
	if kernel > 1 {
		s.filter = gift.New(gift.Convolution(outer(GaussianKernel(kernel)), false, false, false, 0))
	}
	return s, nil
}

func (s *GaussianSmoother) Smooth(img *image.Gray) (*image.Gray, error) {
	if s.filter == nil {
		return img, nil
	}

	dst := image.NewGray(s.filter.Bounds(img.Bounds()))
	s.filter.Draw(dst, img)
	return dst, nil
}

// Kernel is the configured kernel size.
func (s *GaussianSmoother) Kernel() int {
	return s.kernel
}

// Small kernels are fixed binomial tables in OpenCV.
var smallGaussianTab = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// GaussianKernel returns the normalized 1-D kernel for an odd size n.
func GaussianKernel(n int) []float64 {
	if tab, ok := smallGaussianTab[n]; ok {
		return append([]float64(nil), tab...)
	}

	sigma := 0.3*(float64(n-1)*0.5-1) + 0.8
	scale := -0.5 / (sigma * sigma)
	k := make([]float64, n)
	sum := 0.0
	for i := range k {
		x := float64(i - (n-1)/2)
		k[i] = math.Exp(scale * x * x)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

func outer(k []float64) []float32 {
	out := make([]float32, 0, len(k)*len(k))
	for _, a := range k {
		for _, b := range k {
			out = append(out, float32(a*b))
		}
	}
	return out
}
