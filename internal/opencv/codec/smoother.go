package codec

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"devignette/internal/opencv/safe"
)

// GaussianSmoother wraps gocv.GaussianBlur with sigma derived from the kernel.
type GaussianSmoother struct {
	kernel int
}

func NewGaussianSmoother(kernel int) (*GaussianSmoother, error) {
	if kernel < 1 || kernel%2 == 0 {
		return nil, fmt.Errorf("kernel size must be a positive odd number, got %d", kernel)
	}
	return &GaussianSmoother{kernel: kernel}, nil
}

func (g *GaussianSmoother) Smooth(img *image.Gray) (*image.Gray, error) {
	if g.kernel == 1 {
		return img, nil
	}

	src, err := safe.FromGray(img, "blur_source")
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := safe.Adopt(gocv.NewMatWithSize(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1), "blur_result")
	if err != nil {
		return nil, fmt.Errorf("failed to create destination Mat: %w", err)
	}
	defer dst.Close()

	dstMat := dst.GetMat()
	size := image.Point{X: g.kernel, Y: g.kernel}
	gocv.GaussianBlur(src.GetMat(), &dstMat, size, 0, 0, gocv.BorderDefault)
	if dstMat.Empty() {
		return nil, fmt.Errorf("gaussian blur produced an empty Mat")
	}

	return dst.ToGray()
}

func (g *GaussianSmoother) Kernel() int {
	return g.kernel
}
