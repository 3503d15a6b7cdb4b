package safe

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Mat owns a gocv.Mat and guarantees it is closed exactly once.
type Mat struct {
	mat     gocv.Mat
	isValid int32
	mu      sync.RWMutex
	tag     string
}

// Adopt takes ownership of src. src must not be closed by the caller.
func Adopt(src gocv.Mat, tag string) (*Mat, error) {
	if src.Empty() {
		src.Close()
		return nil, fmt.Errorf("%s: Mat is empty", tag)
	}

	sm := &Mat{mat: src, isValid: 1, tag: tag}
	runtime.SetFinalizer(sm, (*Mat).finalize)
	return sm, nil
}

// FromGray copies an 8-bit image into a single channel Mat.
func FromGray(img *image.Gray, tag string) (*Mat, error) {
	src, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return nil, fmt.Errorf("%s: image to Mat conversion failed: %w", tag, err)
	}
	return Adopt(src, tag)
}

func (sm *Mat) IsValid() bool {
	return atomic.LoadInt32(&sm.isValid) == 1
}

func (sm *Mat) Empty() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return true
	}
	return sm.mat.Empty()
}

func (sm *Mat) Rows() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Rows()
}

func (sm *Mat) Cols() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Cols()
}

func (sm *Mat) Channels() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return 0
	}
	return sm.mat.Channels()
}

func (sm *Mat) Type() gocv.MatType {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.IsValid() {
		return gocv.MatTypeCV8UC1
	}
	return sm.mat.Type()
}

// GetMat exposes the underlying Mat for gocv calls. It stays owned by sm.
func (sm *Mat) GetMat() gocv.Mat {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.mat
}

// ToGray copies a CV_8UC1 Mat out into Go memory.
func (sm *Mat) ToGray() (*image.Gray, error) {
	if err := ValidateGray(sm, "Mat to image conversion"); err != nil {
		return nil, err
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	img, err := sm.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%s: Mat to image conversion failed: %w", sm.tag, err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("%s: expected grayscale image, got %T", sm.tag, img)
	}
	return gray, nil
}

func (sm *Mat) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if atomic.CompareAndSwapInt32(&sm.isValid, 1, 0) {
		if !sm.mat.Empty() {
			sm.mat.Close()
		}
		runtime.SetFinalizer(sm, nil)
	}
}

// finalize is called by Go's garbage collector as last resort cleanup
func (sm *Mat) finalize() {
	if atomic.LoadInt32(&sm.isValid) == 1 {
		sm.Close()
	}
}
