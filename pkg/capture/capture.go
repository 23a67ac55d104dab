// Package capture wraps the local camera device behind a small frame
// source contract and provides JPEG encoding for outbound frames.
package capture

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrDeviceUnavailable is returned when the camera cannot be acquired.
// This is a fatal startup condition; there is no silent retry.
var ErrDeviceUnavailable = errors.New("capture: device unavailable")

// ErrEncodeFailed is returned when a frame cannot be JPEG encoded.
var ErrEncodeFailed = errors.New("capture: encode failed")

// Source yields frames on demand.
type Source interface {
	// Read fills dst with the next frame. A false return signals end
	// of stream (device disconnected or drained), not an error.
	Read(dst *gocv.Mat) bool

	// Close releases the device. Safe to call once per source.
	Close() error
}

// Webcam is a Source backed by a local video capture device.
type Webcam struct {
	cap   *gocv.VideoCapture
	index int
}

// OpenWebcam acquires the camera at the given device index. It fails
// fast when the device cannot be opened.
func OpenWebcam(index int) (*Webcam, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d: %v", ErrDeviceUnavailable, index, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: index %d", ErrDeviceUnavailable, index)
	}
	return &Webcam{cap: vc, index: index}, nil
}

// Index returns the device index this webcam was opened with.
func (w *Webcam) Index() int {
	return w.index
}

// Read fills dst with the next frame. Returns false once the device
// stops producing frames.
func (w *Webcam) Read(dst *gocv.Mat) bool {
	if !w.cap.Read(dst) {
		return false
	}
	return !dst.Empty()
}

// Close releases the camera handle.
func (w *Webcam) Close() error {
	return w.cap.Close()
}

// Verify Webcam implements Source at compile time.
var _ Source = (*Webcam)(nil)

// EncodeJPEG encodes a frame as JPEG at the given quality (1-100).
// The returned buffer is an independent copy, safe to hand to a
// concurrent consumer while the frame is reused.
func EncodeJPEG(frame gocv.Mat, quality int) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrEncodeFailed)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame,
		[]int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
