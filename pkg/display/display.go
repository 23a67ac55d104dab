// Package display wraps the on-screen video window.
package display

import "gocv.io/x/gocv"

// KeyNone is returned by Poll when no key was pressed.
const KeyNone = -1

// Surface shows frames and polls for key presses.
type Surface interface {
	// Show displays the frame.
	Show(frame *gocv.Mat)

	// Poll waits up to waitMs for a key press and returns its code,
	// or KeyNone. The wait also services window events, so it must be
	// called every iteration.
	Poll(waitMs int) int

	// Close destroys the window. Idempotent.
	Close() error
}

// Window is a Surface backed by an OpenCV highgui window.
type Window struct {
	win    *gocv.Window
	closed bool
}

// NewWindow creates a named window.
func NewWindow(name string) *Window {
	return &Window{win: gocv.NewWindow(name)}
}

// Show displays the frame in the window.
func (w *Window) Show(frame *gocv.Mat) {
	w.win.IMShow(*frame)
}

// Poll waits up to waitMs for a key press.
func (w *Window) Poll(waitMs int) int {
	return w.win.WaitKey(waitMs)
}

// Close destroys the window. Repeat calls are no-ops so the cleanup
// path can run on every exit route.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.win.Close()
}

// Verify Window implements Surface at compile time.
var _ Surface = (*Window)(nil)
