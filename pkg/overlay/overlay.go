// Package overlay draws detected labels onto video frames.
//
// Placement is computed by the pure Layout function; Renderer applies
// the placement to a frame with OpenCV drawing calls. Each label gets
// a filled background box with its text, stacked top to bottom from
// the top-left corner. Long label lists may run off the bottom edge;
// that is accepted, not corrected.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/lenslabs/go-livelabel/pkg/detect"
)

// Layout geometry, in pixels.
const (
	startY  = 30 // Baseline of the first label
	spacing = 20 // Vertical gap between labels
	margin  = 5  // Padding around text inside its box
)

// Font parameters for the gocv measurer and renderer.
const (
	fontScale     = 0.6
	fontThickness = 1
)

// TextMeasurer returns the rendered size of a text string: width,
// height above the baseline, and the baseline depth below it.
type TextMeasurer func(text string) (w, h, baseline int)

// Box is one placed label: the filled background rectangle and the
// text anchored at Org inside it.
type Box struct {
	Text string
	Rect image.Rectangle
	Org  image.Point
}

// FormatLabel renders a label as "{Name} ({Confidence:.1f}%)".
func FormatLabel(l detect.Label) string {
	return fmt.Sprintf("%s (%.1f%%)", l.Name, l.Confidence)
}

// Layout places one box per label, in sequence order, with strictly
// increasing vertical position.
func Layout(labels []detect.Label, measure TextMeasurer) []Box {
	boxes := make([]Box, 0, len(labels))
	y := startY

	for _, l := range labels {
		text := FormatLabel(l)
		w, h, baseline := measure(text)

		boxes = append(boxes, Box{
			Text: text,
			Rect: image.Rect(margin, y-h-margin, margin+w+margin, y+baseline+margin),
			Org:  image.Pt(margin+margin, y+baseline/2),
		})

		y += h + baseline + spacing
	}

	return boxes
}

// Renderer draws label boxes onto frames in place.
type Renderer struct {
	textColor color.RGBA
	fillColor color.RGBA
}

// NewRenderer creates a renderer with the default palette: green text
// on a black fill.
func NewRenderer() *Renderer {
	return &Renderer{
		textColor: color.RGBA{G: 255},
		fillColor: color.RGBA{},
	}
}

// Draw overlays the labels onto the frame, mutating it in place. The
// frame is returned annotated; a nil or empty label list leaves it
// untouched.
func (r *Renderer) Draw(frame *gocv.Mat, labels []detect.Label) {
	if len(labels) == 0 {
		return
	}

	for _, box := range Layout(labels, measureText) {
		gocv.Rectangle(frame, box.Rect, r.fillColor, -1)
		gocv.PutText(frame, box.Text, box.Org,
			gocv.FontHersheySimplex, fontScale, r.textColor, fontThickness)
	}
}

// measureText measures with the same font the renderer draws with.
func measureText(text string) (int, int, int) {
	size, baseline := gocv.GetTextSizeWithBaseline(text,
		gocv.FontHersheySimplex, fontScale, fontThickness)
	return size.X, size.Y, baseline
}
