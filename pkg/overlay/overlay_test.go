package overlay

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/lenslabs/go-livelabel/pkg/detect"
)

// fixedMeasure sizes every string the same so layout tests are
// independent of OpenCV font metrics.
func fixedMeasure(text string) (int, int, int) {
	return 10 * len(text), 12, 4
}

func TestFormatLabel(t *testing.T) {
	cases := []struct {
		label detect.Label
		want  string
	}{
		{detect.Label{Name: "Cat", Confidence: 91.2}, "Cat (91.2%)"},
		{detect.Label{Name: "Table", Confidence: 78.5}, "Table (78.5%)"},
		{detect.Label{Name: "Dog", Confidence: 100}, "Dog (100.0%)"},
		{detect.Label{Name: "Blur", Confidence: 75.04}, "Blur (75.0%)"},
	}

	for _, tc := range cases {
		if got := FormatLabel(tc.label); got != tc.want {
			t.Errorf("FormatLabel(%v) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestLayoutOneBoxPerLabel(t *testing.T) {
	labels := []detect.Label{
		{Name: "Cat", Confidence: 91.2},
		{Name: "Table", Confidence: 78.5},
		{Name: "Cat", Confidence: 60.0}, // duplicate names render separately
	}

	boxes := Layout(labels, fixedMeasure)
	if len(boxes) != len(labels) {
		t.Fatalf("Expected %d boxes, got %d", len(labels), len(boxes))
	}

	if boxes[0].Text != "Cat (91.2%)" {
		t.Errorf("Expected first box 'Cat (91.2%%)', got %q", boxes[0].Text)
	}
	if boxes[1].Text != "Table (78.5%)" {
		t.Errorf("Expected second box 'Table (78.5%%)', got %q", boxes[1].Text)
	}
	if boxes[2].Text != "Cat (60.0%)" {
		t.Errorf("Expected third box 'Cat (60.0%%)', got %q", boxes[2].Text)
	}
}

func TestLayoutStacksDownward(t *testing.T) {
	labels := []detect.Label{
		{Name: "Cat", Confidence: 91.2},
		{Name: "Table", Confidence: 78.5},
		{Name: "Chair", Confidence: 77.0},
		{Name: "Lamp", Confidence: 76.1},
	}

	boxes := Layout(labels, fixedMeasure)
	for i := 1; i < len(boxes); i++ {
		if boxes[i].Rect.Min.Y <= boxes[i-1].Rect.Min.Y {
			t.Errorf("Box %d top %d not below box %d top %d",
				i, boxes[i].Rect.Min.Y, i-1, boxes[i-1].Rect.Min.Y)
		}
		if boxes[i].Org.Y <= boxes[i-1].Org.Y {
			t.Errorf("Box %d text anchor %d not below box %d anchor %d",
				i, boxes[i].Org.Y, i-1, boxes[i-1].Org.Y)
		}
		if boxes[i].Rect.Min.Y < boxes[i-1].Rect.Max.Y {
			t.Errorf("Box %d overlaps box %d", i, i-1)
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	if boxes := Layout(nil, fixedMeasure); len(boxes) != 0 {
		t.Errorf("Expected no boxes for no labels, got %d", len(boxes))
	}
}

func TestLayoutMayOverflowFrame(t *testing.T) {
	// Overly long lists are allowed to run off the bottom edge.
	labels := make([]detect.Label, 40)
	for i := range labels {
		labels[i] = detect.Label{Name: "Thing", Confidence: 80}
	}

	boxes := Layout(labels, fixedMeasure)
	if len(boxes) != 40 {
		t.Fatalf("Expected all 40 boxes placed, got %d", len(boxes))
	}
	if boxes[39].Rect.Max.Y <= 480 {
		t.Error("Expected the last box to extend past a 480px frame")
	}
}

func TestDrawAnnotatesFrame(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	NewRenderer().Draw(&frame, []detect.Label{
		{Name: "Cat", Confidence: 91.2},
		{Name: "Table", Confidence: 78.5},
	})

	// Green text on a black frame raises the green channel mean.
	mean := frame.Mean()
	if mean.Val2 <= 0 {
		t.Error("Expected green pixels after drawing labels")
	}
}

func TestDrawNoLabelsLeavesFrameUntouched(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	NewRenderer().Draw(&frame, nil)

	mean := frame.Mean()
	if mean.Val1 != 0 || mean.Val2 != 0 || mean.Val3 != 0 {
		t.Error("Expected frame to stay black with no labels")
	}
}
