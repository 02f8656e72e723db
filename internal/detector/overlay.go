package detector

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay colors.
var (
	LandmarkColor = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
	PinchColor    = color.RGBA{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff}
)

// LandmarkRadius is the dot radius in pixels.
const LandmarkRadius = 4

// DrawLandmarks paints one dot per landmark onto frame and joins the index
// and thumb tips so the pinch distance is visible.
func DrawLandmarks(frame *gocv.Mat, hand *HandLandmarks) {
	if hand == nil || frame == nil || frame.Empty() {
		return
	}

	w, h := float64(frame.Cols()), float64(frame.Rows())
	px := func(p Point3D) image.Point {
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	gocv.Line(frame, px(hand.Points[IndexTip]), px(hand.Points[ThumbTip]), PinchColor, 2)
	for _, p := range hand.Points {
		gocv.Circle(frame, px(p), LandmarkRadius, LandmarkColor, -1)
	}
}

// EncodeJPEG returns a copy of frame encoded as JPEG.
func EncodeJPEG(frame *gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
