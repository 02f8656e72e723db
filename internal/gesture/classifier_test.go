package gesture

import (
	"testing"

	"github.com/ayusman/voxcraft/internal/detector"
)

// handWith builds a pose with explicit index/thumb tips and middle tip/base Y.
func handWith(index, thumb detector.Point3D, middleTipY, middleBaseY float64) *detector.HandLandmarks {
	h := detector.OpenPalmLandmarks()
	h.Points[detector.IndexTip] = index
	h.Points[detector.ThumbTip] = thumb
	h.Points[detector.MiddleTip].Y = middleTipY
	h.Points[detector.MiddleMCP].Y = middleBaseY
	return &h
}

func TestClassify_NoHand(t *testing.T) {
	g, ok := Classify(nil)
	if ok {
		t.Error("expected no gesture for nil hand")
	}
	if g != None {
		t.Errorf("expected None, got %q", g)
	}
}

func TestClassify(t *testing.T) {
	far := detector.Point3D{X: 0.8, Y: 0.8}
	tip := detector.Point3D{X: 0.5, Y: 0.5}

	tests := []struct {
		name string
		hand *detector.HandLandmarks
		want Gesture
	}{
		{
			name: "pinch with open fingers",
			hand: handWith(tip, detector.Point3D{X: 0.52, Y: 0.52}, 0.2, 0.6),
			want: Pinch,
		},
		{
			name: "pinch with closed fingers",
			hand: handWith(tip, detector.Point3D{X: 0.52, Y: 0.52}, 0.8, 0.6),
			want: Pinch,
		},
		{
			name: "depth ignored for pinch",
			hand: handWith(tip, detector.Point3D{X: 0.5, Y: 0.5, Z: 5}, 0.8, 0.6),
			want: Pinch,
		},
		{
			name: "just outside threshold is not a pinch",
			hand: handWith(tip, detector.Point3D{X: 0.55, Y: 0.5}, 0.2, 0.6),
			want: Open,
		},
		{
			name: "middle tip above base is open",
			hand: handWith(tip, far, 0.2, 0.6),
			want: Open,
		},
		{
			name: "middle tip below base is closed",
			hand: handWith(tip, far, 0.7, 0.6),
			want: Closed,
		},
		{
			name: "equal heights are closed",
			hand: handWith(tip, far, 0.6, 0.6),
			want: Closed,
		},
		{
			name: "open palm preset",
			hand: ptr(detector.OpenPalmLandmarks()),
			want: Open,
		},
		{
			name: "fist preset",
			hand: ptr(detector.FistLandmarks()),
			want: Closed,
		},
		{
			name: "pinch preset",
			hand: ptr(detector.PinchLandmarks(0.3, 0.3, 0)),
			want: Pinch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.hand)
			if !ok {
				t.Fatal("expected a gesture for a present hand")
			}
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q (pinch distance %f)", got, tt.want, PinchDistance(tt.hand))
			}
		})
	}
}

func TestClassify_PinchPriorityGrid(t *testing.T) {
	// Any configuration of the middle finger is overridden by a pinch.
	for _, tipY := range []float64{0.1, 0.5, 0.9} {
		for _, baseY := range []float64{0.1, 0.5, 0.9} {
			for _, d := range []float64{0, 0.01, 0.03, 0.049} {
				hand := handWith(
					detector.Point3D{X: 0.4, Y: 0.4},
					detector.Point3D{X: 0.4 + d, Y: 0.4},
					tipY, baseY,
				)
				if g, _ := Classify(hand); g != Pinch {
					t.Errorf("tipY=%v baseY=%v d=%v: got %q, want pinch", tipY, baseY, d, g)
				}
			}
		}
	}
}

func ptr(h detector.HandLandmarks) *detector.HandLandmarks {
	return &h
}
