// Package gesture turns hand landmarks into discrete gestures, a world-space
// cursor and rate-limited placement triggers.
package gesture

import (
	"math"

	"github.com/ayusman/voxcraft/internal/detector"
)

// Gesture is the discrete label derived from one hand pose.
type Gesture string

const (
	// None is reported when no pose is available.
	None Gesture = "none"
	// Pinch is index fingertip touching thumb tip; the placement trigger.
	Pinch Gesture = "pinch"
	// Open is a hand with the middle finger extended upward.
	Open Gesture = "open"
	// Closed is any other non-pinching hand.
	Closed Gesture = "closed"
)

// PinchThreshold is the maximum image-plane distance between index tip and
// thumb tip, in normalized coordinates, that still counts as a pinch.
const PinchThreshold = 0.05

// Classify derives the gesture for a pose. The boolean is false when hand is
// nil, in which case no gesture is reported at all.
//
// Pinch is tested first and wins over open/closed. Otherwise the hand is open
// when the middle fingertip is strictly above (smaller Y than) its base.
func Classify(hand *detector.HandLandmarks) (Gesture, bool) {
	if hand == nil {
		return None, false
	}

	if PinchDistance(hand) < PinchThreshold {
		return Pinch, true
	}

	if hand.Points[detector.MiddleTip].Y < hand.Points[detector.MiddleMCP].Y {
		return Open, true
	}
	return Closed, true
}

// PinchDistance is the planar distance between index tip and thumb tip. Depth
// is ignored.
func PinchDistance(hand *detector.HandLandmarks) float64 {
	index := hand.Points[detector.IndexTip]
	thumb := hand.Points[detector.ThumbTip]
	dx := index.X - thumb.X
	dy := index.Y - thumb.Y
	return math.Sqrt(dx*dx + dy*dy)
}
