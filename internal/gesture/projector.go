package gesture

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/voxcraft/internal/detector"
)

// Scene scale used to map normalized landmarks into world units.
const (
	WorldWidth  = 20.0
	WorldHeight = 15.0
	WorldDepth  = 10.0

	// CursorSmoothing is the fraction of the remaining distance the cursor
	// covers each frame.
	CursorSmoothing = 0.15
)

// Cell is an integer grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// ToWorld maps a normalized landmark into world space. Image Y grows downward
// while world Y grows upward, hence the flip.
func ToWorld(p detector.Point3D) mgl64.Vec3 {
	return mgl64.Vec3{
		(p.X - 0.5) * WorldWidth,
		(0.5 - p.Y) * WorldHeight,
		p.Z * WorldDepth,
	}
}

// Snap rounds each world coordinate to the nearest integer, halves rounding
// up toward positive infinity (7.5 -> 8, -2.5 -> -2).
func Snap(v mgl64.Vec3) Cell {
	return Cell{
		X: roundHalfUp(v[0]),
		Y: roundHalfUp(v[1]),
		Z: roundHalfUp(v[2]),
	}
}

// CellFor returns the grid cell under the index fingertip of hand.
func CellFor(hand *detector.HandLandmarks) Cell {
	return Snap(ToWorld(hand.Points[detector.IndexTip]))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Cursor is the smoothed world-space position of the index fingertip.
// The zero value starts at the world origin.
type Cursor struct {
	Position mgl64.Vec3
}

// Follow moves the cursor CursorSmoothing of the way toward target and
// returns the new cursor.
func (c Cursor) Follow(target mgl64.Vec3) Cursor {
	delta := target.Sub(c.Position).Mul(CursorSmoothing)
	return Cursor{Position: c.Position.Add(delta)}
}

// Track follows the index fingertip of hand. Without a hand the cursor holds
// its position.
func (c Cursor) Track(hand *detector.HandLandmarks) Cursor {
	if hand == nil {
		return c
	}
	return c.Follow(ToWorld(hand.Points[detector.IndexTip]))
}
