package app

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/voxcraft/internal/detector"
	"github.com/ayusman/voxcraft/internal/gesture"
	"github.com/ayusman/voxcraft/internal/voxel"
)

// HandStatus describes the tracker from the user's point of view.
type HandStatus string

const (
	StatusInactive  HandStatus = "inactive"
	StatusSearching HandStatus = "searching"
	StatusTracking  HandStatus = "tracking"
)

// CursorState is what the renderer needs to draw the hand cursor.
type CursorState struct {
	Position      mgl64.Vec3 `json:"position"`
	Color         string     `json:"color"`
	ShowWireframe bool       `json:"show_wireframe"`
	Visible       bool       `json:"visible"`
	// Target is the grid cell a pinch would act on right now.
	Target *voxel.Pos `json:"target,omitempty"`
}

// HandState summarizes the tracked hand.
type HandState struct {
	Detected bool            `json:"detected"`
	Gesture  gesture.Gesture `json:"gesture"`
	Status   HandStatus      `json:"status"`
}

// Frame is one render frame: everything a renderer needs to draw the scene.
type Frame struct {
	Seq          uint64        `json:"seq"`
	Time         time.Time     `json:"time"`
	Voxels       []voxel.Voxel `json:"voxels"`
	Cursor       CursorState   `json:"cursor"`
	Mode         voxel.Mode    `json:"mode"`
	Color        string        `json:"color"`
	OrbitEnabled bool          `json:"orbit_enabled"`
	Hand         HandState     `json:"hand"`
	Action       *voxel.Result `json:"action,omitempty"`
}

// Advance evaluates one render frame against pose, which may be nil when no
// hand is visible. The cursor always eases toward the fingertip; placement
// goes through the debouncer unless the mode is NAVIGATE.
func (a *App) Advance(now time.Time, pose *detector.HandLandmarks) Frame {
	a.mu.Lock()

	g, ok := gesture.Classify(pose)
	a.cursor = a.cursor.Track(pose)

	var action *voxel.Result
	if ok && a.state.Mode() != voxel.ModeNavigate {
		var fire bool
		a.debouncer, fire = a.debouncer.Advance(now, g)
		if fire {
			r := a.state.Apply(voxel.Pos(gesture.CellFor(pose)))
			action = &r
		}
	}

	f := a.frameLocked(now, pose, g, action)
	a.last = f
	a.mu.Unlock()

	if action != nil {
		a.recordPlacement(*action)
	}
	if a.metrics != nil {
		a.metrics.Frame(f.Hand.Detected, len(f.Voxels))
	}
	return f
}

// frameLocked builds a frame from the current state. a.mu must be held.
func (a *App) frameLocked(now time.Time, pose *detector.HandLandmarks, g gesture.Gesture, action *voxel.Result) Frame {
	a.seq++
	mode := a.state.Mode()
	color := a.state.Color()

	status := StatusInactive
	if pose != nil {
		status = StatusTracking
	} else if a.tracking.Load() {
		status = StatusSearching
	}

	cursor := CursorState{
		Position:      a.cursor.Position,
		Color:         voxel.CursorColor(mode, color),
		ShowWireframe: voxel.ShowWireframe(mode),
		Visible:       pose != nil,
	}
	if pose != nil {
		target := voxel.Pos(gesture.CellFor(pose))
		cursor.Target = &target
	}

	return Frame{
		Seq:          a.seq,
		Time:         now,
		Voxels:       a.state.Store().Voxels(),
		Cursor:       cursor,
		Mode:         mode,
		Color:        color,
		OrbitEnabled: mode == voxel.ModeNavigate,
		Hand: HandState{
			Detected: pose != nil,
			Gesture:  g,
			Status:   status,
		},
		Action: action,
	}
}
