// Package app wires the camera, hand detector, gesture core and voxel state
// into the running voxcraft editor.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/capture"
	"github.com/ayusman/voxcraft/internal/detector"
	"github.com/ayusman/voxcraft/internal/generator"
	"github.com/ayusman/voxcraft/internal/gesture"
	"github.com/ayusman/voxcraft/internal/metrics"
	"github.com/ayusman/voxcraft/internal/store"
	"github.com/ayusman/voxcraft/internal/voxel"
)

// Loop rates.
const (
	DefaultRenderFPS = 60
	DefaultTrackFPS  = 30
)

var (
	// ErrBusy is returned when a generation is already in flight.
	ErrBusy = errors.New("generation already in progress")
	// ErrGenerationDisabled is returned when no generator is configured.
	ErrGenerationDisabled = errors.New("generation is not configured")
	// ErrCameraUnavailable wraps camera open failures.
	ErrCameraUnavailable = errors.New("camera unavailable")
	// ErrNoStore is returned by scene operations without persistence.
	ErrNoStore = errors.New("persistence is not configured")
)

// Config holds the collaborators and tuning for an App. Only Camera and
// Detector are needed for tracking; everything else is optional.
type Config struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Generator generator.Generator
	Store     *store.Store
	Metrics   *metrics.Collector
	Logger    *zap.Logger

	RenderFPS       int
	TrackFPS        int
	Cooldown        time.Duration
	GenerateTimeout time.Duration

	// Voxels seeds the editor state; a fresh store is used when nil.
	Voxels *voxel.Store
}

// App owns the editor state. State transitions are serialized by one mutex;
// the tracker publishes poses through an atomic pointer so the render loop
// never waits on detection.
type App struct {
	config  Config
	log     *zap.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	state     *voxel.State
	cursor    gesture.Cursor
	debouncer gesture.Debouncer
	last      Frame
	seq       uint64

	pose     atomic.Pointer[detector.HandLandmarks]
	preview  atomic.Pointer[[]byte]
	tracking atomic.Bool

	camMu       sync.Mutex
	trackCancel context.CancelFunc
	trackDone   chan struct{}

	generating atomic.Bool

	subMu sync.Mutex
	subs  map[chan Frame]struct{}
}

// New creates an App and restores the saved mode and color.
func New(config Config) *App {
	if config.RenderFPS <= 0 {
		config.RenderFPS = DefaultRenderFPS
	}
	if config.TrackFPS <= 0 {
		config.TrackFPS = DefaultTrackFPS
	}
	if config.Cooldown <= 0 {
		config.Cooldown = gesture.DefaultCooldown
	}
	if config.GenerateTimeout <= 0 {
		config.GenerateTimeout = generator.DefaultTimeout
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		config:    config,
		log:       log,
		metrics:   config.Metrics,
		state:     voxel.NewState(config.Voxels),
		debouncer: gesture.NewDebouncer(config.Cooldown),
		subs:      make(map[chan Frame]struct{}),
	}
	a.restoreSettings()
	a.last = a.frameLocked(time.Now(), nil, gesture.None, nil)
	return a
}

// Mode returns the current operating mode.
func (a *App) Mode() voxel.Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Mode()
}

// Color returns the selected paint color.
func (a *App) Color() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Color()
}

// SetMode switches the operating mode and persists it.
func (a *App) SetMode(m voxel.Mode) error {
	a.mu.Lock()
	err := a.state.SetMode(m)
	mode := a.state.Mode()
	a.mu.Unlock()
	if err != nil {
		return err
	}

	a.log.Info("mode changed", zap.String("mode", string(mode)))
	a.saveSetting(store.SettingMode, string(mode))
	return nil
}

// SetColor selects a palette color and persists it.
func (a *App) SetColor(c string) error {
	a.mu.Lock()
	err := a.state.SetColor(c)
	color := a.state.Color()
	a.mu.Unlock()
	if err != nil {
		return err
	}

	a.saveSetting(store.SettingColor, color)
	return nil
}

// Apply routes a placement at pos through the current mode, as a pinch would.
func (a *App) Apply(pos voxel.Pos) voxel.Result {
	a.mu.Lock()
	r := a.state.Apply(pos)
	a.mu.Unlock()

	a.recordPlacement(r)
	return r
}

// Voxels returns a snapshot of the collection in insertion order.
func (a *App) Voxels() []voxel.Voxel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Store().Voxels()
}

// Clear removes every voxel and returns how many were removed.
func (a *App) Clear() int {
	a.mu.Lock()
	n := a.state.Clear()
	a.mu.Unlock()

	a.log.Info("scene cleared", zap.Int("removed", n))
	return n
}

// ReplaceAll swaps the collection for st.
func (a *App) ReplaceAll(st voxel.Structure) {
	a.mu.Lock()
	a.state.ReplaceAll(st)
	a.mu.Unlock()
}

// LastFrame returns the most recently evaluated frame.
func (a *App) LastFrame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Generating reports whether a generation is in flight.
func (a *App) Generating() bool {
	return a.generating.Load()
}

// GenerationEnabled reports whether a generator is configured.
func (a *App) GenerationEnabled() bool {
	return a.config.Generator != nil
}

// Close stops tracking and releases the detector.
func (a *App) Close() error {
	if err := a.SetCameraActive(false); err != nil {
		a.log.Warn("stop tracking", zap.Error(err))
	}
	if a.config.Detector != nil {
		return a.config.Detector.Close()
	}
	return nil
}

func (a *App) recordPlacement(r voxel.Result) {
	if a.metrics != nil {
		a.metrics.Placement(string(r.Outcome))
	}
	if r.Outcome != voxel.Ignored {
		a.log.Debug("placement",
			zap.String("outcome", string(r.Outcome)),
			zap.Int("x", r.Pos.X), zap.Int("y", r.Pos.Y), zap.Int("z", r.Pos.Z))
	}
}

func (a *App) restoreSettings() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()

	if v, err := settings.Get(store.SettingMode); err == nil {
		if err := a.state.SetMode(voxel.Mode(v)); err != nil {
			a.log.Warn("ignoring saved mode", zap.String("mode", v), zap.Error(err))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		a.log.Warn("load saved mode", zap.Error(err))
	}

	if v, err := settings.Get(store.SettingColor); err == nil {
		if err := a.state.SetColor(v); err != nil {
			a.log.Warn("ignoring saved color", zap.String("color", v), zap.Error(err))
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		a.log.Warn("load saved color", zap.Error(err))
	}
}

func (a *App) saveSetting(key, value string) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Set(key, value); err != nil {
		a.log.Warn("persist setting", zap.String("key", key), zap.Error(err))
	}
}
